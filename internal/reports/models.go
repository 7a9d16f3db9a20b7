package reports

import (
	"time"

	"github.com/google/uuid"
)

// Report is generated export metadata for one meal plan month.
type Report struct {
	ID         uuid.UUID
	MealPlanID int64
	Format     string
	Year       int
	Month      int
	ObjectKey  *string
	SizeBytes  int64
	Status     string
	CreatedAt  time.Time
	Data       []byte // only populated in local mode
}

// CreateReportRequest is the request to export a meal plan month.
type CreateReportRequest struct {
	MealPlanID string `json:"meal_plan_id"`
	Format     string `json:"format"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
}

// ReportDTO is the response representation of a report.
type ReportDTO struct {
	ID          uuid.UUID `json:"id"`
	MealPlanID  int64     `json:"meal_plan_id,string"`
	Format      string    `json:"format"`
	Year        int       `json:"year"`
	Month       int       `json:"month"`
	DownloadURL string    `json:"download_url"`
	SizeBytes   int64     `json:"size_bytes"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReportsResponse is the list response.
type ReportsResponse struct {
	Reports []ReportDTO `json:"reports"`
}

const (
	FormatPDF = "pdf"
	FormatCSV = "csv"

	StatusReady = "ready"
)
