package reports

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/auth"
	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/mealplans"
)

// Handlers handles HTTP requests for reports.
type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleCreate handles POST /v1/reports
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON")
		return
	}

	report, err := h.service.CreateReport(r.Context(), req, userID)
	if err != nil {
		writeReportError(w, err)
		return
	}

	downloadURL, err := h.service.DownloadURL(r.Context(), report, getBaseURL(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to generate download URL")
		return
	}

	writeJSON(w, http.StatusCreated, toDTO(report, downloadURL))
}

// HandleList handles GET /v1/reports?meal_plan_id=...
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	mealPlanID := r.URL.Query().Get("meal_plan_id")
	if mealPlanID == "" {
		writeError(w, http.StatusBadRequest, "missing_meal_plan_id", "meal_plan_id is required")
		return
	}

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	offset := 0
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	reports, err := h.service.ListReports(r.Context(), mealPlanID, userID, limit, offset)
	if err != nil {
		writeReportError(w, err)
		return
	}

	baseURL := getBaseURL(r)
	dtos := make([]ReportDTO, len(reports))
	for i := range reports {
		downloadURL, _ := h.service.DownloadURL(r.Context(), &reports[i], baseURL)
		dtos[i] = toDTO(&reports[i], downloadURL)
	}

	writeJSON(w, http.StatusOK, ReportsResponse{Reports: dtos})
}

// HandleDownload handles GET /v1/reports/{id}/download
func (h *Handlers) HandleDownload(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	reportID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid report ID")
		return
	}

	report, err := h.service.GetReport(r.Context(), reportID, userID)
	if err != nil {
		writeReportError(w, err)
		return
	}

	if h.service.LocalMode() {
		data, contentType, err := h.service.ReportData(r.Context(), reportID, userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		filename := fmt.Sprintf("meal_plan_%d_%04d-%02d.%s", report.MealPlanID, report.Year, report.Month, report.Format)
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Write(data)
		return
	}

	downloadURL, err := h.service.DownloadURL(r.Context(), report, getBaseURL(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to generate download URL")
		return
	}

	http.Redirect(w, r, downloadURL, http.StatusFound)
}

// HandleDelete handles DELETE /v1/reports/{id}
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	reportID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid report ID")
		return
	}

	if err := h.service.DeleteReport(r.Context(), reportID, userID); err != nil {
		writeReportError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeReportError maps service errors, including plan access errors
// surfaced through the views adapter, to HTTP responses.
func writeReportError(w http.ResponseWriter, err error) {
	var (
		validationErr *mealplans.ValidationError
		notFoundErr   *mealplans.NotFoundError
		forbiddenErr  *mealplans.ForbiddenError
	)

	switch {
	case errors.Is(err, ErrInvalidFormat):
		writeError(w, http.StatusBadRequest, "invalid_format", "Format must be 'pdf' or 'csv'")
	case errors.Is(err, ErrInvalidPeriod):
		writeError(w, http.StatusBadRequest, "invalid_period", "Year and month must describe a valid report period")
	case errors.Is(err, ErrTooManyReports):
		writeError(w, http.StatusConflict, "too_many_reports", "Report limit reached for this meal plan")
	case errors.Is(err, ErrReportNotFound):
		writeError(w, http.StatusNotFound, "report_not_found", "Report not found")
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
	case errors.As(err, &notFoundErr):
		writeError(w, http.StatusNotFound, "not_found", notFoundErr.Message)
	case errors.As(err, &forbiddenErr):
		writeError(w, http.StatusForbidden, "forbidden", forbiddenErr.Message)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func toDTO(report *Report, downloadURL string) ReportDTO {
	return ReportDTO{
		ID:          report.ID,
		MealPlanID:  report.MealPlanID,
		Format:      report.Format,
		Year:        report.Year,
		Month:       report.Month,
		DownloadURL: downloadURL,
		SizeBytes:   report.SizeBytes,
		Status:      report.Status,
		CreatedAt:   report.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

func getBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, r.Host)
}
