package reports

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/blob"
	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/mealplans"
	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/storage"
)

var (
	ErrInvalidFormat  = fmt.Errorf("invalid format")
	ErrInvalidPeriod  = fmt.Errorf("invalid report period")
	ErrTooManyReports = fmt.Errorf("too many reports for meal plan")
	ErrReportNotFound = fmt.Errorf("report not found")
)

// PlanViewsAdapter resolves meal plan month views with the caller's access
// rights applied. *mealplans.Service satisfies it.
type PlanViewsAdapter interface {
	ResolveView(ctx context.Context, mealPlanID string, q mealplans.ViewQuery, userID string) (*mealplans.ViewEnvelope, error)
	CheckAccess(ctx context.Context, mealPlanID string, userID string) (int64, error)
}

// Service handles report generation and retrieval.
type Service struct {
	reportsStorage storage.ReportsStorage
	plans          PlanViewsAdapter
	generator      *Generator
	blobStore      blob.Store
	maxPerPlan     int
	presignTTL     int
	localMode      bool
	publicBaseURL  string
}

func NewService(
	reportsStorage storage.ReportsStorage,
	plans PlanViewsAdapter,
	blobStore blob.Store,
	maxPerPlan int,
	presignTTL int,
	publicBaseURL string,
) *Service {
	return &Service{
		reportsStorage: reportsStorage,
		plans:          plans,
		generator:      NewGenerator(),
		blobStore:      blobStore,
		maxPerPlan:     maxPerPlan,
		presignTTL:     presignTTL,
		localMode:      blobStore == nil,
		publicBaseURL:  publicBaseURL,
	}
}

// CreateReport resolves the month view for the requested plan and period,
// renders it and stores the result. Plan access errors from the views adapter
// pass through untouched so not-found and forbidden map the same way as the
// view endpoints.
func (s *Service) CreateReport(ctx context.Context, req CreateReportRequest, userID string) (*Report, error) {
	if req.Format != FormatPDF && req.Format != FormatCSV {
		return nil, ErrInvalidFormat
	}
	if req.Month < 1 || req.Month > 12 || req.Year < 2020 || req.Year > 2100 {
		return nil, ErrInvalidPeriod
	}

	view, stats, mealPlanID, err := s.resolveMonth(ctx, req, userID)
	if err != nil {
		return nil, err
	}

	if s.maxPerPlan > 0 {
		existing, err := s.reportsStorage.ListReports(ctx, mealPlanID, s.maxPerPlan, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to count existing reports: %w", err)
		}
		if len(existing) >= s.maxPerPlan {
			return nil, ErrTooManyReports
		}
	}

	data, err := s.generator.Generate(req.Format, mealPlanID, view, stats)
	if err != nil {
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}

	meta := &storage.ReportMeta{
		MealPlanID:  mealPlanID,
		OwnerUserID: userID,
		Format:      req.Format,
		Year:        req.Year,
		Month:       req.Month,
		SizeBytes:   int64(len(data)),
		Status:      StatusReady,
	}

	if s.localMode {
		meta.Data = data
	} else {
		objectKey := fmt.Sprintf("reports/%d/%04d-%02d_%s.%s",
			mealPlanID, req.Year, req.Month, uuid.New().String(), req.Format)

		if _, err := s.blobStore.PutObject(ctx, objectKey, data, contentTypeFor(req.Format)); err != nil {
			return nil, fmt.Errorf("failed to upload report: %w", err)
		}
		meta.ObjectKey = &objectKey
	}

	if err := s.reportsStorage.CreateReport(ctx, meta); err != nil {
		return nil, fmt.Errorf("failed to save report metadata: %w", err)
	}

	return toReport(meta), nil
}

func (s *Service) resolveMonth(ctx context.Context, req CreateReportRequest, userID string) (mealplans.MonthView, mealplans.Statistics, int64, error) {
	year, month := req.Year, req.Month
	q := mealplans.ViewQuery{
		ViewMode:          mealplans.ViewModeMonth,
		FilterYear:        &year,
		FilterMonth:       &month,
		IncludeStatistics: true,
	}

	envelope, err := s.plans.ResolveView(ctx, req.MealPlanID, q, userID)
	if err != nil {
		return mealplans.MonthView{}, mealplans.Statistics{}, 0, err
	}

	view, ok := envelope.Data.(mealplans.MonthView)
	if !ok {
		return mealplans.MonthView{}, mealplans.Statistics{}, 0, fmt.Errorf("unexpected view payload %T", envelope.Data)
	}
	if envelope.Statistics == nil {
		return mealplans.MonthView{}, mealplans.Statistics{}, 0, fmt.Errorf("missing statistics block")
	}

	// The adapter already rejected non-numeric IDs.
	mealPlanID, err := strconv.ParseInt(strings.TrimSpace(req.MealPlanID), 10, 64)
	if err != nil {
		return mealplans.MonthView{}, mealplans.Statistics{}, 0, fmt.Errorf("failed to parse meal plan id: %w", err)
	}

	return view, *envelope.Statistics, mealPlanID, nil
}

// GetReport retrieves a report by ID. Reports owned by other users are
// reported as missing.
func (s *Service) GetReport(ctx context.Context, id uuid.UUID, userID string) (*Report, error) {
	meta, err := s.reportsStorage.GetReport(ctx, id)
	if err != nil {
		return nil, ErrReportNotFound
	}
	if meta.OwnerUserID != userID {
		return nil, ErrReportNotFound
	}

	return toReport(meta), nil
}

// ListReports lists reports for a meal plan the caller can view.
func (s *Service) ListReports(ctx context.Context, mealPlanID string, userID string, limit, offset int) ([]Report, error) {
	id, err := s.plans.CheckAccess(ctx, mealPlanID, userID)
	if err != nil {
		return nil, err
	}

	metaList, err := s.reportsStorage.ListReports(ctx, id, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	reports := make([]Report, len(metaList))
	for i := range metaList {
		reports[i] = *toReport(&metaList[i])
	}

	return reports, nil
}

// DeleteReport removes report metadata and, in S3 mode, the stored object.
func (s *Service) DeleteReport(ctx context.Context, id uuid.UUID, userID string) error {
	meta, err := s.reportsStorage.GetReport(ctx, id)
	if err != nil {
		return ErrReportNotFound
	}
	if meta.OwnerUserID != userID {
		return ErrReportNotFound
	}

	if !s.localMode && meta.ObjectKey != nil {
		if err := s.blobStore.DeleteObject(ctx, *meta.ObjectKey); err != nil {
			// Metadata deletion still proceeds; the object is orphaned, not leaked.
			log.Printf("WARN reports: failed to delete object %s: %v", *meta.ObjectKey, err)
		}
	}

	if err := s.reportsStorage.DeleteReport(ctx, id); err != nil {
		return fmt.Errorf("failed to delete report metadata: %w", err)
	}

	return nil
}

// DownloadURL builds the URL a client should fetch the report bytes from.
func (s *Service) DownloadURL(ctx context.Context, report *Report, baseURL string) (string, error) {
	if s.localMode {
		return fmt.Sprintf("%s/v1/reports/%s/download", strings.TrimSuffix(baseURL, "/"), report.ID.String()), nil
	}

	if report.ObjectKey == nil {
		return "", fmt.Errorf("object key is missing")
	}

	if s.publicBaseURL != "" {
		return strings.TrimSuffix(s.publicBaseURL, "/") + "/" + *report.ObjectKey, nil
	}

	presignedURL, err := s.blobStore.PresignGet(ctx, *report.ObjectKey, s.presignTTL)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return presignedURL, nil
}

// ReportData returns the raw bytes for local-mode downloads.
func (s *Service) ReportData(ctx context.Context, id uuid.UUID, userID string) ([]byte, string, error) {
	report, err := s.GetReport(ctx, id, userID)
	if err != nil {
		return nil, "", err
	}

	if !s.localMode {
		return nil, "", fmt.Errorf("downloads are served from object storage")
	}

	return report.Data, contentTypeFor(report.Format), nil
}

// LocalMode reports whether bytes are served directly instead of from S3.
func (s *Service) LocalMode() bool {
	return s.localMode
}

func contentTypeFor(format string) string {
	if format == FormatCSV {
		return "text/csv"
	}
	return "application/pdf"
}

func toReport(meta *storage.ReportMeta) *Report {
	return &Report{
		ID:         meta.ID,
		MealPlanID: meta.MealPlanID,
		Format:     meta.Format,
		Year:       meta.Year,
		Month:      meta.Month,
		ObjectKey:  meta.ObjectKey,
		SizeBytes:  meta.SizeBytes,
		Status:     meta.Status,
		CreatedAt:  meta.CreatedAt,
		Data:       meta.Data,
	}
}
