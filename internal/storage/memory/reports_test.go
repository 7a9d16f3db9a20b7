package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/storage"
)

func TestReportsLifecycle(t *testing.T) {
	store := New()
	ctx := context.Background()

	report := &storage.ReportMeta{
		MealPlanID:  1,
		OwnerUserID: "user-1",
		Format:      "pdf",
		Year:        2024,
		Month:       3,
		SizeBytes:   42,
		Status:      "ready",
		Data:        []byte("%PDF"),
	}

	if err := store.CreateReport(ctx, report); err != nil {
		t.Fatalf("CreateReport: %v", err)
	}
	if report.ID == uuid.Nil {
		t.Fatal("expected assigned ID")
	}
	if report.CreatedAt.IsZero() {
		t.Fatal("expected assigned CreatedAt")
	}

	got, err := store.GetReport(ctx, report.ID)
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if got.Format != "pdf" || got.Year != 2024 || string(got.Data) != "%PDF" {
		t.Errorf("got = %+v", got)
	}

	if err := store.DeleteReport(ctx, report.ID); err != nil {
		t.Fatalf("DeleteReport: %v", err)
	}
	if _, err := store.GetReport(ctx, report.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestListReportsNewestFirstWithPaging(t *testing.T) {
	store := New()
	ctx := context.Background()

	base := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		report := &storage.ReportMeta{
			MealPlanID:  1,
			OwnerUserID: "user-1",
			Format:      "csv",
			Year:        2024,
			Month:       i + 1,
			Status:      "ready",
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		}
		if err := store.CreateReport(ctx, report); err != nil {
			t.Fatalf("CreateReport: %v", err)
		}
	}
	// A report for another plan must not leak into the listing.
	other := &storage.ReportMeta{MealPlanID: 2, OwnerUserID: "user-1", Format: "csv", Year: 2024, Month: 1, Status: "ready"}
	if err := store.CreateReport(ctx, other); err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	reports, err := store.ListReports(ctx, 1, 10, 0)
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if len(reports) != 3 {
		t.Fatalf("got %d reports, want 3", len(reports))
	}
	if reports[0].Month != 3 || reports[2].Month != 1 {
		t.Errorf("expected newest first, got months %d,%d,%d", reports[0].Month, reports[1].Month, reports[2].Month)
	}

	paged, err := store.ListReports(ctx, 1, 1, 1)
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if len(paged) != 1 || paged[0].Month != 2 {
		t.Errorf("paged = %+v", paged)
	}

	empty, err := store.ListReports(ctx, 1, 10, 99)
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty page, got %d", len(empty))
	}
}
