package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/storage"
	"github.com/google/uuid"
)

type reportsStorage struct {
	mu      sync.RWMutex
	reports map[uuid.UUID]*storage.ReportMeta
}

func newReportsStorage() *reportsStorage {
	return &reportsStorage{
		reports: make(map[uuid.UUID]*storage.ReportMeta),
	}
}

func (s *reportsStorage) CreateReport(ctx context.Context, report *storage.ReportMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}

	stored := *report
	s.reports[report.ID] = &stored
	return nil
}

func (s *reportsStorage) GetReport(ctx context.Context, id uuid.UUID) (*storage.ReportMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.reports[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	copied := *report
	return &copied, nil
}

func (s *reportsStorage) ListReports(ctx context.Context, mealPlanID int64, limit, offset int) ([]storage.ReportMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []storage.ReportMeta
	for _, r := range s.reports {
		if r.MealPlanID == mealPlanID {
			results = append(results, *r)
		}
	}

	// Newest first, matching the postgres ordering.
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})

	if offset >= len(results) {
		return []storage.ReportMeta{}, nil
	}
	results = results[offset:]
	if limit > 0 && limit < len(results) {
		results = results[:limit]
	}
	return results, nil
}

func (s *reportsStorage) DeleteReport(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reports[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.reports, id)
	return nil
}
