package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/storage"
)

type reportsStorage struct {
	pool *pgxpool.Pool
}

func newReportsStorage(pool *pgxpool.Pool) *reportsStorage {
	return &reportsStorage{pool: pool}
}

func (s *reportsStorage) CreateReport(ctx context.Context, report *storage.ReportMeta) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}

	query := `
		INSERT INTO meal_plan_reports (id, meal_plan_id, owner_user_id, format, year, month, object_key, size_bytes, status, data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`

	err := s.pool.QueryRow(ctx, query,
		report.ID,
		report.MealPlanID,
		report.OwnerUserID,
		report.Format,
		report.Year,
		report.Month,
		report.ObjectKey,
		report.SizeBytes,
		report.Status,
		report.Data,
	).Scan(&report.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	return nil
}

func (s *reportsStorage) GetReport(ctx context.Context, id uuid.UUID) (*storage.ReportMeta, error) {
	query := `
		SELECT id, meal_plan_id, owner_user_id, format, year, month, object_key, size_bytes, status, data, created_at
		FROM meal_plan_reports
		WHERE id = $1
	`

	var report storage.ReportMeta
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&report.ID,
		&report.MealPlanID,
		&report.OwnerUserID,
		&report.Format,
		&report.Year,
		&report.Month,
		&report.ObjectKey,
		&report.SizeBytes,
		&report.Status,
		&report.Data,
		&report.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	return &report, nil
}

func (s *reportsStorage) ListReports(ctx context.Context, mealPlanID int64, limit, offset int) ([]storage.ReportMeta, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, meal_plan_id, owner_user_id, format, year, month, object_key, size_bytes, status, data, created_at
		FROM meal_plan_reports
		WHERE meal_plan_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.pool.Query(ctx, query, mealPlanID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	reports := []storage.ReportMeta{}
	for rows.Next() {
		var report storage.ReportMeta
		err := rows.Scan(
			&report.ID,
			&report.MealPlanID,
			&report.OwnerUserID,
			&report.Format,
			&report.Year,
			&report.Month,
			&report.ObjectKey,
			&report.SizeBytes,
			&report.Status,
			&report.Data,
			&report.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, report)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating reports: %w", rows.Err())
	}

	return reports, nil
}

func (s *reportsStorage) DeleteReport(ctx context.Context, id uuid.UUID) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM meal_plan_reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
