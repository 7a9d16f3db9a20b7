package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/storage"
)

type mealPlansStorage struct {
	pool *pgxpool.Pool
}

func newMealPlansStorage(pool *pgxpool.Pool) *mealPlansStorage {
	return &mealPlansStorage{pool: pool}
}

// mealTypeOrder keeps assignment ordering deterministic and aligned with the
// day sequence rather than alphabetical collation.
const mealTypeOrder = `
	CASE a.meal_type
		WHEN 'breakfast' THEN 1
		WHEN 'lunch' THEN 2
		WHEN 'dinner' THEN 3
		WHEN 'snack' THEN 4
		WHEN 'dessert' THEN 5
	END
`

const assignmentColumns = `
	a.id, a.meal_plan_id, a.recipe_id, a.meal_date, a.meal_type, a.servings, a.created_at,
	r.id, r.owner_user_id, r.title
`

func (s *mealPlansStorage) CheckExists(ctx context.Context, mealPlanID int64) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM meal_plans WHERE id = $1)`, mealPlanID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check meal plan existence: %w", err)
	}
	return exists, nil
}

func (s *mealPlansStorage) GetOwner(ctx context.Context, mealPlanID int64) (string, bool, error) {
	var owner string
	err := s.pool.QueryRow(ctx, `SELECT owner_user_id FROM meal_plans WHERE id = $1`, mealPlanID).Scan(&owner)
	if err == pgx.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get meal plan owner: %w", err)
	}
	return owner, true, nil
}

func (s *mealPlansStorage) FetchPlain(ctx context.Context, mealPlanID int64) (storage.MealPlan, bool, error) {
	query := `
		SELECT id, owner_user_id, name, description, start_date, end_date, created_at, updated_at
		FROM meal_plans
		WHERE id = $1
	`

	var plan storage.MealPlan
	err := s.pool.QueryRow(ctx, query, mealPlanID).Scan(
		&plan.ID,
		&plan.OwnerUserID,
		&plan.Name,
		&plan.Description,
		&plan.StartDate,
		&plan.EndDate,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return storage.MealPlan{}, false, nil
	}
	if err != nil {
		return storage.MealPlan{}, false, fmt.Errorf("failed to get meal plan: %w", err)
	}

	return plan, true, nil
}

func (s *mealPlansStorage) FetchWithAssignments(ctx context.Context, mealPlanID int64, filter storage.AssignmentFilter) (storage.MealPlan, []storage.Assignment, bool, error) {
	plan, found, err := s.FetchPlain(ctx, mealPlanID)
	if err != nil || !found {
		return storage.MealPlan{}, nil, found, err
	}

	where := `a.meal_plan_id = $1`
	args := []interface{}{mealPlanID}

	if filter.MealType != "" {
		args = append(args, filter.MealType)
		where += fmt.Sprintf(" AND a.meal_type = $%d", len(args))
	}

	if r := filter.DateRange; r != nil {
		switch {
		case r.Start != nil && r.End != nil && sameDay(*r.Start, *r.End):
			// Single-day window: exact-date match, not an inclusive range.
			args = append(args, dateArg(*r.Start))
			where += fmt.Sprintf(" AND a.meal_date = $%d", len(args))
		default:
			if r.Start != nil {
				args = append(args, dateArg(*r.Start))
				where += fmt.Sprintf(" AND a.meal_date >= $%d", len(args))
			}
			if r.End != nil {
				args = append(args, dateArg(*r.End))
				where += fmt.Sprintf(" AND a.meal_date <= $%d", len(args))
			}
		}
	}

	query := `
		SELECT ` + assignmentColumns + `
		FROM meal_plan_recipes a
		INNER JOIN recipes r ON r.id = a.recipe_id
		WHERE ` + where + `
		ORDER BY a.meal_date, ` + mealTypeOrder + `, a.id
	`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return storage.MealPlan{}, nil, false, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	assignments, err := scanAssignments(rows)
	if err != nil {
		return storage.MealPlan{}, nil, false, err
	}

	return plan, assignments, true, nil
}

func (s *mealPlansStorage) FetchAssignmentsForRange(ctx context.Context, mealPlanID int64, start, end time.Time, filter storage.AssignmentFilter) ([]storage.Assignment, error) {
	where := `a.meal_plan_id = $1 AND a.meal_date >= $2 AND a.meal_date <= $3`
	args := []interface{}{mealPlanID, dateArg(start), dateArg(end)}

	if filter.MealType != "" {
		args = append(args, filter.MealType)
		where += fmt.Sprintf(" AND a.meal_type = $%d", len(args))
	}

	query := `
		SELECT ` + assignmentColumns + `
		FROM meal_plan_recipes a
		INNER JOIN recipes r ON r.id = a.recipe_id
		WHERE ` + where + `
		ORDER BY a.meal_date, ` + mealTypeOrder + `, a.id
	`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments for range: %w", err)
	}
	defer rows.Close()

	return scanAssignments(rows)
}

func (s *mealPlansStorage) FetchStatisticsRaw(ctx context.Context, mealPlanID int64) (storage.StatisticsRaw, error) {
	var raw storage.StatisticsRaw

	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM meal_plan_recipes WHERE meal_plan_id = $1`, mealPlanID,
	).Scan(&raw.TotalCount)
	if err != nil {
		return storage.StatisticsRaw{}, fmt.Errorf("failed to count assignments: %w", err)
	}

	countsQuery := `
		SELECT a.meal_type, COUNT(*)
		FROM meal_plan_recipes a
		WHERE a.meal_plan_id = $1
		GROUP BY a.meal_type
		ORDER BY ` + mealTypeOrder + `
	`
	rows, err := s.pool.Query(ctx, countsQuery, mealPlanID)
	if err != nil {
		return storage.StatisticsRaw{}, fmt.Errorf("failed to group assignments by meal type: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tc storage.MealTypeCount
		if err := rows.Scan(&tc.MealType, &tc.Count); err != nil {
			return storage.StatisticsRaw{}, fmt.Errorf("failed to scan meal type count: %w", err)
		}
		raw.PerTypeCounts = append(raw.PerTypeCounts, tc)
	}
	if rows.Err() != nil {
		return storage.StatisticsRaw{}, fmt.Errorf("error iterating meal type counts: %w", rows.Err())
	}

	datesQuery := `
		SELECT DISTINCT meal_date
		FROM meal_plan_recipes
		WHERE meal_plan_id = $1
		ORDER BY meal_date
	`
	dateRows, err := s.pool.Query(ctx, datesQuery, mealPlanID)
	if err != nil {
		return storage.StatisticsRaw{}, fmt.Errorf("failed to query distinct dates: %w", err)
	}
	defer dateRows.Close()

	for dateRows.Next() {
		var d time.Time
		if err := dateRows.Scan(&d); err != nil {
			return storage.StatisticsRaw{}, fmt.Errorf("failed to scan distinct date: %w", err)
		}
		raw.DistinctDatesSorted = append(raw.DistinctDatesSorted, d)
	}
	if dateRows.Err() != nil {
		return storage.StatisticsRaw{}, fmt.Errorf("error iterating distinct dates: %w", dateRows.Err())
	}

	return raw, nil
}

func (s *mealPlansStorage) ListMealPlans(ctx context.Context, ownerUserID string) ([]storage.MealPlan, error) {
	query := `
		SELECT id, owner_user_id, name, description, start_date, end_date, created_at, updated_at
		FROM meal_plans
		WHERE owner_user_id = $1
		ORDER BY id
	`

	rows, err := s.pool.Query(ctx, query, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal plans: %w", err)
	}
	defer rows.Close()

	var plans []storage.MealPlan
	for rows.Next() {
		var plan storage.MealPlan
		err := rows.Scan(
			&plan.ID,
			&plan.OwnerUserID,
			&plan.Name,
			&plan.Description,
			&plan.StartDate,
			&plan.EndDate,
			&plan.CreatedAt,
			&plan.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal plan: %w", err)
		}
		plans = append(plans, plan)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating meal plans: %w", rows.Err())
	}

	return plans, nil
}

func (s *mealPlansStorage) CreateMealPlan(ctx context.Context, plan storage.MealPlan) (storage.MealPlan, error) {
	query := `
		INSERT INTO meal_plans (owner_user_id, name, description, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, owner_user_id, name, description, start_date, end_date, created_at, updated_at
	`

	var created storage.MealPlan
	err := s.pool.QueryRow(ctx, query,
		plan.OwnerUserID, plan.Name, plan.Description, plan.StartDate, plan.EndDate,
	).Scan(
		&created.ID,
		&created.OwnerUserID,
		&created.Name,
		&created.Description,
		&created.StartDate,
		&created.EndDate,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		return storage.MealPlan{}, fmt.Errorf("failed to create meal plan: %w", err)
	}

	return created, nil
}

func (s *mealPlansStorage) UpdateMealPlan(ctx context.Context, mealPlanID int64, patch storage.MealPlanPatch) (storage.MealPlan, error) {
	set := "updated_at = now()"
	args := []interface{}{mealPlanID}

	if patch.Name != nil {
		args = append(args, *patch.Name)
		set += fmt.Sprintf(", name = $%d", len(args))
	}
	if patch.ClearDesc {
		set += ", description = NULL"
	} else if patch.Description != nil {
		args = append(args, *patch.Description)
		set += fmt.Sprintf(", description = $%d", len(args))
	}
	if patch.ClearStartDate {
		set += ", start_date = NULL"
	} else if patch.StartDate != nil {
		args = append(args, dateArg(*patch.StartDate))
		set += fmt.Sprintf(", start_date = $%d", len(args))
	}
	if patch.ClearEndDate {
		set += ", end_date = NULL"
	} else if patch.EndDate != nil {
		args = append(args, dateArg(*patch.EndDate))
		set += fmt.Sprintf(", end_date = $%d", len(args))
	}

	query := `
		UPDATE meal_plans SET ` + set + `
		WHERE id = $1
		RETURNING id, owner_user_id, name, description, start_date, end_date, created_at, updated_at
	`

	var updated storage.MealPlan
	err := s.pool.QueryRow(ctx, query, args...).Scan(
		&updated.ID,
		&updated.OwnerUserID,
		&updated.Name,
		&updated.Description,
		&updated.StartDate,
		&updated.EndDate,
		&updated.CreatedAt,
		&updated.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return storage.MealPlan{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.MealPlan{}, fmt.Errorf("failed to update meal plan: %w", err)
	}

	return updated, nil
}

func (s *mealPlansStorage) DeleteMealPlan(ctx context.Context, mealPlanID int64) error {
	// Assignments go with the plan via ON DELETE CASCADE.
	_, err := s.pool.Exec(ctx, `DELETE FROM meal_plans WHERE id = $1`, mealPlanID)
	if err != nil {
		return fmt.Errorf("failed to delete meal plan: %w", err)
	}
	return nil
}

func (s *mealPlansStorage) CreateAssignment(ctx context.Context, mealPlanID int64, upsert storage.AssignmentUpsert) (storage.Assignment, error) {
	query := `
		INSERT INTO meal_plan_recipes (meal_plan_id, recipe_id, meal_date, meal_type, servings)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, meal_plan_id, recipe_id, meal_date, meal_type, servings, created_at
	`

	var a storage.Assignment
	err := s.pool.QueryRow(ctx, query,
		mealPlanID, upsert.RecipeID, dateArg(upsert.MealDate), upsert.MealType, upsert.Servings,
	).Scan(
		&a.ID,
		&a.MealPlanID,
		&a.RecipeID,
		&a.MealDate,
		&a.MealType,
		&a.Servings,
		&a.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return storage.Assignment{}, storage.ErrRecipeNotFound
		}
		return storage.Assignment{}, fmt.Errorf("failed to create assignment: %w", err)
	}

	recipeQuery := `SELECT id, owner_user_id, title FROM recipes WHERE id = $1`
	err = s.pool.QueryRow(ctx, recipeQuery, a.RecipeID).Scan(&a.Recipe.ID, &a.Recipe.OwnerUserID, &a.Recipe.Title)
	if err != nil {
		return storage.Assignment{}, fmt.Errorf("failed to load assignment recipe: %w", err)
	}

	return a, nil
}

func (s *mealPlansStorage) DeleteAssignment(ctx context.Context, mealPlanID int64, assignmentID int64) error {
	result, err := s.pool.Exec(ctx,
		`DELETE FROM meal_plan_recipes WHERE id = $1 AND meal_plan_id = $2`,
		assignmentID, mealPlanID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanAssignments(rows pgx.Rows) ([]storage.Assignment, error) {
	assignments := []storage.Assignment{}
	for rows.Next() {
		var a storage.Assignment
		err := rows.Scan(
			&a.ID,
			&a.MealPlanID,
			&a.RecipeID,
			&a.MealDate,
			&a.MealType,
			&a.Servings,
			&a.CreatedAt,
			&a.Recipe.ID,
			&a.Recipe.OwnerUserID,
			&a.Recipe.Title,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating assignments: %w", rows.Err())
	}
	return assignments, nil
}

// dateArg normalizes a timestamp to its calendar date so DATE columns never
// shift across timezone boundaries.
func dateArg(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
