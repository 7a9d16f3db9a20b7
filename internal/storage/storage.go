package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrRecipeNotFound is returned when an assignment references an unknown recipe.
	ErrRecipeNotFound = errors.New("recipe not found")
)

// MealPlan is a named, owned, optionally date-bounded container of recipe assignments.
type MealPlan struct {
	ID          int64
	OwnerUserID string
	Name        string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RecipeSummary carries the fields of the external recipe entity that views need.
type RecipeSummary struct {
	ID          int64
	OwnerUserID string
	Title       string
}

// Assignment is a (date, meal type, recipe) tuple inside a meal plan.
type Assignment struct {
	ID         int64
	MealPlanID int64
	RecipeID   int64
	MealDate   time.Time // calendar date, time-of-day irrelevant
	MealType   string    // breakfast|lunch|dinner|snack|dessert
	Servings   *int
	Recipe     RecipeSummary
	CreatedAt  time.Time
}

// DateRange is an inclusive, possibly open-ended date window.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// AssignmentFilter narrows assignment fetches.
type AssignmentFilter struct {
	MealType  string // empty = all types
	DateRange *DateRange
}

// MealTypeCount is one row of the grouped per-type count.
type MealTypeCount struct {
	MealType string
	Count    int
}

// StatisticsRaw is the aggregate input the statistics builder consumes.
type StatisticsRaw struct {
	TotalCount          int
	PerTypeCounts       []MealTypeCount
	DistinctDatesSorted []time.Time // ascending, each date has >= 1 assignment
}

// MealPlanPatch carries optional field updates; nil means "leave unchanged".
type MealPlanPatch struct {
	Name           *string
	Description    *string
	ClearDesc      bool
	StartDate      *time.Time
	ClearStartDate bool
	EndDate        *time.Time
	ClearEndDate   bool
}

// AssignmentUpsert is the input for adding a recipe to a plan.
type AssignmentUpsert struct {
	RecipeID int64
	MealDate time.Time
	MealType string
	Servings *int
}

// MealPlansStorage manages meal plans and their recipe assignments.
//
// Fetches that return assignments order them by (meal_date ascending, canonical
// meal-type order: breakfast, lunch, dinner, snack, dessert) so downstream
// grouping is deterministic.
type MealPlansStorage interface {
	// CheckExists reports whether the meal plan exists.
	CheckExists(ctx context.Context, mealPlanID int64) (bool, error)

	// GetOwner returns the owner user id of the meal plan.
	GetOwner(ctx context.Context, mealPlanID int64) (string, bool, error)

	// FetchPlain returns the meal plan without its assignments.
	FetchPlain(ctx context.Context, mealPlanID int64) (MealPlan, bool, error)

	// FetchWithAssignments returns the meal plan and its assignments matching
	// the filter. A range whose start and end fall on the same calendar day is
	// matched as an exact date, not an inclusive range.
	FetchWithAssignments(ctx context.Context, mealPlanID int64, filter AssignmentFilter) (MealPlan, []Assignment, bool, error)

	// FetchAssignmentsForRange returns assignments within [start, end] inclusive.
	FetchAssignmentsForRange(ctx context.Context, mealPlanID int64, start, end time.Time, filter AssignmentFilter) ([]Assignment, error)

	// FetchStatisticsRaw returns the aggregate counts for a plan.
	FetchStatisticsRaw(ctx context.Context, mealPlanID int64) (StatisticsRaw, error)

	// ListMealPlans returns all plans owned by a user.
	ListMealPlans(ctx context.Context, ownerUserID string) ([]MealPlan, error)

	// CreateMealPlan inserts a plan and returns it with id and timestamps set.
	CreateMealPlan(ctx context.Context, plan MealPlan) (MealPlan, error)

	// UpdateMealPlan applies a patch to a plan and returns the updated row.
	UpdateMealPlan(ctx context.Context, mealPlanID int64, patch MealPlanPatch) (MealPlan, error)

	// DeleteMealPlan removes a plan and its assignments.
	DeleteMealPlan(ctx context.Context, mealPlanID int64) error

	// CreateAssignment adds a recipe assignment to a plan. Returns
	// ErrRecipeNotFound when the referenced recipe does not exist.
	CreateAssignment(ctx context.Context, mealPlanID int64, upsert AssignmentUpsert) (Assignment, error)

	// DeleteAssignment removes one assignment. Returns ErrNotFound when the
	// assignment does not exist or belongs to a different plan.
	DeleteAssignment(ctx context.Context, mealPlanID int64, assignmentID int64) error

	// Close releases the underlying connection (no-op for memory).
	Close() error
}

// ReportMeta describes one exported meal-plan report document.
type ReportMeta struct {
	ID          uuid.UUID
	MealPlanID  int64
	OwnerUserID string
	Format      string // "pdf" or "csv"
	Year        int
	Month       int
	ObjectKey   *string // blob object key (nil for memory/local mode)
	SizeBytes   int64
	Status      string // "ready" or "failed"
	CreatedAt   time.Time
	Data        []byte // report bytes in local blob mode (nil when an object key is set)
}

// ReportsStorage manages exported report metadata.
type ReportsStorage interface {
	CreateReport(ctx context.Context, report *ReportMeta) error
	GetReport(ctx context.Context, id uuid.UUID) (*ReportMeta, error)
	ListReports(ctx context.Context, mealPlanID int64, limit, offset int) ([]ReportMeta, error)
	DeleteReport(ctx context.Context, id uuid.UUID) error
}
