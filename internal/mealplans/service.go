package mealplans

import (
	"context"
	"strconv"
	"time"

	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/storage"
)

// TagsProvider supplies tag metadata merged into full views. It is an external
// collaborator; the service works without one.
type TagsProvider interface {
	TagsForMealPlan(ctx context.Context, mealPlanID int64) ([]TagDTO, error)
}

// Service reconstructs day, week, month and full calendar views from a meal
// plan's flat assignment collection and computes its aggregate statistics.
type Service struct {
	storage storage.MealPlansStorage
	tags    TagsProvider
	now     func() time.Time
}

// NewService creates a new meal plans service.
func NewService(st storage.MealPlansStorage) *Service {
	return &Service{storage: st, now: time.Now}
}

// WithTagsProvider attaches an optional tag metadata collaborator.
func (s *Service) WithTagsProvider(p TagsProvider) *Service {
	s.tags = p
	return s
}

// ResolveView validates the query, checks access, fetches the matching
// assignments and projects them into the requested view shape. Steps run
// strictly sequentially; the optional statistics block is an independent read
// with no transactional tie to the assignment fetch.
func (s *Service) ResolveView(ctx context.Context, mealPlanID string, q ViewQuery, userID string) (*ViewEnvelope, error) {
	id, err := s.parseID(mealPlanID)
	if err != nil {
		return nil, err
	}

	if err := q.Validate(); err != nil {
		return nil, err
	}

	if err := s.guardAccess(ctx, id, userID); err != nil {
		return nil, err
	}

	var data interface{}
	switch q.ViewMode {
	case ViewModeDay:
		data, err = s.projectDay(ctx, id, q)
	case ViewModeWeek:
		data, err = s.projectWeek(ctx, id, q)
	case ViewModeMonth:
		data, err = s.projectMonth(ctx, id, q)
	default:
		data, err = s.projectFull(ctx, id, q)
	}
	if err != nil {
		return nil, err
	}

	envelope := &ViewEnvelope{
		Success:  true,
		ViewMode: q.ViewMode,
		Data:     data,
	}

	if q.IncludeStatistics {
		stats, err := s.statisticsByID(ctx, id)
		if err != nil {
			return nil, err
		}
		envelope.Statistics = stats
	}

	return envelope, nil
}

// Statistics returns the aggregate block alone, with the same access rules as
// ResolveView.
func (s *Service) Statistics(ctx context.Context, mealPlanID string, userID string) (*Statistics, error) {
	id, err := s.parseID(mealPlanID)
	if err != nil {
		return nil, err
	}

	if err := s.guardAccess(ctx, id, userID); err != nil {
		return nil, err
	}

	return s.statisticsByID(ctx, id)
}

func (s *Service) projectFull(ctx context.Context, id int64, q ViewQuery) (interface{}, error) {
	plan, assignments, found, err := s.storage.FetchWithAssignments(ctx, id, q.storageFilter())
	if err != nil {
		return nil, &UnexpectedError{Err: err}
	}
	if !found {
		return nil, notFoundErrorf("meal plan %d not found", id)
	}

	view := buildFullView(plan, assignments, q)

	if s.tags != nil {
		tags, err := s.tags.TagsForMealPlan(ctx, id)
		if err != nil {
			return nil, &UnexpectedError{Err: err}
		}
		view.Tags = tags
	}

	return view, nil
}

func (s *Service) projectDay(ctx context.Context, id int64, q ViewQuery) (interface{}, error) {
	target := dateOnly(s.now())
	if q.FilterDate != nil {
		target = dateOnly(*q.FilterDate)
	}

	// Exact-date filter: the storage layer matches a same-day range as one
	// calendar date, not an inclusive timestamp range.
	filter := storage.AssignmentFilter{
		DateRange: &storage.DateRange{Start: &target, End: &target},
	}
	if q.MealType != nil {
		filter.MealType = string(*q.MealType)
	}

	_, assignments, found, err := s.storage.FetchWithAssignments(ctx, id, filter)
	if err != nil {
		return nil, &UnexpectedError{Err: err}
	}
	if !found {
		return nil, notFoundErrorf("meal plan %d not found", id)
	}

	return buildDayView(target, assignments, q.IncludeRecipes), nil
}

func (s *Service) projectWeek(ctx context.Context, id int64, q ViewQuery) (interface{}, error) {
	weekStart := startOfWeek(s.now())
	if q.FilterStartDate != nil {
		weekStart = dateOnly(*q.FilterStartDate)
	}
	weekEnd := weekStart.AddDate(0, 0, 6)

	assignments, err := s.fetchRange(ctx, id, weekStart, weekEnd, q)
	if err != nil {
		return nil, err
	}

	return buildWeekView(weekStart, assignments, q.IncludeRecipes), nil
}

func (s *Service) projectMonth(ctx context.Context, id int64, q ViewQuery) (interface{}, error) {
	now := s.now()
	year, month := now.Year(), now.Month()
	if q.FilterYear != nil && q.FilterMonth != nil {
		year, month = *q.FilterYear, time.Month(*q.FilterMonth)
	}

	// Month-scoped fetch: lead/trail grid days from adjacent months stay at
	// zero counts.
	monthStart, monthEnd := monthBounds(year, month)
	assignments, err := s.fetchRange(ctx, id, monthStart, monthEnd, q)
	if err != nil {
		return nil, err
	}

	return buildMonthView(year, month, assignments), nil
}

func (s *Service) fetchRange(ctx context.Context, id int64, start, end time.Time, q ViewQuery) ([]storage.Assignment, error) {
	filter := storage.AssignmentFilter{}
	if q.MealType != nil {
		filter.MealType = string(*q.MealType)
	}

	assignments, err := s.storage.FetchAssignmentsForRange(ctx, id, start, end, filter)
	if err != nil {
		return nil, &UnexpectedError{Err: err}
	}
	return assignments, nil
}

func (s *Service) statisticsByID(ctx context.Context, id int64) (*Statistics, error) {
	raw, err := s.storage.FetchStatisticsRaw(ctx, id)
	if err != nil {
		return nil, &UnexpectedError{Err: err}
	}

	stats := buildStatistics(raw, s.now())
	return &stats, nil
}

// CheckAccess runs the existence and ownership checks alone, for
// collaborators that key their own resources to a meal plan. It returns the
// parsed plan id on success.
func (s *Service) CheckAccess(ctx context.Context, mealPlanID string, userID string) (int64, error) {
	id, err := s.parseID(mealPlanID)
	if err != nil {
		return 0, err
	}

	if err := s.guardAccess(ctx, id, userID); err != nil {
		return 0, err
	}

	return id, nil
}

// parseID parses a decimal plan id. A non-numeric id surfaces as not-found
// rather than a validation failure; callers depend on that mapping.
func (s *Service) parseID(mealPlanID string) (int64, error) {
	id, err := strconv.ParseInt(mealPlanID, 10, 64)
	if err != nil {
		return 0, notFoundErrorf("meal plan %s not found", mealPlanID)
	}
	return id, nil
}

// guardAccess distinguishes "does not exist" (not found) from "exists but not
// yours" (forbidden) with two separate storage calls.
func (s *Service) guardAccess(ctx context.Context, id int64, userID string) error {
	exists, err := s.storage.CheckExists(ctx, id)
	if err != nil {
		return &UnexpectedError{Err: err}
	}
	if !exists {
		return notFoundErrorf("meal plan %d not found", id)
	}

	owner, found, err := s.storage.GetOwner(ctx, id)
	if err != nil {
		return &UnexpectedError{Err: err}
	}
	if !found {
		return notFoundErrorf("meal plan %d not found", id)
	}
	if owner != userID {
		return &ForbiddenError{Message: "meal plan belongs to a different user"}
	}

	return nil
}
