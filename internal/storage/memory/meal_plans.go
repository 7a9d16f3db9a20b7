package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/storage"
)

type mealPlansStorage struct {
	mu          sync.RWMutex
	nextID      int64
	plans       map[int64]*storage.MealPlan
	assignments map[int64]*storage.Assignment // key: assignment id
	recipes     map[int64]storage.RecipeSummary
	byPlan      map[int64][]int64 // plan id -> assignment ids
}

func newMealPlansStorage() *mealPlansStorage {
	return &mealPlansStorage{
		nextID:      1,
		plans:       make(map[int64]*storage.MealPlan),
		assignments: make(map[int64]*storage.Assignment),
		recipes:     make(map[int64]storage.RecipeSummary),
		byPlan:      make(map[int64][]int64),
	}
}

func (s *mealPlansStorage) nextIDLocked() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// SeedRecipe registers a recipe summary so assignments can reference it.
// Recipes are an external entity; this stand-in covers dev mode and tests.
func (s *mealPlansStorage) SeedRecipe(recipe storage.RecipeSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes[recipe.ID] = recipe
}

func (s *mealPlansStorage) CheckExists(ctx context.Context, mealPlanID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.plans[mealPlanID]
	return ok, nil
}

func (s *mealPlansStorage) GetOwner(ctx context.Context, mealPlanID int64) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plan, ok := s.plans[mealPlanID]
	if !ok {
		return "", false, nil
	}
	return plan.OwnerUserID, true, nil
}

func (s *mealPlansStorage) FetchPlain(ctx context.Context, mealPlanID int64) (storage.MealPlan, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plan, ok := s.plans[mealPlanID]
	if !ok {
		return storage.MealPlan{}, false, nil
	}
	return *plan, true, nil
}

func (s *mealPlansStorage) FetchWithAssignments(ctx context.Context, mealPlanID int64, filter storage.AssignmentFilter) (storage.MealPlan, []storage.Assignment, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plan, ok := s.plans[mealPlanID]
	if !ok {
		return storage.MealPlan{}, nil, false, nil
	}

	return *plan, s.matchingAssignmentsLocked(mealPlanID, filter), true, nil
}

func (s *mealPlansStorage) FetchAssignmentsForRange(ctx context.Context, mealPlanID int64, start, end time.Time, filter storage.AssignmentFilter) ([]storage.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rangeFilter := storage.AssignmentFilter{
		MealType:  filter.MealType,
		DateRange: &storage.DateRange{Start: &start, End: &end},
	}
	return s.matchingAssignmentsLocked(mealPlanID, rangeFilter), nil
}

func (s *mealPlansStorage) FetchStatisticsRaw(ctx context.Context, mealPlanID int64) (storage.StatisticsRaw, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	dateSet := make(map[time.Time]bool)
	total := 0
	for _, aid := range s.byPlan[mealPlanID] {
		a := s.assignments[aid]
		total++
		counts[a.MealType]++
		dateSet[truncateDay(a.MealDate)] = true
	}

	raw := storage.StatisticsRaw{TotalCount: total}
	for mealType, count := range counts {
		raw.PerTypeCounts = append(raw.PerTypeCounts, storage.MealTypeCount{MealType: mealType, Count: count})
	}
	sort.Slice(raw.PerTypeCounts, func(i, j int) bool {
		return mealTypeRank(raw.PerTypeCounts[i].MealType) < mealTypeRank(raw.PerTypeCounts[j].MealType)
	})

	for d := range dateSet {
		raw.DistinctDatesSorted = append(raw.DistinctDatesSorted, d)
	}
	sort.Slice(raw.DistinctDatesSorted, func(i, j int) bool {
		return raw.DistinctDatesSorted[i].Before(raw.DistinctDatesSorted[j])
	})

	return raw, nil
}

func (s *mealPlansStorage) ListMealPlans(ctx context.Context, ownerUserID string) ([]storage.MealPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var plans []storage.MealPlan
	for _, p := range s.plans {
		if p.OwnerUserID == ownerUserID {
			plans = append(plans, *p)
		}
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].ID < plans[j].ID })
	return plans, nil
}

func (s *mealPlansStorage) CreateMealPlan(ctx context.Context, plan storage.MealPlan) (storage.MealPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	plan.ID = s.nextIDLocked()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	s.plans[plan.ID] = &plan
	return plan, nil
}

func (s *mealPlansStorage) UpdateMealPlan(ctx context.Context, mealPlanID int64, patch storage.MealPlanPatch) (storage.MealPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan, ok := s.plans[mealPlanID]
	if !ok {
		return storage.MealPlan{}, storage.ErrNotFound
	}

	if patch.Name != nil {
		plan.Name = *patch.Name
	}
	if patch.ClearDesc {
		plan.Description = nil
	} else if patch.Description != nil {
		plan.Description = patch.Description
	}
	if patch.ClearStartDate {
		plan.StartDate = nil
	} else if patch.StartDate != nil {
		plan.StartDate = patch.StartDate
	}
	if patch.ClearEndDate {
		plan.EndDate = nil
	} else if patch.EndDate != nil {
		plan.EndDate = patch.EndDate
	}
	plan.UpdatedAt = time.Now().UTC()

	return *plan, nil
}

func (s *mealPlansStorage) DeleteMealPlan(ctx context.Context, mealPlanID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, aid := range s.byPlan[mealPlanID] {
		delete(s.assignments, aid)
	}
	delete(s.byPlan, mealPlanID)
	delete(s.plans, mealPlanID)
	return nil
}

func (s *mealPlansStorage) CreateAssignment(ctx context.Context, mealPlanID int64, upsert storage.AssignmentUpsert) (storage.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.plans[mealPlanID]; !ok {
		return storage.Assignment{}, storage.ErrNotFound
	}

	recipe, ok := s.recipes[upsert.RecipeID]
	if !ok {
		return storage.Assignment{}, storage.ErrRecipeNotFound
	}

	assignment := &storage.Assignment{
		ID:         s.nextIDLocked(),
		MealPlanID: mealPlanID,
		RecipeID:   upsert.RecipeID,
		MealDate:   truncateDay(upsert.MealDate),
		MealType:   upsert.MealType,
		Servings:   upsert.Servings,
		Recipe:     recipe,
		CreatedAt:  time.Now().UTC(),
	}

	s.assignments[assignment.ID] = assignment
	s.byPlan[mealPlanID] = append(s.byPlan[mealPlanID], assignment.ID)

	return *assignment, nil
}

func (s *mealPlansStorage) DeleteAssignment(ctx context.Context, mealPlanID int64, assignmentID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.assignments[assignmentID]
	if !ok || a.MealPlanID != mealPlanID {
		return storage.ErrNotFound
	}

	delete(s.assignments, assignmentID)
	ids := s.byPlan[mealPlanID]
	for i, aid := range ids {
		if aid == assignmentID {
			s.byPlan[mealPlanID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

// matchingAssignmentsLocked filters and orders one plan's assignments by
// (meal date, canonical meal-type order). A range whose start and end fall on
// the same day matches as an exact calendar date.
func (s *mealPlansStorage) matchingAssignmentsLocked(mealPlanID int64, filter storage.AssignmentFilter) []storage.Assignment {
	results := []storage.Assignment{}
	for _, aid := range s.byPlan[mealPlanID] {
		a := s.assignments[aid]
		if filter.MealType != "" && a.MealType != filter.MealType {
			continue
		}
		if !matchesRange(a.MealDate, filter.DateRange) {
			continue
		}
		results = append(results, *a)
	}

	sort.Slice(results, func(i, j int) bool {
		di, dj := truncateDay(results[i].MealDate), truncateDay(results[j].MealDate)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		ri, rj := mealTypeRank(results[i].MealType), mealTypeRank(results[j].MealType)
		if ri != rj {
			return ri < rj
		}
		return results[i].ID < results[j].ID
	})

	return results
}

func matchesRange(mealDate time.Time, r *storage.DateRange) bool {
	if r == nil {
		return true
	}

	day := truncateDay(mealDate)

	// Single-day window: exact calendar date match.
	if r.Start != nil && r.End != nil && truncateDay(*r.Start).Equal(truncateDay(*r.End)) {
		return day.Equal(truncateDay(*r.Start))
	}

	if r.Start != nil && day.Before(truncateDay(*r.Start)) {
		return false
	}
	if r.End != nil && day.After(truncateDay(*r.End)) {
		return false
	}
	return true
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func mealTypeRank(mealType string) int {
	switch mealType {
	case "breakfast":
		return 1
	case "lunch":
		return 2
	case "dinner":
		return 3
	case "snack":
		return 4
	case "dessert":
		return 5
	}
	return 6
}
