package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/storage"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedPlan(t *testing.T) (*MemoryStorage, int64) {
	t.Helper()

	store := New()
	store.SeedRecipe(storage.RecipeSummary{ID: 1, OwnerUserID: "user-1", Title: "Pancakes"})

	plan, err := store.CreateMealPlan(context.Background(), storage.MealPlan{OwnerUserID: "user-1", Name: "Plan"})
	if err != nil {
		t.Fatalf("CreateMealPlan: %v", err)
	}
	return store, plan.ID
}

func addAssignment(t *testing.T, store *MemoryStorage, planID int64, d time.Time, mealType string) storage.Assignment {
	t.Helper()

	a, err := store.CreateAssignment(context.Background(), planID, storage.AssignmentUpsert{
		RecipeID: 1,
		MealDate: d,
		MealType: mealType,
	})
	if err != nil {
		t.Fatalf("CreateAssignment: %v", err)
	}
	return a
}

func TestFetchWithAssignmentsOrdering(t *testing.T) {
	store, planID := seedPlan(t)

	// Inserted deliberately out of canonical order.
	addAssignment(t, store, planID, day(2024, time.March, 16), "breakfast")
	addAssignment(t, store, planID, day(2024, time.March, 15), "dinner")
	addAssignment(t, store, planID, day(2024, time.March, 15), "breakfast")
	addAssignment(t, store, planID, day(2024, time.March, 15), "snack")

	_, assignments, found, err := store.FetchWithAssignments(context.Background(), planID, storage.AssignmentFilter{})
	if err != nil || !found {
		t.Fatalf("FetchWithAssignments: found=%t err=%v", found, err)
	}

	want := []struct {
		date     string
		mealType string
	}{
		{"2024-03-15", "breakfast"},
		{"2024-03-15", "dinner"},
		{"2024-03-15", "snack"},
		{"2024-03-16", "breakfast"},
	}
	if len(assignments) != len(want) {
		t.Fatalf("got %d assignments, want %d", len(assignments), len(want))
	}
	for i, w := range want {
		if assignments[i].MealDate.Format("2006-01-02") != w.date || assignments[i].MealType != w.mealType {
			t.Errorf("position %d: got (%s, %s), want (%s, %s)",
				i, assignments[i].MealDate.Format("2006-01-02"), assignments[i].MealType, w.date, w.mealType)
		}
	}
}

func TestFetchWithAssignmentsSingleDayExactMatch(t *testing.T) {
	store, planID := seedPlan(t)
	addAssignment(t, store, planID, day(2024, time.March, 15), "lunch")
	addAssignment(t, store, planID, day(2024, time.March, 16), "lunch")

	target := day(2024, time.March, 15)
	filter := storage.AssignmentFilter{DateRange: &storage.DateRange{Start: &target, End: &target}}

	_, assignments, _, err := store.FetchWithAssignments(context.Background(), planID, filter)
	if err != nil {
		t.Fatalf("FetchWithAssignments: %v", err)
	}
	if len(assignments) != 1 || !assignments[0].MealDate.Equal(target) {
		t.Errorf("expected exactly the March 15 assignment, got %d", len(assignments))
	}
}

func TestFetchWithAssignmentsOpenEndedRange(t *testing.T) {
	store, planID := seedPlan(t)
	addAssignment(t, store, planID, day(2024, time.March, 10), "lunch")
	addAssignment(t, store, planID, day(2024, time.March, 20), "lunch")

	from := day(2024, time.March, 15)
	filter := storage.AssignmentFilter{DateRange: &storage.DateRange{Start: &from}}

	_, assignments, _, err := store.FetchWithAssignments(context.Background(), planID, filter)
	if err != nil {
		t.Fatalf("FetchWithAssignments: %v", err)
	}
	if len(assignments) != 1 || !assignments[0].MealDate.Equal(day(2024, time.March, 20)) {
		t.Errorf("expected only the later assignment, got %d", len(assignments))
	}
}

func TestFetchAssignmentsForRangeMealTypeFilter(t *testing.T) {
	store, planID := seedPlan(t)
	addAssignment(t, store, planID, day(2024, time.March, 15), "breakfast")
	addAssignment(t, store, planID, day(2024, time.March, 15), "dinner")

	assignments, err := store.FetchAssignmentsForRange(context.Background(), planID,
		day(2024, time.March, 1), day(2024, time.March, 31),
		storage.AssignmentFilter{MealType: "dinner"})
	if err != nil {
		t.Fatalf("FetchAssignmentsForRange: %v", err)
	}
	if len(assignments) != 1 || assignments[0].MealType != "dinner" {
		t.Errorf("expected one dinner, got %+v", assignments)
	}
}

func TestFetchStatisticsRaw(t *testing.T) {
	store, planID := seedPlan(t)
	addAssignment(t, store, planID, day(2024, time.March, 15), "breakfast")
	addAssignment(t, store, planID, day(2024, time.March, 15), "dinner")
	addAssignment(t, store, planID, day(2024, time.March, 18), "dinner")

	raw, err := store.FetchStatisticsRaw(context.Background(), planID)
	if err != nil {
		t.Fatalf("FetchStatisticsRaw: %v", err)
	}

	if raw.TotalCount != 3 {
		t.Errorf("TotalCount = %d, want 3", raw.TotalCount)
	}
	if len(raw.PerTypeCounts) != 2 {
		t.Fatalf("PerTypeCounts = %+v", raw.PerTypeCounts)
	}
	// Canonical order: breakfast before dinner.
	if raw.PerTypeCounts[0].MealType != "breakfast" || raw.PerTypeCounts[0].Count != 1 {
		t.Errorf("first count = %+v", raw.PerTypeCounts[0])
	}
	if raw.PerTypeCounts[1].MealType != "dinner" || raw.PerTypeCounts[1].Count != 2 {
		t.Errorf("second count = %+v", raw.PerTypeCounts[1])
	}
	if len(raw.DistinctDatesSorted) != 2 ||
		!raw.DistinctDatesSorted[0].Equal(day(2024, time.March, 15)) ||
		!raw.DistinctDatesSorted[1].Equal(day(2024, time.March, 18)) {
		t.Errorf("DistinctDatesSorted = %+v", raw.DistinctDatesSorted)
	}
}

func TestCreateAssignmentUnknownRecipe(t *testing.T) {
	store, planID := seedPlan(t)

	_, err := store.CreateAssignment(context.Background(), planID, storage.AssignmentUpsert{
		RecipeID: 42,
		MealDate: day(2024, time.March, 15),
		MealType: "lunch",
	})
	if !errors.Is(err, storage.ErrRecipeNotFound) {
		t.Fatalf("expected ErrRecipeNotFound, got %v", err)
	}
}

func TestCreateAssignmentTruncatesTime(t *testing.T) {
	store, planID := seedPlan(t)

	a, err := store.CreateAssignment(context.Background(), planID, storage.AssignmentUpsert{
		RecipeID: 1,
		MealDate: time.Date(2024, time.March, 15, 18, 30, 0, 0, time.UTC),
		MealType: "dinner",
	})
	if err != nil {
		t.Fatalf("CreateAssignment: %v", err)
	}
	if !a.MealDate.Equal(day(2024, time.March, 15)) {
		t.Errorf("MealDate = %v, want midnight UTC", a.MealDate)
	}
}

func TestDeleteMealPlanCascades(t *testing.T) {
	store, planID := seedPlan(t)
	a := addAssignment(t, store, planID, day(2024, time.March, 15), "lunch")

	if err := store.DeleteMealPlan(context.Background(), planID); err != nil {
		t.Fatalf("DeleteMealPlan: %v", err)
	}

	exists, _ := store.CheckExists(context.Background(), planID)
	if exists {
		t.Error("plan still exists")
	}
	if err := store.DeleteAssignment(context.Background(), planID, a.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected cascaded assignment to be gone, got %v", err)
	}
}

func TestUpdateMealPlanPatchSemantics(t *testing.T) {
	store, planID := seedPlan(t)

	start := day(2024, time.March, 1)
	name := "Renamed"
	updated, err := store.UpdateMealPlan(context.Background(), planID, storage.MealPlanPatch{
		Name:      &name,
		StartDate: &start,
	})
	if err != nil {
		t.Fatalf("UpdateMealPlan: %v", err)
	}
	if updated.Name != "Renamed" || updated.StartDate == nil || !updated.StartDate.Equal(start) {
		t.Errorf("updated = %+v", updated)
	}

	updated, err = store.UpdateMealPlan(context.Background(), planID, storage.MealPlanPatch{ClearStartDate: true})
	if err != nil {
		t.Fatalf("UpdateMealPlan: %v", err)
	}
	if updated.StartDate != nil {
		t.Error("expected cleared start date")
	}

	if _, err := store.UpdateMealPlan(context.Background(), 999, storage.MealPlanPatch{}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown plan, got %v", err)
	}
}

func TestListMealPlansScopedToOwner(t *testing.T) {
	store, _ := seedPlan(t)
	if _, err := store.CreateMealPlan(context.Background(), storage.MealPlan{OwnerUserID: "user-2", Name: "Other"}); err != nil {
		t.Fatalf("CreateMealPlan: %v", err)
	}

	plans, err := store.ListMealPlans(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListMealPlans: %v", err)
	}
	if len(plans) != 1 || plans[0].OwnerUserID != "user-1" {
		t.Errorf("plans = %+v", plans)
	}
}
