package mealplans

import (
	"math"
	"time"

	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/storage"
)

const msPerDay = 24 * 60 * 60 * 1000

// buildStatistics derives the aggregate block from raw counts.
//
// The reported start/end dates come from the first and last assignment dates,
// not from the plan's own declared range; callers documenting an "effective"
// range depend on that. For an empty plan, the date fields are synthetic
// (both "now") with duration 1.
func buildStatistics(raw storage.StatisticsRaw, now time.Time) Statistics {
	if raw.TotalCount == 0 {
		today := dateOnly(now).Format(dateLayout)
		return Statistics{
			TotalRecipes:         0,
			MealTypeBreakdown:    MealTypeCounts{},
			DaysWithMeals:        0,
			AverageRecipesPerDay: 0,
			TotalMealTypes:       0,
			Duration:             1,
			StartDate:            today,
			EndDate:              today,
		}
	}

	var breakdown MealTypeCounts
	for _, tc := range raw.PerTypeCounts {
		breakdown.set(MealType(tc.MealType), tc.Count)
	}

	start := dateOnly(raw.DistinctDatesSorted[0])
	end := dateOnly(raw.DistinctDatesSorted[len(raw.DistinctDatesSorted)-1])

	distinctDays := len(raw.DistinctDatesSorted)
	average := roundTo2(float64(raw.TotalCount) / float64(distinctDays))

	duration := int(math.Ceil(float64(end.Sub(start).Milliseconds())/msPerDay)) + 1

	return Statistics{
		TotalRecipes:         raw.TotalCount,
		MealTypeBreakdown:    breakdown,
		DaysWithMeals:        distinctDays,
		AverageRecipesPerDay: average,
		TotalMealTypes:       breakdown.NonZeroTypes(),
		Duration:             duration,
		StartDate:            start.Format(dateLayout),
		EndDate:              end.Format(dateLayout),
	}
}

// roundTo2 rounds half-up to two decimal places.
func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
