package mealplans

import (
	"time"

	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/storage"
)

// View projections. Each builder is a stateless transform of the fetched
// assignment list; recomputing from an unchanged list yields an identical
// projection.

// buildFullView returns the plan plus its filtered assignments, either as a
// flat ordered list or grouped by meal type when requested.
func buildFullView(plan storage.MealPlan, assignments []storage.Assignment, q ViewQuery) FullView {
	view := FullView{MealPlan: toMealPlanDTO(plan)}

	if q.GroupByMealType {
		meals := newMealsByType()
		for _, a := range assignments {
			meals.add(toAssignmentDTO(a, q.IncludeRecipes))
		}
		view.MealsByType = &meals
		return view
	}

	dtos := make([]AssignmentDTO, 0, len(assignments))
	for _, a := range assignments {
		dtos = append(dtos, toAssignmentDTO(a, q.IncludeRecipes))
	}
	view.Assignments = dtos
	return view
}

// buildDayView buckets the assignments falling on target's calendar date into
// the five meal slots.
func buildDayView(target time.Time, assignments []storage.Assignment, includeRecipes bool) DayView {
	meals := newMealsByType()
	for _, a := range assignments {
		if !sameDay(a.MealDate, target) {
			continue
		}
		meals.add(toAssignmentDTO(a, includeRecipes))
	}

	return DayView{
		Date:       dateOnly(target).Format(dateLayout),
		Meals:      meals,
		TotalMeals: meals.Total(),
	}
}

// buildWeekView builds exactly seven day entries starting at weekStart.
func buildWeekView(weekStart time.Time, assignments []storage.Assignment, includeRecipes bool) WeekView {
	start := dateOnly(weekStart)
	end := start.AddDate(0, 0, 6)

	days := make([]WeekDay, 0, 7)
	total := 0
	for i := 0; i < 7; i++ {
		date := start.AddDate(0, 0, i)
		day := buildDayView(date, assignments, includeRecipes)
		total += day.TotalMeals
		days = append(days, WeekDay{
			Date:       day.Date,
			DayOfWeek:  weekdayName(date),
			Meals:      day.Meals,
			TotalMeals: day.TotalMeals,
		})
	}

	return WeekView{
		StartDate:  start.Format(dateLayout),
		EndDate:    end.Format(dateLayout),
		WeekNumber: isoWeekNumber(start),
		Days:       days,
		TotalMeals: total,
	}
}

// buildMonthView lays the month out as a calendar grid of 7-day weeks. The
// grid starts at the Monday on or before day 1 and runs until its cursor has
// left the month and passed its last day, so lead and trail days from adjacent
// months appear with IsCurrentMonth=false. The assignments are expected to be
// month-scoped, which leaves those lead/trail cells at zero.
func buildMonthView(year int, month time.Month, assignments []storage.Assignment) MonthView {
	monthStart, monthEnd := monthBounds(year, month)

	countsByDate := make(map[string]MealTypeCounts)
	for _, a := range assignments {
		key := dateOnly(a.MealDate).Format(dateLayout)
		counts := countsByDate[key]
		counts.add(MealType(a.MealType))
		countsByDate[key] = counts
	}

	var weeks []MonthWeek
	total := 0
	for cursor := monthGridStart(monthStart); cursor.Month() == month || !cursor.After(monthEnd); cursor = cursor.AddDate(0, 0, 7) {
		days := make([]MonthDay, 0, 7)
		for i := 0; i < 7; i++ {
			date := cursor.AddDate(0, 0, i)
			counts := countsByDate[date.Format(dateLayout)]
			inMonth := date.Month() == month && date.Year() == year
			if inMonth {
				total += counts.Total()
			}
			days = append(days, MonthDay{
				Date:           date.Format(dateLayout),
				DayOfMonth:     date.Day(),
				IsCurrentMonth: inMonth,
				MealCounts:     counts,
				TotalMeals:     counts.Total(),
			})
		}
		weeks = append(weeks, MonthWeek{
			WeekNumber: isoWeekNumber(cursor),
			StartDate:  cursor.Format(dateLayout),
			EndDate:    cursor.AddDate(0, 0, 6).Format(dateLayout),
			Days:       days,
		})
	}

	return MonthView{
		Year:       year,
		Month:      int(month),
		StartDate:  monthStart.Format(dateLayout),
		EndDate:    monthEnd.Format(dateLayout),
		Weeks:      weeks,
		TotalMeals: total,
	}
}
