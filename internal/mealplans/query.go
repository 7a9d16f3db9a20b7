package mealplans

import (
	"net/url"
	"strconv"
	"time"

	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/storage"
)

const maxFilterRangeDays = 365

const (
	minFilterYear = 2020
	maxFilterYear = 2100
)

// ViewQuery carries the parsed view selection and filter parameters.
type ViewQuery struct {
	ViewMode        ViewMode
	FilterDate      *time.Time
	FilterStartDate *time.Time
	FilterEndDate   *time.Time
	FilterYear      *int
	FilterMonth     *int
	MealType        *MealType

	GroupByMealType   bool
	IncludeRecipes    bool
	IncludeStatistics bool
}

// ParseViewQuery maps raw URL query values to a ViewQuery. Unparseable values
// are reported as ValidationError; combination rules are checked separately by
// Validate.
func ParseViewQuery(values url.Values) (ViewQuery, error) {
	q := ViewQuery{ViewMode: ViewModeFull}

	if raw := values.Get("viewMode"); raw != "" {
		switch ViewMode(raw) {
		case ViewModeFull, ViewModeDay, ViewModeWeek, ViewModeMonth:
			q.ViewMode = ViewMode(raw)
		default:
			return q, validationErrorf("viewMode must be one of full, day, week, month")
		}
	}

	var err error
	if q.FilterDate, err = parseDateParam(values, "filterDate"); err != nil {
		return q, err
	}
	if q.FilterStartDate, err = parseDateParam(values, "filterStartDate"); err != nil {
		return q, err
	}
	if q.FilterEndDate, err = parseDateParam(values, "filterEndDate"); err != nil {
		return q, err
	}
	if q.FilterYear, err = parseIntParam(values, "filterYear"); err != nil {
		return q, err
	}
	if q.FilterMonth, err = parseIntParam(values, "filterMonth"); err != nil {
		return q, err
	}

	if raw := values.Get("mealType"); raw != "" {
		mt, ok := ParseMealType(raw)
		if !ok {
			return q, validationErrorf("mealType must be one of breakfast, lunch, dinner, snack, dessert")
		}
		q.MealType = &mt
	}

	q.GroupByMealType = parseBoolParam(values, "groupByMealType")
	q.IncludeRecipes = parseBoolParam(values, "includeRecipes")
	q.IncludeStatistics = parseBoolParam(values, "includeStatistics")

	return q, nil
}

// Validate enforces the view-mode-specific parameter rules. It is a pure gate
// with no side effects.
func (q ViewQuery) Validate() error {
	switch q.ViewMode {
	case ViewModeDay:
		if q.FilterDate == nil {
			return validationErrorf("filterDate is required for day view mode")
		}
	case ViewModeWeek:
		if q.FilterStartDate == nil {
			return validationErrorf("filterStartDate is required for week view mode")
		}
	case ViewModeMonth:
		if q.FilterYear == nil || q.FilterMonth == nil {
			return validationErrorf("filterYear and filterMonth are required for month view mode")
		}
		if *q.FilterMonth < 1 || *q.FilterMonth > 12 {
			return validationErrorf("filterMonth must be between 1 and 12")
		}
		if *q.FilterYear < minFilterYear || *q.FilterYear > maxFilterYear {
			return validationErrorf("filterYear must be between %d and %d", minFilterYear, maxFilterYear)
		}
	}

	if q.FilterStartDate != nil && q.FilterEndDate != nil {
		if q.FilterStartDate.After(*q.FilterEndDate) {
			return validationErrorf("filterStartDate must be before or equal to filterEndDate")
		}
		if q.FilterEndDate.Sub(*q.FilterStartDate) > maxFilterRangeDays*24*time.Hour {
			return validationErrorf("date range cannot exceed %d days", maxFilterRangeDays)
		}
	}

	return nil
}

// resolveDateRange maps query parameters to a canonical date window.
// Precedence: exact filterDate, then explicit start/end (open ends allowed),
// then year+month expanded to the full calendar month. Nil means no date
// scoping at all.
func resolveDateRange(q ViewQuery) *storage.DateRange {
	if q.FilterDate != nil {
		d := *q.FilterDate
		return &storage.DateRange{Start: &d, End: &d}
	}

	if q.FilterStartDate != nil || q.FilterEndDate != nil {
		r := &storage.DateRange{}
		if q.FilterStartDate != nil {
			s := *q.FilterStartDate
			r.Start = &s
		}
		if q.FilterEndDate != nil {
			e := *q.FilterEndDate
			r.End = &e
		}
		return r
	}

	if q.FilterYear != nil && q.FilterMonth != nil {
		start, end := monthBounds(*q.FilterYear, time.Month(*q.FilterMonth))
		return &storage.DateRange{Start: &start, End: &end}
	}

	return nil
}

func (q ViewQuery) storageFilter() storage.AssignmentFilter {
	f := storage.AssignmentFilter{DateRange: resolveDateRange(q)}
	if q.MealType != nil {
		f.MealType = string(*q.MealType)
	}
	return f
}

func parseDateParam(values url.Values, key string) (*time.Time, error) {
	raw := values.Get(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, validationErrorf("%s must be a valid date in YYYY-MM-DD format", key)
	}
	return &t, nil
}

func parseIntParam(values url.Values, key string) (*int, error) {
	raw := values.Get(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, validationErrorf("%s must be an integer", key)
	}
	return &n, nil
}

func parseBoolParam(values url.Values, key string) bool {
	switch values.Get(key) {
	case "1", "true", "yes":
		return true
	}
	return false
}
