package mealplans

import (
	"net/url"
	"testing"
	"time"
)

func mustParseQuery(t *testing.T, raw string) ViewQuery {
	t.Helper()
	values, err := url.ParseQuery(raw)
	if err != nil {
		t.Fatalf("bad test query: %v", err)
	}
	q, err := ParseViewQuery(values)
	if err != nil {
		t.Fatalf("ParseViewQuery(%q): %v", raw, err)
	}
	return q
}

func TestParseViewQueryDefaults(t *testing.T) {
	q := mustParseQuery(t, "")

	if q.ViewMode != ViewModeFull {
		t.Errorf("ViewMode = %s, want full", q.ViewMode)
	}
	if q.FilterDate != nil || q.FilterStartDate != nil || q.FilterEndDate != nil {
		t.Error("expected no date filters by default")
	}
	if q.GroupByMealType || q.IncludeRecipes || q.IncludeStatistics {
		t.Error("expected all flags off by default")
	}
}

func TestParseViewQueryRejectsUnknownViewMode(t *testing.T) {
	values := url.Values{"viewMode": {"year"}}
	_, err := ParseViewQuery(values)
	if err == nil {
		t.Fatal("expected error for unknown viewMode")
	}
	if _, ok := err.(*ValidationError); !ok {
		t.Errorf("expected ValidationError, got %T", err)
	}
}

func TestParseViewQueryRejectsMalformedDate(t *testing.T) {
	values := url.Values{"filterDate": {"15-03-2024"}}
	_, err := ParseViewQuery(values)
	if err == nil {
		t.Fatal("expected error for malformed date")
	}
}

func TestParseViewQueryRejectsUnknownMealType(t *testing.T) {
	values := url.Values{"mealType": {"brunch"}}
	_, err := ParseViewQuery(values)
	if err == nil {
		t.Fatal("expected error for unknown mealType")
	}
}

func TestParseViewQueryBoolFlags(t *testing.T) {
	q := mustParseQuery(t, "groupByMealType=true&includeRecipes=1&includeStatistics=yes")
	if !q.GroupByMealType || !q.IncludeRecipes || !q.IncludeStatistics {
		t.Errorf("expected all flags on, got %+v", q)
	}

	q = mustParseQuery(t, "includeRecipes=0&includeStatistics=false")
	if q.IncludeRecipes || q.IncludeStatistics {
		t.Error("expected flags off for falsy values")
	}
}

func TestValidateViewModeRequirements(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr string
	}{
		{"day without filterDate", "viewMode=day", "filterDate is required for day view mode"},
		{"week without filterStartDate", "viewMode=week", "filterStartDate is required for week view mode"},
		{"month without year and month", "viewMode=month", "filterYear and filterMonth are required for month view mode"},
		{"month with only year", "viewMode=month&filterYear=2024", "filterYear and filterMonth are required for month view mode"},
		{"month out of range", "viewMode=month&filterYear=2024&filterMonth=13", "filterMonth must be between 1 and 12"},
		{"year too small", "viewMode=month&filterYear=2019&filterMonth=3", "filterYear must be between 2020 and 2100"},
		{"year too large", "viewMode=month&filterYear=2101&filterMonth=3", "filterYear must be between 2020 and 2100"},
		{"inverted range", "filterStartDate=2024-03-10&filterEndDate=2024-03-01", "filterStartDate must be before or equal to filterEndDate"},
		{"range too wide", "filterStartDate=2023-01-01&filterEndDate=2024-12-31", "date range cannot exceed 365 days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := mustParseQuery(t, tt.query)
			err := q.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if err.Error() != tt.wantErr {
				t.Errorf("error = %q, want %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateAccepts(t *testing.T) {
	queries := []string{
		"",
		"viewMode=day&filterDate=2024-03-15",
		"viewMode=week&filterStartDate=2024-03-11",
		"viewMode=month&filterYear=2024&filterMonth=3",
		"filterStartDate=2024-03-01&filterEndDate=2024-03-31",
		"filterStartDate=2024-03-15&filterEndDate=2024-03-15",
	}

	for _, raw := range queries {
		q := mustParseQuery(t, raw)
		if err := q.Validate(); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", raw, err)
		}
	}
}

func TestResolveDateRangePrecedence(t *testing.T) {
	exact := date(2024, time.March, 15)
	start := date(2024, time.March, 1)
	end := date(2024, time.March, 31)
	year, month := 2024, 2

	// filterDate wins over everything else.
	q := ViewQuery{FilterDate: &exact, FilterStartDate: &start, FilterEndDate: &end, FilterYear: &year, FilterMonth: &month}
	r := resolveDateRange(q)
	if r == nil || r.Start == nil || r.End == nil || !r.Start.Equal(exact) || !r.End.Equal(exact) {
		t.Fatalf("expected exact-date range, got %+v", r)
	}

	// Explicit start/end beats year+month.
	q = ViewQuery{FilterStartDate: &start, FilterEndDate: &end, FilterYear: &year, FilterMonth: &month}
	r = resolveDateRange(q)
	if r == nil || !r.Start.Equal(start) || !r.End.Equal(end) {
		t.Fatalf("expected explicit range, got %+v", r)
	}

	// Open-ended range keeps the missing end nil.
	q = ViewQuery{FilterStartDate: &start}
	r = resolveDateRange(q)
	if r == nil || r.Start == nil || r.End != nil {
		t.Fatalf("expected open-ended range, got %+v", r)
	}

	// Year+month expands to full month bounds.
	q = ViewQuery{FilterYear: &year, FilterMonth: &month}
	r = resolveDateRange(q)
	if r == nil || !r.Start.Equal(date(2024, time.February, 1)) || !r.End.Equal(date(2024, time.February, 29)) {
		t.Fatalf("expected February 2024 bounds, got %+v", r)
	}

	// No parameters means no date scoping.
	if r := resolveDateRange(ViewQuery{}); r != nil {
		t.Fatalf("expected nil range, got %+v", r)
	}
}
