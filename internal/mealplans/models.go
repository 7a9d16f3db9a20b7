package mealplans

import (
	"time"

	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/storage"
)

const dateLayout = "2006-01-02"

// MealType is the fixed meal slot enumeration.
type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
	MealTypeSnack     MealType = "snack"
	MealTypeDessert   MealType = "dessert"
)

// MealTypes lists the five meal types in canonical day order.
var MealTypes = []MealType{MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack, MealTypeDessert}

// ParseMealType maps a query/body value to a MealType.
func ParseMealType(s string) (MealType, bool) {
	switch MealType(s) {
	case MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack, MealTypeDessert:
		return MealType(s), true
	}
	return "", false
}

// ViewMode selects which projection of a meal plan to produce.
type ViewMode string

const (
	ViewModeFull  ViewMode = "full"
	ViewModeDay   ViewMode = "day"
	ViewModeWeek  ViewMode = "week"
	ViewModeMonth ViewMode = "month"
)

// MealPlanDTO is the JSON shape of a meal plan.
type MealPlanDTO struct {
	ID          int64   `json:"id,string"`
	OwnerUserID string  `json:"owner_user_id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	StartDate   *string `json:"start_date,omitempty"`
	EndDate     *string `json:"end_date,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// RecipeDTO is the referenced recipe summary included on request.
type RecipeDTO struct {
	ID          int64  `json:"id,string"`
	Title       string `json:"title"`
	OwnerUserID string `json:"owner_user_id"`
}

// AssignmentDTO is the JSON shape of one recipe assignment.
type AssignmentDTO struct {
	ID       int64      `json:"id,string"`
	RecipeID int64      `json:"recipe_id,string"`
	MealDate string     `json:"meal_date"`
	MealType MealType   `json:"meal_type"`
	Servings *int       `json:"servings,omitempty"`
	Recipe   *RecipeDTO `json:"recipe,omitempty"`
}

// MealsByType buckets assignments into the five fixed meal slots. A fixed-field
// struct rather than a keyed map: an unknown meal type cannot silently create a
// stray bucket.
type MealsByType struct {
	Breakfast []AssignmentDTO `json:"breakfast"`
	Lunch     []AssignmentDTO `json:"lunch"`
	Dinner    []AssignmentDTO `json:"dinner"`
	Snack     []AssignmentDTO `json:"snack"`
	Dessert   []AssignmentDTO `json:"dessert"`
}

func newMealsByType() MealsByType {
	return MealsByType{
		Breakfast: []AssignmentDTO{},
		Lunch:     []AssignmentDTO{},
		Dinner:    []AssignmentDTO{},
		Snack:     []AssignmentDTO{},
		Dessert:   []AssignmentDTO{},
	}
}

// add buckets one assignment; assignments with an unrecognized meal type are
// dropped and add reports false.
func (m *MealsByType) add(a AssignmentDTO) bool {
	switch a.MealType {
	case MealTypeBreakfast:
		m.Breakfast = append(m.Breakfast, a)
	case MealTypeLunch:
		m.Lunch = append(m.Lunch, a)
	case MealTypeDinner:
		m.Dinner = append(m.Dinner, a)
	case MealTypeSnack:
		m.Snack = append(m.Snack, a)
	case MealTypeDessert:
		m.Dessert = append(m.Dessert, a)
	default:
		return false
	}
	return true
}

// Total returns the number of bucketed assignments.
func (m *MealsByType) Total() int {
	return len(m.Breakfast) + len(m.Lunch) + len(m.Dinner) + len(m.Snack) + len(m.Dessert)
}

// MealTypeCounts is a per-meal-type count record.
type MealTypeCounts struct {
	Breakfast int `json:"breakfast"`
	Lunch     int `json:"lunch"`
	Dinner    int `json:"dinner"`
	Snack     int `json:"snack"`
	Dessert   int `json:"dessert"`
}

func (c *MealTypeCounts) add(t MealType) bool {
	switch t {
	case MealTypeBreakfast:
		c.Breakfast++
	case MealTypeLunch:
		c.Lunch++
	case MealTypeDinner:
		c.Dinner++
	case MealTypeSnack:
		c.Snack++
	case MealTypeDessert:
		c.Dessert++
	default:
		return false
	}
	return true
}

func (c *MealTypeCounts) set(t MealType, n int) bool {
	switch t {
	case MealTypeBreakfast:
		c.Breakfast = n
	case MealTypeLunch:
		c.Lunch = n
	case MealTypeDinner:
		c.Dinner = n
	case MealTypeSnack:
		c.Snack = n
	case MealTypeDessert:
		c.Dessert = n
	default:
		return false
	}
	return true
}

// Total returns the summed counts.
func (c MealTypeCounts) Total() int {
	return c.Breakfast + c.Lunch + c.Dinner + c.Snack + c.Dessert
}

// NonZeroTypes returns how many meal types have at least one assignment.
func (c MealTypeCounts) NonZeroTypes() int {
	n := 0
	for _, v := range []int{c.Breakfast, c.Lunch, c.Dinner, c.Snack, c.Dessert} {
		if v > 0 {
			n++
		}
	}
	return n
}

// TagDTO is tag metadata merged into full views by an external collaborator.
type TagDTO struct {
	ID   int64  `json:"id,string"`
	Name string `json:"name"`
}

// FullView is the meal plan plus its (possibly filtered) assignments.
type FullView struct {
	MealPlan    MealPlanDTO     `json:"meal_plan"`
	Assignments []AssignmentDTO `json:"assignments,omitempty"`
	MealsByType *MealsByType    `json:"meals_by_type,omitempty"`
	Tags        []TagDTO        `json:"tags,omitempty"`
}

// DayView is one calendar day's assignments bucketed by meal type.
type DayView struct {
	Date       string      `json:"date"`
	Meals      MealsByType `json:"meals"`
	TotalMeals int         `json:"total_meals"`
}

// WeekDay is one day entry inside a week view.
type WeekDay struct {
	Date       string      `json:"date"`
	DayOfWeek  string      `json:"day_of_week"`
	Meals      MealsByType `json:"meals"`
	TotalMeals int         `json:"total_meals"`
}

// WeekView is a Monday-anchored 7-day projection.
type WeekView struct {
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	WeekNumber int       `json:"week_number"`
	Days       []WeekDay `json:"days"`
	TotalMeals int       `json:"total_meals"`
}

// MonthDay is one cell of the month calendar grid.
type MonthDay struct {
	Date           string         `json:"date"`
	DayOfMonth     int            `json:"day_of_month"`
	IsCurrentMonth bool           `json:"is_current_month"`
	MealCounts     MealTypeCounts `json:"meal_counts"`
	TotalMeals     int            `json:"total_meals"`
}

// MonthWeek is one 7-day row of the month grid.
type MonthWeek struct {
	WeekNumber int        `json:"week_number"`
	StartDate  string     `json:"start_date"`
	EndDate    string     `json:"end_date"`
	Days       []MonthDay `json:"days"`
}

// MonthView is the calendar-grid projection of one month.
type MonthView struct {
	Year       int         `json:"year"`
	Month      int         `json:"month"`
	StartDate  string      `json:"start_date"`
	EndDate    string      `json:"end_date"`
	Weeks      []MonthWeek `json:"weeks"`
	TotalMeals int         `json:"total_meals"`
}

// Statistics is the derived aggregate block.
type Statistics struct {
	TotalRecipes         int            `json:"total_recipes"`
	MealTypeBreakdown    MealTypeCounts `json:"meal_type_breakdown"`
	DaysWithMeals        int            `json:"days_with_meals"`
	AverageRecipesPerDay float64        `json:"average_recipes_per_day"`
	TotalMealTypes       int            `json:"total_meal_types"`
	Duration             int            `json:"duration"`
	StartDate            string         `json:"start_date"`
	EndDate              string         `json:"end_date"`
}

// ViewEnvelope is the response wrapper for resolved views.
type ViewEnvelope struct {
	Success    bool        `json:"success"`
	ViewMode   ViewMode    `json:"view_mode"`
	Data       interface{} `json:"data"`
	Statistics *Statistics `json:"statistics,omitempty"`
}

func toMealPlanDTO(plan storage.MealPlan) MealPlanDTO {
	dto := MealPlanDTO{
		ID:          plan.ID,
		OwnerUserID: plan.OwnerUserID,
		Name:        plan.Name,
		Description: plan.Description,
		CreatedAt:   plan.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   plan.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if plan.StartDate != nil {
		s := plan.StartDate.Format(dateLayout)
		dto.StartDate = &s
	}
	if plan.EndDate != nil {
		e := plan.EndDate.Format(dateLayout)
		dto.EndDate = &e
	}
	return dto
}

func toAssignmentDTO(a storage.Assignment, includeRecipe bool) AssignmentDTO {
	dto := AssignmentDTO{
		ID:       a.ID,
		RecipeID: a.RecipeID,
		MealDate: a.MealDate.Format(dateLayout),
		MealType: MealType(a.MealType),
		Servings: a.Servings,
	}
	if includeRecipe {
		dto.Recipe = &RecipeDTO{
			ID:          a.Recipe.ID,
			Title:       a.Recipe.Title,
			OwnerUserID: a.Recipe.OwnerUserID,
		}
	}
	return dto
}
