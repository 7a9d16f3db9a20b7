package mealplans

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/storage"
)

// Thin CRUD around the view engine: validation, owner guard, one storage call.

// CreateMealPlanRequest is the body of POST /v1/meal-plans.
type CreateMealPlanRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
}

// UpdateMealPlanRequest is the body of PATCH /v1/meal-plans/{id}. Absent
// fields are left unchanged; explicit nulls are not distinguished, so clearing
// a date is done by sending an empty string.
type UpdateMealPlanRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
}

// AddRecipeRequest is the body of POST /v1/meal-plans/{id}/recipes.
type AddRecipeRequest struct {
	RecipeID string `json:"recipe_id"`
	MealDate string `json:"meal_date"`
	MealType string `json:"meal_type"`
	Servings *int   `json:"servings"`
}

// List returns all meal plans owned by the caller.
func (s *Service) List(ctx context.Context, userID string) ([]MealPlanDTO, error) {
	plans, err := s.storage.ListMealPlans(ctx, userID)
	if err != nil {
		return nil, &UnexpectedError{Err: err}
	}

	dtos := make([]MealPlanDTO, 0, len(plans))
	for _, p := range plans {
		dtos = append(dtos, toMealPlanDTO(p))
	}
	return dtos, nil
}

// Create inserts a new meal plan owned by the caller.
func (s *Service) Create(ctx context.Context, userID string, req CreateMealPlanRequest) (*MealPlanDTO, error) {
	if len(req.Name) < 1 || len(req.Name) > 255 {
		return nil, validationErrorf("name must be between 1 and 255 characters")
	}

	start, err := parseOptionalDate(req.StartDate, "start_date")
	if err != nil {
		return nil, err
	}
	end, err := parseOptionalDate(req.EndDate, "end_date")
	if err != nil {
		return nil, err
	}
	if start != nil && end != nil && start.After(*end) {
		return nil, validationErrorf("start_date must be before or equal to end_date")
	}

	plan, err := s.storage.CreateMealPlan(ctx, storage.MealPlan{
		OwnerUserID: userID,
		Name:        req.Name,
		Description: req.Description,
		StartDate:   start,
		EndDate:     end,
	})
	if err != nil {
		return nil, &UnexpectedError{Err: err}
	}

	dto := toMealPlanDTO(plan)
	return &dto, nil
}

// Update patches the plan's name, description or date range. Owner only.
func (s *Service) Update(ctx context.Context, mealPlanID string, userID string, req UpdateMealPlanRequest) (*MealPlanDTO, error) {
	id, err := s.parseID(mealPlanID)
	if err != nil {
		return nil, err
	}
	if err := s.guardAccess(ctx, id, userID); err != nil {
		return nil, err
	}

	patch := storage.MealPlanPatch{}
	if req.Name != nil {
		if len(*req.Name) < 1 || len(*req.Name) > 255 {
			return nil, validationErrorf("name must be between 1 and 255 characters")
		}
		patch.Name = req.Name
	}
	if req.Description != nil {
		if *req.Description == "" {
			patch.ClearDesc = true
		} else {
			patch.Description = req.Description
		}
	}
	if req.StartDate != nil {
		if *req.StartDate == "" {
			patch.ClearStartDate = true
		} else {
			d, err := parseOptionalDate(req.StartDate, "start_date")
			if err != nil {
				return nil, err
			}
			patch.StartDate = d
		}
	}
	if req.EndDate != nil {
		if *req.EndDate == "" {
			patch.ClearEndDate = true
		} else {
			d, err := parseOptionalDate(req.EndDate, "end_date")
			if err != nil {
				return nil, err
			}
			patch.EndDate = d
		}
	}

	if err := s.validatePatchedRange(ctx, id, patch); err != nil {
		return nil, err
	}

	plan, err := s.storage.UpdateMealPlan(ctx, id, patch)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, notFoundErrorf("meal plan %d not found", id)
		}
		return nil, &UnexpectedError{Err: err}
	}

	dto := toMealPlanDTO(plan)
	return &dto, nil
}

// Delete removes the plan and its assignments. Owner only.
func (s *Service) Delete(ctx context.Context, mealPlanID string, userID string) error {
	id, err := s.parseID(mealPlanID)
	if err != nil {
		return err
	}
	if err := s.guardAccess(ctx, id, userID); err != nil {
		return err
	}

	if err := s.storage.DeleteMealPlan(ctx, id); err != nil {
		return &UnexpectedError{Err: err}
	}
	return nil
}

// AddRecipe assigns a recipe to a date and meal slot in the plan. Owner only.
func (s *Service) AddRecipe(ctx context.Context, mealPlanID string, userID string, req AddRecipeRequest) (*AssignmentDTO, error) {
	id, err := s.parseID(mealPlanID)
	if err != nil {
		return nil, err
	}
	if err := s.guardAccess(ctx, id, userID); err != nil {
		return nil, err
	}

	recipeID, err := strconv.ParseInt(req.RecipeID, 10, 64)
	if err != nil {
		return nil, validationErrorf("recipe_id must be a numeric id")
	}

	mealDate, err := time.Parse(dateLayout, req.MealDate)
	if err != nil {
		return nil, validationErrorf("meal_date must be a valid date in YYYY-MM-DD format")
	}

	mealType, ok := ParseMealType(req.MealType)
	if !ok {
		return nil, validationErrorf("meal_type must be one of breakfast, lunch, dinner, snack, dessert")
	}

	if req.Servings != nil && *req.Servings < 1 {
		return nil, validationErrorf("servings must be at least 1")
	}

	assignment, err := s.storage.CreateAssignment(ctx, id, storage.AssignmentUpsert{
		RecipeID: recipeID,
		MealDate: mealDate,
		MealType: string(mealType),
		Servings: req.Servings,
	})
	if err != nil {
		if errors.Is(err, storage.ErrRecipeNotFound) {
			return nil, notFoundErrorf("recipe %d not found", recipeID)
		}
		return nil, &UnexpectedError{Err: err}
	}

	dto := toAssignmentDTO(assignment, true)
	return &dto, nil
}

// RemoveRecipe deletes one assignment from the plan. Owner only.
func (s *Service) RemoveRecipe(ctx context.Context, mealPlanID string, assignmentID string, userID string) error {
	id, err := s.parseID(mealPlanID)
	if err != nil {
		return err
	}
	if err := s.guardAccess(ctx, id, userID); err != nil {
		return err
	}

	aid, err := strconv.ParseInt(assignmentID, 10, 64)
	if err != nil {
		return notFoundErrorf("assignment %s not found", assignmentID)
	}

	if err := s.storage.DeleteAssignment(ctx, id, aid); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return notFoundErrorf("assignment %d not found", aid)
		}
		return &UnexpectedError{Err: err}
	}
	return nil
}

// validatePatchedRange checks start <= end against the plan state the patch
// would produce.
func (s *Service) validatePatchedRange(ctx context.Context, id int64, patch storage.MealPlanPatch) error {
	current, found, err := s.storage.FetchPlain(ctx, id)
	if err != nil {
		return &UnexpectedError{Err: err}
	}
	if !found {
		return notFoundErrorf("meal plan %d not found", id)
	}

	start := current.StartDate
	if patch.ClearStartDate {
		start = nil
	} else if patch.StartDate != nil {
		start = patch.StartDate
	}

	end := current.EndDate
	if patch.ClearEndDate {
		end = nil
	} else if patch.EndDate != nil {
		end = patch.EndDate
	}

	if start != nil && end != nil && start.After(*end) {
		return validationErrorf("start_date must be before or equal to end_date")
	}
	return nil
}

func parseOptionalDate(raw *string, field string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *raw)
	if err != nil {
		return nil, validationErrorf("%s must be a valid date in YYYY-MM-DD format", field)
	}
	return &t, nil
}
