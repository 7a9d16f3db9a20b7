package mealplans

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/auth"
)

// Handler handles HTTP requests for meal plans.
type Handler struct {
	service *Service
}

// NewHandler creates a new meal plans handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleList handles GET /v1/meal-plans
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	plans, err := h.service.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"meal_plans": plans})
}

// HandleCreate handles POST /v1/meal-plans
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	var req CreateMealPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	plan, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, plan)
}

// HandleResolveView handles GET /v1/meal-plans/{id}
//
// Query: viewMode (full|day|week|month, default full), filterDate,
// filterStartDate, filterEndDate, filterYear, filterMonth, mealType,
// groupByMealType, includeRecipes, includeStatistics.
func (h *Handler) HandleResolveView(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	query, err := ParseViewQuery(r.URL.Query())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	envelope, err := h.service.ResolveView(r.Context(), r.PathValue("id"), query, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope)
}

// HandleStatistics handles GET /v1/meal-plans/{id}/statistics
func (h *Handler) HandleStatistics(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	stats, err := h.service.Statistics(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"statistics": stats,
	})
}

// HandleUpdate handles PATCH /v1/meal-plans/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	var req UpdateMealPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	plan, err := h.service.Update(r.Context(), r.PathValue("id"), userID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

// HandleDelete handles DELETE /v1/meal-plans/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	if err := h.service.Delete(r.Context(), r.PathValue("id"), userID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleAddRecipe handles POST /v1/meal-plans/{id}/recipes
func (h *Handler) HandleAddRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	var req AddRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	assignment, err := h.service.AddRecipe(r.Context(), r.PathValue("id"), userID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, assignment)
}

// HandleRemoveRecipe handles DELETE /v1/meal-plans/{id}/recipes/{assignmentId}
func (h *Handler) HandleRemoveRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	err := h.service.RemoveRecipe(r.Context(), r.PathValue("id"), r.PathValue("assignmentId"), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeServiceError maps the domain error taxonomy to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *ValidationError
	var notFoundErr *NotFoundError
	var forbiddenErr *ForbiddenError

	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
	case errors.As(err, &notFoundErr):
		writeError(w, http.StatusNotFound, "not_found", notFoundErr.Message)
	case errors.As(err, &forbiddenErr):
		writeError(w, http.StatusForbidden, "forbidden", forbiddenErr.Message)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "Unexpected error")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
