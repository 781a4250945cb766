package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"pantrypal/meal-planner/internal/domain"
	"pantrypal/meal-planner/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Week-start dates travel as YYYY-MM-DD (the Monday of the target week).
const weekStartLayout = "2006-01-02"

// parseWeekStart normalizes a week-start string to UTC midnight.
func parseWeekStart(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errors.New("weekStartDate is required")
	}
	t, err := time.Parse(weekStartLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("weekStartDate must be in %s form", weekStartLayout)
	}
	return t.UTC(), nil
}

// PlanHandler holds the plan service dependency.
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- DTOs ---

type AssignmentRequest struct {
	RecipeID   string `json:"recipeId" binding:"required"`
	Day        string `json:"day" binding:"required,oneof=Mon Tue Wed Thu Fri Sat Sun"`
	Slot       string `json:"slot" binding:"required,oneof=BREAKFAST LUNCH DINNER SNACK DESSERT"`
	IsLeftover bool   `json:"isLeftover"`
}

type SaveWeekPlanRequest struct {
	WeekStartDate string              `json:"weekStartDate" binding:"required"`
	Assignments   []AssignmentRequest `json:"assignments" binding:"required"`
}

// RecipeSummary is the compact recipe form the planning screen shows.
type RecipeSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl,omitempty"`
	Servings int    `json:"servings"`
}

type AssignmentResponse struct {
	RecipeID   string          `json:"recipeId"`
	Day        domain.Weekday  `json:"day"`
	Slot       domain.MealSlot `json:"slot"`
	IsLeftover bool            `json:"isLeftover"`
	Recipe     *RecipeSummary  `json:"recipe,omitempty"`
}

// WeekPlanResponse always carries an assignments array; a week with no plan
// yet renders as an empty one.
type WeekPlanResponse struct {
	ID            string               `json:"id,omitempty"`
	GroupID       string               `json:"groupId,omitempty"`
	WeekStartDate string               `json:"weekStartDate,omitempty"`
	Assignments   []AssignmentResponse `json:"assignments"`
}

// MapWeekPlanToResponse converts a plan view to its DTO.
func MapWeekPlanToResponse(view *service.WeekPlanView) WeekPlanResponse {
	resp := WeekPlanResponse{Assignments: []AssignmentResponse{}}
	if view == nil || view.Plan == nil {
		return resp
	}

	resp.ID = view.Plan.ID.Hex()
	resp.GroupID = view.Plan.GroupID.Hex()
	resp.WeekStartDate = view.Plan.WeekStartDate.Format(weekStartLayout)

	for _, a := range view.Plan.Assignments {
		ar := AssignmentResponse{
			RecipeID:   a.RecipeID.Hex(),
			Day:        a.Day,
			Slot:       a.Slot,
			IsLeftover: a.IsLeftover,
		}
		if recipe, ok := view.Recipes[a.RecipeID]; ok {
			ar.Recipe = &RecipeSummary{
				ID:       recipe.ID.Hex(),
				Title:    recipe.Title,
				ImageURL: recipe.ImageURL,
				Servings: recipe.Servings,
			}
		}
		resp.Assignments = append(resp.Assignments, ar)
	}
	return resp
}

// abortForGroupAccessError maps the shared access errors to HTTP statuses.
// Returns true when it handled the error.
func abortForGroupAccessError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, service.ErrNotGroupMember):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrPaidFeature):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrGroupNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		return false
	}
	return true
}

// --- Handler Methods ---

// GetWeekPlan returns the plan for ?weekStartDate=YYYY-MM-DD, or an
// empty-assignments placeholder when none exists yet.
func (h *PlanHandler) GetWeekPlan(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	groupID, err := groupIDParam(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid group ID format.")
		return
	}
	weekStart, err := parseWeekStart(c.Query("weekStartDate"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.planService.GetWeekPlan(c.Request.Context(), userID, groupID, weekStart)
	if err != nil {
		if !abortForGroupAccessError(c, err) {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve week plan.")
		}
		return
	}

	c.JSON(http.StatusOK, MapWeekPlanToResponse(view))
}

// SaveWeekPlan stores the full assignment set for a week, replacing whatever
// the plan held before.
func (h *PlanHandler) SaveWeekPlan(c *gin.Context) {
	var req SaveWeekPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	groupID, err := groupIDParam(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid group ID format.")
		return
	}
	weekStart, err := parseWeekStart(req.WeekStartDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	assignments := make([]domain.MealAssignment, 0, len(req.Assignments))
	for _, a := range req.Assignments {
		recipeID, err := primitive.ObjectIDFromHex(a.RecipeID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid recipe ID %q.", a.RecipeID))
			return
		}
		assignments = append(assignments, domain.MealAssignment{
			RecipeID:   recipeID,
			Day:        domain.Weekday(a.Day),
			Slot:       domain.MealSlot(a.Slot),
			IsLeftover: a.IsLeftover,
		})
	}

	view, err := h.planService.SaveWeekPlan(c.Request.Context(), userID, groupID, weekStart, assignments)
	if err != nil {
		if !abortForGroupAccessError(c, err) {
			abortWithError(c, http.StatusInternalServerError, "Failed to save week plan.")
		}
		return
	}

	c.JSON(http.StatusOK, MapWeekPlanToResponse(view))
}
