package service

import (
	"context"
	"errors"
	"time"

	"pantrypal/meal-planner/internal/domain"
	"pantrypal/meal-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WeekPlanView is a plan with each assignment's recipe summary attached, as
// the planning screen renders it.
type WeekPlanView struct {
	Plan    *domain.WeekPlan // nil when no plan exists yet for the week
	Recipes map[primitive.ObjectID]domain.Recipe
}

type PlanService interface {
	// GetWeekPlan returns the plan for (group, week). When none exists it
	// returns a view with a nil Plan rather than an error: the planning UI
	// shows an empty week, it does not 404.
	GetWeekPlan(ctx context.Context, userID, groupID primitive.ObjectID, weekStart time.Time) (*WeekPlanView, error)
	// SaveWeekPlan upserts the plan for (group, week) and replaces its whole
	// assignment set atomically. Every edit resubmits the full week.
	SaveWeekPlan(ctx context.Context, userID, groupID primitive.ObjectID, weekStart time.Time, assignments []domain.MealAssignment) (*WeekPlanView, error)
}

// planService implements the PlanService interface.
type planService struct {
	planRepo   repository.WeekPlanRepository
	recipeRepo repository.RecipeRepository
	userRepo   repository.UserRepository
	groupRepo  repository.GroupRepository
}

// NewPlanService creates a new instance of planService.
func NewPlanService(
	planRepo repository.WeekPlanRepository,
	recipeRepo repository.RecipeRepository,
	userRepo repository.UserRepository,
	groupRepo repository.GroupRepository,
) PlanService {
	return &planService{
		planRepo:   planRepo,
		recipeRepo: recipeRepo,
		userRepo:   userRepo,
		groupRepo:  groupRepo,
	}
}

// GetWeekPlan retrieves the plan with recipe summaries joined in.
func (s *planService) GetWeekPlan(ctx context.Context, userID, groupID primitive.ObjectID, weekStart time.Time) (*WeekPlanView, error) {
	if err := requireMembership(ctx, s.userRepo, s.groupRepo, userID, groupID, true); err != nil {
		return nil, err
	}

	plan, err := s.planRepo.GetByGroupAndWeek(ctx, groupID, weekStart)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &WeekPlanView{Recipes: map[primitive.ObjectID]domain.Recipe{}}, nil
		}
		return nil, err
	}

	recipes, err := s.recipesForPlan(ctx, plan)
	if err != nil {
		return nil, err
	}
	return &WeekPlanView{Plan: plan, Recipes: recipes}, nil
}

// SaveWeekPlan performs the wholesale assignment replacement.
func (s *planService) SaveWeekPlan(ctx context.Context, userID, groupID primitive.ObjectID, weekStart time.Time, assignments []domain.MealAssignment) (*WeekPlanView, error) {
	if err := requireMembership(ctx, s.userRepo, s.groupRepo, userID, groupID, true); err != nil {
		return nil, err
	}

	plan, err := s.planRepo.Upsert(ctx, groupID, weekStart)
	if err != nil {
		return nil, err
	}
	if err := s.planRepo.ReplaceAssignments(ctx, plan.ID, assignments); err != nil {
		return nil, err
	}

	plan, err = s.planRepo.GetByGroupAndWeek(ctx, groupID, weekStart)
	if err != nil {
		return nil, err
	}
	recipes, err := s.recipesForPlan(ctx, plan)
	if err != nil {
		return nil, err
	}
	return &WeekPlanView{Plan: plan, Recipes: recipes}, nil
}

// recipesForPlan batch-fetches the recipes the plan's assignments reference.
// Assignments whose recipe no longer exists stay in the plan; they simply
// have no entry in the returned map.
func (s *planService) recipesForPlan(ctx context.Context, plan *domain.WeekPlan) (map[primitive.ObjectID]domain.Recipe, error) {
	ids := make([]primitive.ObjectID, 0, len(plan.Assignments))
	seen := make(map[primitive.ObjectID]bool, len(plan.Assignments))
	for _, a := range plan.Assignments {
		if !seen[a.RecipeID] {
			seen[a.RecipeID] = true
			ids = append(ids, a.RecipeID)
		}
	}

	recipes, err := s.recipeRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]domain.Recipe, len(recipes))
	for _, r := range recipes {
		byID[r.ID] = r
	}
	return byID, nil
}
