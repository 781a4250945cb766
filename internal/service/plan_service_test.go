package service

import (
	"context"
	"testing"
	"time"

	"pantrypal/meal-planner/internal/domain"
	"pantrypal/meal-planner/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type planFixture struct {
	userID   primitive.ObjectID
	groupID  primitive.ObjectID
	userRepo *mockUserRepo
	group    *mockGroupRepo
	plans    *mockWeekPlanRepo
	recipes  *mockRecipeRepo
}

func newPlanFixture() *planFixture {
	userID := primitive.NewObjectID()
	groupID := primitive.NewObjectID()
	return &planFixture{
		userID:   userID,
		groupID:  groupID,
		userRepo: paidUserRepo(userID),
		group:    memberGroupRepo(groupID, userID),
		plans:    &mockWeekPlanRepo{},
		recipes:  &mockRecipeRepo{},
	}
}

func (f *planFixture) service() PlanService {
	return NewPlanService(f.plans, f.recipes, f.userRepo, f.group)
}

func TestGetWeekPlan_MissingPlanIsNotAnError(t *testing.T) {
	f := newPlanFixture()
	f.plans.GetByGroupAndWeekFn = func(ctx context.Context, groupID primitive.ObjectID, weekStart time.Time) (*domain.WeekPlan, error) {
		return nil, repository.ErrNotFound
	}

	view, err := f.service().GetWeekPlan(context.Background(), f.userID, f.groupID, weekOf("2025-06-02"))
	require.NoError(t, err)

	// The planning screen shows an empty week, not a 404.
	assert.Nil(t, view.Plan)
	assert.Empty(t, view.Recipes)
}

func TestGetWeekPlan_JoinsRecipeSummaries(t *testing.T) {
	f := newPlanFixture()
	recipeID := primitive.NewObjectID()
	goneID := primitive.NewObjectID()

	f.plans.GetByGroupAndWeekFn = func(ctx context.Context, groupID primitive.ObjectID, weekStart time.Time) (*domain.WeekPlan, error) {
		return &domain.WeekPlan{
			ID:            primitive.NewObjectID(),
			GroupID:       groupID,
			WeekStartDate: weekStart,
			Assignments: []domain.MealAssignment{
				{RecipeID: recipeID, Day: domain.DayMon, Slot: domain.SlotDinner},
				{RecipeID: recipeID, Day: domain.DayTue, Slot: domain.SlotLunch, IsLeftover: true},
				{RecipeID: goneID, Day: domain.DayWed, Slot: domain.SlotDinner},
			},
		}, nil
	}

	var requestedIDs []primitive.ObjectID
	f.recipes.GetByIDsFn = func(ctx context.Context, ids []primitive.ObjectID) ([]domain.Recipe, error) {
		requestedIDs = ids
		return []domain.Recipe{{ID: recipeID, Title: "Lasagna", Servings: 4}}, nil
	}

	view, err := f.service().GetWeekPlan(context.Background(), f.userID, f.groupID, weekOf("2025-06-02"))
	require.NoError(t, err)
	require.NotNil(t, view.Plan)

	// The two lasagna assignments share one fetch; the deleted recipe is
	// simply absent from the join.
	assert.ElementsMatch(t, []primitive.ObjectID{recipeID, goneID}, requestedIDs)
	assert.Len(t, view.Plan.Assignments, 3)
	assert.Len(t, view.Recipes, 1)
	assert.Equal(t, "Lasagna", view.Recipes[recipeID].Title)
}

func TestSaveWeekPlan_ReplacesAssignmentSet(t *testing.T) {
	f := newPlanFixture()
	planID := primitive.NewObjectID()
	recipeID := primitive.NewObjectID()
	weekStart := weekOf("2025-06-02")

	newAssignments := []domain.MealAssignment{
		{RecipeID: recipeID, Day: domain.DaySat, Slot: domain.SlotBreakfast},
	}

	var replaced []domain.MealAssignment
	f.plans.UpsertFn = func(ctx context.Context, groupID primitive.ObjectID, ws time.Time) (*domain.WeekPlan, error) {
		assert.Equal(t, weekStart, ws)
		return &domain.WeekPlan{ID: planID, GroupID: groupID, WeekStartDate: ws}, nil
	}
	f.plans.ReplaceAssignmentsFn = func(ctx context.Context, pID primitive.ObjectID, assignments []domain.MealAssignment) error {
		assert.Equal(t, planID, pID)
		replaced = assignments
		return nil
	}
	f.plans.GetByGroupAndWeekFn = func(ctx context.Context, groupID primitive.ObjectID, ws time.Time) (*domain.WeekPlan, error) {
		return &domain.WeekPlan{ID: planID, GroupID: groupID, WeekStartDate: ws, Assignments: replaced}, nil
	}
	f.recipes.GetByIDsFn = func(ctx context.Context, ids []primitive.ObjectID) ([]domain.Recipe, error) {
		return []domain.Recipe{{ID: recipeID, Title: "Pancakes"}}, nil
	}

	view, err := f.service().SaveWeekPlan(context.Background(), f.userID, f.groupID, weekStart, newAssignments)
	require.NoError(t, err)

	assert.Equal(t, newAssignments, replaced)
	require.NotNil(t, view.Plan)
	assert.Equal(t, newAssignments, view.Plan.Assignments)
}

func TestSaveWeekPlan_RequiresPaidTier(t *testing.T) {
	f := newPlanFixture()
	f.userRepo.GetByIDFn = func(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
		return &domain.User{ID: id, SubscriptionTier: domain.TierFree}, nil
	}

	_, err := f.service().SaveWeekPlan(context.Background(), f.userID, f.groupID, weekOf("2025-06-02"), nil)
	assert.ErrorIs(t, err, ErrPaidFeature)
}
