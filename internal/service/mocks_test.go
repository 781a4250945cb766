package service

import (
	"context"
	"time"

	"pantrypal/meal-planner/internal/domain"
	"pantrypal/meal-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Hand-written repository mocks. Only the function fields a test sets are
// callable; an unset field means the test never expects that call.

type mockUserRepo struct {
	CreateFn             func(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmailFn         func(ctx context.Context, email string) (*domain.User, error)
	GetByIDFn            func(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	UpdateSubscriptionFn func(ctx context.Context, id primitive.ObjectID, tier domain.SubscriptionTier, maxRecipes int) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	return m.CreateFn(ctx, user)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.GetByEmailFn(ctx, email)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return m.GetByIDFn(ctx, id)
}

func (m *mockUserRepo) UpdateSubscription(ctx context.Context, id primitive.ObjectID, tier domain.SubscriptionTier, maxRecipes int) error {
	return m.UpdateSubscriptionFn(ctx, id, tier, maxRecipes)
}

type mockGroupRepo struct {
	CreateFn       func(ctx context.Context, group *domain.Group) (primitive.ObjectID, error)
	GetByIDFn      func(ctx context.Context, id primitive.ObjectID) (*domain.Group, error)
	ListByMemberFn func(ctx context.Context, userID primitive.ObjectID) ([]domain.Group, error)
	AddMemberFn    func(ctx context.Context, member *domain.GroupMember) error
	GetMemberFn    func(ctx context.Context, groupID, userID primitive.ObjectID) (*domain.GroupMember, error)
	ListMembersFn  func(ctx context.Context, groupID primitive.ObjectID) ([]domain.GroupMember, error)
}

func (m *mockGroupRepo) Create(ctx context.Context, group *domain.Group) (primitive.ObjectID, error) {
	return m.CreateFn(ctx, group)
}

func (m *mockGroupRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Group, error) {
	return m.GetByIDFn(ctx, id)
}

func (m *mockGroupRepo) ListByMember(ctx context.Context, userID primitive.ObjectID) ([]domain.Group, error) {
	return m.ListByMemberFn(ctx, userID)
}

func (m *mockGroupRepo) AddMember(ctx context.Context, member *domain.GroupMember) error {
	return m.AddMemberFn(ctx, member)
}

func (m *mockGroupRepo) GetMember(ctx context.Context, groupID, userID primitive.ObjectID) (*domain.GroupMember, error) {
	return m.GetMemberFn(ctx, groupID, userID)
}

func (m *mockGroupRepo) ListMembers(ctx context.Context, groupID primitive.ObjectID) ([]domain.GroupMember, error) {
	return m.ListMembersFn(ctx, groupID)
}

type mockRecipeRepo struct {
	CreateFn       func(ctx context.Context, recipe *domain.Recipe) (primitive.ObjectID, error)
	GetByIDFn      func(ctx context.Context, id primitive.ObjectID) (*domain.Recipe, error)
	GetByIDsFn     func(ctx context.Context, ids []primitive.ObjectID) ([]domain.Recipe, error)
	ListFn         func(ctx context.Context, userID primitive.ObjectID, groupID *primitive.ObjectID) ([]domain.Recipe, error)
	CountByOwnerFn func(ctx context.Context, userID primitive.ObjectID) (int64, error)
	UpdateFn       func(ctx context.Context, recipe *domain.Recipe) error
	DeleteFn       func(ctx context.Context, id primitive.ObjectID) error
}

func (m *mockRecipeRepo) Create(ctx context.Context, recipe *domain.Recipe) (primitive.ObjectID, error) {
	return m.CreateFn(ctx, recipe)
}

func (m *mockRecipeRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Recipe, error) {
	return m.GetByIDFn(ctx, id)
}

func (m *mockRecipeRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Recipe, error) {
	return m.GetByIDsFn(ctx, ids)
}

func (m *mockRecipeRepo) List(ctx context.Context, userID primitive.ObjectID, groupID *primitive.ObjectID) ([]domain.Recipe, error) {
	return m.ListFn(ctx, userID, groupID)
}

func (m *mockRecipeRepo) CountByOwner(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return m.CountByOwnerFn(ctx, userID)
}

func (m *mockRecipeRepo) Update(ctx context.Context, recipe *domain.Recipe) error {
	return m.UpdateFn(ctx, recipe)
}

func (m *mockRecipeRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.DeleteFn(ctx, id)
}

type mockWeekPlanRepo struct {
	GetByGroupAndWeekFn  func(ctx context.Context, groupID primitive.ObjectID, weekStart time.Time) (*domain.WeekPlan, error)
	UpsertFn             func(ctx context.Context, groupID primitive.ObjectID, weekStart time.Time) (*domain.WeekPlan, error)
	ReplaceAssignmentsFn func(ctx context.Context, planID primitive.ObjectID, assignments []domain.MealAssignment) error
}

func (m *mockWeekPlanRepo) GetByGroupAndWeek(ctx context.Context, groupID primitive.ObjectID, weekStart time.Time) (*domain.WeekPlan, error) {
	return m.GetByGroupAndWeekFn(ctx, groupID, weekStart)
}

func (m *mockWeekPlanRepo) Upsert(ctx context.Context, groupID primitive.ObjectID, weekStart time.Time) (*domain.WeekPlan, error) {
	return m.UpsertFn(ctx, groupID, weekStart)
}

func (m *mockWeekPlanRepo) ReplaceAssignments(ctx context.Context, planID primitive.ObjectID, assignments []domain.MealAssignment) error {
	return m.ReplaceAssignmentsFn(ctx, planID, assignments)
}

type mockCartRepo struct {
	ReplaceAllFn   func(ctx context.Context, groupID primitive.ObjectID, items []domain.ShoppingCartItem) ([]domain.ShoppingCartItem, error)
	GetByGroupIDFn func(ctx context.Context, groupID primitive.ObjectID) ([]domain.ShoppingCartItem, error)
	UpdateItemFn   func(ctx context.Context, groupID, itemID primitive.ObjectID, update repository.CartItemUpdate) (*domain.ShoppingCartItem, error)
	DeleteItemFn   func(ctx context.Context, groupID, itemID primitive.ObjectID) error
}

func (m *mockCartRepo) ReplaceAll(ctx context.Context, groupID primitive.ObjectID, items []domain.ShoppingCartItem) ([]domain.ShoppingCartItem, error) {
	return m.ReplaceAllFn(ctx, groupID, items)
}

func (m *mockCartRepo) GetByGroupID(ctx context.Context, groupID primitive.ObjectID) ([]domain.ShoppingCartItem, error) {
	return m.GetByGroupIDFn(ctx, groupID)
}

func (m *mockCartRepo) UpdateItem(ctx context.Context, groupID, itemID primitive.ObjectID, update repository.CartItemUpdate) (*domain.ShoppingCartItem, error) {
	return m.UpdateItemFn(ctx, groupID, itemID, update)
}

func (m *mockCartRepo) DeleteItem(ctx context.Context, groupID, itemID primitive.ObjectID) error {
	return m.DeleteItemFn(ctx, groupID, itemID)
}

type mockPantryRepo struct {
	CreateFn        func(ctx context.Context, item *domain.PantryItem) (primitive.ObjectID, error)
	ListByGroupIDFn func(ctx context.Context, groupID primitive.ObjectID) ([]domain.PantryItem, error)
	UpdateItemFn    func(ctx context.Context, groupID, itemID primitive.ObjectID, update repository.PantryItemUpdate) (*domain.PantryItem, error)
	DeleteItemFn    func(ctx context.Context, groupID, itemID primitive.ObjectID) error
}

func (m *mockPantryRepo) Create(ctx context.Context, item *domain.PantryItem) (primitive.ObjectID, error) {
	return m.CreateFn(ctx, item)
}

func (m *mockPantryRepo) ListByGroupID(ctx context.Context, groupID primitive.ObjectID) ([]domain.PantryItem, error) {
	return m.ListByGroupIDFn(ctx, groupID)
}

func (m *mockPantryRepo) UpdateItem(ctx context.Context, groupID, itemID primitive.ObjectID, update repository.PantryItemUpdate) (*domain.PantryItem, error) {
	return m.UpdateItemFn(ctx, groupID, itemID, update)
}

func (m *mockPantryRepo) DeleteItem(ctx context.Context, groupID, itemID primitive.ObjectID) error {
	return m.DeleteItemFn(ctx, groupID, itemID)
}

// --- common test fixtures ---

func paidUserRepo(userID primitive.ObjectID) *mockUserRepo {
	return &mockUserRepo{
		GetByIDFn: func(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
			return &domain.User{
				ID:                userID,
				SubscriptionTier:  domain.TierPaid,
				MaxRecipesAllowed: domain.PaidMaxRecipes,
			}, nil
		},
	}
}

func memberGroupRepo(groupID, userID primitive.ObjectID) *mockGroupRepo {
	return &mockGroupRepo{
		GetMemberFn: func(ctx context.Context, gID, uID primitive.ObjectID) (*domain.GroupMember, error) {
			if gID == groupID && uID == userID {
				return &domain.GroupMember{GroupID: gID, UserID: uID, Role: domain.RoleMember}, nil
			}
			return nil, repository.ErrNotFound
		},
	}
}
