package repository

import (
	"context"
	"time"

	"pantrypal/meal-planner/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("already exists")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	UpdateSubscription(ctx context.Context, id primitive.ObjectID, tier domain.SubscriptionTier, maxRecipes int) error
}

// GroupRepository defines the interface for interacting with groups and
// their memberships.
type GroupRepository interface {
	Create(ctx context.Context, group *domain.Group) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Group, error)
	ListByMember(ctx context.Context, userID primitive.ObjectID) ([]domain.Group, error)
	AddMember(ctx context.Context, member *domain.GroupMember) error
	GetMember(ctx context.Context, groupID, userID primitive.ObjectID) (*domain.GroupMember, error)
	ListMembers(ctx context.Context, groupID primitive.ObjectID) ([]domain.GroupMember, error)
}

// RecipeRepository defines the interface for interacting with recipe data.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *domain.Recipe) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Recipe, error)
	// GetByIDs returns the recipes that exist among ids; missing ids are
	// simply absent from the result, not an error.
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Recipe, error)
	List(ctx context.Context, userID primitive.ObjectID, groupID *primitive.ObjectID) ([]domain.Recipe, error)
	CountByOwner(ctx context.Context, userID primitive.ObjectID) (int64, error)
	Update(ctx context.Context, recipe *domain.Recipe) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// WeekPlanRepository defines the interface for interacting with week plans.
// Assignments are embedded in the plan document, so replacement is atomic.
type WeekPlanRepository interface {
	GetByGroupAndWeek(ctx context.Context, groupID primitive.ObjectID, weekStart time.Time) (*domain.WeekPlan, error)
	// Upsert creates the plan for (group, week) on first write and returns
	// the stored plan either way.
	Upsert(ctx context.Context, groupID primitive.ObjectID, weekStart time.Time) (*domain.WeekPlan, error)
	// ReplaceAssignments destroys the plan's prior assignment set and
	// installs the new one as a single atomic step.
	ReplaceAssignments(ctx context.Context, planID primitive.ObjectID, assignments []domain.MealAssignment) error
}

// CartItemUpdate carries the patchable fields of a cart item. Nil fields are
// left untouched.
type CartItemUpdate struct {
	Quantity   *string
	Unit       *string
	CheckedOff *bool
}

// ShoppingCartRepository defines the interface for a group's shopping cart.
// All operations are scoped to a single group.
type ShoppingCartRepository interface {
	// ReplaceAll deletes every item the group has and inserts items as one
	// transactional unit, then returns the stored set ordered by category.
	ReplaceAll(ctx context.Context, groupID primitive.ObjectID, items []domain.ShoppingCartItem) ([]domain.ShoppingCartItem, error)
	GetByGroupID(ctx context.Context, groupID primitive.ObjectID) ([]domain.ShoppingCartItem, error)
	UpdateItem(ctx context.Context, groupID, itemID primitive.ObjectID, update CartItemUpdate) (*domain.ShoppingCartItem, error)
	DeleteItem(ctx context.Context, groupID, itemID primitive.ObjectID) error
}

// PantryItemUpdate carries the patchable fields of a pantry item.
type PantryItemUpdate struct {
	Ingredient *string
	Quantity   *string
	Unit       *string
}

// PantryRepository defines the interface for a group's pantry.
type PantryRepository interface {
	Create(ctx context.Context, item *domain.PantryItem) (primitive.ObjectID, error)
	ListByGroupID(ctx context.Context, groupID primitive.ObjectID) ([]domain.PantryItem, error)
	UpdateItem(ctx context.Context, groupID, itemID primitive.ObjectID, update PantryItemUpdate) (*domain.PantryItem, error)
	DeleteItem(ctx context.Context, groupID, itemID primitive.ObjectID) error
}
