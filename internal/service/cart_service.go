package service

import (
	"context"
	"errors"
	"time"

	"pantrypal/meal-planner/internal/domain"
	"pantrypal/meal-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrPlanNotFound     = errors.New("no plan found for this week")
	ErrCartItemNotFound = errors.New("cart item not found")
)

type CartService interface {
	// GenerateCart derives the group's shopping cart from the week plan for
	// weekStart, replacing whatever cart the group had. When no plan exists
	// for that week it returns ErrPlanNotFound and leaves the cart alone.
	GenerateCart(ctx context.Context, userID, groupID primitive.ObjectID, weekStart time.Time) ([]domain.ShoppingCartItem, error)
	GetCart(ctx context.Context, userID, groupID primitive.ObjectID) ([]domain.ShoppingCartItem, error)
	UpdateItem(ctx context.Context, userID, groupID, itemID primitive.ObjectID, update repository.CartItemUpdate) (*domain.ShoppingCartItem, error)
	DeleteItem(ctx context.Context, userID, groupID, itemID primitive.ObjectID) error
}

// cartService implements the CartService interface.
type cartService struct {
	cartRepo   repository.ShoppingCartRepository
	planRepo   repository.WeekPlanRepository
	recipeRepo repository.RecipeRepository
	userRepo   repository.UserRepository
	groupRepo  repository.GroupRepository
}

// NewCartService creates a new instance of cartService.
func NewCartService(
	cartRepo repository.ShoppingCartRepository,
	planRepo repository.WeekPlanRepository,
	recipeRepo repository.RecipeRepository,
	userRepo repository.UserRepository,
	groupRepo repository.GroupRepository,
) CartService {
	return &cartService{
		cartRepo:   cartRepo,
		planRepo:   planRepo,
		recipeRepo: recipeRepo,
		userRepo:   userRepo,
		groupRepo:  groupRepo,
	}
}

// GenerateCart runs the aggregation pipeline: resolve the plan, explode each
// assignment's recipe ingredients into line items, then atomically replace
// the group's cart with the result.
func (s *cartService) GenerateCart(ctx context.Context, userID, groupID primitive.ObjectID, weekStart time.Time) ([]domain.ShoppingCartItem, error) {
	if err := requireMembership(ctx, s.userRepo, s.groupRepo, userID, groupID, true); err != nil {
		return nil, err
	}

	plan, err := s.planRepo.GetByGroupAndWeek(ctx, groupID, weekStart)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	recipesByID, err := s.recipesForAssignments(ctx, plan.Assignments)
	if err != nil {
		return nil, err
	}

	items := buildCartItems(plan.Assignments, recipesByID)
	return s.cartRepo.ReplaceAll(ctx, groupID, items)
}

// GetCart returns the group's current cart, ordered by category.
func (s *cartService) GetCart(ctx context.Context, userID, groupID primitive.ObjectID) ([]domain.ShoppingCartItem, error) {
	if err := requireMembership(ctx, s.userRepo, s.groupRepo, userID, groupID, true); err != nil {
		return nil, err
	}
	return s.cartRepo.GetByGroupID(ctx, groupID)
}

// UpdateItem patches a single cart item (quantity, unit, checked-off).
func (s *cartService) UpdateItem(ctx context.Context, userID, groupID, itemID primitive.ObjectID, update repository.CartItemUpdate) (*domain.ShoppingCartItem, error) {
	if err := requireMembership(ctx, s.userRepo, s.groupRepo, userID, groupID, false); err != nil {
		return nil, err
	}

	item, err := s.cartRepo.UpdateItem(ctx, groupID, itemID, update)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// DeleteItem removes a single cart item.
func (s *cartService) DeleteItem(ctx context.Context, userID, groupID, itemID primitive.ObjectID) error {
	if err := requireMembership(ctx, s.userRepo, s.groupRepo, userID, groupID, false); err != nil {
		return err
	}

	err := s.cartRepo.DeleteItem(ctx, groupID, itemID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCartItemNotFound
	}
	return err
}

func (s *cartService) recipesForAssignments(ctx context.Context, assignments []domain.MealAssignment) (map[primitive.ObjectID]domain.Recipe, error) {
	ids := make([]primitive.ObjectID, 0, len(assignments))
	seen := make(map[primitive.ObjectID]bool, len(assignments))
	for _, a := range assignments {
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

// buildCartItems explodes every assignment's recipe ingredients into cart
// line items. One line item per ingredient occurrence: two recipes that both
// need garlic produce two rows, never a merged one. An assignment whose
// recipe is missing from recipesByID contributes nothing.
//
// Free-text entries become name = the text, quantity "1", unit "unit".
// Structured entries fall back per field: empty name -> "Unknown", empty
// quantity -> "1", unit may stay empty. Every item is tagged MISC; rule-based
// categorization is a pending improvement, not done here.
func buildCartItems(assignments []domain.MealAssignment, recipesByID map[primitive.ObjectID]domain.Recipe) []domain.ShoppingCartItem {
	items := []domain.ShoppingCartItem{}

	for _, assignment := range assignments {
		recipe, ok := recipesByID[assignment.RecipeID]
		if !ok {
			continue
		}

		for _, entry := range recipe.Ingredients {
			switch entry.Kind {
			case domain.IngredientFreeText:
				items = append(items, domain.ShoppingCartItem{
					Ingredient: entry.Text,
					Quantity:   "1",
					Unit:       "unit",
					Category:   domain.CategoryMisc,
				})
			case domain.IngredientStructured:
				name := entry.Name
				if name == "" {
					name = "Unknown"
				}
				quantity := entry.Quantity
				if quantity == "" {
					quantity = "1"
				}
				items = append(items, domain.ShoppingCartItem{
					Ingredient: name,
					Quantity:   quantity,
					Unit:       entry.Unit,
					Category:   domain.CategoryMisc,
				})
			}
		}
	}

	return items
}
