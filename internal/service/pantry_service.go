package service

import (
	"context"
	"errors"

	"pantrypal/meal-planner/internal/domain"
	"pantrypal/meal-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrPantryItemNotFound = errors.New("pantry item not found")

type PantryService interface {
	AddItem(ctx context.Context, userID, groupID primitive.ObjectID, ingredient, quantity, unit string) (*domain.PantryItem, error)
	ListItems(ctx context.Context, userID, groupID primitive.ObjectID) ([]domain.PantryItem, error)
	UpdateItem(ctx context.Context, userID, groupID, itemID primitive.ObjectID, update repository.PantryItemUpdate) (*domain.PantryItem, error)
	DeleteItem(ctx context.Context, userID, groupID, itemID primitive.ObjectID) error
}

// pantryService implements the PantryService interface.
type pantryService struct {
	pantryRepo repository.PantryRepository
	userRepo   repository.UserRepository
	groupRepo  repository.GroupRepository
}

// NewPantryService creates a new instance of pantryService.
func NewPantryService(
	pantryRepo repository.PantryRepository,
	userRepo repository.UserRepository,
	groupRepo repository.GroupRepository,
) PantryService {
	return &pantryService{
		pantryRepo: pantryRepo,
		userRepo:   userRepo,
		groupRepo:  groupRepo,
	}
}

// AddItem stores a pantry item for the group.
func (s *pantryService) AddItem(ctx context.Context, userID, groupID primitive.ObjectID, ingredient, quantity, unit string) (*domain.PantryItem, error) {
	if err := requireMembership(ctx, s.userRepo, s.groupRepo, userID, groupID, true); err != nil {
		return nil, err
	}
	if ingredient == "" {
		return nil, errors.New("ingredient is required")
	}

	item := &domain.PantryItem{
		GroupID:    groupID,
		Ingredient: ingredient,
		Quantity:   quantity,
		Unit:       unit,
	}
	itemID, err := s.pantryRepo.Create(ctx, item)
	if err != nil {
		return nil, err
	}
	item.ID = itemID
	return item, nil
}

// ListItems returns the group's pantry sorted by ingredient name.
func (s *pantryService) ListItems(ctx context.Context, userID, groupID primitive.ObjectID) ([]domain.PantryItem, error) {
	if err := requireMembership(ctx, s.userRepo, s.groupRepo, userID, groupID, true); err != nil {
		return nil, err
	}
	return s.pantryRepo.ListByGroupID(ctx, groupID)
}

// UpdateItem patches the named fields on a pantry item.
func (s *pantryService) UpdateItem(ctx context.Context, userID, groupID, itemID primitive.ObjectID, update repository.PantryItemUpdate) (*domain.PantryItem, error) {
	if err := requireMembership(ctx, s.userRepo, s.groupRepo, userID, groupID, false); err != nil {
		return nil, err
	}

	item, err := s.pantryRepo.UpdateItem(ctx, groupID, itemID, update)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPantryItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// DeleteItem removes a pantry item.
func (s *pantryService) DeleteItem(ctx context.Context, userID, groupID, itemID primitive.ObjectID) error {
	if err := requireMembership(ctx, s.userRepo, s.groupRepo, userID, groupID, false); err != nil {
		return err
	}

	err := s.pantryRepo.DeleteItem(ctx, groupID, itemID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPantryItemNotFound
	}
	return err
}
