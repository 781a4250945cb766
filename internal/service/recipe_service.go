package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pantrypal/meal-planner/internal/domain"
	"pantrypal/meal-planner/internal/repository"
	"pantrypal/meal-planner/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrRecipeAccessDenied = errors.New("access denied to this recipe")
	ErrRecipeLimitReached = errors.New("recipe limit reached for this account")
)

// RecipeInput carries the writable recipe fields from the API layer.
type RecipeInput struct {
	Title       string
	SourceURL   string
	ImageURL    string
	Servings    int
	Ingredients []domain.IngredientEntry
	Steps       []string
	GroupID     *primitive.ObjectID
}

// ImageUploadTicket is a presigned PUT URL plus the object key the backend
// will serve the image from afterwards.
type ImageUploadTicket struct {
	ObjectKey string
	UploadURL string
}

type RecipeService interface {
	CreateRecipe(ctx context.Context, userID primitive.ObjectID, input RecipeInput) (*domain.Recipe, error)
	GetRecipe(ctx context.Context, userID, recipeID primitive.ObjectID) (*domain.Recipe, error)
	ListRecipes(ctx context.Context, userID primitive.ObjectID, groupID *primitive.ObjectID) ([]domain.Recipe, error)
	UpdateRecipe(ctx context.Context, userID, recipeID primitive.ObjectID, input RecipeInput) (*domain.Recipe, error)
	DeleteRecipe(ctx context.Context, userID, recipeID primitive.ObjectID) error
	// RequestImageUpload issues a presigned URL the client PUTs the recipe
	// photo to. The returned key goes into the recipe's imageUrl field.
	RequestImageUpload(ctx context.Context, userID primitive.ObjectID, contentType string) (*ImageUploadTicket, error)
	ImageDownloadURL(ctx context.Context, objectKey string) (string, error)
}

// recipeService implements the RecipeService interface.
type recipeService struct {
	recipeRepo  repository.RecipeRepository
	userRepo    repository.UserRepository
	groupRepo   repository.GroupRepository
	fileStorage storage.FileStorage
}

// NewRecipeService creates a new instance of recipeService.
func NewRecipeService(
	recipeRepo repository.RecipeRepository,
	userRepo repository.UserRepository,
	groupRepo repository.GroupRepository,
	fileStorage storage.FileStorage,
) RecipeService {
	return &recipeService{
		recipeRepo:  recipeRepo,
		userRepo:    userRepo,
		groupRepo:   groupRepo,
		fileStorage: fileStorage,
	}
}

// CreateRecipe stores a new recipe, enforcing the per-tier recipe cap.
func (s *recipeService) CreateRecipe(ctx context.Context, userID primitive.ObjectID, input RecipeInput) (*domain.Recipe, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	count, err := s.recipeRepo.CountByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count >= int64(user.MaxRecipesAllowed) {
		return nil, ErrRecipeLimitReached
	}

	if input.GroupID != nil {
		if err := requireMembership(ctx, s.userRepo, s.groupRepo, userID, *input.GroupID, false); err != nil {
			return nil, err
		}
	}

	title := input.Title
	if title == "" {
		title = "Untitled Recipe"
	}
	recipe := &domain.Recipe{
		UserID:      userID,
		GroupID:     input.GroupID,
		Title:       title,
		SourceURL:   input.SourceURL,
		ImageURL:    input.ImageURL,
		Servings:    input.Servings,
		Ingredients: input.Ingredients,
		Steps:       input.Steps,
	}

	recipeID, err := s.recipeRepo.Create(ctx, recipe)
	if err != nil {
		return nil, err
	}
	recipe.ID = recipeID
	return recipe, nil
}

// GetRecipe retrieves a recipe readable by the user: the owner, or any
// member of the group it is shared with.
func (s *recipeService) GetRecipe(ctx context.Context, userID, recipeID primitive.ObjectID) (*domain.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	if recipe.UserID != userID {
		if recipe.GroupID == nil {
			return nil, ErrRecipeAccessDenied
		}
		if err := requireMembership(ctx, s.userRepo, s.groupRepo, userID, *recipe.GroupID, false); err != nil {
			return nil, ErrRecipeAccessDenied
		}
	}
	return recipe, nil
}

// ListRecipes lists the user's recipes, optionally widened to a group.
func (s *recipeService) ListRecipes(ctx context.Context, userID primitive.ObjectID, groupID *primitive.ObjectID) ([]domain.Recipe, error) {
	return s.recipeRepo.List(ctx, userID, groupID)
}

// UpdateRecipe replaces the editable fields. Owner only.
func (s *recipeService) UpdateRecipe(ctx context.Context, userID, recipeID primitive.ObjectID, input RecipeInput) (*domain.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	if recipe.UserID != userID {
		return nil, ErrRecipeAccessDenied
	}

	recipe.Title = input.Title
	recipe.Ingredients = input.Ingredients
	recipe.Steps = input.Steps
	recipe.Servings = input.Servings
	recipe.ImageURL = input.ImageURL
	recipe.SourceURL = input.SourceURL

	if err := s.recipeRepo.Update(ctx, recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

// DeleteRecipe removes a recipe. Owner only.
func (s *recipeService) DeleteRecipe(ctx context.Context, userID, recipeID primitive.ObjectID) error {
	recipe, err := s.recipeRepo.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}
	if recipe.UserID != userID {
		return ErrRecipeAccessDenied
	}
	if err := s.recipeRepo.Delete(ctx, recipeID); err != nil {
		return err
	}

	// Clean up the stored photo. ImageURL may also hold an external URL
	// pasted by the user; only our own object keys are deleted, and a
	// storage failure does not undo the recipe deletion.
	if strings.HasPrefix(recipe.ImageURL, "recipe-images/") {
		_ = s.fileStorage.DeleteObject(ctx, recipe.ImageURL)
	}
	return nil
}

// RequestImageUpload issues a presigned PUT URL for a recipe photo.
func (s *recipeService) RequestImageUpload(ctx context.Context, userID primitive.ObjectID, contentType string) (*ImageUploadTicket, error) {
	if contentType == "" {
		contentType = "image/jpeg"
	}

	objectKey := fmt.Sprintf("recipe-images/%s/%s", userID.Hex(), uuid.NewString())
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}

	return &ImageUploadTicket{ObjectKey: objectKey, UploadURL: uploadURL}, nil
}

// ImageDownloadURL resolves a stored object key to a temporary GET URL.
func (s *recipeService) ImageDownloadURL(ctx context.Context, objectKey string) (string, error) {
	if objectKey == "" {
		return "", errors.New("object key is required")
	}
	return s.fileStorage.GeneratePresignedDownloadURL(ctx, objectKey, time.Hour)
}
