package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pantrypal/meal-planner/internal/domain"
	"pantrypal/meal-planner/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockRecipeService struct {
	CreateRecipeFn       func(ctx context.Context, userID primitive.ObjectID, input service.RecipeInput) (*domain.Recipe, error)
	GetRecipeFn          func(ctx context.Context, userID, recipeID primitive.ObjectID) (*domain.Recipe, error)
	ListRecipesFn        func(ctx context.Context, userID primitive.ObjectID, groupID *primitive.ObjectID) ([]domain.Recipe, error)
	UpdateRecipeFn       func(ctx context.Context, userID, recipeID primitive.ObjectID, input service.RecipeInput) (*domain.Recipe, error)
	DeleteRecipeFn       func(ctx context.Context, userID, recipeID primitive.ObjectID) error
	RequestImageUploadFn func(ctx context.Context, userID primitive.ObjectID, contentType string) (*service.ImageUploadTicket, error)
	ImageDownloadURLFn   func(ctx context.Context, objectKey string) (string, error)
}

func (m *mockRecipeService) CreateRecipe(ctx context.Context, userID primitive.ObjectID, input service.RecipeInput) (*domain.Recipe, error) {
	return m.CreateRecipeFn(ctx, userID, input)
}

func (m *mockRecipeService) GetRecipe(ctx context.Context, userID, recipeID primitive.ObjectID) (*domain.Recipe, error) {
	return m.GetRecipeFn(ctx, userID, recipeID)
}

func (m *mockRecipeService) ListRecipes(ctx context.Context, userID primitive.ObjectID, groupID *primitive.ObjectID) ([]domain.Recipe, error) {
	return m.ListRecipesFn(ctx, userID, groupID)
}

func (m *mockRecipeService) UpdateRecipe(ctx context.Context, userID, recipeID primitive.ObjectID, input service.RecipeInput) (*domain.Recipe, error) {
	return m.UpdateRecipeFn(ctx, userID, recipeID, input)
}

func (m *mockRecipeService) DeleteRecipe(ctx context.Context, userID, recipeID primitive.ObjectID) error {
	return m.DeleteRecipeFn(ctx, userID, recipeID)
}

func (m *mockRecipeService) RequestImageUpload(ctx context.Context, userID primitive.ObjectID, contentType string) (*service.ImageUploadTicket, error) {
	return m.RequestImageUploadFn(ctx, userID, contentType)
}

func (m *mockRecipeService) ImageDownloadURL(ctx context.Context, objectKey string) (string, error) {
	return m.ImageDownloadURLFn(ctx, objectKey)
}

func recipeTestRouter(svc service.RecipeService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewRecipeHandler(svc)

	recipeGroup := router.Group("/api/v1/recipes", AuthMiddleware(testSecret))
	recipeGroup.GET("/:recipeId/image-url", handler.GetImageURL)
	return router
}

func TestGetImageURL(t *testing.T) {
	userID := primitive.NewObjectID()
	recipeID := primitive.NewObjectID()
	objectKey := "recipe-images/" + userID.Hex() + "/photo"

	svc := &mockRecipeService{
		GetRecipeFn: func(ctx context.Context, uID, rID primitive.ObjectID) (*domain.Recipe, error) {
			assert.Equal(t, userID, uID)
			assert.Equal(t, recipeID, rID)
			return &domain.Recipe{ID: recipeID, UserID: userID, ImageURL: objectKey}, nil
		},
		ImageDownloadURLFn: func(ctx context.Context, key string) (string, error) {
			assert.Equal(t, objectKey, key)
			return "https://bucket.example.com/get?sig=abc", nil
		},
	}
	router := recipeTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes/"+recipeID.Hex()+"/image-url", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, userID.Hex(), time.Hour))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"downloadUrl": "https://bucket.example.com/get?sig=abc"}`, w.Body.String())
}

func TestGetImageURL_NoImage(t *testing.T) {
	userID := primitive.NewObjectID()
	recipeID := primitive.NewObjectID()

	svc := &mockRecipeService{
		GetRecipeFn: func(ctx context.Context, uID, rID primitive.ObjectID) (*domain.Recipe, error) {
			return &domain.Recipe{ID: recipeID, UserID: userID}, nil
		},
	}
	router := recipeTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes/"+recipeID.Hex()+"/image-url", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, userID.Hex(), time.Hour))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetImageURL_RecipeNotFound(t *testing.T) {
	userID := primitive.NewObjectID()

	svc := &mockRecipeService{
		GetRecipeFn: func(ctx context.Context, uID, rID primitive.ObjectID) (*domain.Recipe, error) {
			return nil, service.ErrRecipeNotFound
		},
	}
	router := recipeTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes/"+primitive.NewObjectID().Hex()+"/image-url", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, userID.Hex(), time.Hour))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
