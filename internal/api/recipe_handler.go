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

// RecipeHandler holds the recipe service dependency.
type RecipeHandler struct {
	recipeService service.RecipeService
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(recipeService service.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService}
}

// --- DTOs ---

// RecipeRequest is used for both create and update. Ingredients accepts the
// stored heterogeneous shape: bare strings and structured objects mixed.
type RecipeRequest struct {
	Title       string                   `json:"title"`
	SourceURL   string                   `json:"sourceUrl" binding:"omitempty,url"`
	ImageURL    string                   `json:"imageUrl"`
	Servings    int                      `json:"servings" binding:"omitempty,min=1"`
	Ingredients []domain.IngredientEntry `json:"ingredients"`
	Steps       []string                 `json:"steps"`
	GroupID     string                   `json:"groupId"`
}

type RecipeResponse struct {
	ID          string                   `json:"id"`
	UserID      string                   `json:"userId"`
	GroupID     string                   `json:"groupId,omitempty"`
	Title       string                   `json:"title"`
	SourceURL   string                   `json:"sourceUrl,omitempty"`
	ImageURL    string                   `json:"imageUrl,omitempty"`
	Servings    int                      `json:"servings"`
	Ingredients []domain.IngredientEntry `json:"ingredients"`
	Steps       []string                 `json:"steps"`
	AIExtracted bool                     `json:"isAiExtracted"`
	CreatedAt   time.Time                `json:"createdAt"`
	UpdatedAt   time.Time                `json:"updatedAt"`
}

type ImageUploadRequest struct {
	ContentType string `json:"contentType"`
}

type ImageUploadResponse struct {
	ObjectKey string `json:"objectKey"`
	UploadURL string `json:"uploadUrl"`
}

type ImageDownloadResponse struct {
	DownloadURL string `json:"downloadUrl"`
}

// MapRecipeToResponse converts a domain.Recipe to RecipeResponse.
func MapRecipeToResponse(r *domain.Recipe) RecipeResponse {
	if r == nil {
		return RecipeResponse{}
	}
	resp := RecipeResponse{
		ID:          r.ID.Hex(),
		UserID:      r.UserID.Hex(),
		Title:       r.Title,
		SourceURL:   r.SourceURL,
		ImageURL:    r.ImageURL,
		Servings:    r.Servings,
		Ingredients: r.Ingredients,
		Steps:       r.Steps,
		AIExtracted: r.AIExtracted,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.GroupID != nil {
		resp.GroupID = r.GroupID.Hex()
	}
	return resp
}

func (req *RecipeRequest) toInput() (service.RecipeInput, error) {
	input := service.RecipeInput{
		Title:       req.Title,
		SourceURL:   req.SourceURL,
		ImageURL:    req.ImageURL,
		Servings:    req.Servings,
		Ingredients: req.Ingredients,
		Steps:       req.Steps,
	}
	if req.GroupID != "" {
		groupID, err := primitive.ObjectIDFromHex(req.GroupID)
		if err != nil {
			return input, errors.New("invalid group ID format")
		}
		input.GroupID = &groupID
	}
	return input, nil
}

// --- Handler Methods ---

// CreateRecipe stores a new recipe for the caller.
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	input, err := req.toInput()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), userID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecipeLimitReached):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrNotGroupMember):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to create recipe.")
		}
		return
	}

	c.JSON(http.StatusCreated, MapRecipeToResponse(recipe))
}

// ListRecipes lists the caller's recipes, optionally widened to a group via
// the ?groupId query parameter.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	var groupID *primitive.ObjectID
	if raw := c.Query("groupId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid group ID format.")
			return
		}
		groupID = &id
	}

	recipes, err := h.recipeService.ListRecipes(c.Request.Context(), userID, groupID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve recipes.")
		return
	}

	responses := make([]RecipeResponse, len(recipes))
	for i := range recipes {
		responses[i] = MapRecipeToResponse(&recipes[i])
	}
	c.JSON(http.StatusOK, responses)
}

// GetRecipe retrieves one recipe.
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	recipeID, err := primitive.ObjectIDFromHex(c.Param("recipeId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid recipe ID format.")
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), userID, recipeID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecipeNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrRecipeAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve recipe.")
		}
		return
	}

	c.JSON(http.StatusOK, MapRecipeToResponse(recipe))
}

// UpdateRecipe replaces a recipe's editable fields; owner only.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	recipeID, err := primitive.ObjectIDFromHex(c.Param("recipeId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid recipe ID format.")
		return
	}

	input, err := req.toInput()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), userID, recipeID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecipeNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrRecipeAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update recipe.")
		}
		return
	}

	c.JSON(http.StatusOK, MapRecipeToResponse(recipe))
}

// DeleteRecipe removes a recipe; owner only.
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	recipeID, err := primitive.ObjectIDFromHex(c.Param("recipeId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid recipe ID format.")
		return
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), userID, recipeID); err != nil {
		switch {
		case errors.Is(err, service.ErrRecipeNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrRecipeAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to delete recipe.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RequestImageUpload issues a presigned PUT URL for a recipe photo.
func (h *RecipeHandler) RequestImageUpload(c *gin.Context) {
	var req ImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	ticket, err := h.recipeService.RequestImageUpload(c.Request.Context(), userID, req.ContentType)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create upload URL.")
		return
	}

	c.JSON(http.StatusOK, ImageUploadResponse{
		ObjectKey: ticket.ObjectKey,
		UploadURL: ticket.UploadURL,
	})
}

// GetImageURL resolves a recipe's stored photo to a temporary GET URL.
// Access follows the recipe itself: owner, or member of its group.
func (h *RecipeHandler) GetImageURL(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	recipeID, err := primitive.ObjectIDFromHex(c.Param("recipeId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid recipe ID format.")
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), userID, recipeID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecipeNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrRecipeAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve recipe.")
		}
		return
	}
	if recipe.ImageURL == "" {
		abortWithError(c, http.StatusNotFound, "Recipe has no image.")
		return
	}

	downloadURL, err := h.recipeService.ImageDownloadURL(c.Request.Context(), recipe.ImageURL)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create download URL.")
		return
	}

	c.JSON(http.StatusOK, ImageDownloadResponse{DownloadURL: downloadURL})
}
