package api

import (
	"errors"
	"fmt"
	"net/http"

	"pantrypal/meal-planner/internal/domain"
	"pantrypal/meal-planner/internal/repository"
	"pantrypal/meal-planner/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartHandler holds the shopping cart service dependency.
type CartHandler struct {
	cartService service.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// --- DTOs ---

type GenerateCartRequest struct {
	WeekStartDate string `json:"weekStartDate" binding:"required"`
}

// UpdateCartItemRequest carries a partial patch; omitted fields keep their
// stored values.
type UpdateCartItemRequest struct {
	Quantity   *string `json:"quantity"`
	Unit       *string `json:"unit"`
	CheckedOff *bool   `json:"checkedOff"`
}

type CartItemResponse struct {
	ID         string                    `json:"id"`
	Ingredient string                    `json:"ingredient"`
	Quantity   string                    `json:"quantity"`
	Unit       string                    `json:"unit"`
	Category   domain.IngredientCategory `json:"category"`
	CheckedOff bool                      `json:"checkedOff"`
}

// MapCartItemToResponse converts a cart item to its DTO.
func MapCartItemToResponse(item domain.ShoppingCartItem) CartItemResponse {
	return CartItemResponse{
		ID:         item.ID.Hex(),
		Ingredient: item.Ingredient,
		Quantity:   item.Quantity,
		Unit:       item.Unit,
		Category:   item.Category,
		CheckedOff: item.CheckedOff,
	}
}

func mapCartItemsToResponse(items []domain.ShoppingCartItem) []CartItemResponse {
	resp := make([]CartItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, MapCartItemToResponse(item))
	}
	return resp
}

func cartItemIDParam(c *gin.Context) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(c.Param("itemId"))
}

// --- Handler Methods ---

// GenerateCart rebuilds the group's cart from the week plan for the given
// week. The previous cart is only discarded once a plan is found.
func (h *CartHandler) GenerateCart(c *gin.Context) {
	var req GenerateCartRequest
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

	items, err := h.cartService.GenerateCart(c.Request.Context(), userID, groupID, weekStart)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlanNotFound):
			abortWithError(c, http.StatusNotFound, "No plan found for this week")
		case abortForGroupAccessError(c, err):
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to generate shopping cart.")
		}
		return
	}

	c.JSON(http.StatusOK, mapCartItemsToResponse(items))
}

// GetCart returns the group's current cart, sorted by category.
func (h *CartHandler) GetCart(c *gin.Context) {
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

	items, err := h.cartService.GetCart(c.Request.Context(), userID, groupID)
	if err != nil {
		if !abortForGroupAccessError(c, err) {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve shopping cart.")
		}
		return
	}

	c.JSON(http.StatusOK, mapCartItemsToResponse(items))
}

// UpdateCartItem applies a partial patch to a single cart line.
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	var req UpdateCartItemRequest
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
	itemID, err := cartItemIDParam(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid cart item ID format.")
		return
	}

	update := repository.CartItemUpdate{
		Quantity:   req.Quantity,
		Unit:       req.Unit,
		CheckedOff: req.CheckedOff,
	}

	item, err := h.cartService.UpdateItem(c.Request.Context(), userID, groupID, itemID, update)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCartItemNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case abortForGroupAccessError(c, err):
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update cart item.")
		}
		return
	}

	c.JSON(http.StatusOK, MapCartItemToResponse(*item))
}

// DeleteCartItem removes a single cart line.
func (h *CartHandler) DeleteCartItem(c *gin.Context) {
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
	itemID, err := cartItemIDParam(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid cart item ID format.")
		return
	}

	if err := h.cartService.DeleteItem(c.Request.Context(), userID, groupID, itemID); err != nil {
		switch {
		case errors.Is(err, service.ErrCartItemNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case abortForGroupAccessError(c, err):
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to delete cart item.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
