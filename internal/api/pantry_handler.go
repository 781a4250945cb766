package api

import (
	"errors"
	"fmt"
	"net/http"

	"pantrypal/meal-planner/internal/domain"
	"pantrypal/meal-planner/internal/repository"
	"pantrypal/meal-planner/internal/service"

	"github.com/gin-gonic/gin"
)

// PantryHandler holds the pantry service dependency.
type PantryHandler struct {
	pantryService service.PantryService
}

// NewPantryHandler creates a new PantryHandler.
func NewPantryHandler(pantryService service.PantryService) *PantryHandler {
	return &PantryHandler{pantryService: pantryService}
}

// --- DTOs ---

type AddPantryItemRequest struct {
	Ingredient string `json:"ingredient" binding:"required"`
	Quantity   string `json:"quantity"`
	Unit       string `json:"unit"`
}

type UpdatePantryItemRequest struct {
	Ingredient *string `json:"ingredient"`
	Quantity   *string `json:"quantity"`
	Unit       *string `json:"unit"`
}

type PantryItemResponse struct {
	ID         string `json:"id"`
	Ingredient string `json:"ingredient"`
	Quantity   string `json:"quantity"`
	Unit       string `json:"unit"`
}

// MapPantryItemToResponse converts a pantry item to its DTO.
func MapPantryItemToResponse(item domain.PantryItem) PantryItemResponse {
	return PantryItemResponse{
		ID:         item.ID.Hex(),
		Ingredient: item.Ingredient,
		Quantity:   item.Quantity,
		Unit:       item.Unit,
	}
}

// --- Handler Methods ---

// AddPantryItem adds an item to the group's pantry.
func (h *PantryHandler) AddPantryItem(c *gin.Context) {
	var req AddPantryItemRequest
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

	item, err := h.pantryService.AddItem(c.Request.Context(), userID, groupID, req.Ingredient, req.Quantity, req.Unit)
	if err != nil {
		if !abortForGroupAccessError(c, err) {
			abortWithError(c, http.StatusInternalServerError, "Failed to add pantry item.")
		}
		return
	}

	c.JSON(http.StatusCreated, MapPantryItemToResponse(*item))
}

// ListPantryItems returns the group's pantry sorted by ingredient name.
func (h *PantryHandler) ListPantryItems(c *gin.Context) {
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

	items, err := h.pantryService.ListItems(c.Request.Context(), userID, groupID)
	if err != nil {
		if !abortForGroupAccessError(c, err) {
			abortWithError(c, http.StatusInternalServerError, "Failed to list pantry items.")
		}
		return
	}

	resp := make([]PantryItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, MapPantryItemToResponse(item))
	}
	c.JSON(http.StatusOK, resp)
}

// UpdatePantryItem applies a partial patch to a pantry item.
func (h *PantryHandler) UpdatePantryItem(c *gin.Context) {
	var req UpdatePantryItemRequest
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
		abortWithError(c, http.StatusBadRequest, "Invalid pantry item ID format.")
		return
	}

	update := repository.PantryItemUpdate{
		Ingredient: req.Ingredient,
		Quantity:   req.Quantity,
		Unit:       req.Unit,
	}

	item, err := h.pantryService.UpdateItem(c.Request.Context(), userID, groupID, itemID, update)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPantryItemNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case abortForGroupAccessError(c, err):
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update pantry item.")
		}
		return
	}

	c.JSON(http.StatusOK, MapPantryItemToResponse(*item))
}

// DeletePantryItem removes a pantry item.
func (h *PantryHandler) DeletePantryItem(c *gin.Context) {
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
		abortWithError(c, http.StatusBadRequest, "Invalid pantry item ID format.")
		return
	}

	if err := h.pantryService.DeleteItem(c.Request.Context(), userID, groupID, itemID); err != nil {
		switch {
		case errors.Is(err, service.ErrPantryItemNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case abortForGroupAccessError(c, err):
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to delete pantry item.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
