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

// GroupHandler holds the group service dependency.
type GroupHandler struct {
	groupService service.GroupService
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(groupService service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

// --- DTOs ---

type CreateGroupRequest struct {
	Name string `json:"name" binding:"required"`
}

type JoinGroupRequest struct {
	InviteCode string `json:"inviteCode" binding:"required"`
}

type GroupMemberResponse struct {
	UserID   string           `json:"userId"`
	Role     domain.GroupRole `json:"role"`
	JoinedAt time.Time        `json:"joinedAt"`
}

type GroupResponse struct {
	ID              string                `json:"id"`
	Name            string                `json:"name"`
	CreatedByUserID string                `json:"createdByUserId"`
	Members         []GroupMemberResponse `json:"members,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
}

type InviteCodeResponse struct {
	InviteCode string `json:"inviteCode"`
}

// MapGroupToResponse converts a group (with optional members) to its DTO.
func MapGroupToResponse(group *domain.Group, members []domain.GroupMember) GroupResponse {
	resp := GroupResponse{
		ID:              group.ID.Hex(),
		Name:            group.Name,
		CreatedByUserID: group.CreatedByUserID.Hex(),
		CreatedAt:       group.CreatedAt,
	}
	for _, m := range members {
		resp.Members = append(resp.Members, GroupMemberResponse{
			UserID:   m.UserID.Hex(),
			Role:     m.Role,
			JoinedAt: m.JoinedAt,
		})
	}
	return resp
}

// groupIDParam parses the :groupId path parameter.
func groupIDParam(c *gin.Context) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(c.Param("groupId"))
}

// --- Handler Methods ---

// CreateGroup creates a household group; the caller becomes its admin.
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	group, err := h.groupService.CreateGroup(c.Request.Context(), userID, req.Name)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create group.")
		return
	}

	c.JSON(http.StatusCreated, MapGroupToResponse(group, nil))
}

// GetMyGroups lists the caller's groups.
func (h *GroupHandler) GetMyGroups(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	groups, err := h.groupService.GetMyGroups(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve groups.")
		return
	}

	responses := make([]GroupResponse, 0, len(groups))
	for i := range groups {
		responses = append(responses, MapGroupToResponse(&groups[i].Group, groups[i].Members))
	}
	c.JSON(http.StatusOK, responses)
}

// GetGroup retrieves one group with members; member-only.
func (h *GroupHandler) GetGroup(c *gin.Context) {
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

	result, err := h.groupService.GetGroup(c.Request.Context(), userID, groupID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGroupNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNotGroupMember):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve group.")
		}
		return
	}

	c.JSON(http.StatusOK, MapGroupToResponse(&result.Group, result.Members))
}

// GetInviteCode returns the group's shareable join code.
func (h *GroupHandler) GetInviteCode(c *gin.Context) {
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

	code, err := h.groupService.InviteCode(c.Request.Context(), userID, groupID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGroupNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNotGroupMember):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to create invite code.")
		}
		return
	}

	c.JSON(http.StatusOK, InviteCodeResponse{InviteCode: code})
}

// JoinGroup adds the caller to the group the invite code names.
func (h *GroupHandler) JoinGroup(c *gin.Context) {
	var req JoinGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	group, err := h.groupService.JoinByInviteCode(c.Request.Context(), userID, req.InviteCode)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInviteCode) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to join group.")
		}
		return
	}

	c.JSON(http.StatusOK, MapGroupToResponse(group, nil))
}
