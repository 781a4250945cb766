package service

import (
	"context"
	"errors"

	"pantrypal/meal-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Shared access-control errors. These map to HTTP 403/404 in the handlers.
var (
	ErrGroupNotFound  = errors.New("group not found")
	ErrNotGroupMember = errors.New("user is not a member of this group")
	ErrPaidFeature    = errors.New("this feature requires a paid subscription")
)

// requireMembership verifies the user belongs to the group. When requirePaid
// is set, the user's subscription tier must also be PAID. Services call this
// before any group-scoped operation; nothing downstream re-checks.
func requireMembership(ctx context.Context, userRepo repository.UserRepository, groupRepo repository.GroupRepository, userID, groupID primitive.ObjectID, requirePaid bool) error {
	if userID == primitive.NilObjectID || groupID == primitive.NilObjectID {
		return errors.New("user ID and group ID are required")
	}

	if requirePaid {
		user, err := userRepo.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotGroupMember
			}
			return err
		}
		if !user.IsPaid() {
			return ErrPaidFeature
		}
	}

	_, err := groupRepo.GetMember(ctx, groupID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotGroupMember
		}
		return err
	}
	return nil
}
