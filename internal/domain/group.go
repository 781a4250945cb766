package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroupRole is a member's role within one group.
type GroupRole string

const (
	RoleAdmin  GroupRole = "ADMIN"
	RoleMember GroupRole = "MEMBER"
)

// Group is a household sharing recipes, pantry, cart, and week plans.
type Group struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	CreatedByUserID primitive.ObjectID `bson:"createdByUserId" json:"createdByUserId"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// GroupMember links a user to a group. One record per (user, group) pair.
type GroupMember struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupID  primitive.ObjectID `bson:"groupId" json:"groupId"`
	UserID   primitive.ObjectID `bson:"userId" json:"userId"`
	Role     GroupRole          `bson:"role" json:"role"`
	JoinedAt time.Time          `bson:"joinedAt" json:"joinedAt"`
}
