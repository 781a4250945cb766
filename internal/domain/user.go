package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubscriptionTier gates paid features (weekly planner, pantry, cart).
type SubscriptionTier string

const (
	TierFree SubscriptionTier = "FREE"
	TierPaid SubscriptionTier = "PAID"
)

// Recipe caps per tier.
const (
	FreeMaxRecipes = 20
	PaidMaxRecipes = 50
)

// User represents an account. Users belong to groups via GroupMember records.
type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name              string             `bson:"name" json:"name"`
	Email             string             `bson:"email" json:"email"` // unique
	PasswordHash      string             `bson:"passwordHash" json:"-"`
	SubscriptionTier  SubscriptionTier   `bson:"subscriptionTier" json:"subscriptionTier"`
	MaxRecipesAllowed int                `bson:"maxRecipesAllowed" json:"maxRecipesAllowed"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsPaid() bool {
	return u.SubscriptionTier == TierPaid
}
