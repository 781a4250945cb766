package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PantryItem is one ingredient a group already has at home.
type PantryItem struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupID    primitive.ObjectID `bson:"groupId" json:"groupId"`
	Ingredient string             `bson:"ingredient" json:"ingredient"`
	Quantity   string             `bson:"quantity,omitempty" json:"quantity,omitempty"`
	Unit       string             `bson:"unit,omitempty" json:"unit,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
