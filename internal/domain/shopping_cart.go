package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShoppingCartItem is one ingredient occurrence in a group's cart. The cart
// is a flat group-scoped list: items carry no reference to the week plan or
// recipe that produced them, and duplicates are kept as separate rows.
// Regeneration destroys and recreates the whole set for the group.
type ShoppingCartItem struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupID    primitive.ObjectID `bson:"groupId" json:"groupId"`
	Ingredient string             `bson:"ingredient" json:"ingredient"`
	Quantity   string             `bson:"quantity" json:"quantity"` // display text, never parsed
	Unit       string             `bson:"unit" json:"unit"`
	Category   IngredientCategory `bson:"category" json:"category"`
	CheckedOff bool               `bson:"checkedOff" json:"checkedOff"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
