package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recipe belongs to a user and may optionally be shared with a group.
type Recipe struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID  `bson:"userId" json:"userId"`
	GroupID     *primitive.ObjectID `bson:"groupId,omitempty" json:"groupId,omitempty"`
	Title       string              `bson:"title" json:"title"`
	SourceURL   string              `bson:"sourceUrl,omitempty" json:"sourceUrl,omitempty"`
	ImageURL    string              `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Servings    int                 `bson:"servings" json:"servings"`
	Ingredients []IngredientEntry   `bson:"ingredients" json:"ingredients"`
	Steps       []string            `bson:"steps" json:"steps"`
	AIExtracted bool                `bson:"isAiExtracted" json:"isAiExtracted"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}
