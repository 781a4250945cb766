package mongo

import (
	"context"
	"errors"
	"time"

	"pantrypal/meal-planner/internal/domain"
	"pantrypal/meal-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const pantryCollectionName = "pantry_items"

// mongoPantryRepository implements repository.PantryRepository.
type mongoPantryRepository struct {
	collection *mongo.Collection
}

// NewMongoPantryRepository creates a new pantry repository backed by MongoDB.
func NewMongoPantryRepository(db *mongo.Database) repository.PantryRepository {
	return &mongoPantryRepository{
		collection: db.Collection(pantryCollectionName),
	}
}

// Create inserts a pantry item for a group.
func (r *mongoPantryRepository) Create(ctx context.Context, item *domain.PantryItem) (primitive.ObjectID, error) {
	if item.GroupID == primitive.NilObjectID || item.Ingredient == "" {
		return primitive.NilObjectID, errors.New("pantry item requires groupId and ingredient")
	}

	item.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, item)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted pantry item ID")
	}
	return insertedID, nil
}

// ListByGroupID retrieves the group's pantry sorted by ingredient name.
func (r *mongoPantryRepository) ListByGroupID(ctx context.Context, groupID primitive.ObjectID) ([]domain.PantryItem, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "ingredient", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"groupId": groupID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []domain.PantryItem{}
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateItem patches the named fields. Nil fields are left untouched.
func (r *mongoPantryRepository) UpdateItem(ctx context.Context, groupID, itemID primitive.ObjectID, update repository.PantryItemUpdate) (*domain.PantryItem, error) {
	setFields := bson.M{"updatedAt": time.Now().UTC()}
	if update.Ingredient != nil {
		setFields["ingredient"] = *update.Ingredient
	}
	if update.Quantity != nil {
		setFields["quantity"] = *update.Quantity
	}
	if update.Unit != nil {
		setFields["unit"] = *update.Unit
	}

	filter := bson.M{"_id": itemID, "groupId": groupID}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var item domain.PantryItem
	err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": setFields}, opts).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// DeleteItem removes one pantry item.
func (r *mongoPantryRepository) DeleteItem(ctx context.Context, groupID, itemID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": itemID, "groupId": groupID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePantryIndexes creates necessary indexes for the pantry collection.
func EnsurePantryIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "groupId", Value: 1}, {Key: "ingredient", Value: 1}},
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
