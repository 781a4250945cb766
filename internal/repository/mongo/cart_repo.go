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

const cartCollectionName = "shopping_cart_items"

// mongoCartRepository implements repository.ShoppingCartRepository.
type mongoCartRepository struct {
	collection *mongo.Collection
}

// NewMongoCartRepository creates a new shopping cart repository backed by MongoDB.
func NewMongoCartRepository(db *mongo.Database) repository.ShoppingCartRepository {
	return &mongoCartRepository{
		collection: db.Collection(cartCollectionName),
	}
}

// ReplaceAll deletes every cart item the group has and inserts items inside
// one transaction, so readers never see a half-replaced cart. Requires the
// server to support multi-document transactions (replica set).
func (r *mongoCartRepository) ReplaceAll(ctx context.Context, groupID primitive.ObjectID, items []domain.ShoppingCartItem) ([]domain.ShoppingCartItem, error) {
	if groupID == primitive.NilObjectID {
		return nil, errors.New("cart replacement requires groupId")
	}

	now := time.Now().UTC()
	docs := make([]interface{}, len(items))
	for i := range items {
		items[i].ID = primitive.NewObjectID()
		items[i].GroupID = groupID
		items[i].CheckedOff = false
		items[i].CreatedAt = now
		items[i].UpdatedAt = now
		docs[i] = items[i]
	}

	session, err := r.collection.Database().Client().StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.collection.DeleteMany(sc, bson.M{"groupId": groupID}); err != nil {
			return nil, err
		}
		if len(docs) > 0 {
			if _, err := r.collection.InsertMany(sc, docs); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetByGroupID(ctx, groupID)
}

// GetByGroupID retrieves the group's cart ordered by category, insertion
// order within a category.
func (r *mongoCartRepository) GetByGroupID(ctx context.Context, groupID primitive.ObjectID) ([]domain.ShoppingCartItem, error) {
	findOptions := options.Find().SetSort(bson.D{
		{Key: "category", Value: 1},
		{Key: "_id", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, bson.M{"groupId": groupID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []domain.ShoppingCartItem{}
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateItem patches the item's quantity, unit, and checked-off state. Nil
// update fields are left untouched. Scoped to the group so an item id from
// another group's cart cannot be reached.
func (r *mongoCartRepository) UpdateItem(ctx context.Context, groupID, itemID primitive.ObjectID, update repository.CartItemUpdate) (*domain.ShoppingCartItem, error) {
	setFields := bson.M{"updatedAt": time.Now().UTC()}
	if update.Quantity != nil {
		setFields["quantity"] = *update.Quantity
	}
	if update.Unit != nil {
		setFields["unit"] = *update.Unit
	}
	if update.CheckedOff != nil {
		setFields["checkedOff"] = *update.CheckedOff
	}

	filter := bson.M{"_id": itemID, "groupId": groupID}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var item domain.ShoppingCartItem
	err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": setFields}, opts).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// DeleteItem removes one cart item.
func (r *mongoCartRepository) DeleteItem(ctx context.Context, groupID, itemID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": itemID, "groupId": groupID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureCartIndexes creates necessary indexes for the cart collection.
func EnsureCartIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "groupId", Value: 1}, {Key: "category", Value: 1}},
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
