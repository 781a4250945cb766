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

const recipeCollectionName = "recipes"

// mongoRecipeRepository implements repository.RecipeRepository.
type mongoRecipeRepository struct {
	collection *mongo.Collection
}

// NewMongoRecipeRepository creates a new recipe repository backed by MongoDB.
func NewMongoRecipeRepository(db *mongo.Database) repository.RecipeRepository {
	return &mongoRecipeRepository{
		collection: db.Collection(recipeCollectionName),
	}
}

// Create inserts a new recipe.
func (r *mongoRecipeRepository) Create(ctx context.Context, recipe *domain.Recipe) (primitive.ObjectID, error) {
	if recipe.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("recipe requires an owner")
	}

	recipe.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now
	if recipe.Servings == 0 {
		recipe.Servings = 4
	}
	if recipe.Ingredients == nil {
		recipe.Ingredients = []domain.IngredientEntry{}
	}
	if recipe.Steps == nil {
		recipe.Steps = []string{}
	}

	result, err := r.collection.InsertOne(ctx, recipe)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted recipe ID")
	}
	return insertedID, nil
}

// GetByID retrieves a recipe by its ID.
func (r *mongoRecipeRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Recipe, error) {
	var recipe domain.Recipe
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&recipe)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// GetByIDs retrieves the recipes that exist among ids in one query. IDs that
// do not resolve are simply absent from the result.
func (r *mongoRecipeRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Recipe, error) {
	if len(ids) == 0 {
		return []domain.Recipe{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var recipes []domain.Recipe
	if err = cursor.All(ctx, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// List retrieves the user's recipes, newest first. When groupID is set the
// result also includes recipes shared with that group.
func (r *mongoRecipeRepository) List(ctx context.Context, userID primitive.ObjectID, groupID *primitive.ObjectID) ([]domain.Recipe, error) {
	filter := bson.M{"userId": userID}
	if groupID != nil {
		filter = bson.M{"$or": bson.A{
			bson.M{"userId": userID},
			bson.M{"groupId": *groupID},
		}}
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var recipes []domain.Recipe
	if err = cursor.All(ctx, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// CountByOwner counts the recipes a user owns, for tier limit checks.
func (r *mongoRecipeRepository) CountByOwner(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"userId": userID})
}

// Update overwrites the editable fields of a recipe.
func (r *mongoRecipeRepository) Update(ctx context.Context, recipe *domain.Recipe) error {
	if recipe.ID == primitive.NilObjectID {
		return errors.New("recipe ID is required for update")
	}

	update := bson.M{
		"$set": bson.M{
			"title":       recipe.Title,
			"ingredients": recipe.Ingredients,
			"steps":       recipe.Steps,
			"servings":    recipe.Servings,
			"imageUrl":    recipe.ImageURL,
			"sourceUrl":   recipe.SourceURL,
			"updatedAt":   time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": recipe.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a recipe.
func (r *mongoRecipeRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureRecipeIndexes creates necessary indexes for the recipes collection.
func EnsureRecipeIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "groupId", Value: 1}},
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
