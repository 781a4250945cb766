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

const weekPlanCollectionName = "week_plans"

// mongoWeekPlanRepository implements repository.WeekPlanRepository.
// Assignments are embedded in the plan document, so every replacement is a
// single document write and therefore atomic.
type mongoWeekPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoWeekPlanRepository creates a new week plan repository backed by MongoDB.
func NewMongoWeekPlanRepository(db *mongo.Database) repository.WeekPlanRepository {
	return &mongoWeekPlanRepository{
		collection: db.Collection(weekPlanCollectionName),
	}
}

// GetByGroupAndWeek retrieves the plan keyed by (group, week start date).
func (r *mongoWeekPlanRepository) GetByGroupAndWeek(ctx context.Context, groupID primitive.ObjectID, weekStart time.Time) (*domain.WeekPlan, error) {
	var plan domain.WeekPlan
	filter := bson.M{"groupId": groupID, "weekStartDate": weekStart}

	err := r.collection.FindOne(ctx, filter).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// Upsert returns the plan for (group, week), creating an empty one on first
// write. The unique (groupId, weekStartDate) index keeps racing upserts from
// producing two plans for the same week.
func (r *mongoWeekPlanRepository) Upsert(ctx context.Context, groupID primitive.ObjectID, weekStart time.Time) (*domain.WeekPlan, error) {
	if groupID == primitive.NilObjectID {
		return nil, errors.New("week plan requires groupId")
	}

	now := time.Now().UTC()
	filter := bson.M{"groupId": groupID, "weekStartDate": weekStart}
	update := bson.M{
		"$setOnInsert": bson.M{
			"groupId":       groupID,
			"weekStartDate": weekStart,
			"assignments":   []domain.MealAssignment{},
			"createdAt":     now,
			"updatedAt":     now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var plan domain.WeekPlan
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// ReplaceAssignments swaps out the plan's whole assignment set. A single
// document update, so readers never observe a partially replaced plan.
func (r *mongoWeekPlanRepository) ReplaceAssignments(ctx context.Context, planID primitive.ObjectID, assignments []domain.MealAssignment) error {
	if assignments == nil {
		assignments = []domain.MealAssignment{}
	}

	update := bson.M{
		"$set": bson.M{
			"assignments": assignments,
			"updatedAt":   time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": planID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureWeekPlanIndexes creates necessary indexes for the week plans collection.
func EnsureWeekPlanIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "groupId", Value: 1}, {Key: "weekStartDate", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
