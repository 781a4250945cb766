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

const (
	groupCollectionName       = "groups"
	groupMemberCollectionName = "group_members"
)

// mongoGroupRepository implements repository.GroupRepository.
type mongoGroupRepository struct {
	groups  *mongo.Collection
	members *mongo.Collection
}

// NewMongoGroupRepository creates a new group repository backed by MongoDB.
func NewMongoGroupRepository(db *mongo.Database) repository.GroupRepository {
	return &mongoGroupRepository{
		groups:  db.Collection(groupCollectionName),
		members: db.Collection(groupMemberCollectionName),
	}
}

// Create inserts a new group.
func (r *mongoGroupRepository) Create(ctx context.Context, group *domain.Group) (primitive.ObjectID, error) {
	if group.Name == "" || group.CreatedByUserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("group name and creator are required")
	}

	group.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	group.CreatedAt = now
	group.UpdatedAt = now

	result, err := r.groups.InsertOne(ctx, group)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted group ID")
	}
	return insertedID, nil
}

// GetByID retrieves a group by its ID.
func (r *mongoGroupRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Group, error) {
	var group domain.Group
	err := r.groups.FindOne(ctx, bson.M{"_id": id}).Decode(&group)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &group, nil
}

// ListByMember retrieves every group the user is a member of.
func (r *mongoGroupRepository) ListByMember(ctx context.Context, userID primitive.ObjectID) ([]domain.Group, error) {
	cursor, err := r.members.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	var memberships []domain.GroupMember
	if err = cursor.All(ctx, &memberships); err != nil {
		return nil, err
	}

	if len(memberships) == 0 {
		return []domain.Group{}, nil
	}

	groupIDs := make([]primitive.ObjectID, len(memberships))
	for i, m := range memberships {
		groupIDs[i] = m.GroupID
	}

	groupCursor, err := r.groups.Find(ctx, bson.M{"_id": bson.M{"$in": groupIDs}})
	if err != nil {
		return nil, err
	}
	var groups []domain.Group
	if err = groupCursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// AddMember inserts a membership record. The unique (userId, groupId) index
// rejects duplicate joins.
func (r *mongoGroupRepository) AddMember(ctx context.Context, member *domain.GroupMember) error {
	if member.GroupID == primitive.NilObjectID || member.UserID == primitive.NilObjectID {
		return errors.New("membership requires groupId and userId")
	}

	member.ID = primitive.NewObjectID()
	member.JoinedAt = time.Now().UTC()
	if member.Role == "" {
		member.Role = domain.RoleMember
	}

	_, err := r.members.InsertOne(ctx, member)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

// GetMember retrieves the membership record for (group, user).
func (r *mongoGroupRepository) GetMember(ctx context.Context, groupID, userID primitive.ObjectID) (*domain.GroupMember, error) {
	var member domain.GroupMember
	filter := bson.M{"groupId": groupID, "userId": userID}
	err := r.members.FindOne(ctx, filter).Decode(&member)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

// ListMembers retrieves all membership records of a group.
func (r *mongoGroupRepository) ListMembers(ctx context.Context, groupID primitive.ObjectID) ([]domain.GroupMember, error) {
	cursor, err := r.members.Find(ctx, bson.M{"groupId": groupID})
	if err != nil {
		return nil, err
	}
	var members []domain.GroupMember
	if err = cursor.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// EnsureGroupIndexes creates necessary indexes for groups and memberships.
func EnsureGroupIndexes(ctx context.Context, groups, members *mongo.Collection) {
	_, _ = groups.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdByUserId", Value: 1}},
	})
	memberIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "groupId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "groupId", Value: 1}},
		},
	}
	_, _ = members.Indexes().CreateMany(ctx, memberIndexes)
}
