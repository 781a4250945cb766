package service

import (
	"context"
	"encoding/base64"
	"testing"

	"pantrypal/meal-planner/internal/domain"
	"pantrypal/meal-planner/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateGroup_CreatorBecomesAdmin(t *testing.T) {
	userID := primitive.NewObjectID()
	groupID := primitive.NewObjectID()

	var addedMember *domain.GroupMember
	groupRepo := &mockGroupRepo{
		CreateFn: func(ctx context.Context, group *domain.Group) (primitive.ObjectID, error) {
			assert.Equal(t, "Our Household", group.Name)
			assert.Equal(t, userID, group.CreatedByUserID)
			return groupID, nil
		},
		AddMemberFn: func(ctx context.Context, member *domain.GroupMember) error {
			addedMember = member
			return nil
		},
	}

	svc := NewGroupService(groupRepo, &mockUserRepo{})
	group, err := svc.CreateGroup(context.Background(), userID, "Our Household")
	require.NoError(t, err)

	assert.Equal(t, groupID, group.ID)
	require.NotNil(t, addedMember)
	assert.Equal(t, domain.RoleAdmin, addedMember.Role)
	assert.Equal(t, userID, addedMember.UserID)
}

func TestInviteCodeRoundTrip(t *testing.T) {
	adminID := primitive.NewObjectID()
	joinerID := primitive.NewObjectID()
	groupID := primitive.NewObjectID()
	group := &domain.Group{ID: groupID, Name: "Family"}

	var joined *domain.GroupMember
	groupRepo := &mockGroupRepo{
		GetByIDFn: func(ctx context.Context, id primitive.ObjectID) (*domain.Group, error) {
			if id == groupID {
				return group, nil
			}
			return nil, repository.ErrNotFound
		},
		GetMemberFn: func(ctx context.Context, gID, uID primitive.ObjectID) (*domain.GroupMember, error) {
			if uID == adminID {
				return &domain.GroupMember{GroupID: gID, UserID: uID, Role: domain.RoleAdmin}, nil
			}
			return nil, repository.ErrNotFound
		},
		AddMemberFn: func(ctx context.Context, member *domain.GroupMember) error {
			joined = member
			return nil
		},
	}

	svc := NewGroupService(groupRepo, &mockUserRepo{})

	code, err := svc.InviteCode(context.Background(), adminID, groupID)
	require.NoError(t, err)
	require.NotEmpty(t, code)

	got, err := svc.JoinByInviteCode(context.Background(), joinerID, code)
	require.NoError(t, err)

	assert.Equal(t, groupID, got.ID)
	require.NotNil(t, joined)
	assert.Equal(t, domain.RoleMember, joined.Role)
	assert.Equal(t, joinerID, joined.UserID)
}

func TestJoinByInviteCode_GarbageCode(t *testing.T) {
	svc := NewGroupService(&mockGroupRepo{}, &mockUserRepo{})

	for _, code := range []string{"", "not base64!!", "aGVsbG8="} { // last decodes to "hello", not a hex id
		_, err := svc.JoinByInviteCode(context.Background(), primitive.NewObjectID(), code)
		assert.ErrorIs(t, err, ErrInvalidInviteCode, "code %q", code)
	}
}

func TestJoinByInviteCode_AlreadyMemberSucceeds(t *testing.T) {
	userID := primitive.NewObjectID()
	groupID := primitive.NewObjectID()
	group := &domain.Group{ID: groupID, Name: "Family"}

	groupRepo := &mockGroupRepo{
		GetByIDFn: func(ctx context.Context, id primitive.ObjectID) (*domain.Group, error) {
			return group, nil
		},
		AddMemberFn: func(ctx context.Context, member *domain.GroupMember) error {
			return repository.ErrDuplicate
		},
	}

	svc := NewGroupService(groupRepo, &mockUserRepo{})
	joinCode := base64.StdEncoding.EncodeToString([]byte(groupID.Hex()))
	got, err := svc.JoinByInviteCode(context.Background(), userID, joinCode)
	require.NoError(t, err)
	assert.Equal(t, groupID, got.ID)
}

func TestGetGroup_NonMemberRejected(t *testing.T) {
	userID := primitive.NewObjectID()
	groupID := primitive.NewObjectID()

	groupRepo := &mockGroupRepo{
		GetByIDFn: func(ctx context.Context, id primitive.ObjectID) (*domain.Group, error) {
			return &domain.Group{ID: groupID, Name: "Family"}, nil
		},
		ListMembersFn: func(ctx context.Context, gID primitive.ObjectID) ([]domain.GroupMember, error) {
			return []domain.GroupMember{{GroupID: gID, UserID: primitive.NewObjectID(), Role: domain.RoleAdmin}}, nil
		},
	}

	svc := NewGroupService(groupRepo, &mockUserRepo{})
	_, err := svc.GetGroup(context.Background(), userID, groupID)
	assert.ErrorIs(t, err, ErrNotGroupMember)
}
