package service

import (
	"context"
	"encoding/base64"
	"errors"

	"pantrypal/meal-planner/internal/domain"
	"pantrypal/meal-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidInviteCode = errors.New("invalid invite code")
	ErrAlreadyMember     = errors.New("user is already a member of this group")
)

// GroupWithMembers pairs a group with its membership list for API responses.
type GroupWithMembers struct {
	Group   domain.Group
	Members []domain.GroupMember
}

type GroupService interface {
	CreateGroup(ctx context.Context, userID primitive.ObjectID, name string) (*domain.Group, error)
	GetMyGroups(ctx context.Context, userID primitive.ObjectID) ([]GroupWithMembers, error)
	GetGroup(ctx context.Context, userID, groupID primitive.ObjectID) (*GroupWithMembers, error)
	// InviteCode returns the group's shareable join code. The code is a
	// reversible encoding of the group id, not a security mechanism.
	InviteCode(ctx context.Context, userID, groupID primitive.ObjectID) (string, error)
	JoinByInviteCode(ctx context.Context, userID primitive.ObjectID, code string) (*domain.Group, error)
}

// groupService implements the GroupService interface.
type groupService struct {
	groupRepo repository.GroupRepository
	userRepo  repository.UserRepository
}

// NewGroupService creates a new instance of groupService.
func NewGroupService(groupRepo repository.GroupRepository, userRepo repository.UserRepository) GroupService {
	return &groupService{
		groupRepo: groupRepo,
		userRepo:  userRepo,
	}
}

// CreateGroup creates a group and makes the creator its admin member.
func (s *groupService) CreateGroup(ctx context.Context, userID primitive.ObjectID, name string) (*domain.Group, error) {
	if name == "" {
		return nil, errors.New("group name is required")
	}

	group := &domain.Group{
		Name:            name,
		CreatedByUserID: userID,
	}
	groupID, err := s.groupRepo.Create(ctx, group)
	if err != nil {
		return nil, err
	}
	group.ID = groupID

	member := &domain.GroupMember{
		GroupID: groupID,
		UserID:  userID,
		Role:    domain.RoleAdmin,
	}
	if err := s.groupRepo.AddMember(ctx, member); err != nil {
		return nil, err
	}

	return group, nil
}

// GetMyGroups lists every group the user belongs to, with members attached.
func (s *groupService) GetMyGroups(ctx context.Context, userID primitive.ObjectID) ([]GroupWithMembers, error) {
	groups, err := s.groupRepo.ListByMember(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]GroupWithMembers, 0, len(groups))
	for _, g := range groups {
		members, err := s.groupRepo.ListMembers(ctx, g.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, GroupWithMembers{Group: g, Members: members})
	}
	return result, nil
}

// GetGroup retrieves a group with members. Only members can see it.
func (s *groupService) GetGroup(ctx context.Context, userID, groupID primitive.ObjectID) (*GroupWithMembers, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}

	members, err := s.groupRepo.ListMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}

	isMember := false
	for _, m := range members {
		if m.UserID == userID {
			isMember = true
			break
		}
	}
	if !isMember {
		return nil, ErrNotGroupMember
	}

	return &GroupWithMembers{Group: *group, Members: members}, nil
}

// InviteCode returns the join code for a group the user belongs to.
func (s *groupService) InviteCode(ctx context.Context, userID, groupID primitive.ObjectID) (string, error) {
	if err := requireMembership(ctx, s.userRepo, s.groupRepo, userID, groupID, false); err != nil {
		return "", err
	}
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrGroupNotFound
		}
		return "", err
	}
	return base64.StdEncoding.EncodeToString([]byte(groupID.Hex())), nil
}

// JoinByInviteCode decodes the code and adds the user as a MEMBER. Joining a
// group you already belong to succeeds without a second membership record.
func (s *groupService) JoinByInviteCode(ctx context.Context, userID primitive.ObjectID, code string) (*domain.Group, error) {
	if code == "" {
		return nil, ErrInvalidInviteCode
	}

	decoded, err := base64.StdEncoding.DecodeString(code)
	if err != nil {
		return nil, ErrInvalidInviteCode
	}
	groupID, err := primitive.ObjectIDFromHex(string(decoded))
	if err != nil {
		return nil, ErrInvalidInviteCode
	}

	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidInviteCode
		}
		return nil, err
	}

	member := &domain.GroupMember{
		GroupID: groupID,
		UserID:  userID,
		Role:    domain.RoleMember,
	}
	if err := s.groupRepo.AddMember(ctx, member); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Already a member; treat the join as successful.
			return group, nil
		}
		return nil, err
	}

	return group, nil
}
