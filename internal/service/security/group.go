package security

import (
	"context"

	"github.com/ViktorMash/resource-booking-system/internal/domain"
)

// GroupService provides group and membership management. All mutations are
// superuser only; permission grants referencing a group take effect for its
// members immediately.
type GroupService struct {
	groups domain.GroupRepository
	users  domain.UserRepository
}

// NewGroupService creates a new GroupService.
func NewGroupService(groups domain.GroupRepository, users domain.UserRepository) *GroupService {
	return &GroupService{groups: groups, users: users}
}

// Create validates and persists a new group.
func (s *GroupService) Create(ctx context.Context, req *domain.CreateGroupRequest) (*domain.Group, error) {
	if err := requireSuperuser(ctx); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.groups.Create(ctx, &domain.Group{
		ID:          domain.NewID(),
		Name:        req.Name,
		Description: req.Description,
	})
}

// GetByID returns a group by ID.
func (s *GroupService) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	return s.groups.GetByID(ctx, id)
}

// List returns a paginated list of groups.
func (s *GroupService) List(ctx context.Context, page domain.PageRequest) ([]domain.Group, int64, error) {
	return s.groups.List(ctx, page)
}

// Delete removes a group. Memberships and grants referencing it are removed
// with it.
func (s *GroupService) Delete(ctx context.Context, id string) error {
	if err := requireSuperuser(ctx); err != nil {
		return err
	}
	return s.groups.Delete(ctx, id)
}

// AddMember adds a user to a group after verifying both exist.
func (s *GroupService) AddMember(ctx context.Context, groupID, userID string) error {
	if err := requireSuperuser(ctx); err != nil {
		return err
	}
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.groups.AddMember(ctx, &domain.GroupMember{GroupID: groupID, UserID: userID})
}

// RemoveMember removes a user from a group.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, userID string) error {
	if err := requireSuperuser(ctx); err != nil {
		return err
	}
	return s.groups.RemoveMember(ctx, &domain.GroupMember{GroupID: groupID, UserID: userID})
}

// ListMembers returns a paginated list of a group's members.
func (s *GroupService) ListMembers(ctx context.Context, groupID string, page domain.PageRequest) ([]domain.User, int64, error) {
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return nil, 0, err
	}
	return s.groups.ListMembers(ctx, groupID, page)
}
