package service

import (
	"context"
	"errors"
	"strings"

	"plume/internal/models"
	"plume/internal/repository"
)

// CreateGroupInput carries the fields accepted on group creation.
type CreateGroupInput struct {
	Name        string
	Description string
	IsPrivate   bool
}

// UpdateGroupInput carries the fields accepted on group update.
type UpdateGroupInput struct {
	Name        *string
	Description *string
	IsPrivate   *bool
}

// GroupService enforces group rules: name uniqueness, privacy gating,
// creator-only roster management and creator permanence.
type GroupService struct {
	groups repository.GroupRepository
	users  repository.UserRepository
}

// NewGroupService returns a new GroupService.
func NewGroupService(groups repository.GroupRepository, users repository.UserRepository) *GroupService {
	return &GroupService{groups: groups, users: users}
}

// Create validates the input and stores the group with its creator as first
// member. Group names are unique across the community.
func (s *GroupService) Create(ctx context.Context, creatorID uint, in CreateGroupInput) (*models.Group, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Description) == "" {
		return nil, models.NewValidationError("Tous les champs requis doivent être remplis")
	}

	existing, err := s.groups.GetByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Un groupe avec ce nom existe déjà")
	}

	group := &models.Group{
		Name:        in.Name,
		Description: in.Description,
		IsPrivate:   in.IsPrivate,
		CreatorID:   creatorID,
	}
	if err := s.groups.Create(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// Get returns the group detail, gated by privacy: a private group is only
// visible to its members and to admins. Anonymous readers count as
// non-members.
func (s *GroupService) Get(ctx context.Context, groupID, currentUserID uint, isAdmin bool) (*models.Group, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if group.IsPrivate && !isAdmin {
		member := false
		if currentUserID != 0 {
			member, err = s.groups.IsMember(ctx, groupID, currentUserID)
			if err != nil {
				return nil, err
			}
		}
		if !member {
			return nil, models.NewForbiddenError("Vous n'avez pas accès à ce groupe privé")
		}
	}
	return group, nil
}

// List returns group summaries matching the filter. Listing is not privacy
// gated: private groups surface as discovery metadata, only their detail is
// protected.
func (s *GroupService) List(ctx context.Context, filter repository.GroupFilter) ([]models.Group, error) {
	return s.groups.List(ctx, filter)
}

// Update applies a partial update. Only the creator may modify a group; a
// name change re-checks uniqueness.
func (s *GroupService) Update(ctx context.Context, userID, groupID uint, in UpdateGroupInput) (*models.Group, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.CreatorID != userID {
		return nil, models.NewForbiddenError("Vous n'êtes pas autorisé à modifier ce groupe")
	}

	if in.Name != nil && *in.Name != group.Name {
		existing, err := s.groups.GetByName(ctx, *in.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, models.NewConflictError("Un groupe avec ce nom existe déjà")
		}
		group.Name = *in.Name
	}
	if in.Description != nil {
		group.Description = *in.Description
	}
	if in.IsPrivate != nil {
		group.IsPrivate = *in.IsPrivate
	}

	if err := s.groups.Update(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// Delete removes a group and its contents. The creator may always delete
// their group; admins may delete any.
func (s *GroupService) Delete(ctx context.Context, userID uint, isAdmin bool, groupID uint) error {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if group.CreatorID != userID && !isAdmin {
		return models.NewForbiddenError("Vous n'êtes pas autorisé à supprimer ce groupe")
	}
	return s.groups.Delete(ctx, groupID)
}

// Join enrolls the user in a public group and returns the new member count.
// Private groups can only be joined through the creator.
func (s *GroupService) Join(ctx context.Context, userID, groupID uint) (int64, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return 0, err
	}

	member, err := s.groups.IsMember(ctx, groupID, userID)
	if err != nil {
		return 0, err
	}
	if member {
		return 0, models.NewConflictError("Vous êtes déjà membre de ce groupe")
	}
	if group.IsPrivate {
		return 0, models.NewForbiddenError("Ce groupe est privé. Contactez le créateur pour y être ajouté")
	}

	if err := s.groups.AddMember(ctx, groupID, userID); err != nil {
		return 0, err
	}
	return s.groups.CountMembers(ctx, groupID)
}

// Leave withdraws the user and returns the new member count. The creator
// cannot leave their own group.
func (s *GroupService) Leave(ctx context.Context, userID, groupID uint) (int64, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return 0, err
	}

	member, err := s.groups.IsMember(ctx, groupID, userID)
	if err != nil {
		return 0, err
	}
	if !member {
		return 0, models.NewConflictError("Vous n'êtes pas membre de ce groupe")
	}
	if group.CreatorID == userID {
		return 0, models.NewConflictError("Le créateur ne peut pas quitter le groupe")
	}

	if err := s.groups.RemoveMember(ctx, groupID, userID); err != nil {
		return 0, err
	}
	return s.groups.CountMembers(ctx, groupID)
}

// AddMember enrolls a target user on behalf of the creator and returns the
// new member count. Only the creator may manage the roster directly.
func (s *GroupService) AddMember(ctx context.Context, actorID, groupID, targetID uint) (int64, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return 0, err
	}
	if group.CreatorID != actorID {
		return 0, models.NewForbiddenError("Seul le créateur peut ajouter des membres")
	}

	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
			return 0, models.NewNotFoundError("Utilisateur à ajouter non trouvé")
		}
		return 0, err
	}

	member, err := s.groups.IsMember(ctx, groupID, targetID)
	if err != nil {
		return 0, err
	}
	if member {
		return 0, models.NewConflictError("Cet utilisateur est déjà membre du groupe")
	}

	if err := s.groups.AddMember(ctx, groupID, targetID); err != nil {
		return 0, err
	}
	return s.groups.CountMembers(ctx, groupID)
}

// RemoveMember withdraws a target user on behalf of the creator and returns
// the new member count. The creator cannot be removed from their own group.
func (s *GroupService) RemoveMember(ctx context.Context, actorID, groupID, targetID uint) (int64, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return 0, err
	}
	if group.CreatorID != actorID {
		return 0, models.NewForbiddenError("Seul le créateur peut retirer des membres")
	}

	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
			return 0, models.NewNotFoundError("Utilisateur à retirer non trouvé")
		}
		return 0, err
	}

	member, err := s.groups.IsMember(ctx, groupID, targetID)
	if err != nil {
		return 0, err
	}
	if !member {
		return 0, models.NewConflictError("Cet utilisateur n'est pas membre du groupe")
	}
	if targetID == group.CreatorID {
		return 0, models.NewConflictError("Le créateur ne peut pas être retiré du groupe")
	}

	if err := s.groups.RemoveMember(ctx, groupID, targetID); err != nil {
		return 0, err
	}
	return s.groups.CountMembers(ctx, groupID)
}

// Members returns the group roster, oldest membership first.
func (s *GroupService) Members(ctx context.Context, groupID uint) ([]models.User, error) {
	return s.groups.Members(ctx, groupID)
}
