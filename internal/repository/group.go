package repository

import (
	"context"
	"errors"
	"time"

	"plume/internal/cache"
	"plume/internal/models"
	"plume/internal/observability"

	"gorm.io/gorm"
)

// GroupFilter narrows group listings. Nil fields are ignored.
type GroupFilter struct {
	CreatorID *uint
	MemberID  *uint
	IsPrivate *bool
}

// GroupRepository defines persistence operations for groups and their
// member rosters.
type GroupRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Group, error)
	GetByName(ctx context.Context, name string) (*models.Group, error)
	List(ctx context.Context, filter GroupFilter) ([]models.Group, error)
	Create(ctx context.Context, group *models.Group) error
	Update(ctx context.Context, group *models.Group) error
	Delete(ctx context.Context, id uint) error

	IsMember(ctx context.Context, groupID, userID uint) (bool, error)
	AddMember(ctx context.Context, groupID, userID uint) error
	RemoveMember(ctx context.Context, groupID, userID uint) error
	Members(ctx context.Context, groupID uint) ([]models.User, error)
	CountMembers(ctx context.Context, groupID uint) (int64, error)
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository returns a new GroupRepository implementation.
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) withDetails(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Group{}).Select(
		"groups.*, " +
			"(SELECT COUNT(*) FROM group_members WHERE group_members.group_id = groups.id) AS members_count, " +
			"(SELECT COUNT(*) FROM literary_works WHERE literary_works.group_id = groups.id) AS works_count",
	)
}

func (r *groupRepository) GetByID(ctx context.Context, id uint) (*models.Group, error) {
	var group models.Group
	err := cache.Aside(ctx, cache.GroupKey(id), &group, cache.GroupTTL, func() error {
		err := r.withDetails(r.db.WithContext(ctx)).
			Preload("Creator").
			Where("groups.id = ?", id).
			First(&group).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Groupe non trouvé")
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) GetByName(ctx context.Context, name string) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &group, nil
}

func (r *groupRepository) List(ctx context.Context, filter GroupFilter) ([]models.Group, error) {
	start := time.Now()
	query := r.withDetails(r.db.WithContext(ctx)).Preload("Creator")

	if filter.CreatorID != nil {
		query = query.Where("groups.creator_id = ?", *filter.CreatorID)
	}
	if filter.IsPrivate != nil {
		query = query.Where("groups.is_private = ?", *filter.IsPrivate)
	}
	if filter.MemberID != nil {
		query = query.Where(
			"EXISTS(SELECT 1 FROM group_members WHERE group_members.group_id = groups.id AND group_members.user_id = ?)",
			*filter.MemberID,
		)
	}

	var groups []models.Group
	err := query.
		Order("groups.created_at DESC").
		Find(&groups).Error
	observability.ObserveQuery("list", "groups", start)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return groups, nil
}

// Create inserts the group and enrolls its creator as first member in the
// same transaction.
func (r *groupRepository) Create(ctx context.Context, group *models.Group) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			if isUniqueConstraintError(err) {
				return models.NewConflictError("Un groupe avec ce nom existe déjà")
			}
			return models.NewInternalError(err)
		}
		if err := tx.Create(&models.GroupMember{
			UserID:  group.CreatorID,
			GroupID: group.ID,
		}).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	return err
}

func (r *groupRepository) Update(ctx context.Context, group *models.Group) error {
	if err := r.db.WithContext(ctx).Save(group).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Un groupe avec ce nom existe déjà")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateGroup(ctx, group.ID)
	return nil
}

// Delete removes a group, its roster, and the works published inside it
// (with their comments and likes).
func (r *groupRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var workIDs []uint
		if err := tx.Model(&models.LiteraryWork{}).Where("group_id = ?", id).Pluck("id", &workIDs).Error; err != nil {
			return err
		}
		if len(workIDs) > 0 {
			if err := tx.Where("literary_work_id IN ?", workIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("literary_work_id IN ?", workIDs).Delete(&models.WorkLike{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", workIDs).Delete(&models.LiteraryWork{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("group_id = ?", id).Delete(&models.GroupMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Group{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateGroup(ctx, id)
	return nil
}

func (r *groupRepository) IsMember(ctx context.Context, groupID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *groupRepository) AddMember(ctx context.Context, groupID, userID uint) error {
	err := r.db.WithContext(ctx).Create(&models.GroupMember{
		UserID:  userID,
		GroupID: groupID,
	}).Error
	if err != nil {
		if isUniqueConstraintError(err) {
			observability.MembershipConflicts.WithLabelValues("group").Inc()
			return models.NewConflictError("Cet utilisateur est déjà membre du groupe")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateGroup(ctx, groupID)
	return nil
}

func (r *groupRepository) RemoveMember(ctx context.Context, groupID, userID uint) error {
	result := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&models.GroupMember{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewConflictError("Cet utilisateur n'est pas membre du groupe")
	}
	cache.InvalidateGroup(ctx, groupID)
	return nil
}

func (r *groupRepository) CountMembers(ctx context.Context, groupID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.GroupMember{}).
		Where("group_id = ?", groupID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *groupRepository) Members(ctx context.Context, groupID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN group_members ON group_members.user_id = users.id").
		Where("group_members.group_id = ?", groupID).
		Order("group_members.created_at ASC").
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
