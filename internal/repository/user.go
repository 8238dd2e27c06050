package repository

import (
	"context"
	"errors"

	"plume/internal/cache"
	"plume/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	key := cache.UserKey(id)

	err := cache.Aside(ctx, key, &user, cache.UserTTL, func() error {
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Utilisateur non trouvé")
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			// Handlers check username/email beforehand; this is the race fallback.
			return models.NewConflictError("Ce nom d'utilisateur ou cet email est déjà utilisé")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Ce nom d'utilisateur ou cet email est déjà utilisé")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

// Delete removes a user and everything they own: works (with their comments
// and likes), created workshops and groups (with their works), own comments,
// likes and memberships. One transaction, no orphaned ownership.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var workshopIDs []uint
		if err := tx.Model(&models.Workshop{}).Where("creator_id = ?", id).Pluck("id", &workshopIDs).Error; err != nil {
			return err
		}
		var groupIDs []uint
		if err := tx.Model(&models.Group{}).Where("creator_id = ?", id).Pluck("id", &groupIDs).Error; err != nil {
			return err
		}

		// Works owned directly plus works living in the user's workshops/groups.
		workQuery := tx.Model(&models.LiteraryWork{}).Where("author_id = ?", id)
		if len(workshopIDs) > 0 {
			workQuery = workQuery.Or("workshop_id IN ?", workshopIDs)
		}
		if len(groupIDs) > 0 {
			workQuery = workQuery.Or("group_id IN ?", groupIDs)
		}
		var workIDs []uint
		if err := workQuery.Pluck("id", &workIDs).Error; err != nil {
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

		if len(workshopIDs) > 0 {
			if err := tx.Where("workshop_id IN ?", workshopIDs).Delete(&models.WorkshopParticipant{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", workshopIDs).Delete(&models.Workshop{}).Error; err != nil {
				return err
			}
		}
		if len(groupIDs) > 0 {
			if err := tx.Where("group_id IN ?", groupIDs).Delete(&models.GroupMember{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", groupIDs).Delete(&models.Group{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.WorkLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.WorkshopParticipant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.GroupMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
