package repository

import (
	"context"
	"errors"
	"time"

	"plume/internal/models"
	"plume/internal/observability"

	"gorm.io/gorm"
)

// WorkshopFilter narrows workshop listings. Nil/zero fields are ignored.
type WorkshopFilter struct {
	CreatorID     *uint
	ParticipantID *uint
	Status        string
	Theme         string
}

// WorkshopRepository defines persistence operations for workshops and their
// participant rosters.
type WorkshopRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Workshop, error)
	List(ctx context.Context, filter WorkshopFilter) ([]models.Workshop, error)
	Create(ctx context.Context, workshop *models.Workshop) error
	Update(ctx context.Context, workshop *models.Workshop) error
	Delete(ctx context.Context, id uint) error

	IsParticipant(ctx context.Context, workshopID, userID uint) (bool, error)
	AddParticipant(ctx context.Context, workshopID, userID uint) error
	RemoveParticipant(ctx context.Context, workshopID, userID uint) error
	Participants(ctx context.Context, workshopID uint) ([]models.User, error)
	CountParticipants(ctx context.Context, workshopID uint) (int64, error)
}

type workshopRepository struct {
	db *gorm.DB
}

// NewWorkshopRepository returns a new WorkshopRepository implementation.
func NewWorkshopRepository(db *gorm.DB) WorkshopRepository {
	return &workshopRepository{db: db}
}

func (r *workshopRepository) withDetails(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Workshop{}).Select(
		"workshops.*, " +
			"(SELECT COUNT(*) FROM workshop_participants WHERE workshop_participants.workshop_id = workshops.id) AS participants_count",
	)
}

func (r *workshopRepository) GetByID(ctx context.Context, id uint) (*models.Workshop, error) {
	var workshop models.Workshop
	err := r.withDetails(r.db.WithContext(ctx)).
		Preload("Creator").
		Where("workshops.id = ?", id).
		First(&workshop).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Atelier non trouvé")
		}
		return nil, models.NewInternalError(err)
	}
	return &workshop, nil
}

func (r *workshopRepository) List(ctx context.Context, filter WorkshopFilter) ([]models.Workshop, error) {
	start := time.Now()
	query := r.withDetails(r.db.WithContext(ctx)).Preload("Creator")

	if filter.CreatorID != nil {
		query = query.Where("workshops.creator_id = ?", *filter.CreatorID)
	}
	if filter.Status != "" {
		query = query.Where("workshops.status = ?", filter.Status)
	}
	if filter.Theme != "" {
		query = query.Where("workshops.theme = ?", filter.Theme)
	}
	if filter.ParticipantID != nil {
		query = query.Where(
			"EXISTS(SELECT 1 FROM workshop_participants WHERE workshop_participants.workshop_id = workshops.id AND workshop_participants.user_id = ?)",
			*filter.ParticipantID,
		)
	}

	var workshops []models.Workshop
	err := query.
		Order("workshops.created_at DESC").
		Find(&workshops).Error
	observability.ObserveQuery("list", "workshops", start)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return workshops, nil
}

// Create inserts the workshop and enrolls its creator in the same
// transaction.
func (r *workshopRepository) Create(ctx context.Context, workshop *models.Workshop) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(workshop).Error; err != nil {
			return err
		}
		return tx.Create(&models.WorkshopParticipant{
			UserID:     workshop.CreatorID,
			WorkshopID: workshop.ID,
		}).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *workshopRepository) Update(ctx context.Context, workshop *models.Workshop) error {
	if err := r.db.WithContext(ctx).Save(workshop).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes a workshop, its roster, and the works published inside it
// (with their comments and likes).
func (r *workshopRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var workIDs []uint
		if err := tx.Model(&models.LiteraryWork{}).Where("workshop_id = ?", id).Pluck("id", &workIDs).Error; err != nil {
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
		if err := tx.Where("workshop_id = ?", id).Delete(&models.WorkshopParticipant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Workshop{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *workshopRepository) IsParticipant(ctx context.Context, workshopID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WorkshopParticipant{}).
		Where("workshop_id = ? AND user_id = ?", workshopID, userID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *workshopRepository) AddParticipant(ctx context.Context, workshopID, userID uint) error {
	err := r.db.WithContext(ctx).Create(&models.WorkshopParticipant{
		UserID:     userID,
		WorkshopID: workshopID,
	}).Error
	if err != nil {
		if isUniqueConstraintError(err) {
			observability.MembershipConflicts.WithLabelValues("workshop").Inc()
			return models.NewConflictError("Vous êtes déjà participant à cet atelier")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *workshopRepository) RemoveParticipant(ctx context.Context, workshopID, userID uint) error {
	result := r.db.WithContext(ctx).
		Where("workshop_id = ? AND user_id = ?", workshopID, userID).
		Delete(&models.WorkshopParticipant{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewConflictError("Vous n'êtes pas participant à cet atelier")
	}
	return nil
}

func (r *workshopRepository) CountParticipants(ctx context.Context, workshopID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WorkshopParticipant{}).
		Where("workshop_id = ?", workshopID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *workshopRepository) Participants(ctx context.Context, workshopID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN workshop_participants ON workshop_participants.user_id = users.id").
		Where("workshop_participants.workshop_id = ?", workshopID).
		Order("workshop_participants.created_at ASC").
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
