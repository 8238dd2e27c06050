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

// WorkFilter narrows work listings. Nil/zero fields are ignored.
type WorkFilter struct {
	AuthorID   *uint
	WorkshopID *uint
	GroupID    *uint
	Type       string
	Status     string
	Sort       string // "popularity" (most liked first) or "" (recent)
}

// WorkRepository defines persistence operations for literary works, their
// likes and their comments.
type WorkRepository interface {
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.LiteraryWork, error)
	List(ctx context.Context, filter WorkFilter, currentUserID uint) ([]models.LiteraryWork, error)
	Create(ctx context.Context, work *models.LiteraryWork) error
	Update(ctx context.Context, work *models.LiteraryWork) error
	Delete(ctx context.Context, id uint) error
	CountCreatedSince(ctx context.Context, authorID uint, since time.Time) (int64, error)

	Like(ctx context.Context, userID, workID uint) error
	Unlike(ctx context.Context, userID, workID uint) error
	Likers(ctx context.Context, workID uint) ([]models.User, error)
	CountLikes(ctx context.Context, workID uint) (int64, error)

	AddComment(ctx context.Context, comment *models.Comment) error
	Comments(ctx context.Context, workID uint) ([]models.Comment, error)
}

type workRepository struct {
	db *gorm.DB
}

// NewWorkRepository returns a new WorkRepository implementation.
func NewWorkRepository(db *gorm.DB) WorkRepository {
	return &workRepository{db: db}
}

// withWorkDetails attaches the computed counters via correlated subqueries so
// a listing stays one round trip. The liked flag only makes sense for an
// authenticated reader.
func (r *workRepository) withWorkDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selects := "literary_works.*, " +
		"(SELECT COUNT(*) FROM literary_work_likes WHERE literary_work_likes.literary_work_id = literary_works.id) AS likes_count, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.literary_work_id = literary_works.id) AS comments_count"

	if currentUserID != 0 {
		selects += ", EXISTS(SELECT 1 FROM literary_work_likes WHERE literary_work_likes.literary_work_id = literary_works.id AND literary_work_likes.user_id = ?) AS liked"
		return db.Model(&models.LiteraryWork{}).Select(selects, currentUserID)
	}
	return db.Model(&models.LiteraryWork{}).Select(selects)
}

func (r *workRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.LiteraryWork, error) {
	var work models.LiteraryWork
	fetch := func() error {
		start := time.Now()
		err := r.withWorkDetails(r.db.WithContext(ctx), currentUserID).
			Preload("Author").
			Preload("Workshop").
			Preload("Group").
			Preload("Book").
			Preload("Comments", func(db *gorm.DB) *gorm.DB {
				return db.Order("comments.created_at ASC")
			}).
			Preload("Comments.User").
			Where("literary_works.id = ?", id).
			First(&work).Error
		observability.ObserveQuery("get_by_id", "literary_works", start)

		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Œuvre littéraire non trouvée")
			}
			return models.NewInternalError(err)
		}
		return nil
	}

	// The liked flag is per reader, so only anonymous reads go through the
	// cache. Authenticated reads always hit the database.
	if currentUserID == 0 {
		if err := cache.Aside(ctx, cache.WorkKey(id), &work, cache.WorkTTL, fetch); err != nil {
			return nil, err
		}
		return &work, nil
	}

	if err := fetch(); err != nil {
		return nil, err
	}
	return &work, nil
}

func (r *workRepository) List(ctx context.Context, filter WorkFilter, currentUserID uint) ([]models.LiteraryWork, error) {
	start := time.Now()
	query := r.withWorkDetails(r.db.WithContext(ctx), currentUserID).
		Preload("Author")

	if filter.AuthorID != nil {
		query = query.Where("literary_works.author_id = ?", *filter.AuthorID)
	}
	if filter.WorkshopID != nil {
		query = query.Where("literary_works.workshop_id = ?", *filter.WorkshopID)
	}
	if filter.GroupID != nil {
		query = query.Where("literary_works.group_id = ?", *filter.GroupID)
	}
	if filter.Type != "" {
		query = query.Where("literary_works.type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("literary_works.status = ?", filter.Status)
	}

	switch filter.Sort {
	case "popularity", "popular":
		query = query.Order("likes_count DESC, literary_works.created_at DESC")
	default:
		query = query.Order("literary_works.created_at DESC")
	}

	var works []models.LiteraryWork
	err := query.Find(&works).Error
	observability.ObserveQuery("list", "literary_works", start)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return works, nil
}

func (r *workRepository) Create(ctx context.Context, work *models.LiteraryWork) error {
	if err := r.db.WithContext(ctx).Create(work).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *workRepository) Update(ctx context.Context, work *models.LiteraryWork) error {
	if err := r.db.WithContext(ctx).Save(work).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateWork(ctx, work.ID)
	return nil
}

// Delete removes a work with its comments and likes in one transaction.
func (r *workRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("literary_work_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("literary_work_id = ?", id).Delete(&models.WorkLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.LiteraryWork{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateWork(ctx, id)
	return nil
}

func (r *workRepository) CountCreatedSince(ctx context.Context, authorID uint, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.LiteraryWork{}).
		Where("author_id = ? AND created_at >= ?", authorID, since).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *workRepository) Like(ctx context.Context, userID, workID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var work models.LiteraryWork
		if err := tx.Select("id").First(&work, workID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Œuvre littéraire non trouvée")
			}
			return models.NewInternalError(err)
		}

		var existing int64
		if err := tx.Model(&models.WorkLike{}).
			Where("user_id = ? AND literary_work_id = ?", userID, workID).
			Count(&existing).Error; err != nil {
			return models.NewInternalError(err)
		}
		if existing > 0 {
			return models.NewConflictError("Vous avez déjà aimé cette œuvre")
		}

		if err := tx.Create(&models.WorkLike{UserID: userID, LiteraryWorkID: workID}).Error; err != nil {
			if isUniqueConstraintError(err) {
				observability.MembershipConflicts.WithLabelValues("like").Inc()
				return models.NewConflictError("Vous avez déjà aimé cette œuvre")
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err == nil {
		cache.InvalidateWork(ctx, workID)
	}
	return err
}

func (r *workRepository) Unlike(ctx context.Context, userID, workID uint) error {
	var work models.LiteraryWork
	if err := r.db.WithContext(ctx).Select("id").First(&work, workID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Œuvre littéraire non trouvée")
		}
		return models.NewInternalError(err)
	}

	result := r.db.WithContext(ctx).
		Where("user_id = ? AND literary_work_id = ?", userID, workID).
		Delete(&models.WorkLike{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewConflictError("Vous n'avez pas aimé cette œuvre")
	}
	cache.InvalidateWork(ctx, workID)
	return nil
}

func (r *workRepository) CountLikes(ctx context.Context, workID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WorkLike{}).
		Where("literary_work_id = ?", workID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *workRepository) Likers(ctx context.Context, workID uint) ([]models.User, error) {
	var work models.LiteraryWork
	if err := r.db.WithContext(ctx).Select("id").First(&work, workID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Œuvre littéraire non trouvée")
		}
		return nil, models.NewInternalError(err)
	}

	var users []models.User
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN literary_work_likes ON literary_work_likes.user_id = users.id").
		Where("literary_work_likes.literary_work_id = ?", workID).
		Order("literary_work_likes.created_at ASC").
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *workRepository) AddComment(ctx context.Context, comment *models.Comment) error {
	var work models.LiteraryWork
	if err := r.db.WithContext(ctx).Select("id").First(&work, comment.LiteraryWorkID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Œuvre littéraire non trouvée")
		}
		return models.NewInternalError(err)
	}

	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	// Reload with the commenting user for the response payload.
	if err := r.db.WithContext(ctx).Preload("User").First(comment, comment.ID).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateWork(ctx, comment.LiteraryWorkID)
	return nil
}

func (r *workRepository) Comments(ctx context.Context, workID uint) ([]models.Comment, error) {
	var work models.LiteraryWork
	if err := r.db.WithContext(ctx).Select("id").First(&work, workID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Œuvre littéraire non trouvée")
		}
		return nil, models.NewInternalError(err)
	}

	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("literary_work_id = ?", workID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}
