package repository

import (
	"context"
	"errors"

	"plume/internal/models"

	"gorm.io/gorm"
)

// BookRepository defines persistence operations for the book catalog.
type BookRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Book, error)
	List(ctx context.Context) ([]models.Book, error)
	Create(ctx context.Context, book *models.Book) error
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id uint) error
}

type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository returns a new BookRepository implementation.
func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) GetByID(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).First(&book, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Livre non trouvé")
		}
		return nil, models.NewInternalError(err)
	}
	return &book, nil
}

func (r *bookRepository) List(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&books).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return books, nil
}

func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *bookRepository) Update(ctx context.Context, book *models.Book) error {
	if err := r.db.WithContext(ctx).Save(book).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete detaches works referencing the book before removing it. Works
// survive their book.
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.LiteraryWork{}).
			Where("book_id = ?", id).
			Update("book_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Book{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
