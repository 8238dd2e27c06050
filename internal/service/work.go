// Package service implements the business rules sitting between HTTP
// handlers and repositories: publication quotas, ownership checks and
// membership semantics.
package service

import (
	"context"
	"strings"
	"time"

	"plume/internal/models"
	"plume/internal/observability"
	"plume/internal/repository"
	"plume/internal/validation"
)

const (
	// PublicationQuota is the maximum number of works an author may create
	// inside one trailing window.
	PublicationQuota = 2
	// PublicationWindow is the trailing period over which the quota is
	// counted, against created_at at request time.
	PublicationWindow = 7 * 24 * time.Hour
)

// PublicationLimitStatus reports an author's standing against the weekly
// publication quota.
type PublicationLimitStatus struct {
	PublicationsThisWeek  int64 `json:"publications_this_week"`
	RemainingPublications int64 `json:"remaining_publications"`
	CanPublish            bool  `json:"can_publish"`
	Limit                 int   `json:"limit"`
}

// CreateWorkInput carries the fields accepted on work creation.
type CreateWorkInput struct {
	Title      string
	Content    string
	Type       string
	Status     models.WorkStatus
	WorkshopID *uint
	GroupID    *uint
	BookID     *uint
}

// UpdateWorkInput carries the fields accepted on work update. Nil pointers
// leave the stored value untouched.
type UpdateWorkInput struct {
	Title      *string
	Content    *string
	Type       *string
	Status     *models.WorkStatus
	WorkshopID *uint
	GroupID    *uint
	BookID     *uint
}

// WorkService enforces the rules around literary works: the publication
// quota, ownership on mutations, and like/comment semantics.
type WorkService struct {
	works repository.WorkRepository
}

// NewWorkService returns a new WorkService.
func NewWorkService(works repository.WorkRepository) *WorkService {
	return &WorkService{works: works}
}

// Create validates the input, applies the publication quota and stores the
// work. Status defaults to draft.
func (s *WorkService) Create(ctx context.Context, authorID uint, in CreateWorkInput) (*models.LiteraryWork, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" || strings.TrimSpace(in.Type) == "" {
		return nil, models.NewValidationError("Tous les champs requis doivent être remplis")
	}

	status, err := s.PublicationLimit(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if !status.CanPublish {
		observability.PublicationLimitRejections.Inc()
		return nil, models.NewRateLimitError("Vous avez atteint la limite de 2 publications par semaine")
	}

	work := &models.LiteraryWork{
		Title:      in.Title,
		Content:    in.Content,
		Type:       in.Type,
		Status:     in.Status,
		AuthorID:   authorID,
		WorkshopID: in.WorkshopID,
		GroupID:    in.GroupID,
		BookID:     in.BookID,
	}
	if work.Status == "" {
		work.Status = models.WorkStatusDraft
	}

	if err := s.works.Create(ctx, work); err != nil {
		return nil, err
	}
	return work, nil
}

// PublicationLimit counts the author's works created inside the trailing
// window and derives the remaining quota.
func (s *WorkService) PublicationLimit(ctx context.Context, authorID uint) (*PublicationLimitStatus, error) {
	since := time.Now().Add(-PublicationWindow)
	count, err := s.works.CountCreatedSince(ctx, authorID, since)
	if err != nil {
		return nil, err
	}

	remaining := int64(PublicationQuota) - count
	if remaining < 0 {
		remaining = 0
	}
	return &PublicationLimitStatus{
		PublicationsThisWeek:  count,
		RemainingPublications: remaining,
		CanPublish:            remaining > 0,
		Limit:                 PublicationQuota,
	}, nil
}

// Get returns the full work detail. currentUserID feeds the liked flag and
// may be zero for anonymous readers.
func (s *WorkService) Get(ctx context.Context, workID, currentUserID uint) (*models.LiteraryWork, error) {
	return s.works.GetByID(ctx, workID, currentUserID)
}

// List returns works matching the filter. Anonymous readers only see
// published works; the handler forces that filter.
func (s *WorkService) List(ctx context.Context, filter repository.WorkFilter, currentUserID uint) ([]models.LiteraryWork, error) {
	return s.works.List(ctx, filter, currentUserID)
}

// Update applies a partial update. Only the author may modify a work; admins
// have no override here.
func (s *WorkService) Update(ctx context.Context, userID, workID uint, in UpdateWorkInput) (*models.LiteraryWork, error) {
	work, err := s.works.GetByID(ctx, workID, userID)
	if err != nil {
		return nil, err
	}
	if work.AuthorID != userID {
		return nil, models.NewForbiddenError("Vous n'êtes pas autorisé à modifier cette œuvre")
	}

	if in.Title != nil {
		work.Title = *in.Title
	}
	if in.Content != nil {
		work.Content = *in.Content
	}
	if in.Type != nil {
		work.Type = *in.Type
	}
	if in.Status != nil {
		work.Status = *in.Status
	}
	if in.WorkshopID != nil {
		work.WorkshopID = in.WorkshopID
	}
	if in.GroupID != nil {
		work.GroupID = in.GroupID
	}
	if in.BookID != nil {
		work.BookID = in.BookID
	}

	if err := s.works.Update(ctx, work); err != nil {
		return nil, err
	}
	return work, nil
}

// Delete removes a work. The author may always delete their own work; admins
// may delete any.
func (s *WorkService) Delete(ctx context.Context, userID uint, isAdmin bool, workID uint) error {
	work, err := s.works.GetByID(ctx, workID, 0)
	if err != nil {
		return err
	}
	if work.AuthorID != userID && !isAdmin {
		return models.NewForbiddenError("Vous n'êtes pas autorisé à supprimer cette œuvre")
	}
	return s.works.Delete(ctx, workID)
}

// Like records a like and returns the new like count. Liking twice is a
// conflict.
func (s *WorkService) Like(ctx context.Context, userID, workID uint) (int64, error) {
	if err := s.works.Like(ctx, userID, workID); err != nil {
		return 0, err
	}
	return s.works.CountLikes(ctx, workID)
}

// Unlike removes a like and returns the new like count. Unliking a work that
// was never liked is a conflict.
func (s *WorkService) Unlike(ctx context.Context, userID, workID uint) (int64, error) {
	if err := s.works.Unlike(ctx, userID, workID); err != nil {
		return 0, err
	}
	return s.works.CountLikes(ctx, workID)
}

// Likers returns the users who liked the work.
func (s *WorkService) Likers(ctx context.Context, workID uint) ([]models.User, error) {
	return s.works.Likers(ctx, workID)
}

// AddComment validates and stores a comment with its optional 1-5 rating.
func (s *WorkService) AddComment(ctx context.Context, userID, workID uint, content string, rating *int) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError("Le contenu du commentaire est requis")
	}
	if err := validation.ValidateRating(rating); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	comment := &models.Comment{
		Content:        content,
		Rating:         rating,
		UserID:         userID,
		LiteraryWorkID: workID,
	}
	if err := s.works.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Comments returns the comments of a work, oldest first.
func (s *WorkService) Comments(ctx context.Context, workID uint) ([]models.Comment, error) {
	return s.works.Comments(ctx, workID)
}
