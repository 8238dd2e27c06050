package service

import (
	"context"
	"strings"
	"time"

	"plume/internal/models"
	"plume/internal/repository"
)

// CreateWorkshopInput carries the fields accepted on workshop creation.
// Dates are parsed by the handler; a nil date means none was given.
type CreateWorkshopInput struct {
	Title       string
	Description string
	Theme       string
	Status      models.WorkshopStatus
	StartDate   *time.Time
	EndDate     *time.Time
}

// UpdateWorkshopInput carries the fields accepted on workshop update.
type UpdateWorkshopInput struct {
	Title       *string
	Description *string
	Theme       *string
	Status      *models.WorkshopStatus
	StartDate   *time.Time
	EndDate     *time.Time
}

// WorkshopService enforces workshop rules: creator auto-enrollment, creator
// permanence, and ownership on mutations.
type WorkshopService struct {
	workshops repository.WorkshopRepository
}

// NewWorkshopService returns a new WorkshopService.
func NewWorkshopService(workshops repository.WorkshopRepository) *WorkshopService {
	return &WorkshopService{workshops: workshops}
}

// Create validates the input and stores the workshop with its creator
// enrolled. Status defaults to planning.
func (s *WorkshopService) Create(ctx context.Context, creatorID uint, in CreateWorkshopInput) (*models.Workshop, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" || strings.TrimSpace(in.Theme) == "" {
		return nil, models.NewValidationError("Tous les champs requis doivent être remplis")
	}

	workshop := &models.Workshop{
		Title:       in.Title,
		Description: in.Description,
		Theme:       in.Theme,
		Status:      in.Status,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		CreatorID:   creatorID,
	}
	if workshop.Status == "" {
		workshop.Status = models.WorkshopStatusPlanning
	}

	if err := s.workshops.Create(ctx, workshop); err != nil {
		return nil, err
	}
	return workshop, nil
}

// Get returns the workshop detail.
func (s *WorkshopService) Get(ctx context.Context, workshopID uint) (*models.Workshop, error) {
	return s.workshops.GetByID(ctx, workshopID)
}

// List returns workshops matching the filter, newest first.
func (s *WorkshopService) List(ctx context.Context, filter repository.WorkshopFilter) ([]models.Workshop, error) {
	return s.workshops.List(ctx, filter)
}

// Update applies a partial update. Only the creator may modify a workshop.
func (s *WorkshopService) Update(ctx context.Context, userID, workshopID uint, in UpdateWorkshopInput) (*models.Workshop, error) {
	workshop, err := s.workshops.GetByID(ctx, workshopID)
	if err != nil {
		return nil, err
	}
	if workshop.CreatorID != userID {
		return nil, models.NewForbiddenError("Vous n'êtes pas autorisé à modifier cet atelier")
	}

	if in.Title != nil {
		workshop.Title = *in.Title
	}
	if in.Description != nil {
		workshop.Description = *in.Description
	}
	if in.Theme != nil {
		workshop.Theme = *in.Theme
	}
	if in.Status != nil {
		workshop.Status = *in.Status
	}
	if in.StartDate != nil {
		workshop.StartDate = in.StartDate
	}
	if in.EndDate != nil {
		workshop.EndDate = in.EndDate
	}

	if err := s.workshops.Update(ctx, workshop); err != nil {
		return nil, err
	}
	return workshop, nil
}

// Delete removes a workshop and its contents. The creator may always delete
// their workshop; admins may delete any.
func (s *WorkshopService) Delete(ctx context.Context, userID uint, isAdmin bool, workshopID uint) error {
	workshop, err := s.workshops.GetByID(ctx, workshopID)
	if err != nil {
		return err
	}
	if workshop.CreatorID != userID && !isAdmin {
		return models.NewForbiddenError("Vous n'êtes pas autorisé à supprimer cet atelier")
	}
	return s.workshops.Delete(ctx, workshopID)
}

// Join enrolls the user and returns the new participant count. Joining twice
// is a conflict.
func (s *WorkshopService) Join(ctx context.Context, userID, workshopID uint) (int64, error) {
	if _, err := s.workshops.GetByID(ctx, workshopID); err != nil {
		return 0, err
	}

	already, err := s.workshops.IsParticipant(ctx, workshopID, userID)
	if err != nil {
		return 0, err
	}
	if already {
		return 0, models.NewConflictError("Vous êtes déjà participant à cet atelier")
	}

	if err := s.workshops.AddParticipant(ctx, workshopID, userID); err != nil {
		return 0, err
	}
	return s.workshops.CountParticipants(ctx, workshopID)
}

// Leave withdraws the user and returns the new participant count. The
// creator cannot leave their own workshop.
func (s *WorkshopService) Leave(ctx context.Context, userID, workshopID uint) (int64, error) {
	workshop, err := s.workshops.GetByID(ctx, workshopID)
	if err != nil {
		return 0, err
	}

	participant, err := s.workshops.IsParticipant(ctx, workshopID, userID)
	if err != nil {
		return 0, err
	}
	if !participant {
		return 0, models.NewConflictError("Vous n'êtes pas participant à cet atelier")
	}
	if workshop.CreatorID == userID {
		return 0, models.NewConflictError("Le créateur ne peut pas quitter l'atelier")
	}

	if err := s.workshops.RemoveParticipant(ctx, workshopID, userID); err != nil {
		return 0, err
	}
	return s.workshops.CountParticipants(ctx, workshopID)
}

// Participants returns the workshop roster, oldest enrollment first.
func (s *WorkshopService) Participants(ctx context.Context, workshopID uint) ([]models.User, error) {
	return s.workshops.Participants(ctx, workshopID)
}
