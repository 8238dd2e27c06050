package server

import (
	"plume/internal/models"
	"plume/internal/repository"
	"plume/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateWorkshop handles POST /api/workshops
func (s *Server) CreateWorkshop(c *fiber.Ctx) error {
	var req struct {
		Title       string                `json:"title"`
		Description string                `json:"description"`
		Theme       string                `json:"theme"`
		Status      models.WorkshopStatus `json:"status"`
		StartDate   *string               `json:"start_date"`
		EndDate     *string               `json:"end_date"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Corps de requête invalide"))
	}

	startDate, err := parseOptionalDate(c, req.StartDate, "Format de date de début invalide")
	if err != nil {
		return nil
	}
	endDate, err := parseOptionalDate(c, req.EndDate, "Format de date de fin invalide")
	if err != nil {
		return nil
	}

	workshop, err := s.workshopService.Create(c.Context(), currentUserID(c), service.CreateWorkshopInput{
		Title:       req.Title,
		Description: req.Description,
		Theme:       req.Theme,
		Status:      req.Status,
		StartDate:   startDate,
		EndDate:     endDate,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Atelier créé avec succès",
		"workshop": fiber.Map{
			"id":         workshop.ID,
			"title":      workshop.Title,
			"theme":      workshop.Theme,
			"status":     workshop.Status,
			"created_at": workshop.CreatedAt,
		},
	})
}

// GetWorkshops handles GET /api/workshops
func (s *Server) GetWorkshops(c *fiber.Ctx) error {
	filter := repository.WorkshopFilter{
		Status: c.Query("status"),
		Theme:  c.Query("theme"),
	}
	if v := c.QueryInt("creator_id"); v > 0 {
		id := uint(v)
		filter.CreatorID = &id
	}
	if v := c.QueryInt("participant_id"); v > 0 {
		id := uint(v)
		filter.ParticipantID = &id
	}

	workshops, err := s.workshopService.List(c.Context(), filter)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	list := make([]fiber.Map, 0, len(workshops))
	for _, w := range workshops {
		list = append(list, fiber.Map{
			"id":                 w.ID,
			"title":              w.Title,
			"description":        w.Description,
			"theme":              w.Theme,
			"status":             w.Status,
			"start_date":         w.StartDate,
			"end_date":           w.EndDate,
			"created_at":         w.CreatedAt,
			"creator":            w.Creator.Summary(),
			"participants_count": w.ParticipantsCount,
		})
	}
	return c.JSON(list)
}

// GetWorkshop handles GET /api/workshops/:id with the roster and the works
// published inside it.
func (s *Server) GetWorkshop(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	workshop, err := s.workshopService.Get(c.Context(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	participants, err := s.workshopService.Participants(c.Context(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	participantList := make([]models.UserSummary, 0, len(participants))
	for _, p := range participants {
		participantList = append(participantList, p.Summary())
	}

	works, err := s.workRepo.List(c.Context(), repository.WorkFilter{WorkshopID: &id}, 0)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	workList := make([]fiber.Map, 0, len(works))
	for _, w := range works {
		workList = append(workList, fiber.Map{
			"id":         w.ID,
			"title":      w.Title,
			"type":       w.Type,
			"status":     w.Status,
			"created_at": w.CreatedAt,
			"author": fiber.Map{
				"id":       w.Author.ID,
				"username": w.Author.Username,
			},
		})
	}

	return c.JSON(fiber.Map{
		"id":           workshop.ID,
		"title":        workshop.Title,
		"description":  workshop.Description,
		"theme":        workshop.Theme,
		"status":       workshop.Status,
		"start_date":   workshop.StartDate,
		"end_date":     workshop.EndDate,
		"created_at":   workshop.CreatedAt,
		"creator":      workshop.Creator.Summary(),
		"participants": participantList,
		"works":        workList,
	})
}

// UpdateWorkshop handles PUT /api/workshops/:id
func (s *Server) UpdateWorkshop(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title       *string                `json:"title"`
		Description *string                `json:"description"`
		Theme       *string                `json:"theme"`
		Status      *models.WorkshopStatus `json:"status"`
		StartDate   *string                `json:"start_date"`
		EndDate     *string                `json:"end_date"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Corps de requête invalide"))
	}

	startDate, err := parseOptionalDate(c, req.StartDate, "Format de date de début invalide")
	if err != nil {
		return nil
	}
	endDate, err := parseOptionalDate(c, req.EndDate, "Format de date de fin invalide")
	if err != nil {
		return nil
	}

	workshop, err := s.workshopService.Update(c.Context(), currentUserID(c), id, service.UpdateWorkshopInput{
		Title:       req.Title,
		Description: req.Description,
		Theme:       req.Theme,
		Status:      req.Status,
		StartDate:   startDate,
		EndDate:     endDate,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Atelier mis à jour avec succès",
		"workshop": fiber.Map{
			"id":     workshop.ID,
			"title":  workshop.Title,
			"theme":  workshop.Theme,
			"status": workshop.Status,
		},
	})
}

// DeleteWorkshop handles DELETE /api/workshops/:id
func (s *Server) DeleteWorkshop(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	userID := currentUserID(c)
	admin, err := s.isAdmin(c, userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	if err := s.workshopService.Delete(c.Context(), userID, admin, id); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Atelier supprimé avec succès",
	})
}

// JoinWorkshop handles POST /api/workshops/:id/join
func (s *Server) JoinWorkshop(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	count, err := s.workshopService.Join(c.Context(), currentUserID(c), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":            "Vous avez rejoint l'atelier avec succès",
		"participants_count": count,
	})
}

// LeaveWorkshop handles POST /api/workshops/:id/leave
func (s *Server) LeaveWorkshop(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	count, err := s.workshopService.Leave(c.Context(), currentUserID(c), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":            "Vous avez quitté l'atelier avec succès",
		"participants_count": count,
	})
}
