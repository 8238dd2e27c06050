package server

import (
	"plume/internal/models"
	"plume/internal/repository"
	"plume/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateWork handles POST /api/literary-works
func (s *Server) CreateWork(c *fiber.Ctx) error {
	var req struct {
		Title      string            `json:"title"`
		Content    string            `json:"content"`
		Type       string            `json:"type"`
		Status     models.WorkStatus `json:"status"`
		WorkshopID *uint             `json:"workshop_id"`
		GroupID    *uint             `json:"group_id"`
		BookID     *uint             `json:"book_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Corps de requête invalide"))
	}

	work, err := s.workService.Create(c.Context(), currentUserID(c), service.CreateWorkInput{
		Title:      req.Title,
		Content:    req.Content,
		Type:       req.Type,
		Status:     req.Status,
		WorkshopID: req.WorkshopID,
		GroupID:    req.GroupID,
		BookID:     req.BookID,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Œuvre littéraire créée avec succès",
		"literary_work": fiber.Map{
			"id":         work.ID,
			"title":      work.Title,
			"type":       work.Type,
			"status":     work.Status,
			"created_at": work.CreatedAt,
		},
	})
}

// GetWorks handles GET /api/literary-works. Anonymous readers default to
// published works unless they ask for a status explicitly.
func (s *Server) GetWorks(c *fiber.Ctx) error {
	userID, authenticated := s.optionalUserID(c)

	filter := repository.WorkFilter{
		Type:   c.Query("type"),
		Status: c.Query("status"),
		Sort:   c.Query("sort_by"),
	}
	if v := c.QueryInt("author_id"); v > 0 {
		id := uint(v)
		filter.AuthorID = &id
	}
	if v := c.QueryInt("workshop_id"); v > 0 {
		id := uint(v)
		filter.WorkshopID = &id
	}
	if v := c.QueryInt("group_id"); v > 0 {
		id := uint(v)
		filter.GroupID = &id
	}
	if !authenticated && filter.Status == "" {
		filter.Status = string(models.WorkStatusPublished)
	}

	works, err := s.workService.List(c.Context(), filter, userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	list := make([]fiber.Map, 0, len(works))
	for _, w := range works {
		list = append(list, fiber.Map{
			"id":             w.ID,
			"title":          w.Title,
			"type":           w.Type,
			"status":         w.Status,
			"created_at":     w.CreatedAt,
			"updated_at":     w.UpdatedAt,
			"author":         w.Author.Summary(),
			"likes_count":    w.LikesCount,
			"comments_count": w.CommentsCount,
			"liked":          w.Liked,
		})
	}
	return c.JSON(list)
}

// GetWork handles GET /api/literary-works/:id
func (s *Server) GetWork(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := s.optionalUserID(c)

	work, err := s.workService.Get(c.Context(), id, userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	likers, err := s.workService.Likers(c.Context(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	work.Likers = make([]models.UserSummary, 0, len(likers))
	for _, u := range likers {
		work.Likers = append(work.Likers, u.Summary())
	}

	return c.JSON(work)
}

// UpdateWork handles PUT /api/literary-works/:id
func (s *Server) UpdateWork(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title      *string            `json:"title"`
		Content    *string            `json:"content"`
		Type       *string            `json:"type"`
		Status     *models.WorkStatus `json:"status"`
		WorkshopID *uint              `json:"workshop_id"`
		GroupID    *uint              `json:"group_id"`
		BookID     *uint              `json:"book_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Corps de requête invalide"))
	}

	work, err := s.workService.Update(c.Context(), currentUserID(c), id, service.UpdateWorkInput{
		Title:      req.Title,
		Content:    req.Content,
		Type:       req.Type,
		Status:     req.Status,
		WorkshopID: req.WorkshopID,
		GroupID:    req.GroupID,
		BookID:     req.BookID,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Œuvre littéraire mise à jour avec succès",
		"literary_work": fiber.Map{
			"id":         work.ID,
			"title":      work.Title,
			"type":       work.Type,
			"status":     work.Status,
			"updated_at": work.UpdatedAt,
		},
	})
}

// DeleteWork handles DELETE /api/literary-works/:id
func (s *Server) DeleteWork(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	userID := currentUserID(c)
	admin, err := s.isAdmin(c, userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	if err := s.workService.Delete(c.Context(), userID, admin, id); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Œuvre littéraire supprimée avec succès",
	})
}

// LikeWork handles POST /api/literary-works/:id/like
func (s *Server) LikeWork(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	count, err := s.workService.Like(c.Context(), currentUserID(c), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":     "Like ajouté avec succès",
		"likes_count": count,
	})
}

// UnlikeWork handles POST /api/literary-works/:id/unlike
func (s *Server) UnlikeWork(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	count, err := s.workService.Unlike(c.Context(), currentUserID(c), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":     "Like retiré avec succès",
		"likes_count": count,
	})
}

// AddComment handles POST /api/literary-works/:id/comments
func (s *Server) AddComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
		Rating  *int   `json:"rating"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Corps de requête invalide"))
	}

	comment, err := s.workService.AddComment(c.Context(), currentUserID(c), id, req.Content, req.Rating)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Commentaire ajouté avec succès",
		"comment": fiber.Map{
			"id":         comment.ID,
			"content":    comment.Content,
			"rating":     comment.Rating,
			"created_at": comment.CreatedAt,
			"user": fiber.Map{
				"id":       comment.User.ID,
				"username": comment.User.Username,
			},
		},
	})
}

// GetComments handles GET /api/literary-works/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.workService.Comments(c.Context(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(comments)
}

// GetPublicationLimit handles GET /api/literary-works/publication-limit
func (s *Server) GetPublicationLimit(c *fiber.Ctx) error {
	status, err := s.workService.PublicationLimit(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(status)
}
