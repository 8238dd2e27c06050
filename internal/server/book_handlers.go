package server

import (
	"strings"

	"plume/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateBook handles POST /api/books
func (s *Server) CreateBook(c *fiber.Ctx) error {
	var req struct {
		Title       string  `json:"title"`
		Author      string  `json:"author"`
		PublishedAt *string `json:"published_at"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Corps de requête invalide"))
	}

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Author) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Tous les champs requis doivent être remplis"))
	}

	publishedAt, err := parseOptionalDate(c, req.PublishedAt, "Format de date invalide")
	if err != nil {
		return nil
	}

	book := &models.Book{
		Title:       req.Title,
		Author:      req.Author,
		PublishedAt: publishedAt,
	}
	if err := s.bookRepo.Create(c.Context(), book); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Livre créé avec succès",
		"book":    book,
	})
}

// GetBooks handles GET /api/books
func (s *Server) GetBooks(c *fiber.Ctx) error {
	books, err := s.bookRepo.List(c.Context())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(books)
}

// GetBook handles GET /api/books/:id
func (s *Server) GetBook(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	book, err := s.bookRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(book)
}

// UpdateBook handles PUT /api/books/:id (admin only)
func (s *Server) UpdateBook(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	book, err := s.bookRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	var req struct {
		Title       *string `json:"title"`
		Author      *string `json:"author"`
		PublishedAt *string `json:"published_at"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Corps de requête invalide"))
	}

	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.PublishedAt != nil {
		publishedAt, err := parseOptionalDate(c, req.PublishedAt, "Format de date invalide")
		if err != nil {
			return nil
		}
		book.PublishedAt = publishedAt
	}

	if err := s.bookRepo.Update(c.Context(), book); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Livre mis à jour avec succès",
		"book":    book,
	})
}

// DeleteBook handles DELETE /api/books/:id (admin only)
func (s *Server) DeleteBook(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if _, err := s.bookRepo.GetByID(c.Context(), id); err != nil {
		return models.RespondWithAppError(c, err)
	}
	if err := s.bookRepo.Delete(c.Context(), id); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Livre supprimé avec succès",
	})
}
