package server

import (
	"errors"
	"time"

	"plume/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint. On failure
// it writes a 400 JSON response and returns errResponseWritten. Callers
// should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Identifiant invalide"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// currentUserID returns the authenticated user ID stored by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	return c.Locals("userID").(uint)
}

// isAdmin reports whether the user holds the admin role. It reads the stored
// user rather than the token claims, so a role change does not outlive the
// token; the user cache may delay it by up to cache.UserTTL.
func (s *Server) isAdmin(c *fiber.Ctx, userID uint) (bool, error) {
	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
			return false, nil
		}
		return false, err
	}
	return user.IsAdmin(), nil
}

// parseOptionalDate parses an ISO-8601 date field. On a malformed value it
// writes a 400 with the given French message and returns errResponseWritten.
func parseOptionalDate(c *fiber.Ctx, value *string, invalidMsg string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, *value); err == nil {
			return &t, nil
		}
	}
	_ = models.RespondWithError(c, fiber.StatusBadRequest,
		models.NewValidationError(invalidMsg))
	return nil, errResponseWritten
}
