package server

import (
	"plume/internal/models"
	"plume/internal/validation"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// GetProfile handles GET /api/profile
func (s *Server) GetProfile(c *fiber.Ctx) error {
	user, err := s.userRepo.GetByID(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}

// UpdateProfile handles PUT /api/profile. Username and email changes re-check
// uniqueness; a provided password is re-hashed.
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	user, err := s.userRepo.GetByID(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	var req struct {
		Username       *string `json:"username"`
		Email          *string `json:"email"`
		Password       *string `json:"password"`
		FirstName      *string `json:"first_name"`
		LastName       *string `json:"last_name"`
		Bio            *string `json:"bio"`
		ProfilePicture *string `json:"profile_picture"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Corps de requête invalide"))
	}

	if req.Username != nil && *req.Username != user.Username {
		if err := validation.ValidateUsername(*req.Username); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(err.Error()))
		}
		existing, err := s.userRepo.GetByUsername(c.Context(), *req.Username)
		if err != nil {
			return models.RespondWithAppError(c, err)
		}
		if existing != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewConflictError("Ce nom d'utilisateur est déjà pris"))
		}
		user.Username = *req.Username
	}

	if req.Email != nil && *req.Email != user.Email {
		if err := validation.ValidateEmail(*req.Email); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(err.Error()))
		}
		existing, err := s.userRepo.GetByEmail(c.Context(), *req.Email)
		if err != nil {
			return models.RespondWithAppError(c, err)
		}
		if existing != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewConflictError("Cet email est déjà utilisé"))
		}
		user.Email = *req.Email
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.ProfilePicture != nil {
		user.ProfilePicture = *req.ProfilePicture
	}

	if req.Password != nil && *req.Password != "" {
		if err := validation.ValidatePassword(*req.Password); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(err.Error()))
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}
		user.Password = string(hashed)
	}

	if err := s.userRepo.Update(c.Context(), user); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Profil mis à jour avec succès",
		"user":    user,
	})
}

// GetUsers handles GET /api/users
func (s *Server) GetUsers(c *fiber.Ctx) error {
	users, err := s.userRepo.List(c.Context())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	list := make([]fiber.Map, 0, len(users))
	for _, u := range users {
		list = append(list, fiber.Map{
			"id":              u.ID,
			"username":        u.Username,
			"first_name":      u.FirstName,
			"last_name":       u.LastName,
			"role":            u.Role,
			"profile_picture": u.ProfilePicture,
		})
	}
	return c.JSON(list)
}

// GetUser handles GET /api/users/:id
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"id":              user.ID,
		"username":        user.Username,
		"first_name":      user.FirstName,
		"last_name":       user.LastName,
		"bio":             user.Bio,
		"profile_picture": user.ProfilePicture,
		"role":            user.Role,
		"created_at":      user.CreatedAt,
	})
}

// DeleteUser handles DELETE /api/users/:id (admin only). Everything the user
// owns goes with them.
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if _, err := s.userRepo.GetByID(c.Context(), id); err != nil {
		return models.RespondWithAppError(c, err)
	}
	if err := s.userRepo.Delete(c.Context(), id); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Utilisateur supprimé avec succès",
	})
}
