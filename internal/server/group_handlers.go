package server

import (
	"plume/internal/models"
	"plume/internal/repository"
	"plume/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateGroup handles POST /api/groups
func (s *Server) CreateGroup(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		IsPrivate   bool   `json:"is_private"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Corps de requête invalide"))
	}

	group, err := s.groupService.Create(c.Context(), currentUserID(c), service.CreateGroupInput{
		Name:        req.Name,
		Description: req.Description,
		IsPrivate:   req.IsPrivate,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Groupe créé avec succès",
		"group": fiber.Map{
			"id":         group.ID,
			"name":       group.Name,
			"is_private": group.IsPrivate,
			"created_at": group.CreatedAt,
		},
	})
}

// GetGroups handles GET /api/groups. Listing surfaces private groups as
// discovery metadata; only the detail endpoint is gated.
func (s *Server) GetGroups(c *fiber.Ctx) error {
	filter := repository.GroupFilter{}
	if v := c.QueryInt("creator_id"); v > 0 {
		id := uint(v)
		filter.CreatorID = &id
	}
	if v := c.QueryInt("member_id"); v > 0 {
		id := uint(v)
		filter.MemberID = &id
	}
	if v := c.Query("is_private"); v != "" {
		private := v == "true" || v == "1"
		filter.IsPrivate = &private
	}

	groups, err := s.groupService.List(c.Context(), filter)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	list := make([]fiber.Map, 0, len(groups))
	for _, g := range groups {
		list = append(list, fiber.Map{
			"id":            g.ID,
			"name":          g.Name,
			"description":   g.Description,
			"is_private":    g.IsPrivate,
			"created_at":    g.CreatedAt,
			"creator":       g.Creator.Summary(),
			"members_count": g.MembersCount,
			"works_count":   g.WorksCount,
		})
	}
	return c.JSON(list)
}

// GetGroup handles GET /api/groups/:id with the roster and the works
// published inside it. Private groups are only visible to members and admins.
func (s *Server) GetGroup(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	userID, authenticated := s.optionalUserID(c)
	admin := false
	if authenticated {
		admin, err = s.isAdmin(c, userID)
		if err != nil {
			return models.RespondWithAppError(c, err)
		}
	}

	group, err := s.groupService.Get(c.Context(), id, userID, admin)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	members, err := s.groupService.Members(c.Context(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	memberList := make([]models.UserSummary, 0, len(members))
	for _, m := range members {
		memberList = append(memberList, m.Summary())
	}

	works, err := s.workRepo.List(c.Context(), repository.WorkFilter{GroupID: &id}, 0)
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
		"id":          group.ID,
		"name":        group.Name,
		"description": group.Description,
		"is_private":  group.IsPrivate,
		"created_at":  group.CreatedAt,
		"creator":     group.Creator.Summary(),
		"members":     memberList,
		"works":       workList,
	})
}

// UpdateGroup handles PUT /api/groups/:id
func (s *Server) UpdateGroup(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		IsPrivate   *bool   `json:"is_private"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Corps de requête invalide"))
	}

	group, err := s.groupService.Update(c.Context(), currentUserID(c), id, service.UpdateGroupInput{
		Name:        req.Name,
		Description: req.Description,
		IsPrivate:   req.IsPrivate,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Groupe mis à jour avec succès",
		"group": fiber.Map{
			"id":          group.ID,
			"name":        group.Name,
			"description": group.Description,
			"is_private":  group.IsPrivate,
		},
	})
}

// DeleteGroup handles DELETE /api/groups/:id
func (s *Server) DeleteGroup(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	userID := currentUserID(c)
	admin, err := s.isAdmin(c, userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	if err := s.groupService.Delete(c.Context(), userID, admin, id); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Groupe supprimé avec succès",
	})
}

// JoinGroup handles POST /api/groups/:id/join
func (s *Server) JoinGroup(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	count, err := s.groupService.Join(c.Context(), currentUserID(c), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":       "Vous avez rejoint le groupe avec succès",
		"members_count": count,
	})
}

// LeaveGroup handles POST /api/groups/:id/leave
func (s *Server) LeaveGroup(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	count, err := s.groupService.Leave(c.Context(), currentUserID(c), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":       "Vous avez quitté le groupe avec succès",
		"members_count": count,
	})
}

// AddGroupMember handles POST /api/groups/:id/add-member (creator only)
func (s *Server) AddGroupMember(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		UserID *uint `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.UserID == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("ID utilisateur requis"))
	}

	count, err := s.groupService.AddMember(c.Context(), currentUserID(c), id, *req.UserID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":       "Membre ajouté avec succès",
		"members_count": count,
	})
}

// RemoveGroupMember handles POST /api/groups/:id/remove-member (creator only)
func (s *Server) RemoveGroupMember(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		UserID *uint `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.UserID == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("ID utilisateur requis"))
	}

	count, err := s.groupService.RemoveMember(c.Context(), currentUserID(c), id, *req.UserID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":       "Membre retiré avec succès",
		"members_count": count,
	})
}
