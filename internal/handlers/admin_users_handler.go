package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/selfora/backend/internal/dto"
	"github.com/selfora/backend/internal/services"
	"github.com/selfora/backend/internal/validation"
)

type AdminUsersHandler struct {
	authService *services.AuthService
}

func NewAdminUsersHandler(authService *services.AuthService) *AdminUsersHandler {
	return &AdminUsersHandler{authService: authService}
}

func (h *AdminUsersHandler) List(c *fiber.Ctx) error {
	resp, err := h.authService.ListUsers(c.UserContext(), c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return internalError(c, "Failed to list users")
	}
	return c.JSON(resp)
}

func (h *AdminUsersHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, errors.New("Invalid user ID"))
	}

	user, err := h.authService.GetUser(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(user)
}

func (h *AdminUsersHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, errors.New("Invalid user ID"))
	}

	var req dto.AdminUpdateUserRequest
	if err := validation.Bind(c, &req); err != nil {
		return badRequest(c, err)
	}

	user, err := h.authService.UpdateUser(c.UserContext(), id, &req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(user)
}

func (h *AdminUsersHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, errors.New("Invalid user ID"))
	}

	if err := h.authService.DeleteUser(c.UserContext(), id); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AdminUsersHandler) fail(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrUserNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "User not found",
		})
	}
	return internalError(c, "Internal server error")
}
