package templates

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/selfora/backend/internal/dto"
	"github.com/selfora/backend/internal/middleware"
	"github.com/selfora/backend/internal/userctx"
	"github.com/selfora/backend/internal/validation"
)

type TemplateHandler struct {
	svc   *TemplateService
	staff *middleware.StaffChecker
}

func NewTemplateHandler(svc *TemplateService, staff *middleware.StaffChecker) *TemplateHandler {
	return &TemplateHandler{svc: svc, staff: staff}
}

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func (h *TemplateHandler) caller(c *fiber.Ctx) (Caller, error) {
	userID, err := userctx.GetUserID(c)
	if err != nil {
		return Caller{}, err
	}
	return Caller{UserID: userID, Staff: h.staff.IsStaff(c)}, nil
}

func (h *TemplateHandler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrTemplateNotFound):
		return errorJSON(c, fiber.StatusNotFound, "Template not found")
	case errors.Is(err, ErrForbidden):
		return errorJSON(c, fiber.StatusForbidden, err.Error())
	default:
		return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
	}
}

// List handles GET /templates?category=&q=&scope=global|mine
func (h *TemplateHandler) List(c *fiber.Ctx) error {
	caller, err := h.caller(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	out, err := h.svc.List(c.UserContext(), caller, ListFilter{
		Category: c.Query("category"),
		Query:    c.Query("q"),
		Scope:    c.Query("scope"),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

func (h *TemplateHandler) Get(c *fiber.Ctx) error {
	caller, err := h.caller(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid template ID")
	}

	t, err := h.svc.Get(c.UserContext(), caller, id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(t)
}

func (h *TemplateHandler) Create(c *fiber.Ctx) error {
	caller, err := h.caller(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req CreateTemplateRequest
	if err := validation.Bind(c, &req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	t, err := h.svc.Create(c.UserContext(), caller, &req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

func (h *TemplateHandler) Update(c *fiber.Ctx) error {
	caller, err := h.caller(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid template ID")
	}

	var req UpdateTemplateRequest
	if err := validation.Bind(c, &req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	t, err := h.svc.Update(c.UserContext(), caller, id, &req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(t)
}

func (h *TemplateHandler) Delete(c *fiber.Ctx) error {
	caller, err := h.caller(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid template ID")
	}

	if err := h.svc.Delete(c.UserContext(), caller, id); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Use handles POST /templates/:id/use
func (h *TemplateHandler) Use(c *fiber.Ctx) error {
	caller, err := h.caller(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid template ID")
	}

	var req UseTemplateRequest
	if len(c.Body()) > 0 {
		if err := validation.Bind(c, &req); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, err.Error())
		}
	}

	t, err := h.svc.Use(c.UserContext(), caller, id, &req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}
