package feedback

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/selfora/backend/internal/dto"
	"github.com/selfora/backend/internal/userctx"
	"github.com/selfora/backend/internal/validation"
)

type FeedbackHandler struct {
	svc *FeedbackService
}

func NewFeedbackHandler(svc *FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{svc: svc}
}

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func fail(c *fiber.Ctx, err error) error {
	if errors.Is(err, ErrFeedbackNotFound) {
		return errorJSON(c, fiber.StatusNotFound, "Feedback not found")
	}
	return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
}

func (h *FeedbackHandler) Create(c *fiber.Ctx) error {
	userID, err := userctx.GetUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req CreateFeedbackRequest
	if err := validation.Bind(c, &req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	f, err := h.svc.Create(c.UserContext(), userID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(f)
}

func (h *FeedbackHandler) ListOwn(c *fiber.Ctx) error {
	userID, err := userctx.GetUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	list, err := h.svc.ListOwn(c.UserContext(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

// AdminList handles GET /admin/feedback?status=&type=&priority=
func (h *FeedbackHandler) AdminList(c *fiber.Ctx) error {
	list, err := h.svc.AdminList(c.UserContext(), AdminFilter{
		Status:       c.Query("status"),
		FeedbackType: c.Query("type"),
		Priority:     c.Query("priority"),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

func (h *FeedbackHandler) AdminUpdate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid feedback ID")
	}

	var req AdminUpdateFeedbackRequest
	if err := validation.Bind(c, &req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	f, err := h.svc.AdminUpdate(c.UserContext(), id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(f)
}

func (h *FeedbackHandler) AdminDelete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid feedback ID")
	}
	if err := h.svc.AdminDelete(c.UserContext(), id); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
