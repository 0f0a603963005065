package content

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/selfora/backend/internal/dto"
	"github.com/selfora/backend/internal/validation"
)

type ContentHandler struct {
	svc *ContentService
}

func NewContentHandler(svc *ContentService) *ContentHandler {
	return &ContentHandler{svc: svc}
}

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func fail(c *fiber.Ctx, err error, what string) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return errorJSON(c, fiber.StatusNotFound, what+" not found")
	case errors.Is(err, ErrMissingFields):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	default:
		return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
	}
}

// --- Public handlers ---

func (h *ContentHandler) Videos(c *fiber.Ctx) error {
	videos, err := h.svc.ActiveVideos(c.UserContext())
	if err != nil {
		return fail(c, err, "Video")
	}
	return c.JSON(videos)
}

func (h *ContentHandler) Quotes(c *fiber.Ctx) error {
	quotes, err := h.svc.ActiveQuotes(c.UserContext())
	if err != nil {
		return fail(c, err, "Quote")
	}
	return c.JSON(quotes)
}

func (h *ContentHandler) RandomQuote(c *fiber.Ctx) error {
	quote, err := h.svc.RandomQuote(c.UserContext())
	if errors.Is(err, ErrNotFound) {
		return errorJSON(c, fiber.StatusNotFound, "No quotes available")
	}
	if err != nil {
		return fail(c, err, "Quote")
	}
	return c.JSON(quote)
}

// --- Admin handlers ---

func (h *ContentHandler) AdminVideos(c *fiber.Ctx) error {
	videos, err := h.svc.AllVideos(c.UserContext())
	if err != nil {
		return fail(c, err, "Video")
	}
	return c.JSON(videos)
}

func (h *ContentHandler) CreateVideo(c *fiber.Ctx) error {
	var req VideoRequest
	if err := validation.Bind(c, &req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	video, err := h.svc.CreateVideo(c.UserContext(), &req)
	if err != nil {
		return fail(c, err, "Video")
	}
	return c.Status(fiber.StatusCreated).JSON(video)
}

func (h *ContentHandler) UpdateVideo(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid video ID")
	}
	var req VideoRequest
	if err := validation.Bind(c, &req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	video, err := h.svc.UpdateVideo(c.UserContext(), id, &req)
	if err != nil {
		return fail(c, err, "Video")
	}
	return c.JSON(video)
}

func (h *ContentHandler) DeleteVideo(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid video ID")
	}
	if err := h.svc.DeleteVideo(c.UserContext(), id); err != nil {
		return fail(c, err, "Video")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ContentHandler) AdminQuotes(c *fiber.Ctx) error {
	quotes, err := h.svc.AllQuotes(c.UserContext())
	if err != nil {
		return fail(c, err, "Quote")
	}
	return c.JSON(quotes)
}

func (h *ContentHandler) CreateQuote(c *fiber.Ctx) error {
	var req QuoteRequest
	if err := validation.Bind(c, &req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	quote, err := h.svc.CreateQuote(c.UserContext(), &req)
	if err != nil {
		return fail(c, err, "Quote")
	}
	return c.Status(fiber.StatusCreated).JSON(quote)
}

func (h *ContentHandler) UpdateQuote(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid quote ID")
	}
	var req QuoteRequest
	if err := validation.Bind(c, &req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	quote, err := h.svc.UpdateQuote(c.UserContext(), id, &req)
	if err != nil {
		return fail(c, err, "Quote")
	}
	return c.JSON(quote)
}

func (h *ContentHandler) DeleteQuote(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid quote ID")
	}
	if err := h.svc.DeleteQuote(c.UserContext(), id); err != nil {
		return fail(c, err, "Quote")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
