package pages

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/selfora/backend/internal/dto"
	"github.com/selfora/backend/internal/userctx"
	"github.com/selfora/backend/internal/validation"
)

type PageHandler struct {
	svc *PageService
}

func NewPageHandler(svc *PageService) *PageHandler {
	return &PageHandler{svc: svc}
}

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func (h *PageHandler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrPageNotFound):
		return errorJSON(c, fiber.StatusNotFound, "Page not found")
	case errors.Is(err, ErrParentNotFound), errors.Is(err, ErrCycle):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	default:
		return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
	}
}

// ids returns the caller and the :id path parameter.
func ids(c *fiber.Ctx) (uuid.UUID, uuid.UUID, *fiber.Error) {
	userID, err := userctx.GetUserID(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid page ID")
	}
	return userID, id, nil
}

// List handles GET /pages?root=true&favorite=true
func (h *PageHandler) List(c *fiber.Ctx) error {
	userID, err := userctx.GetUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	pages, err := h.svc.List(c.UserContext(), userID, ListFilter{
		RootOnly:  c.QueryBool("root"),
		Favorites: c.QueryBool("favorite"),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(pages)
}

func (h *PageHandler) Create(c *fiber.Ctx) error {
	userID, err := userctx.GetUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req CreatePageRequest
	if err := validation.Bind(c, &req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	page, err := h.svc.Create(c.UserContext(), userID, &req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(page)
}

func (h *PageHandler) Get(c *fiber.Ctx) error {
	userID, id, ferr := ids(c)
	if ferr != nil {
		return errorJSON(c, ferr.Code, ferr.Message)
	}

	page, err := h.svc.Get(c.UserContext(), userID, id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(page)
}

func (h *PageHandler) Children(c *fiber.Ctx) error {
	userID, id, ferr := ids(c)
	if ferr != nil {
		return errorJSON(c, ferr.Code, ferr.Message)
	}

	children, err := h.svc.Children(c.UserContext(), userID, id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(children)
}

func (h *PageHandler) Update(c *fiber.Ctx) error {
	userID, id, ferr := ids(c)
	if ferr != nil {
		return errorJSON(c, ferr.Code, ferr.Message)
	}

	var req UpdatePageRequest
	if err := validation.Bind(c, &req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	page, err := h.svc.Update(c.UserContext(), userID, id, &req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(page)
}

func (h *PageHandler) Delete(c *fiber.Ctx) error {
	userID, id, ferr := ids(c)
	if ferr != nil {
		return errorJSON(c, ferr.Code, ferr.Message)
	}

	if err := h.svc.Delete(c.UserContext(), userID, id); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
