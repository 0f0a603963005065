package documents

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/selfora/backend/internal/dto"
	"github.com/selfora/backend/internal/userctx"
	"github.com/selfora/backend/internal/validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DocumentHandler struct {
	svc *DocumentService
}

func NewDocumentHandler(svc *DocumentService) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func fail(c *fiber.Ctx, err error) error {
	if errors.Is(err, ErrNotFound) {
		return errorJSON(c, fiber.StatusNotFound, "Not found")
	}
	return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
}

func objectID(c *fiber.Ctx) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(c.Params("id"))
}

// requireStore answers 503 while no document store is configured.
func requireStore(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if store == nil {
			return errorJSON(c, fiber.StatusServiceUnavailable, ErrUnavailable.Error())
		}
		return c.Next()
	}
}

// --- Templates ---

func (h *DocumentHandler) PublicTemplates(c *fiber.Ctx) error {
	list, err := h.svc.PublicTemplates(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

// ListTemplates handles GET /mongo-templates?type=&q=
func (h *DocumentHandler) ListTemplates(c *fiber.Ctx) error {
	list, err := h.svc.Templates(c.UserContext(), c.Query("type"), c.Query("q"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

func (h *DocumentHandler) GetTemplate(c *fiber.Ctx) error {
	id, err := objectID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid template ID")
	}
	t, err := h.svc.Template(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(t)
}

func (h *DocumentHandler) CreateTemplate(c *fiber.Ctx) error {
	var req CreateTemplateRequest
	if err := validation.Bind(c, &req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	t, err := h.svc.CreateTemplate(c.UserContext(), userctx.GetEmail(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

func (h *DocumentHandler) UpdateTemplate(c *fiber.Ctx) error {
	id, err := objectID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid template ID")
	}
	var req UpdateTemplateRequest
	if err := validation.Bind(c, &req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	t, err := h.svc.UpdateTemplate(c.UserContext(), id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(t)
}

func (h *DocumentHandler) DeleteTemplate(c *fiber.Ctx) error {
	id, err := objectID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid template ID")
	}
	if err := h.svc.DeleteTemplate(c.UserContext(), id); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *DocumentHandler) InitializeTemplates(c *fiber.Ctx) error {
	resp, err := h.svc.InitializeTemplates(c.UserContext(), userctx.GetEmail(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

// --- User documents ---

func (h *DocumentHandler) ListDocuments(c *fiber.Ctx) error {
	userID, err := userctx.GetUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	list, err := h.svc.Documents(c.UserContext(), userID.String())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

func (h *DocumentHandler) CreateDocument(c *fiber.Ctx) error {
	userID, err := userctx.GetUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	var req CreateDocumentRequest
	if err := validation.Bind(c, &req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	d, err := h.svc.CreateDocument(c.UserContext(), userID.String(), &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(d)
}

func (h *DocumentHandler) UpdateDocument(c *fiber.Ctx) error {
	userID, err := userctx.GetUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := objectID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid document ID")
	}
	var req UpdateDocumentRequest
	if err := validation.Bind(c, &req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	d, err := h.svc.UpdateDocument(c.UserContext(), userID.String(), id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(d)
}
