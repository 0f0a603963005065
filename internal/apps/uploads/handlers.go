package uploads

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/selfora/backend/internal/dto"
	"github.com/selfora/backend/internal/userctx"
)

const MaxUploadSize = 10 * 1024 * 1024

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type UploadResponse struct {
	URL string `json:"url"`
}

type UploadHandler struct {
	storage *Storage
}

func NewUploadHandler(storage *Storage) *UploadHandler {
	return &UploadHandler{storage: storage}
}

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

// Upload handles POST /uploads with a multipart "file" field holding an image.
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	if h.storage == nil {
		return errorJSON(c, fiber.StatusServiceUnavailable, "File storage is not configured")
	}
	userID, err := userctx.GetUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	header, err := c.FormFile("file")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "file is required")
	}
	if header.Size > MaxUploadSize {
		return errorJSON(c, fiber.StatusRequestEntityTooLarge, "File exceeds the 10MB limit")
	}

	file, err := header.Open()
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Unable to read file")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxUploadSize+1))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Unable to read file")
	}
	if len(data) > MaxUploadSize {
		return errorJSON(c, fiber.StatusRequestEntityTooLarge, "File exceeds the 10MB limit")
	}

	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return errorJSON(c, fiber.StatusUnsupportedMediaType, "Only JPEG, PNG, GIF and WebP images are allowed")
	}

	key := "uploads/" + userID.String() + "/" + uuid.NewString() + ext
	url, err := h.storage.Put(c.UserContext(), key, contentType, data)
	if err != nil {
		slog.Error("upload failed", "user_id", userID.String(), "key", key, "error", err)
		return errorJSON(c, fiber.StatusBadGateway, "Upload failed")
	}

	return c.Status(fiber.StatusCreated).JSON(UploadResponse{URL: url})
}
