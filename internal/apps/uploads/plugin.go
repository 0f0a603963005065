package uploads

import (
	"github.com/gofiber/fiber/v2"
	"github.com/selfora/backend/internal/config"
	"gorm.io/gorm"
)

// UploadsPlugin accepts editor image uploads. A nil storage answers 503.
type UploadsPlugin struct {
	storage *Storage
}

func New(storage *Storage) *UploadsPlugin {
	return &UploadsPlugin{storage: storage}
}

func (p *UploadsPlugin) ID() string { return "uploads" }

func (p *UploadsPlugin) Models() []interface{} { return nil }

func (p *UploadsPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	router.Post("/uploads", NewUploadHandler(p.storage).Upload)
}
