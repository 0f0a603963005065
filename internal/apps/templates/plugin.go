package templates

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/selfora/backend/internal/config"
	"github.com/selfora/backend/internal/middleware"
	"gorm.io/gorm"
)

type TemplatesPlugin struct{}

func New() *TemplatesPlugin {
	return &TemplatesPlugin{}
}

func (p *TemplatesPlugin) ID() string { return "templates" }

func (p *TemplatesPlugin) Models() []interface{} {
	return []interface{}{&Template{}}
}

func (p *TemplatesPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewTemplateHandler(NewTemplateService(db), middleware.NewStaffChecker(db, cfg))

	router.Get("/templates", handler.List)
	router.Post("/templates", handler.Create)
	router.Get("/templates/:id", handler.Get)
	router.Put("/templates/:id", handler.Update)
	router.Patch("/templates/:id", handler.Update)
	router.Delete("/templates/:id", handler.Delete)
	router.Post("/templates/:id/use", handler.Use)
}

func (p *TemplatesPlugin) PurgeUser(tx *gorm.DB, userID uuid.UUID) error {
	return deleteTemplates(tx, "owner_id = ?", userID)
}
