package pages

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/selfora/backend/internal/config"
	"github.com/selfora/backend/internal/userctx"
	"gorm.io/gorm"
)

type PagesPlugin struct {
	activity ActivityRecorder
}

func New(activity ActivityRecorder) *PagesPlugin {
	return &PagesPlugin{activity: activity}
}

func (p *PagesPlugin) ID() string { return "pages" }

func (p *PagesPlugin) Models() []interface{} {
	return []interface{}{&Page{}}
}

func (p *PagesPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewPageHandler(NewPageService(db, p.activity))

	router.Get("/pages", handler.List)
	router.Post("/pages", handler.Create)
	router.Get("/pages/:id", handler.Get)
	router.Put("/pages/:id", handler.Update)
	router.Patch("/pages/:id", handler.Update)
	router.Delete("/pages/:id", handler.Delete)
	router.Get("/pages/:id/children", handler.Children)
}

func (p *PagesPlugin) PurgeUser(tx *gorm.DB, userID uuid.UUID) error {
	return tx.Scopes(userctx.ForOwner(userID)).Delete(&Page{}).Error
}
