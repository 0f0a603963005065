package feedback

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/selfora/backend/internal/config"
	"github.com/selfora/backend/internal/userctx"
	"gorm.io/gorm"
)

type FeedbackPlugin struct{}

func New() *FeedbackPlugin {
	return &FeedbackPlugin{}
}

func (p *FeedbackPlugin) ID() string { return "feedback" }

func (p *FeedbackPlugin) Models() []interface{} {
	return []interface{}{&Feedback{}}
}

func (p *FeedbackPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewFeedbackHandler(NewFeedbackService(db))

	router.Get("/feedback", handler.ListOwn)
	router.Post("/feedback", handler.Create)
}

func (p *FeedbackPlugin) RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewFeedbackHandler(NewFeedbackService(db))

	router.Get("/feedback", handler.AdminList)
	router.Put("/feedback/:id", handler.AdminUpdate)
	router.Delete("/feedback/:id", handler.AdminDelete)
}

func (p *FeedbackPlugin) PurgeUser(tx *gorm.DB, userID uuid.UUID) error {
	return tx.Scopes(userctx.ForOwner(userID)).Delete(&Feedback{}).Error
}
