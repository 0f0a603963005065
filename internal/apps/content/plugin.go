package content

import (
	"github.com/gofiber/fiber/v2"
	"github.com/selfora/backend/internal/config"
	"gorm.io/gorm"
)

// ContentPlugin serves the learning video and motivational quote feeds.
type ContentPlugin struct{}

func New() *ContentPlugin {
	return &ContentPlugin{}
}

func (p *ContentPlugin) ID() string { return "content" }

func (p *ContentPlugin) Models() []interface{} {
	return []interface{}{
		&LearningVideo{},
		&MotivationalQuote{},
	}
}

// RegisterRoutes mounts nothing: the feeds are public and editing is admin-only.
func (p *ContentPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {}

func (p *ContentPlugin) RegisterPublicRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewContentHandler(NewContentService(db))

	router.Get("/learning-videos", handler.Videos)
	router.Get("/motivational-quotes", handler.Quotes)
	router.Get("/random-quote", handler.RandomQuote)
}

func (p *ContentPlugin) RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewContentHandler(NewContentService(db))

	router.Get("/videos", handler.AdminVideos)
	router.Post("/videos", handler.CreateVideo)
	router.Put("/videos/:id", handler.UpdateVideo)
	router.Delete("/videos/:id", handler.DeleteVideo)

	router.Get("/quotes", handler.AdminQuotes)
	router.Post("/quotes", handler.CreateQuote)
	router.Put("/quotes/:id", handler.UpdateQuote)
	router.Delete("/quotes/:id", handler.DeleteQuote)
}
