package documents

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/selfora/backend/internal/config"
	"gorm.io/gorm"
)

// DocumentsPlugin serves Notion-style templates and user documents from the
// document store. A nil store keeps the routes mounted but unavailable.
type DocumentsPlugin struct {
	store   Store
	handler *DocumentHandler
}

func New(store Store) *DocumentsPlugin {
	return &DocumentsPlugin{
		store:   store,
		handler: NewDocumentHandler(NewDocumentService(store)),
	}
}

func (p *DocumentsPlugin) ID() string { return "documents" }

// Models is empty: nothing lives in the relational database.
func (p *DocumentsPlugin) Models() []interface{} { return nil }

func (p *DocumentsPlugin) RegisterPublicRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	router.Get("/public-templates", requireStore(p.store), p.handler.PublicTemplates)
}

func (p *DocumentsPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	available := requireStore(p.store)

	router.Get("/mongo-templates", available, p.handler.ListTemplates)
	router.Get("/mongo-templates/:id", available, p.handler.GetTemplate)

	router.Get("/user-documents", available, p.handler.ListDocuments)
	router.Post("/user-documents", available, p.handler.CreateDocument)
	router.Put("/user-documents/:id", available, p.handler.UpdateDocument)
}

func (p *DocumentsPlugin) RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	available := requireStore(p.store)

	router.Post("/mongo-templates", available, p.handler.CreateTemplate)
	router.Put("/mongo-templates/:id", available, p.handler.UpdateTemplate)
	router.Delete("/mongo-templates/:id", available, p.handler.DeleteTemplate)
	router.Post("/initialize-templates", available, p.handler.InitializeTemplates)
}

// PurgeUser removes the user's documents. The document store is outside the
// relational transaction, so a failure here aborts the account deletion.
func (p *DocumentsPlugin) PurgeUser(tx *gorm.DB, userID uuid.UUID) error {
	if p.store == nil {
		return nil
	}
	return p.store.DeleteUserDocuments(tx.Statement.Context, userID.String())
}
