package documents

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound    = errors.New("document not found")
	ErrUnavailable = errors.New("document store is not configured")
)

type TemplateQuery struct {
	Type            string
	Search          string
	IncludeInactive bool
}

// TemplatePatch carries the changed template fields. Nil fields are left alone.
type TemplatePatch struct {
	UpdateTemplateRequest
	UpdatedAt   time.Time
	BumpVersion bool
}

type DocumentPatch struct {
	UpdateDocumentRequest
	UpdatedAt   time.Time
	BumpVersion bool
}

// Store persists templates and user documents.
type Store interface {
	ListTemplates(ctx context.Context, q TemplateQuery) ([]NotionTemplate, error)
	GetTemplate(ctx context.Context, id primitive.ObjectID) (*NotionTemplate, error)
	InsertTemplate(ctx context.Context, t *NotionTemplate) error
	UpdateTemplate(ctx context.Context, id primitive.ObjectID, p TemplatePatch) (*NotionTemplate, error)
	DeleteTemplate(ctx context.Context, id primitive.ObjectID) error
	HasTemplateType(ctx context.Context, templateType string) (bool, error)

	ListDocuments(ctx context.Context, userID string) ([]UserDocument, error)
	InsertDocument(ctx context.Context, d *UserDocument) error
	UpdateDocument(ctx context.Context, userID string, id primitive.ObjectID, p DocumentPatch) (*UserDocument, error)
	DeleteUserDocuments(ctx context.Context, userID string) error
}
