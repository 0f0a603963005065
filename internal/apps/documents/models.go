package documents

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TemplateContent is the block tree of a Notion-style template.
type TemplateContent struct {
	Blocks     []map[string]interface{} `bson:"blocks" json:"blocks"`
	Properties map[string]interface{}   `bson:"properties" json:"properties"`
	Schema     map[string]interface{}   `bson:"schema" json:"schema"`
}

type TemplateMetadata struct {
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
	CreatedBy string    `bson:"created_by,omitempty" json:"created_by,omitempty"`
	Category  string    `bson:"category" json:"category"`
	Tags      []string  `bson:"tags" json:"tags"`
	Version   int       `bson:"version" json:"version"`
}

type NotionTemplate struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Type        string             `bson:"type" json:"type"`
	Description string             `bson:"description" json:"description"`
	Icon        string             `bson:"icon" json:"icon"`
	Cover       string             `bson:"cover" json:"cover"`
	IsActive    bool               `bson:"is_active" json:"is_active"`
	IsDefault   bool               `bson:"is_default" json:"is_default"`
	Order       int                `bson:"order" json:"order"`
	Content     TemplateContent    `bson:"content" json:"content"`
	Metadata    TemplateMetadata   `bson:"metadata" json:"metadata"`
}

type DocumentMetadata struct {
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
	IsFavorite bool      `bson:"is_favorite" json:"is_favorite"`
	IsArchived bool      `bson:"is_archived" json:"is_archived"`
	Tags       []string  `bson:"tags" json:"tags"`
	Version    int       `bson:"version" json:"version"`
}

// UserDocument is a document a user created, usually from a NotionTemplate.
type UserDocument struct {
	ID         primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	UserID     string                 `bson:"user_id" json:"user_id"`
	TemplateID string                 `bson:"template_id,omitempty" json:"template_id,omitempty"`
	Title      string                 `bson:"title" json:"title"`
	Content    map[string]interface{} `bson:"content" json:"content"`
	Metadata   DocumentMetadata       `bson:"metadata" json:"metadata"`
}

// --- Request DTOs ---

type CreateTemplateRequest struct {
	Name        string           `json:"name" validate:"required,max=200"`
	Type        string           `json:"type" validate:"required,max=100"`
	Description string           `json:"description"`
	Icon        string           `json:"icon" validate:"max=16"`
	Cover       string           `json:"cover"`
	IsActive    *bool            `json:"is_active"`
	IsDefault   bool             `json:"is_default"`
	Order       int              `json:"order"`
	Content     *TemplateContent `json:"content"`
	Category    string           `json:"category" validate:"max=100"`
	Tags        []string         `json:"tags"`
}

type UpdateTemplateRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Type        *string          `json:"type" validate:"omitempty,min=1,max=100"`
	Description *string          `json:"description"`
	Icon        *string          `json:"icon" validate:"omitempty,max=16"`
	Cover       *string          `json:"cover"`
	IsActive    *bool            `json:"is_active"`
	IsDefault   *bool            `json:"is_default"`
	Order       *int             `json:"order"`
	Content     *TemplateContent `json:"content"`
	Category    *string          `json:"category" validate:"omitempty,max=100"`
	Tags        *[]string        `json:"tags"`
}

type CreateDocumentRequest struct {
	TemplateID string                 `json:"template_id"`
	Title      string                 `json:"title" validate:"max=255"`
	Content    map[string]interface{} `json:"content"`
	Tags       []string               `json:"tags"`
}

type UpdateDocumentRequest struct {
	Title      *string                 `json:"title" validate:"omitempty,max=255"`
	Content    *map[string]interface{} `json:"content"`
	Tags       *[]string               `json:"tags"`
	IsFavorite *bool                   `json:"is_favorite"`
	IsArchived *bool                   `json:"is_archived"`
}

type InitializeResponse struct {
	Created []string `json:"created"`
	Skipped []string `json:"skipped"`
}
