package templates

import (
	"time"

	"github.com/google/uuid"
	"github.com/selfora/backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Template is reusable page content. Staff publish global templates; users
// keep private ones and copies of global ones.
type Template struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title            string         `gorm:"size:255;not null" json:"title"`
	Description      string         `gorm:"type:text" json:"description"`
	Content          datatypes.JSON `gorm:"type:jsonb" json:"content"`
	OwnerID          *uuid.UUID     `gorm:"type:uuid;index" json:"owner"`
	IsGlobal         bool           `gorm:"default:false;index" json:"is_global"`
	SourceTemplateID *uuid.UUID     `gorm:"type:uuid;index" json:"source_template"`
	Category         string         `gorm:"size:100" json:"category"`
	Tags             datatypes.JSON `gorm:"type:jsonb" json:"tags"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `gorm:"index" json:"updated_at"`
	Owner            *models.User   `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	SourceTemplate   *Template      `gorm:"foreignKey:SourceTemplateID;constraint:OnDelete:SET NULL" json:"-"`
}

func (t *Template) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if len(t.Content) == 0 {
		t.Content = datatypes.JSON("{}")
	}
	if len(t.Tags) == 0 {
		t.Tags = datatypes.JSON("[]")
	}
	return nil
}

type CreateTemplateRequest struct {
	Title       string         `json:"title" validate:"required,max=255"`
	Description string         `json:"description"`
	Content     datatypes.JSON `json:"content"`
	IsGlobal    bool           `json:"is_global"`
	Category    string         `json:"category" validate:"max=100"`
	Tags        []string       `json:"tags"`
}

type UpdateTemplateRequest struct {
	Title       *string         `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string         `json:"description"`
	Content     *datatypes.JSON `json:"content"`
	IsGlobal    *bool           `json:"is_global"`
	Category    *string         `json:"category" validate:"omitempty,max=100"`
	Tags        *[]string       `json:"tags"`
}

// UseTemplateRequest overrides fields of the copy; empty fields inherit
// from the source template.
type UseTemplateRequest struct {
	Title       string          `json:"title" validate:"max=255"`
	Description *string         `json:"description"`
	Content     *datatypes.JSON `json:"content"`
	Category    *string         `json:"category" validate:"omitempty,max=100"`
	Tags        *[]string       `json:"tags"`
}
