package pages

import (
	"time"

	"github.com/google/uuid"
	"github.com/selfora/backend/internal/models"
	"gorm.io/gorm"
)

// Page is a user document in the editor. Pages nest through ParentID.
type Page struct {
	ID         uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID   `gorm:"type:uuid;not null;index" json:"owner"`
	ParentID   *uuid.UUID  `gorm:"type:uuid;index" json:"parent"`
	Title      string      `gorm:"size:255;not null;default:'Untitled'" json:"title"`
	Slug       string      `gorm:"size:255;index" json:"slug"`
	Content    string      `gorm:"type:text" json:"content"`
	Icon       string      `gorm:"size:8" json:"icon"`
	IsFavorite bool        `gorm:"default:false" json:"is_favorite"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `gorm:"index" json:"updated_at"`
	User       models.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Parent     *Page       `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"-"`
}

func (p *Page) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type CreatePageRequest struct {
	Title      string     `json:"title" validate:"max=255"`
	Content    string     `json:"content"`
	Icon       string     `json:"icon" validate:"max=8"`
	IsFavorite bool       `json:"is_favorite"`
	ParentID   *uuid.UUID `json:"parent"`
}

// UpdatePageRequest is a partial update. MoveToRoot detaches the page from
// its parent; it wins over ParentID.
type UpdatePageRequest struct {
	Title      *string    `json:"title" validate:"omitempty,max=255"`
	Content    *string    `json:"content"`
	Icon       *string    `json:"icon" validate:"omitempty,max=8"`
	IsFavorite *bool      `json:"is_favorite"`
	ParentID   *uuid.UUID `json:"parent"`
	MoveToRoot bool       `json:"move_to_root"`
}
