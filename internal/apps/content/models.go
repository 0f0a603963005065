package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LearningVideo struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	VideoURL    string    `gorm:"size:500;not null" json:"video_url"`
	IsActive    bool      `gorm:"default:true;index" json:"is_active"`
	Order       int       `gorm:"column:sort_order;default:0" json:"order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (v *LearningVideo) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

type MotivationalQuote struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuoteText string    `gorm:"size:500;not null" json:"quote_text"`
	Author    string    `gorm:"size:255" json:"author"`
	IsActive  bool      `gorm:"default:true;index" json:"is_active"`
	Order     int       `gorm:"column:sort_order;default:0" json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *MotivationalQuote) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// --- Request DTOs ---

type VideoRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	VideoURL    *string `json:"video_url" validate:"omitempty,url,max=500"`
	IsActive    *bool   `json:"is_active"`
	Order       *int    `json:"order"`
}

type QuoteRequest struct {
	QuoteText *string `json:"quote_text" validate:"omitempty,min=1,max=500"`
	Author    *string `json:"author" validate:"omitempty,max=255"`
	IsActive  *bool   `json:"is_active"`
	Order     *int    `json:"order"`
}
