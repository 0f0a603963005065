package feedback

import (
	"time"

	"github.com/google/uuid"
	"github.com/selfora/backend/internal/models"
	"gorm.io/gorm"
)

const (
	TypeBug         = "bug"
	TypeFeature     = "feature"
	TypeImprovement = "improvement"
	TypeGeneral     = "general"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"

	StatusNew        = "new"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
)

type Feedback struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID    `gorm:"type:uuid;not null;index" json:"user"`
	FeedbackType string       `gorm:"size:20;default:'general';index" json:"feedback_type"`
	Priority     string       `gorm:"size:10;default:'medium';index" json:"priority"`
	Status       string       `gorm:"size:20;default:'new';index" json:"status"`
	Title        string       `gorm:"size:200;not null" json:"title"`
	Description  string       `gorm:"type:text;not null" json:"description"`
	AdminNotes   string       `gorm:"type:text" json:"admin_notes"`
	CreatedAt    time.Time    `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	User         *models.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	if f.FeedbackType == "" {
		f.FeedbackType = TypeGeneral
	}
	if f.Priority == "" {
		f.Priority = PriorityMedium
	}
	if f.Status == "" {
		f.Status = StatusNew
	}
	return nil
}

type CreateFeedbackRequest struct {
	FeedbackType string `json:"feedback_type" validate:"omitempty,oneof=bug feature improvement general"`
	Priority     string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Title        string `json:"title" validate:"required,max=200"`
	Description  string `json:"description" validate:"required"`
}

type AdminUpdateFeedbackRequest struct {
	FeedbackType *string `json:"feedback_type" validate:"omitempty,oneof=bug feature improvement general"`
	Priority     *string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Status       *string `json:"status" validate:"omitempty,oneof=new in_progress resolved closed"`
	AdminNotes   *string `json:"admin_notes"`
}

type AdminFilter struct {
	Status       string
	FeedbackType string
	Priority     string
}
