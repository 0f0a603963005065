package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/selfora/backend/internal/userctx"
	"gorm.io/gorm"
)

var ErrFeedbackNotFound = errors.New("feedback not found")

type FeedbackService struct {
	db *gorm.DB
}

func NewFeedbackService(db *gorm.DB) *FeedbackService {
	return &FeedbackService{db: db}
}

func (s *FeedbackService) Create(ctx context.Context, userID uuid.UUID, req *CreateFeedbackRequest) (*Feedback, error) {
	f := Feedback{
		UserID:       userID,
		FeedbackType: req.FeedbackType,
		Priority:     req.Priority,
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
	}
	if err := s.db.WithContext(ctx).Create(&f).Error; err != nil {
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}
	return &f, nil
}

// ListOwn returns the caller's feedback, newest first.
func (s *FeedbackService) ListOwn(ctx context.Context, userID uuid.UUID) ([]Feedback, error) {
	out := []Feedback{}
	err := s.db.WithContext(ctx).Scopes(userctx.ForOwner(userID)).
		Order("created_at DESC").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	return out, nil
}

func (s *FeedbackService) AdminList(ctx context.Context, f AdminFilter) ([]Feedback, error) {
	q := s.db.WithContext(ctx)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.FeedbackType != "" {
		q = q.Where("feedback_type = ?", f.FeedbackType)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}

	out := []Feedback{}
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	return out, nil
}

func (s *FeedbackService) AdminUpdate(ctx context.Context, id uuid.UUID, req *AdminUpdateFeedbackRequest) (*Feedback, error) {
	var f Feedback
	if err := s.first(ctx, &f, id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.FeedbackType != nil {
		updates["feedback_type"] = *req.FeedbackType
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.AdminNotes != nil {
		updates["admin_notes"] = *req.AdminNotes
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&f).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update feedback: %w", err)
		}
	}

	if err := s.first(ctx, &f, id); err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *FeedbackService) AdminDelete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Feedback{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete feedback: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrFeedbackNotFound
	}
	return nil
}

func (s *FeedbackService) first(ctx context.Context, f *Feedback, id uuid.UUID) error {
	err := s.db.WithContext(ctx).First(f, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrFeedbackNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load feedback: %w", err)
	}
	return nil
}
