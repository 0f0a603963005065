package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrMissingFields = errors.New("missing required fields")
)

const listOrder = "sort_order ASC, created_at DESC"

type ContentService struct {
	db *gorm.DB
}

func NewContentService(db *gorm.DB) *ContentService {
	return &ContentService{db: db}
}

// --- Public feeds ---

func (s *ContentService) ActiveVideos(ctx context.Context) ([]LearningVideo, error) {
	out := []LearningVideo{}
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order(listOrder).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	return out, nil
}

func (s *ContentService) ActiveQuotes(ctx context.Context) ([]MotivationalQuote, error) {
	out := []MotivationalQuote{}
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order(listOrder).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	return out, nil
}

func (s *ContentService) RandomQuote(ctx context.Context) (*MotivationalQuote, error) {
	var q MotivationalQuote
	err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("RANDOM()").Take(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to pick quote: %w", err)
	}
	return &q, nil
}

// --- Admin: videos ---

func (s *ContentService) AllVideos(ctx context.Context) ([]LearningVideo, error) {
	out := []LearningVideo{}
	if err := s.db.WithContext(ctx).Order(listOrder).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	return out, nil
}

func (s *ContentService) CreateVideo(ctx context.Context, req *VideoRequest) (*LearningVideo, error) {
	if req.Title == nil || req.VideoURL == nil {
		return nil, ErrMissingFields
	}
	v := LearningVideo{Title: *req.Title, VideoURL: *req.VideoURL, IsActive: true}
	if req.Description != nil {
		v.Description = *req.Description
	}
	if req.IsActive != nil {
		v.IsActive = *req.IsActive
	}
	if req.Order != nil {
		v.Order = *req.Order
	}
	// Select keeps an explicit is_active=false from being replaced by the column default.
	if err := s.db.WithContext(ctx).Select("*").Create(&v).Error; err != nil {
		return nil, fmt.Errorf("failed to create video: %w", err)
	}
	return &v, nil
}

func (s *ContentService) UpdateVideo(ctx context.Context, id uuid.UUID, req *VideoRequest) (*LearningVideo, error) {
	var v LearningVideo
	if err := s.first(ctx, &v, id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.VideoURL != nil {
		updates["video_url"] = *req.VideoURL
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.Order != nil {
		updates["sort_order"] = *req.Order
	}
	if err := s.apply(ctx, &v, updates); err != nil {
		return nil, err
	}
	if err := s.first(ctx, &v, id); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *ContentService) DeleteVideo(ctx context.Context, id uuid.UUID) error {
	return s.remove(ctx, &LearningVideo{}, id)
}

// --- Admin: quotes ---

func (s *ContentService) AllQuotes(ctx context.Context) ([]MotivationalQuote, error) {
	out := []MotivationalQuote{}
	if err := s.db.WithContext(ctx).Order(listOrder).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	return out, nil
}

func (s *ContentService) CreateQuote(ctx context.Context, req *QuoteRequest) (*MotivationalQuote, error) {
	if req.QuoteText == nil {
		return nil, ErrMissingFields
	}
	q := MotivationalQuote{QuoteText: *req.QuoteText, IsActive: true}
	if req.Author != nil {
		q.Author = *req.Author
	}
	if req.IsActive != nil {
		q.IsActive = *req.IsActive
	}
	if req.Order != nil {
		q.Order = *req.Order
	}
	if err := s.db.WithContext(ctx).Select("*").Create(&q).Error; err != nil {
		return nil, fmt.Errorf("failed to create quote: %w", err)
	}
	return &q, nil
}

func (s *ContentService) UpdateQuote(ctx context.Context, id uuid.UUID, req *QuoteRequest) (*MotivationalQuote, error) {
	var q MotivationalQuote
	if err := s.first(ctx, &q, id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.QuoteText != nil {
		updates["quote_text"] = *req.QuoteText
	}
	if req.Author != nil {
		updates["author"] = *req.Author
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.Order != nil {
		updates["sort_order"] = *req.Order
	}
	if err := s.apply(ctx, &q, updates); err != nil {
		return nil, err
	}
	if err := s.first(ctx, &q, id); err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *ContentService) DeleteQuote(ctx context.Context, id uuid.UUID) error {
	return s.remove(ctx, &MotivationalQuote{}, id)
}

func (s *ContentService) first(ctx context.Context, dest interface{}, id uuid.UUID) error {
	err := s.db.WithContext(ctx).First(dest, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *ContentService) apply(ctx context.Context, model interface{}, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Model(model).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update: %w", err)
	}
	return nil
}

func (s *ContentService) remove(ctx context.Context, model interface{}, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(model)
	if result.Error != nil {
		return fmt.Errorf("failed to delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
