package pages

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/microcosm-cc/bluemonday"
	"github.com/selfora/backend/internal/apps/streaks"
	"github.com/selfora/backend/internal/userctx"
	"gorm.io/gorm"
)

const defaultTitle = "Untitled"

var (
	ErrPageNotFound   = errors.New("page not found")
	ErrParentNotFound = errors.New("parent page not found")
	ErrCycle          = errors.New("a page cannot be moved under itself or its descendants")
)

// ActivityRecorder feeds page events into the streak engine.
type ActivityRecorder interface {
	RecordActivity(ctx context.Context, userID uuid.UUID, t streaks.StreakType) (*streaks.UpdateResult, error)
}

var sanitizer = bluemonday.UGCPolicy()

type PageService struct {
	db       *gorm.DB
	activity ActivityRecorder
}

func NewPageService(db *gorm.DB, activity ActivityRecorder) *PageService {
	return &PageService{db: db, activity: activity}
}

// ListFilter narrows List. Zero value lists every page of the owner.
type ListFilter struct {
	RootOnly  bool
	Favorites bool
}

func (s *PageService) List(ctx context.Context, userID uuid.UUID, f ListFilter) ([]Page, error) {
	q := s.db.WithContext(ctx).Scopes(userctx.ForOwner(userID))
	if f.RootOnly {
		q = q.Where("parent_id IS NULL")
	}
	if f.Favorites {
		q = q.Where("is_favorite = ?", true)
	}

	pages := []Page{}
	if err := q.Order("updated_at DESC").Find(&pages).Error; err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	return pages, nil
}

func (s *PageService) Get(ctx context.Context, userID, id uuid.UUID) (*Page, error) {
	var page Page
	err := s.db.WithContext(ctx).Scopes(userctx.ForOwner(userID)).First(&page, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load page: %w", err)
	}
	return &page, nil
}

func (s *PageService) Children(ctx context.Context, userID, id uuid.UUID) ([]Page, error) {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return nil, err
	}
	children := []Page{}
	if err := s.db.WithContext(ctx).Scopes(userctx.ForOwner(userID)).
		Where("parent_id = ?", id).Order("updated_at DESC").Find(&children).Error; err != nil {
		return nil, fmt.Errorf("failed to list child pages: %w", err)
	}
	return children, nil
}

func (s *PageService) Create(ctx context.Context, userID uuid.UUID, req *CreatePageRequest) (*Page, error) {
	if req.ParentID != nil {
		if _, err := s.Get(ctx, userID, *req.ParentID); err != nil {
			if errors.Is(err, ErrPageNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = defaultTitle
	}
	page := Page{
		UserID:     userID,
		ParentID:   req.ParentID,
		Title:      title,
		Slug:       makeSlug(title),
		Content:    sanitizer.Sanitize(req.Content),
		Icon:       req.Icon,
		IsFavorite: req.IsFavorite,
	}
	if err := s.db.WithContext(ctx).Create(&page).Error; err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	s.track(ctx, userID, streaks.PageCreation)
	return &page, nil
}

func (s *PageService) Update(ctx context.Context, userID, id uuid.UUID, req *UpdatePageRequest) (*Page, error) {
	page, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			title = defaultTitle
		}
		updates["title"] = title
		updates["slug"] = makeSlug(title)
	}
	if req.Content != nil {
		updates["content"] = sanitizer.Sanitize(*req.Content)
	}
	if req.Icon != nil {
		updates["icon"] = *req.Icon
	}
	if req.IsFavorite != nil {
		updates["is_favorite"] = *req.IsFavorite
	}
	switch {
	case req.MoveToRoot:
		updates["parent_id"] = nil
	case req.ParentID != nil:
		if err := s.checkParent(ctx, userID, page.ID, *req.ParentID); err != nil {
			return nil, err
		}
		updates["parent_id"] = *req.ParentID
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(page).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update page: %w", err)
		}
	}
	if req.Content != nil {
		s.track(ctx, userID, streaks.EditorUsage)
	}
	return s.Get(ctx, userID, id)
}

// checkParent verifies newParent belongs to the user and is not the page
// itself or one of its descendants.
func (s *PageService) checkParent(ctx context.Context, userID, pageID, newParent uuid.UUID) error {
	cursor := newParent
	for depth := 0; depth < 1000; depth++ {
		if cursor == pageID {
			return ErrCycle
		}
		p, err := s.Get(ctx, userID, cursor)
		if err != nil {
			if errors.Is(err, ErrPageNotFound) {
				return ErrParentNotFound
			}
			return err
		}
		if p.ParentID == nil {
			return nil
		}
		cursor = *p.ParentID
	}
	return ErrCycle
}

// Delete removes the page and all of its descendants.
func (s *PageService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := []uuid.UUID{id}
		frontier := []uuid.UUID{id}
		for len(frontier) > 0 {
			var next []uuid.UUID
			if err := tx.Model(&Page{}).Scopes(userctx.ForOwner(userID)).
				Where("parent_id IN ?", frontier).Pluck("id", &next).Error; err != nil {
				return fmt.Errorf("failed to collect child pages: %w", err)
			}
			ids = append(ids, next...)
			frontier = next
		}
		if err := tx.Where("id IN ?", ids).Delete(&Page{}).Error; err != nil {
			return fmt.Errorf("failed to delete pages: %w", err)
		}
		return nil
	})
}

func (s *PageService) track(ctx context.Context, userID uuid.UUID, t streaks.StreakType) {
	if s.activity == nil {
		return
	}
	if _, err := s.activity.RecordActivity(ctx, userID, t); err != nil {
		slog.Error("failed to record page activity",
			"user_id", userID.String(), "action", "page_activity", "streak_type", string(t), "error", err)
	}
}

func makeSlug(title string) string {
	if s := slug.Make(title); s != "" {
		return s
	}
	return "untitled"
}
