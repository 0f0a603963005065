package templates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrForbidden        = errors.New("you do not have permission to modify this template")
)

// Caller identifies who is acting on templates.
type Caller struct {
	UserID uuid.UUID
	Staff  bool
}

type TemplateService struct {
	db *gorm.DB
}

func NewTemplateService(db *gorm.DB) *TemplateService {
	return &TemplateService{db: db}
}

// visible limits non-staff callers to global templates and their own.
func visible(caller Caller) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if caller.Staff {
			return db
		}
		return db.Where("is_global = ? OR owner_id = ?", true, caller.UserID)
	}
}

type ListFilter struct {
	Category string
	Query    string
	Scope    string // "global", "mine" or "" for both
}

func (s *TemplateService) List(ctx context.Context, caller Caller, f ListFilter) ([]Template, error) {
	q := s.db.WithContext(ctx).Scopes(visible(caller))
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Query != "" {
		like := "%" + strings.ToLower(f.Query) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	switch f.Scope {
	case "global":
		q = q.Where("is_global = ?", true)
	case "mine":
		q = q.Where("owner_id = ?", caller.UserID)
	}

	out := []Template{}
	if err := q.Order("updated_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return out, nil
}

func (s *TemplateService) Get(ctx context.Context, caller Caller, id uuid.UUID) (*Template, error) {
	var t Template
	err := s.db.WithContext(ctx).Scopes(visible(caller)).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	return &t, nil
}

func (s *TemplateService) Create(ctx context.Context, caller Caller, req *CreateTemplateRequest) (*Template, error) {
	owner := caller.UserID
	t := Template{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Content:     req.Content,
		OwnerID:     &owner,
		IsGlobal:    req.IsGlobal && caller.Staff,
		Category:    req.Category,
		Tags:        tagsJSON(req.Tags),
	}
	if err := s.db.WithContext(ctx).Create(&t).Error; err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}
	return &t, nil
}

func canModify(caller Caller, t *Template) bool {
	if caller.Staff {
		return true
	}
	return !t.IsGlobal && t.OwnerID != nil && *t.OwnerID == caller.UserID
}

func (s *TemplateService) Update(ctx context.Context, caller Caller, id uuid.UUID, req *UpdateTemplateRequest) (*Template, error) {
	t, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if !canModify(caller, t) {
		return nil, ErrForbidden
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.IsGlobal != nil && caller.Staff {
		updates["is_global"] = *req.IsGlobal
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Tags != nil {
		updates["tags"] = tagsJSON(*req.Tags)
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(t).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update template: %w", err)
		}
	}
	return s.Get(ctx, caller, id)
}

func (s *TemplateService) Delete(ctx context.Context, caller Caller, id uuid.UUID) error {
	t, err := s.Get(ctx, caller, id)
	if err != nil {
		return err
	}
	if !canModify(caller, t) {
		return ErrForbidden
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteTemplates(tx, "id = ?", t.ID)
	})
}

// Use copies a visible template into a new private template owned by the caller.
func (s *TemplateService) Use(ctx context.Context, caller Caller, id uuid.UUID, req *UseTemplateRequest) (*Template, error) {
	src, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	owner := caller.UserID
	sourceID := src.ID
	copied := Template{
		Title:            strings.TrimSpace(req.Title),
		Description:      src.Description,
		Content:          src.Content,
		OwnerID:          &owner,
		IsGlobal:         false,
		SourceTemplateID: &sourceID,
		Category:         src.Category,
		Tags:             src.Tags,
	}
	if copied.Title == "" {
		copied.Title = src.Title + " (Copy)"
	}
	if req.Description != nil {
		copied.Description = *req.Description
	}
	if req.Content != nil {
		copied.Content = *req.Content
	}
	if req.Category != nil {
		copied.Category = *req.Category
	}
	if req.Tags != nil {
		copied.Tags = tagsJSON(*req.Tags)
	}

	if err := s.db.WithContext(ctx).Create(&copied).Error; err != nil {
		return nil, fmt.Errorf("failed to copy template: %w", err)
	}
	return &copied, nil
}

// deleteTemplates removes the matching templates and detaches copies made
// from them.
func deleteTemplates(tx *gorm.DB, query string, args ...interface{}) error {
	var ids []uuid.UUID
	if err := tx.Model(&Template{}).Where(query, args...).Pluck("id", &ids).Error; err != nil {
		return fmt.Errorf("failed to collect templates: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Model(&Template{}).Where("source_template_id IN ?", ids).
		Update("source_template_id", nil).Error; err != nil {
		return fmt.Errorf("failed to detach template copies: %w", err)
	}
	if err := tx.Where("id IN ?", ids).Delete(&Template{}).Error; err != nil {
		return fmt.Errorf("failed to delete templates: %w", err)
	}
	return nil
}

func tagsJSON(tags []string) datatypes.JSON {
	if tags == nil {
		tags = []string{}
	}
	b, _ := json.Marshal(tags)
	return datatypes.JSON(b)
}
