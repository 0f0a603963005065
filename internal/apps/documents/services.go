package documents

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const defaultIcon = "📄"

type DocumentService struct {
	store Store
	now   func() time.Time
}

func NewDocumentService(store Store) *DocumentService {
	return &DocumentService{store: store, now: func() time.Time { return time.Now().UTC() }}
}

func (s *DocumentService) PublicTemplates(ctx context.Context) ([]NotionTemplate, error) {
	return s.store.ListTemplates(ctx, TemplateQuery{})
}

func (s *DocumentService) Templates(ctx context.Context, templateType, search string) ([]NotionTemplate, error) {
	return s.store.ListTemplates(ctx, TemplateQuery{
		Type:   strings.TrimSpace(templateType),
		Search: strings.TrimSpace(search),
	})
}

func (s *DocumentService) Template(ctx context.Context, id primitive.ObjectID) (*NotionTemplate, error) {
	return s.store.GetTemplate(ctx, id)
}

func (s *DocumentService) CreateTemplate(ctx context.Context, createdBy string, req *CreateTemplateRequest) (*NotionTemplate, error) {
	now := s.now()
	t := NotionTemplate{
		Name:        strings.TrimSpace(req.Name),
		Type:        strings.TrimSpace(req.Type),
		Description: req.Description,
		Icon:        req.Icon,
		Cover:       req.Cover,
		IsActive:    true,
		IsDefault:   req.IsDefault,
		Order:       req.Order,
		Metadata: TemplateMetadata{
			CreatedAt: now,
			UpdatedAt: now,
			CreatedBy: createdBy,
			Category:  req.Category,
			Tags:      req.Tags,
			Version:   1,
		},
	}
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}
	if req.Content != nil {
		t.Content = *req.Content
	}
	normalizeTemplate(&t)

	if err := s.store.InsertTemplate(ctx, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTemplate bumps metadata.version when the content changes.
func (s *DocumentService) UpdateTemplate(ctx context.Context, id primitive.ObjectID, req *UpdateTemplateRequest) (*NotionTemplate, error) {
	return s.store.UpdateTemplate(ctx, id, TemplatePatch{
		UpdateTemplateRequest: *req,
		UpdatedAt:             s.now(),
		BumpVersion:           req.Content != nil,
	})
}

func (s *DocumentService) DeleteTemplate(ctx context.Context, id primitive.ObjectID) error {
	return s.store.DeleteTemplate(ctx, id)
}

// InitializeTemplates installs the built-in templates whose type is not
// present yet.
func (s *DocumentService) InitializeTemplates(ctx context.Context, createdBy string) (*InitializeResponse, error) {
	resp := &InitializeResponse{Created: []string{}, Skipped: []string{}}
	for _, t := range builtinTemplates() {
		exists, err := s.store.HasTemplateType(ctx, t.Type)
		if err != nil {
			return nil, err
		}
		if exists {
			resp.Skipped = append(resp.Skipped, t.Type)
			continue
		}

		now := s.now()
		t.Metadata.CreatedAt = now
		t.Metadata.UpdatedAt = now
		t.Metadata.CreatedBy = createdBy
		t.Metadata.Version = 1
		normalizeTemplate(&t)
		if err := s.store.InsertTemplate(ctx, &t); err != nil {
			return nil, err
		}
		resp.Created = append(resp.Created, t.Type)
	}

	slog.Info("notion templates initialized", "created", len(resp.Created), "skipped", len(resp.Skipped))
	return resp, nil
}

func (s *DocumentService) Documents(ctx context.Context, userID string) ([]UserDocument, error) {
	return s.store.ListDocuments(ctx, userID)
}

// CreateDocument starts a document, copying the template's content when the
// request names a template and brings no content of its own.
func (s *DocumentService) CreateDocument(ctx context.Context, userID string, req *CreateDocumentRequest) (*UserDocument, error) {
	now := s.now()
	d := UserDocument{
		UserID:  userID,
		Title:   strings.TrimSpace(req.Title),
		Content: req.Content,
		Metadata: DocumentMetadata{
			CreatedAt: now,
			UpdatedAt: now,
			Tags:      req.Tags,
			Version:   1,
		},
	}

	if req.TemplateID != "" {
		oid, err := primitive.ObjectIDFromHex(req.TemplateID)
		if err != nil {
			return nil, ErrNotFound
		}
		t, err := s.store.GetTemplate(ctx, oid)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", req.TemplateID, err)
		}
		d.TemplateID = req.TemplateID
		if d.Content == nil {
			d.Content = map[string]interface{}{
				"blocks":     t.Content.Blocks,
				"properties": t.Content.Properties,
				"schema":     t.Content.Schema,
			}
		}
	}

	if d.Title == "" {
		d.Title = "Untitled"
	}
	if d.Content == nil {
		d.Content = map[string]interface{}{}
	}
	if d.Metadata.Tags == nil {
		d.Metadata.Tags = []string{}
	}

	if err := s.store.InsertDocument(ctx, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// UpdateDocument bumps metadata.version on every change.
func (s *DocumentService) UpdateDocument(ctx context.Context, userID string, id primitive.ObjectID, req *UpdateDocumentRequest) (*UserDocument, error) {
	return s.store.UpdateDocument(ctx, userID, id, DocumentPatch{
		UpdateDocumentRequest: *req,
		UpdatedAt:             s.now(),
		BumpVersion:           true,
	})
}

func normalizeTemplate(t *NotionTemplate) {
	if t.Icon == "" {
		t.Icon = defaultIcon
	}
	if t.Metadata.Category == "" {
		t.Metadata.Category = "general"
	}
	if t.Metadata.Tags == nil {
		t.Metadata.Tags = []string{}
	}
	if t.Content.Blocks == nil {
		t.Content.Blocks = []map[string]interface{}{}
	}
	if t.Content.Properties == nil {
		t.Content.Properties = map[string]interface{}{}
	}
	if t.Content.Schema == nil {
		t.Content.Schema = map[string]interface{}{}
	}
}
