package documents

import (
	"context"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is an in-memory Store for tests.
type memStore struct {
	mu        sync.Mutex
	templates []NotionTemplate
	documents []UserDocument
}

func (m *memStore) ListTemplates(ctx context.Context, q TemplateQuery) ([]NotionTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []NotionTemplate{}
	for _, t := range m.templates {
		if !q.IncludeInactive && !t.IsActive {
			continue
		}
		if q.Type != "" && t.Type != q.Type {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(t.Name+" "+t.Description), strings.ToLower(q.Search)) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *memStore) GetTemplate(ctx context.Context, id primitive.ObjectID) (*NotionTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.templates {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) InsertTemplate(ctx context.Context, t *NotionTemplate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = primitive.NewObjectID()
	m.templates = append(m.templates, *t)
	return nil
}

func (m *memStore) UpdateTemplate(ctx context.Context, id primitive.ObjectID, p TemplatePatch) (*NotionTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.templates {
		t := &m.templates[i]
		if t.ID != id {
			continue
		}
		if p.Name != nil {
			t.Name = *p.Name
		}
		if p.IsActive != nil {
			t.IsActive = *p.IsActive
		}
		if p.Content != nil {
			t.Content = *p.Content
		}
		t.Metadata.UpdatedAt = p.UpdatedAt
		if p.BumpVersion {
			t.Metadata.Version++
		}
		out := *t
		return &out, nil
	}
	return nil, ErrNotFound
}

func (m *memStore) DeleteTemplate(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.templates {
		if t.ID == id {
			m.templates = append(m.templates[:i], m.templates[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *memStore) HasTemplateType(ctx context.Context, templateType string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.templates {
		if t.Type == templateType {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ListDocuments(ctx context.Context, userID string) ([]UserDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []UserDocument{}
	for _, d := range m.documents {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memStore) InsertDocument(ctx context.Context, d *UserDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d.ID = primitive.NewObjectID()
	m.documents = append(m.documents, *d)
	return nil
}

func (m *memStore) UpdateDocument(ctx context.Context, userID string, id primitive.ObjectID, p DocumentPatch) (*UserDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.documents {
		d := &m.documents[i]
		if d.ID != id || d.UserID != userID {
			continue
		}
		if p.Title != nil {
			d.Title = *p.Title
		}
		if p.Content != nil {
			d.Content = *p.Content
		}
		if p.IsFavorite != nil {
			d.Metadata.IsFavorite = *p.IsFavorite
		}
		d.Metadata.UpdatedAt = p.UpdatedAt
		if p.BumpVersion {
			d.Metadata.Version++
		}
		out := *d
		return &out, nil
	}
	return nil, ErrNotFound
}

func (m *memStore) DeleteUserDocuments(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.documents[:0]
	for _, d := range m.documents {
		if d.UserID != userID {
			kept = append(kept, d)
		}
	}
	m.documents = kept
	return nil
}
