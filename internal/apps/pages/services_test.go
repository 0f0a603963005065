package pages

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/selfora/backend/internal/apps/streaks"
	"github.com/selfora/backend/internal/models"
	"github.com/selfora/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRecorder struct {
	mu    sync.Mutex
	types []streaks.StreakType
	err   error
}

func (f *fakeRecorder) RecordActivity(_ context.Context, _ uuid.UUID, t streaks.StreakType) (*streaks.UpdateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.types = append(f.types, t)
	if f.err != nil {
		return nil, f.err
	}
	return &streaks.UpdateResult{Created: true}, nil
}

func newPageService(t *testing.T) (*PageService, *fakeRecorder, *gorm.DB) {
	db := testutil.NewDB(t, &models.User{}, &Page{})
	rec := &fakeRecorder{}
	return NewPageService(db, rec), rec, db
}

func newUser(t *testing.T, db *gorm.DB, name string) uuid.UUID {
	u := models.User{Username: name, Email: name + "@example.com", Password: "x"}
	require.NoError(t, db.Create(&u).Error)
	return u.ID
}

func TestCreatePage(t *testing.T) {
	s, rec, db := newPageService(t)
	ctx := context.Background()
	owner := newUser(t, db, "ada")

	page, err := s.Create(ctx, owner, &CreatePageRequest{
		Title:   "  My Study Plan! ",
		Content: `<p>hello</p><script>alert(1)</script>`,
		Icon:    "📚",
	})
	require.NoError(t, err)
	assert.Equal(t, "My Study Plan!", page.Title)
	assert.Equal(t, "my-study-plan", page.Slug)
	assert.Equal(t, "<p>hello</p>", page.Content)
	assert.Equal(t, []streaks.StreakType{streaks.PageCreation}, rec.types)

	untitled, err := s.Create(ctx, owner, &CreatePageRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Untitled", untitled.Title)
	assert.Equal(t, "untitled", untitled.Slug)
}

func TestCreatePageActivityFailureIsNotFatal(t *testing.T) {
	s, rec, db := newPageService(t)
	rec.err = errors.New("streaks down")

	_, err := s.Create(context.Background(), newUser(t, db, "ada"), &CreatePageRequest{Title: "x"})
	assert.NoError(t, err)
}

func TestPagesAreOwnerScoped(t *testing.T) {
	s, _, db := newPageService(t)
	ctx := context.Background()
	ada := newUser(t, db, "ada")
	bob := newUser(t, db, "bob")

	page, err := s.Create(ctx, ada, &CreatePageRequest{Title: "secret"})
	require.NoError(t, err)

	_, err = s.Get(ctx, bob, page.ID)
	assert.ErrorIs(t, err, ErrPageNotFound)
	assert.ErrorIs(t, s.Delete(ctx, bob, page.ID), ErrPageNotFound)

	_, err = s.Create(ctx, bob, &CreatePageRequest{Title: "child", ParentID: &page.ID})
	assert.ErrorIs(t, err, ErrParentNotFound)

	list, err := s.List(ctx, bob, ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPageHierarchy(t *testing.T) {
	s, rec, db := newPageService(t)
	ctx := context.Background()
	owner := newUser(t, db, "ada")

	root, err := s.Create(ctx, owner, &CreatePageRequest{Title: "root"})
	require.NoError(t, err)
	child, err := s.Create(ctx, owner, &CreatePageRequest{Title: "child", ParentID: &root.ID})
	require.NoError(t, err)
	grandchild, err := s.Create(ctx, owner, &CreatePageRequest{Title: "grandchild", ParentID: &child.ID})
	require.NoError(t, err)
	other, err := s.Create(ctx, owner, &CreatePageRequest{Title: "other", IsFavorite: true})
	require.NoError(t, err)

	children, err := s.Children(ctx, owner, root.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, child.ID, children[0].ID)

	roots, err := s.List(ctx, owner, ListFilter{RootOnly: true})
	require.NoError(t, err)
	assert.Len(t, roots, 2)
	favs, err := s.List(ctx, owner, ListFilter{Favorites: true})
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, other.ID, favs[0].ID)

	_, err = s.Update(ctx, owner, root.ID, &UpdatePageRequest{ParentID: &grandchild.ID})
	assert.ErrorIs(t, err, ErrCycle)
	_, err = s.Update(ctx, owner, root.ID, &UpdatePageRequest{ParentID: &root.ID})
	assert.ErrorIs(t, err, ErrCycle)

	moved, err := s.Update(ctx, owner, grandchild.ID, &UpdatePageRequest{ParentID: &other.ID})
	require.NoError(t, err)
	require.NotNil(t, moved.ParentID)
	assert.Equal(t, other.ID, *moved.ParentID)

	detached, err := s.Update(ctx, owner, moved.ID, &UpdatePageRequest{MoveToRoot: true})
	require.NoError(t, err)
	assert.Nil(t, detached.ParentID)

	content := "<b>draft</b>"
	title := "Renamed Page"
	updated, err := s.Update(ctx, owner, child.ID, &UpdatePageRequest{Title: &title, Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "renamed-page", updated.Slug)
	assert.Equal(t, "<b>draft</b>", updated.Content)
	assert.Equal(t, streaks.EditorUsage, rec.types[len(rec.types)-1])
}

func TestDeleteCascadesToDescendants(t *testing.T) {
	s, _, db := newPageService(t)
	ctx := context.Background()
	owner := newUser(t, db, "ada")

	root, err := s.Create(ctx, owner, &CreatePageRequest{Title: "root"})
	require.NoError(t, err)
	child, err := s.Create(ctx, owner, &CreatePageRequest{Title: "child", ParentID: &root.ID})
	require.NoError(t, err)
	_, err = s.Create(ctx, owner, &CreatePageRequest{Title: "grandchild", ParentID: &child.ID})
	require.NoError(t, err)
	_, err = s.Create(ctx, owner, &CreatePageRequest{Title: "keep"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, owner, root.ID))

	left, err := s.List(ctx, owner, ListFilter{})
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "keep", left[0].Title)
}

func TestPagesPurgeUser(t *testing.T) {
	s, _, db := newPageService(t)
	ctx := context.Background()
	ada := newUser(t, db, "ada")
	bob := newUser(t, db, "bob")
	_, err := s.Create(ctx, ada, &CreatePageRequest{Title: "a"})
	require.NoError(t, err)
	_, err = s.Create(ctx, bob, &CreatePageRequest{Title: "b"})
	require.NoError(t, err)

	require.NoError(t, New(nil).PurgeUser(db, ada))

	var n int64
	db.Model(&Page{}).Count(&n)
	assert.Equal(t, int64(1), n)
}
