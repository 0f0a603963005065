package templates

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/selfora/backend/internal/models"
	"github.com/selfora/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newTemplateService(t *testing.T) (*TemplateService, *gorm.DB) {
	db := testutil.NewDB(t, &models.User{}, &Template{})
	return NewTemplateService(db), db
}

func newUser(t *testing.T, db *gorm.DB, name string) uuid.UUID {
	u := models.User{Username: name, Email: name + "@example.com", Password: "x"}
	require.NoError(t, db.Create(&u).Error)
	return u.ID
}

func titles(list []Template) []string {
	out := make([]string, 0, len(list))
	for _, t := range list {
		out = append(out, t.Title)
	}
	return out
}

func TestCreateForcesPrivateForUsers(t *testing.T) {
	s, db := newTemplateService(t)
	ctx := context.Background()
	user := Caller{UserID: newUser(t, db, "ada")}
	staff := Caller{UserID: newUser(t, db, "root"), Staff: true}

	private, err := s.Create(ctx, user, &CreateTemplateRequest{Title: "Mine", IsGlobal: true, Tags: []string{"study"}})
	require.NoError(t, err)
	assert.False(t, private.IsGlobal)
	assert.Equal(t, user.UserID, *private.OwnerID)
	assert.JSONEq(t, `["study"]`, string(private.Tags))
	assert.JSONEq(t, `{}`, string(private.Content))

	global, err := s.Create(ctx, staff, &CreateTemplateRequest{Title: "Shared", IsGlobal: true})
	require.NoError(t, err)
	assert.True(t, global.IsGlobal)
}

func TestVisibility(t *testing.T) {
	s, db := newTemplateService(t)
	ctx := context.Background()
	ada := Caller{UserID: newUser(t, db, "ada")}
	bob := Caller{UserID: newUser(t, db, "bob")}
	staff := Caller{UserID: newUser(t, db, "root"), Staff: true}

	_, err := s.Create(ctx, staff, &CreateTemplateRequest{Title: "Global", IsGlobal: true})
	require.NoError(t, err)
	adas, err := s.Create(ctx, ada, &CreateTemplateRequest{Title: "Ada's"})
	require.NoError(t, err)
	_, err = s.Create(ctx, bob, &CreateTemplateRequest{Title: "Bob's"})
	require.NoError(t, err)

	list, err := s.List(ctx, ada, ListFilter{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Global", "Ada's"}, titles(list))

	list, err = s.List(ctx, ada, ListFilter{Scope: "mine"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ada's"}, titles(list))

	list, err = s.List(ctx, staff, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 3)

	_, err = s.Get(ctx, bob, adas.ID)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestModifyPermissions(t *testing.T) {
	s, db := newTemplateService(t)
	ctx := context.Background()
	ada := Caller{UserID: newUser(t, db, "ada")}
	staff := Caller{UserID: newUser(t, db, "root"), Staff: true}

	global, err := s.Create(ctx, staff, &CreateTemplateRequest{Title: "Global", IsGlobal: true})
	require.NoError(t, err)
	mine, err := s.Create(ctx, ada, &CreateTemplateRequest{Title: "Mine"})
	require.NoError(t, err)

	title := "Hacked"
	_, err = s.Update(ctx, ada, global.ID, &UpdateTemplateRequest{Title: &title})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, s.Delete(ctx, ada, global.ID), ErrForbidden)

	promote := true
	title = "Renamed"
	updated, err := s.Update(ctx, ada, mine.ID, &UpdateTemplateRequest{Title: &title, IsGlobal: &promote})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.False(t, updated.IsGlobal)

	title = "Official"
	updated, err = s.Update(ctx, staff, global.ID, &UpdateTemplateRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Official", updated.Title)

	require.NoError(t, s.Delete(ctx, ada, mine.ID))
	_, err = s.Get(ctx, ada, mine.ID)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestUseCopiesTemplate(t *testing.T) {
	s, db := newTemplateService(t)
	ctx := context.Background()
	ada := Caller{UserID: newUser(t, db, "ada")}
	staff := Caller{UserID: newUser(t, db, "root"), Staff: true}

	src, err := s.Create(ctx, staff, &CreateTemplateRequest{
		Title:    "Study Plan",
		Content:  datatypes.JSON(`{"blocks":[1,2]}`),
		IsGlobal: true,
		Category: "education",
		Tags:     []string{"study"},
	})
	require.NoError(t, err)

	copied, err := s.Use(ctx, ada, src.ID, &UseTemplateRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Study Plan (Copy)", copied.Title)
	assert.Equal(t, src.ID, *copied.SourceTemplateID)
	assert.Equal(t, ada.UserID, *copied.OwnerID)
	assert.False(t, copied.IsGlobal)
	assert.Equal(t, "education", copied.Category)
	assert.JSONEq(t, `{"blocks":[1,2]}`, string(copied.Content))

	category := "personal"
	named, err := s.Use(ctx, ada, src.ID, &UseTemplateRequest{Title: "My Plan", Category: &category})
	require.NoError(t, err)
	assert.Equal(t, "My Plan", named.Title)
	assert.Equal(t, "personal", named.Category)
}

func TestDeleteDetachesCopies(t *testing.T) {
	s, db := newTemplateService(t)
	ctx := context.Background()
	ada := Caller{UserID: newUser(t, db, "ada")}
	bob := Caller{UserID: newUser(t, db, "bob")}
	staff := Caller{UserID: newUser(t, db, "root"), Staff: true}

	src, err := s.Create(ctx, staff, &CreateTemplateRequest{Title: "Global", IsGlobal: true})
	require.NoError(t, err)
	copied, err := s.Use(ctx, ada, src.ID, &UseTemplateRequest{})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, staff, src.ID))
	got, err := s.Get(ctx, ada, copied.ID)
	require.NoError(t, err)
	assert.Nil(t, got.SourceTemplateID)

	_, err = s.Create(ctx, bob, &CreateTemplateRequest{Title: "Bob's"})
	require.NoError(t, err)
	require.NoError(t, New().PurgeUser(db, ada.UserID))

	var remaining []Template
	require.NoError(t, db.Find(&remaining).Error)
	assert.Equal(t, []string{"Bob's"}, titles(remaining))
}
