package feedback

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/selfora/backend/internal/models"
	"github.com/selfora/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newFeedbackService(t *testing.T) (*FeedbackService, *gorm.DB) {
	db := testutil.NewDB(t, &models.User{}, &Feedback{})
	return NewFeedbackService(db), db
}

func newUser(t *testing.T, db *gorm.DB, name string) uuid.UUID {
	u := models.User{Username: name, Email: name + "@example.com", Password: "x"}
	require.NoError(t, db.Create(&u).Error)
	return u.ID
}

func TestCreateAppliesDefaults(t *testing.T) {
	s, db := newFeedbackService(t)

	f, err := s.Create(context.Background(), newUser(t, db, "ada"), &CreateFeedbackRequest{
		Title:       " Dark mode ",
		Description: "Please add it",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dark mode", f.Title)
	assert.Equal(t, TypeGeneral, f.FeedbackType)
	assert.Equal(t, PriorityMedium, f.Priority)
	assert.Equal(t, StatusNew, f.Status)
}

func TestListOwnAndAdminFilters(t *testing.T) {
	s, db := newFeedbackService(t)
	ctx := context.Background()
	ada := newUser(t, db, "ada")
	bob := newUser(t, db, "bob")

	bug, err := s.Create(ctx, ada, &CreateFeedbackRequest{FeedbackType: TypeBug, Priority: PriorityHigh, Title: "Crash", Description: "on save"})
	require.NoError(t, err)
	_, err = s.Create(ctx, bob, &CreateFeedbackRequest{FeedbackType: TypeFeature, Title: "Export", Description: "pdf"})
	require.NoError(t, err)

	own, err := s.ListOwn(ctx, ada)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, bug.ID, own[0].ID)

	all, err := s.AdminList(ctx, AdminFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	bugs, err := s.AdminList(ctx, AdminFilter{FeedbackType: TypeBug, Priority: PriorityHigh})
	require.NoError(t, err)
	require.Len(t, bugs, 1)

	status, notes := StatusResolved, "fixed in 1.2"
	updated, err := s.AdminUpdate(ctx, bug.ID, &AdminUpdateFeedbackRequest{Status: &status, AdminNotes: &notes})
	require.NoError(t, err)
	assert.Equal(t, StatusResolved, updated.Status)
	assert.Equal(t, "fixed in 1.2", updated.AdminNotes)

	open, err := s.AdminList(ctx, AdminFilter{Status: StatusNew})
	require.NoError(t, err)
	assert.Len(t, open, 1)

	require.NoError(t, s.AdminDelete(ctx, bug.ID))
	assert.ErrorIs(t, s.AdminDelete(ctx, bug.ID), ErrFeedbackNotFound)
	_, err = s.AdminUpdate(ctx, uuid.New(), &AdminUpdateFeedbackRequest{})
	assert.ErrorIs(t, err, ErrFeedbackNotFound)
}

func TestPurgeUserRemovesOnlyOwnFeedback(t *testing.T) {
	s, db := newFeedbackService(t)
	ctx := context.Background()
	ada := newUser(t, db, "ada")
	bob := newUser(t, db, "bob")

	_, err := s.Create(ctx, ada, &CreateFeedbackRequest{Title: "a", Description: "a"})
	require.NoError(t, err)
	_, err = s.Create(ctx, bob, &CreateFeedbackRequest{Title: "b", Description: "b"})
	require.NoError(t, err)

	require.NoError(t, New().PurgeUser(db, ada))

	var count int64
	require.NoError(t, db.Model(&Feedback{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
