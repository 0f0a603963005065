package jobs

import (
	"testing"
	"time"

	"github.com/selfora/backend/internal/models"
	"github.com/selfora/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurgeRefreshTokens(t *testing.T) {
	db := testutil.NewDB(t, &models.User{}, &models.RefreshToken{})
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	user := models.User{Username: "ada", Email: "ada@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	tokens := []models.RefreshToken{
		{UserID: user.ID, TokenHash: "expired", ExpiresAt: now.Add(-time.Hour)},
		{UserID: user.ID, TokenHash: "revoked", ExpiresAt: now.Add(time.Hour), Revoked: true},
		{UserID: user.ID, TokenHash: "live", ExpiresAt: now.Add(time.Hour)},
	}
	require.NoError(t, db.Create(&tokens).Error)

	deleted, err := PurgeRefreshTokens(db, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	var left []models.RefreshToken
	require.NoError(t, db.Find(&left).Error)
	require.Len(t, left, 1)
	assert.Equal(t, "live", left[0].TokenHash)
}

func TestStartRetention(t *testing.T) {
	db := testutil.NewDB(t, &models.User{}, &models.RefreshToken{}, &models.SystemLog{})

	sched, err := StartRetention(db, 0)
	require.NoError(t, err)
	defer func() { _ = sched.Shutdown() }()

	names := make([]string, 0, 2)
	for _, j := range sched.Jobs() {
		names = append(names, j.Name())
	}
	assert.ElementsMatch(t, []string{"system-log-retention", "refresh-token-purge"}, names)
}
