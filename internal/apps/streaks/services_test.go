package streaks

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/selfora/backend/internal/models"
	"github.com/selfora/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	svc   *Service
	db    *gorm.DB
	clock time.Time
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewDB(t, &models.User{}, &UserStreak{}, &UserActivity{}, &StreakBadge{})
	f := &fixture{db: db, clock: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
	f.svc = NewService(db, time.UTC, nil)
	f.svc.now = func() time.Time { return f.clock }
	return f
}

func (f *fixture) user(t *testing.T, username string) uuid.UUID {
	u := models.User{Username: username, Email: username + "@example.com", Password: "x"}
	require.NoError(t, f.db.Create(&u).Error)
	return u.ID
}

func (f *fixture) nextDay() { f.clock = f.clock.AddDate(0, 0, 1) }

func (f *fixture) record(t *testing.T, userID uuid.UUID, st StreakType) *UpdateResult {
	res, err := f.svc.RecordActivity(context.Background(), userID, st)
	require.NoError(t, err)
	return res
}

func (f *fixture) count(t *testing.T, model interface{}, userID uuid.UUID) int64 {
	var n int64
	require.NoError(t, f.db.Model(model).Where("user_id = ?", userID).Count(&n).Error)
	return n
}

func TestRecordActivityIsIdempotentPerDay(t *testing.T) {
	f := newFixture(t)
	id := f.user(t, "ada")

	first := f.record(t, id, DailyLogin)
	assert.True(t, first.Created)
	assert.True(t, first.Advanced)
	assert.Equal(t, 1, first.Streak.CurrentStreak)

	second := f.record(t, id, DailyLogin)
	assert.False(t, second.Created)
	assert.False(t, second.Advanced)
	assert.Equal(t, 1, second.Streak.CurrentStreak)
	assert.Equal(t, 1, second.Streak.TotalActivities)

	assert.Equal(t, int64(1), f.count(t, &UserActivity{}, id))
	assert.Equal(t, int64(1), f.count(t, &UserStreak{}, id))
}

func TestRecordActivityContinuesAndResets(t *testing.T) {
	f := newFixture(t)
	id := f.user(t, "ada")

	f.record(t, id, DailyLogin)
	f.nextDay()
	f.record(t, id, DailyLogin)
	f.nextDay()
	res := f.record(t, id, DailyLogin)
	assert.Equal(t, 3, res.Streak.CurrentStreak)
	assert.Equal(t, 3, res.Streak.LongestStreak)
	assert.True(t, res.IsNewRecord())

	f.nextDay()
	f.nextDay()
	res = f.record(t, id, DailyLogin)
	assert.Equal(t, 1, res.Streak.CurrentStreak)
	assert.Equal(t, 3, res.Streak.LongestStreak)
	assert.Equal(t, 4, res.Streak.TotalActivities)
	assert.False(t, res.IsNewRecord())
}

func TestSevenDayScenario(t *testing.T) {
	f := newFixture(t)
	id := f.user(t, "ada")

	res := f.record(t, id, DailyLogin)
	assert.Equal(t, 1, res.Streak.CurrentStreak)
	assert.Nil(t, res.Badge)

	for day := 2; day <= 7; day++ {
		f.nextDay()
		res = f.record(t, id, DailyLogin)
		assert.Equal(t, day, res.Streak.CurrentStreak)
		if day < 7 {
			assert.Nil(t, res.Badge, "day %d", day)
		}
	}

	require.NotNil(t, res.Badge)
	assert.Equal(t, 7, res.Badge.Milestone)
	assert.Equal(t, 7, res.Badge.StreakCount)
	assert.Equal(t, "🔥", res.Badge.BadgeEmoji)
	assert.Equal(t, "7-Day Daily Login Streak", res.Badge.BadgeName)
	assert.Equal(t, int64(1), f.count(t, &StreakBadge{}, id))

	// Day 8 skipped.
	f.nextDay()
	f.nextDay()
	res = f.record(t, id, DailyLogin)
	assert.Equal(t, 1, res.Streak.CurrentStreak)
	assert.Equal(t, 7, res.Streak.LongestStreak)
	assert.Nil(t, res.Badge)
}

func TestBadgeNotDuplicatedOnRecrossing(t *testing.T) {
	f := newFixture(t)
	id := f.user(t, "ada")
	yesterday := Day(f.clock, time.UTC).AddDate(0, 0, -1)

	require.NoError(t, f.db.Create(&StreakBadge{
		UserID: id, StreakType: DailyLogin, Milestone: 7, StreakCount: 7,
		BadgeName: BadgeName(DailyLogin, 7), BadgeEmoji: EmojiFor(7), AwardedAt: yesterday.AddDate(0, 0, -30),
	}).Error)
	require.NoError(t, f.db.Create(&UserStreak{
		UserID: id, StreakType: DailyLogin, CurrentStreak: 6, LongestStreak: 20,
		LastActiveDate: &yesterday, TotalActivities: 40,
	}).Error)

	res := f.record(t, id, DailyLogin)
	assert.Equal(t, 7, res.Streak.CurrentStreak)
	assert.Nil(t, res.Badge)
	assert.Equal(t, int64(1), f.count(t, &StreakBadge{}, id))
}

func TestBadgeRequiresExactMilestone(t *testing.T) {
	f := newFixture(t)
	id := f.user(t, "ada")
	yesterday := Day(f.clock, time.UTC).AddDate(0, 0, -1)

	require.NoError(t, f.db.Create(&UserStreak{
		UserID: id, StreakType: EditorUsage, CurrentStreak: 7, LongestStreak: 7,
		LastActiveDate: &yesterday, TotalActivities: 7,
	}).Error)

	res := f.record(t, id, EditorUsage)
	assert.Equal(t, 8, res.Streak.CurrentStreak)
	assert.Nil(t, res.Badge)

	badge, err := f.svc.CheckAndAward(context.Background(), id, EditorUsage, 14)
	require.NoError(t, err)
	require.NotNil(t, badge)
	assert.Equal(t, "⚡", badge.BadgeEmoji)

	again, err := f.svc.CheckAndAward(context.Background(), id, EditorUsage, 14)
	require.NoError(t, err)
	assert.Nil(t, again)
}

func TestStreakTypesAreIsolated(t *testing.T) {
	f := newFixture(t)
	ada := f.user(t, "ada")
	bob := f.user(t, "bob")

	f.record(t, ada, DailyLogin)
	f.nextDay()
	f.record(t, ada, DailyLogin)
	res := f.record(t, ada, PageCreation)
	assert.Equal(t, 1, res.Streak.CurrentStreak)
	assert.True(t, res.Created)

	res = f.record(t, bob, DailyLogin)
	assert.Equal(t, 1, res.Streak.CurrentStreak)
	assert.True(t, res.Created)
}

func TestRecordActivityReconcilesStaleStreak(t *testing.T) {
	f := newFixture(t)
	id := f.user(t, "ada")

	// The activity committed but the streak transaction never ran.
	_, created, err := f.svc.Record(context.Background(), id, DailyLogin, f.svc.Today())
	require.NoError(t, err)
	require.True(t, created)

	res := f.record(t, id, DailyLogin)
	assert.False(t, res.Created)
	assert.True(t, res.Advanced)
	assert.Equal(t, 1, res.Streak.CurrentStreak)
	assert.Equal(t, 1, res.Streak.TotalActivities)

	res = f.record(t, id, DailyLogin)
	assert.False(t, res.Advanced)
	assert.Equal(t, 1, res.Streak.TotalActivities)
}

func TestRecordActivityConcurrentDuplicates(t *testing.T) {
	f := newFixture(t)
	id := f.user(t, "ada")

	const n = 8
	var wg sync.WaitGroup
	results := make([]*UpdateResult, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.svc.RecordActivity(context.Background(), id, TaskCompletion)
		}(i)
	}
	wg.Wait()

	created := 0
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		if results[i].Created {
			created++
		}
	}
	assert.Equal(t, 1, created)

	var st UserStreak
	require.NoError(t, f.db.Where("user_id = ? AND streak_type = ?", id, TaskCompletion).First(&st).Error)
	assert.Equal(t, 1, st.CurrentStreak)
	assert.Equal(t, 1, st.TotalActivities)
	assert.Equal(t, int64(1), f.count(t, &UserActivity{}, id))
}

func TestTodayUsesConfiguredZone(t *testing.T) {
	f := newFixture(t)
	f.svc.loc = time.FixedZone("EST", -5*3600)
	f.clock = time.Date(2024, 6, 2, 2, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), f.svc.Today())
}

func TestLeaderboardOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	today := f.svc.Today()

	seed := func(username string, current, longest int) uuid.UUID {
		id := f.user(t, username)
		require.NoError(t, f.db.Create(&UserStreak{
			UserID: id, StreakType: DailyLogin, CurrentStreak: current, LongestStreak: longest,
			LastActiveDate: &today, TotalActivities: longest,
		}).Error)
		return id
	}
	a := seed("alice", 10, 10)
	b := seed("bob", 30, 30)
	seed("carol", 5, 12)

	board, err := f.svc.Leaderboard(ctx, DailyLogin, 10, a)
	require.NoError(t, err)
	require.Len(t, board, 3)
	assert.Equal(t, []string{"bob", "alice", "carol"}, []string{board[0].Username, board[1].Username, board[2].Username})
	assert.Equal(t, []int{1, 2, 3}, []int{board[0].Rank, board[1].Rank, board[2].Rank})
	assert.Equal(t, b, board[0].UserID)
	assert.True(t, board[1].IsCurrentUser)
	assert.False(t, board[0].IsCurrentUser)

	// Ties on current break on longest, then username.
	seed("dave", 10, 15)
	seed("aaron", 10, 10)
	board, err = f.svc.Leaderboard(ctx, DailyLogin, 0, a)
	require.NoError(t, err)
	names := make([]string, len(board))
	for i, e := range board {
		names[i] = e.Username
	}
	assert.Equal(t, []string{"bob", "dave", "aaron", "alice", "carol"}, names)

	board, err = f.svc.Leaderboard(ctx, DailyLogin, 2, a)
	require.NoError(t, err)
	assert.Len(t, board, 2)

	board, err = f.svc.Leaderboard(ctx, PageCreation, 10, a)
	require.NoError(t, err)
	assert.Empty(t, board)
}

func TestSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.user(t, "ada")

	summary, err := f.svc.Summary(ctx, id)
	require.NoError(t, err)
	require.Len(t, summary.Streaks, len(AllTypes))
	for _, st := range AllTypes {
		s := summary.Streaks[st]
		assert.Zero(t, s.CurrentStreak)
		assert.Nil(t, s.LastActiveDate)
		assert.True(t, s.IsAtRisk)
	}
	assert.Empty(t, summary.RecentBadges)
	assert.Zero(t, summary.TotalBadges)

	f.record(t, id, DailyLogin)
	f.nextDay()
	summary, err = f.svc.Summary(ctx, id)
	require.NoError(t, err)
	login := summary.Streaks[DailyLogin]
	assert.Equal(t, 1, login.CurrentStreak)
	require.NotNil(t, login.LastActiveDate)
	assert.Equal(t, "2024-06-01", *login.LastActiveDate)
	assert.True(t, login.IsAtRisk)

	f.record(t, id, DailyLogin)
	summary, err = f.svc.Summary(ctx, id)
	require.NoError(t, err)
	assert.False(t, summary.Streaks[DailyLogin].IsAtRisk)

	for i, m := range Milestones {
		_, err := f.svc.CheckAndAward(ctx, id, PageCreation, m)
		require.NoError(t, err)
		f.clock = f.clock.Add(time.Duration(i+1) * time.Minute)
	}
	summary, err = f.svc.Summary(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(len(Milestones)), summary.TotalBadges)
	require.Len(t, summary.RecentBadges, 5)
	assert.Equal(t, 365, summary.RecentBadges[0].Milestone)

	badges, err := f.svc.Badges(ctx, id)
	require.NoError(t, err)
	assert.Len(t, badges, len(Milestones))
}

func TestPurgeUser(t *testing.T) {
	f := newFixture(t)
	ada := f.user(t, "ada")
	bob := f.user(t, "bob")

	f.record(t, ada, DailyLogin)
	f.record(t, bob, DailyLogin)
	_, err := f.svc.CheckAndAward(context.Background(), ada, DailyLogin, 7)
	require.NoError(t, err)

	require.NoError(t, f.db.Transaction(func(tx *gorm.DB) error {
		return f.svc.PurgeUser(tx, ada)
	}))

	assert.Zero(t, f.count(t, &UserStreak{}, ada))
	assert.Zero(t, f.count(t, &UserActivity{}, ada))
	assert.Zero(t, f.count(t, &StreakBadge{}, ada))
	assert.Equal(t, int64(1), f.count(t, &UserStreak{}, bob))
}
