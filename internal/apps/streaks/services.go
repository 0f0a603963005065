package streaks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 50
	recentBadgeCount        = 5
)

// Service records activities, advances streaks and awards badges.
type Service struct {
	db    *gorm.DB
	loc   *time.Location
	cache *LeaderboardCache
	now   func() time.Time
}

func NewService(db *gorm.DB, loc *time.Location, cache *LeaderboardCache) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{db: db, loc: loc, cache: cache, now: time.Now}
}

// Today is the current calendar date in the configured streak time zone.
func (s *Service) Today() time.Time {
	return Day(s.now(), s.loc)
}

// UpdateResult is the outcome of one activity submission.
type UpdateResult struct {
	Streak   UserStreak
	Created  bool
	Advanced bool
	Badge    *StreakBadge
}

// IsNewRecord is true when the streak just matched its longest run and is
// longer than a single day.
func (r *UpdateResult) IsNewRecord() bool {
	return r.Streak.CurrentStreak == r.Streak.LongestStreak && r.Streak.CurrentStreak > 1
}

// Record inserts the (user, type, day) activity once. created is false when
// the row already existed.
func (s *Service) Record(ctx context.Context, userID uuid.UUID, t StreakType, day time.Time) (*UserActivity, bool, error) {
	db := s.db.WithContext(ctx)
	activity := UserActivity{UserID: userID, ActivityType: t, ActivityDate: civil(day)}

	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&activity)
	if res.Error != nil {
		return nil, false, fmt.Errorf("failed to record activity: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return &activity, true, nil
	}

	var existing UserActivity
	if err := db.Where("user_id = ? AND activity_type = ? AND activity_date = ?", userID, t, activity.ActivityDate).
		First(&existing).Error; err != nil {
		return nil, false, fmt.Errorf("failed to load existing activity: %w", err)
	}
	return &existing, false, nil
}

// RecordActivity records today's activity of type t and advances the streak.
//
// The activity insert commits on its own. If the streak transaction then
// fails, a later submission on the same day finds the activity already
// present and the streak still stale, and advances it then.
func (s *Service) RecordActivity(ctx context.Context, userID uuid.UUID, t StreakType) (*UpdateResult, error) {
	start := time.Now()
	defer observeUpdate(t, start)

	today := s.Today()
	_, created, err := s.Record(ctx, userID, t, today)
	if err != nil {
		return nil, err
	}
	recordActivityMetric(t, created)

	result := &UpdateResult{Created: created}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.lockStreak(tx, userID, t)
		if err != nil {
			return err
		}

		next, advanced := Advance(*current, today)
		result.Streak = next
		if !advanced {
			return nil
		}

		if err := tx.Model(&UserStreak{}).Where("id = ?", next.ID).Updates(map[string]interface{}{
			"current_streak":   next.CurrentStreak,
			"longest_streak":   next.LongestStreak,
			"last_active_date": next.LastActiveDate,
			"total_activities": next.TotalActivities,
			"updated_at":       s.now(),
		}).Error; err != nil {
			return fmt.Errorf("failed to save streak: %w", err)
		}
		result.Advanced = true
		recordAdvance(t, *current, next)

		badge, err := s.checkAndAward(tx, userID, t, next.CurrentStreak)
		if err != nil {
			return err
		}
		result.Badge = badge
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("streak update failed: %w", err)
	}

	if result.Advanced {
		s.cache.Invalidate(ctx, t)
	}
	if result.Badge != nil {
		recordBadge(result.Badge)
	}
	return result, nil
}

// lockStreak gets or creates the (user, type) row and locks it for the rest
// of the transaction.
func (s *Service) lockStreak(tx *gorm.DB, userID uuid.UUID, t StreakType) (*UserStreak, error) {
	seed := UserStreak{UserID: userID, StreakType: t}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return nil, fmt.Errorf("failed to create streak: %w", err)
	}

	var streak UserStreak
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND streak_type = ?", userID, t).
		First(&streak).Error; err != nil {
		return nil, fmt.Errorf("failed to lock streak: %w", err)
	}
	return &streak, nil
}

// CheckAndAward issues the milestone badge for current if it is a milestone
// the user does not hold yet. It returns nil when nothing was awarded.
func (s *Service) CheckAndAward(ctx context.Context, userID uuid.UUID, t StreakType, current int) (*StreakBadge, error) {
	badge, err := s.checkAndAward(s.db.WithContext(ctx), userID, t, current)
	if badge != nil {
		recordBadge(badge)
	}
	return badge, err
}

func (s *Service) checkAndAward(tx *gorm.DB, userID uuid.UUID, t StreakType, current int) (*StreakBadge, error) {
	if !IsMilestone(current) {
		return nil, nil
	}

	badge := StreakBadge{
		UserID:      userID,
		StreakType:  t,
		Milestone:   current,
		StreakCount: current,
		BadgeName:   BadgeName(t, current),
		BadgeEmoji:  EmojiFor(current),
		AwardedAt:   s.now().UTC(),
	}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&badge)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to award badge: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &badge, nil
}

// Summary returns every streak type for the user, the newest badges and the
// badge count. Types never recorded report zeros.
func (s *Service) Summary(ctx context.Context, userID uuid.UUID) (*SummaryResponse, error) {
	db := s.db.WithContext(ctx)

	var rows []UserStreak
	if err := db.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load streaks: %w", err)
	}
	byType := make(map[StreakType]UserStreak, len(rows))
	for _, r := range rows {
		byType[r.StreakType] = r
	}

	today := s.Today()
	out := &SummaryResponse{Streaks: make(map[StreakType]StreakSummary, len(AllTypes))}
	for _, t := range AllTypes {
		st := byType[t]
		summary := StreakSummary{
			CurrentStreak:   st.CurrentStreak,
			LongestStreak:   st.LongestStreak,
			TotalActivities: st.TotalActivities,
			IsAtRisk:        IsAtRisk(st, today),
		}
		if st.LastActiveDate != nil {
			d := civil(*st.LastActiveDate).Format("2006-01-02")
			summary.LastActiveDate = &d
		}
		out.Streaks[t] = summary
	}

	out.RecentBadges = []StreakBadge{}
	if err := db.Where("user_id = ?", userID).Order("awarded_at DESC").Limit(recentBadgeCount).
		Find(&out.RecentBadges).Error; err != nil {
		return nil, fmt.Errorf("failed to load badges: %w", err)
	}
	if err := db.Model(&StreakBadge{}).Where("user_id = ?", userID).Count(&out.TotalBadges).Error; err != nil {
		return nil, fmt.Errorf("failed to count badges: %w", err)
	}
	return out, nil
}

// Badges lists all badges of the user, newest first.
func (s *Service) Badges(ctx context.Context, userID uuid.UUID) ([]StreakBadge, error) {
	badges := []StreakBadge{}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("awarded_at DESC").
		Find(&badges).Error; err != nil {
		return nil, fmt.Errorf("failed to load badges: %w", err)
	}
	return badges, nil
}

// Leaderboard ranks users by current streak, then longest streak, then
// username. limit is clamped to [1, MaxLeaderboardLimit].
func (s *Service) Leaderboard(ctx context.Context, t StreakType, limit int, currentUser uuid.UUID) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		limit = MaxLeaderboardLimit
	}

	top, ok := s.cache.Get(ctx, t)
	if !ok {
		var err error
		top, err = s.topN(ctx, t, MaxLeaderboardLimit)
		if err != nil {
			return nil, err
		}
		s.cache.Set(ctx, t, top)
	}

	if len(top) > limit {
		top = top[:limit]
	}
	out := make([]LeaderboardEntry, len(top))
	for i, e := range top {
		e.IsCurrentUser = e.UserID == currentUser
		out[i] = e
	}
	return out, nil
}

func (s *Service) topN(ctx context.Context, t StreakType, n int) ([]LeaderboardEntry, error) {
	var rows []struct {
		UserID        uuid.UUID
		Username      string
		CurrentStreak int
		LongestStreak int
	}
	err := s.db.WithContext(ctx).
		Table("user_streaks AS s").
		Select("s.user_id, u.username, s.current_streak, s.longest_streak").
		Joins("JOIN users u ON u.id = s.user_id").
		Where("s.streak_type = ?", t).
		Order("s.current_streak DESC, s.longest_streak DESC, u.username ASC").
		Limit(n).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}

	entries := make([]LeaderboardEntry, len(rows))
	for i, r := range rows {
		entries[i] = LeaderboardEntry{
			Rank:          i + 1,
			UserID:        r.UserID,
			Username:      r.Username,
			CurrentStreak: r.CurrentStreak,
			LongestStreak: r.LongestStreak,
		}
	}
	return entries, nil
}

// PurgeUser deletes every streak row the user owns.
func (s *Service) PurgeUser(tx *gorm.DB, userID uuid.UUID) error {
	for _, m := range []interface{}{&StreakBadge{}, &UserActivity{}, &UserStreak{}} {
		if err := tx.Where("user_id = ?", userID).Delete(m).Error; err != nil {
			return fmt.Errorf("failed to purge streak data: %w", err)
		}
	}
	return nil
}
