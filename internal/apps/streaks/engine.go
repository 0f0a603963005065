package streaks

import (
	"fmt"
	"time"
)

// Milestones are the streak lengths that earn a badge. A badge is awarded
// only when the current streak lands exactly on one of them.
var Milestones = []int{7, 14, 30, 60, 100, 365}

// emojiTiers is ordered from the highest threshold down.
var emojiTiers = []struct {
	min   int
	emoji string
}{
	{365, "👑"},
	{100, "💎"},
	{60, "🏆"},
	{30, "🌟"},
	{14, "⚡"},
	{0, "🔥"},
}

// Day returns the calendar date of t in loc as a UTC midnight timestamp.
func Day(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// civil drops the clock and zone of a stored date value.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Advance applies one day of activity to s. It returns the new state and
// whether anything changed; a second advance on the same day is a no-op.
func Advance(s UserStreak, today time.Time) (UserStreak, bool) {
	today = civil(today)

	if s.LastActiveDate != nil {
		last := civil(*s.LastActiveDate)
		if last.Equal(today) {
			return s, false
		}
		if last.AddDate(0, 0, 1).Equal(today) {
			s.CurrentStreak++
		} else {
			s.CurrentStreak = 1
		}
	} else {
		s.CurrentStreak = 1
	}

	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}
	s.LastActiveDate = &today
	s.TotalActivities++
	return s, true
}

// IsAtRisk reports whether today's activity is still missing.
func IsAtRisk(s UserStreak, today time.Time) bool {
	if s.LastActiveDate == nil {
		return true
	}
	return civil(*s.LastActiveDate).Before(civil(today))
}

func IsMilestone(n int) bool {
	for _, m := range Milestones {
		if m == n {
			return true
		}
	}
	return false
}

// EmojiFor picks the badge emoji tier for a streak length.
func EmojiFor(streak int) string {
	for _, tier := range emojiTiers {
		if streak >= tier.min {
			return tier.emoji
		}
	}
	return emojiTiers[len(emojiTiers)-1].emoji
}

// BadgeName is e.g. "7-Day Daily Login Streak".
func BadgeName(t StreakType, milestone int) string {
	return fmt.Sprintf("%d-Day %s Streak", milestone, t.Label())
}
