package streaks

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	activitiesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "selfora_streak_activities_total",
			Help: "Activity submissions by type and whether they were new for the day",
		},
		[]string{"streak_type", "result"},
	)

	advancesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "selfora_streak_advances_total",
			Help: "Streak advances by type and outcome (started, continued, reset)",
		},
		[]string{"streak_type", "outcome"},
	)

	badgesAwardedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "selfora_streak_badges_awarded_total",
			Help: "Milestone badges awarded",
		},
		[]string{"streak_type", "milestone"},
	)

	updateDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "selfora_streak_update_duration_seconds",
			Help:    "Latency of recording an activity and advancing its streak",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"streak_type"},
	)

	leaderboardCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "selfora_leaderboard_cache_total",
			Help: "Leaderboard cache lookups by result",
		},
		[]string{"result"},
	)
)

func recordActivityMetric(t StreakType, created bool) {
	result := "duplicate"
	if created {
		result = "created"
	}
	activitiesTotal.WithLabelValues(string(t), result).Inc()
}

func recordAdvance(t StreakType, before, after UserStreak) {
	outcome := "reset"
	switch {
	case before.LastActiveDate == nil:
		outcome = "started"
	case after.CurrentStreak > 1:
		outcome = "continued"
	}
	advancesTotal.WithLabelValues(string(t), outcome).Inc()
}

func recordBadge(b *StreakBadge) {
	badgesAwardedTotal.WithLabelValues(string(b.StreakType), strconv.Itoa(b.Milestone)).Inc()
}

func observeUpdate(t StreakType, start time.Time) {
	updateDuration.WithLabelValues(string(t)).Observe(time.Since(start).Seconds())
}
