package streaks

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/selfora/backend/internal/models"
	"gorm.io/gorm"
)

// StreakType is the closed set of activities that build streaks.
type StreakType string

const (
	DailyLogin     StreakType = "daily_login"
	TaskCompletion StreakType = "task_completion"
	PageCreation   StreakType = "page_creation"
	EditorUsage    StreakType = "editor_usage"
)

// AllTypes lists every streak type in display order.
var AllTypes = []StreakType{DailyLogin, TaskCompletion, PageCreation, EditorUsage}

var ErrInvalidActivityType = errors.New("invalid activity type")

// ParseStreakType accepts the snake_case wire form and the hyphenated form.
func ParseStreakType(s string) (StreakType, error) {
	norm := StreakType(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	for _, t := range AllTypes {
		if t == norm {
			return t, nil
		}
	}
	return "", ErrInvalidActivityType
}

// Label is the human readable name, e.g. "Daily Login".
func (t StreakType) Label() string {
	words := strings.Split(string(t), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// UserStreak is the running streak of one user for one activity type.
type UserStreak struct {
	ID              uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_user_streak_type" json:"user_id"`
	StreakType      StreakType  `gorm:"size:32;not null;uniqueIndex:idx_user_streak_type" json:"streak_type"`
	CurrentStreak   int         `gorm:"not null;default:0" json:"current_streak"`
	LongestStreak   int         `gorm:"not null;default:0" json:"longest_streak"`
	LastActiveDate  *time.Time  `gorm:"type:date" json:"last_active_date"`
	TotalActivities int         `gorm:"not null;default:0" json:"total_activities"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	User            models.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (s *UserStreak) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// UserActivity records that a user performed an activity on a calendar day.
type UserActivity struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_user_activity_day" json:"user_id"`
	ActivityType StreakType  `gorm:"size:32;not null;uniqueIndex:idx_user_activity_day" json:"activity_type"`
	ActivityDate time.Time   `gorm:"type:date;not null;uniqueIndex:idx_user_activity_day;index" json:"activity_date"`
	CreatedAt    time.Time   `json:"created_at"`
	User         models.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (a *UserActivity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// StreakBadge is awarded once per (user, streak type, milestone).
type StreakBadge struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_user_badge_milestone" json:"user_id"`
	StreakType  StreakType  `gorm:"size:32;not null;uniqueIndex:idx_user_badge_milestone" json:"streak_type"`
	Milestone   int         `gorm:"not null;uniqueIndex:idx_user_badge_milestone" json:"milestone"`
	StreakCount int         `gorm:"not null" json:"streak_count"`
	BadgeName   string      `gorm:"size:100;not null" json:"badge_name"`
	BadgeEmoji  string      `gorm:"size:16;not null" json:"badge_emoji"`
	AwardedAt   time.Time   `gorm:"not null;index" json:"awarded_at"`
	User        models.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (b *StreakBadge) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Response types

type StreakSummary struct {
	CurrentStreak   int     `json:"current_streak"`
	LongestStreak   int     `json:"longest_streak"`
	LastActiveDate  *string `json:"last_active_date"`
	TotalActivities int     `json:"total_activities"`
	IsAtRisk        bool    `json:"is_at_risk"`
}

type SummaryResponse struct {
	Streaks      map[StreakType]StreakSummary `json:"streaks"`
	RecentBadges []StreakBadge                `json:"recent_badges"`
	TotalBadges  int64                        `json:"total_badges"`
}

type UpdateRequest struct {
	ActivityType string `json:"activity_type" validate:"required"`
}

type UpdateResponse struct {
	CurrentStreak   int          `json:"current_streak"`
	LongestStreak   int          `json:"longest_streak"`
	IsNewRecord     bool         `json:"is_new_record"`
	AlreadyRecorded bool         `json:"already_recorded"`
	Badge           *StreakBadge `json:"badge,omitempty"`
}

type LeaderboardEntry struct {
	Rank          int       `json:"rank"`
	UserID        uuid.UUID `json:"user_id"`
	Username      string    `json:"username"`
	CurrentStreak int       `json:"current_streak"`
	LongestStreak int       `json:"longest_streak"`
	IsCurrentUser bool      `json:"is_current_user"`
}

type LeaderboardResponse struct {
	StreakType  StreakType         `json:"streak_type"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}
