package streaks

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/selfora/backend/internal/config"
	"gorm.io/gorm"
)

type StreaksPlugin struct {
	svc *Service
}

// New wraps a shared Service so other plugins and the login flow record
// activities through the same engine.
func New(svc *Service) *StreaksPlugin {
	return &StreaksPlugin{svc: svc}
}

func (p *StreaksPlugin) ID() string { return "streaks" }

func (p *StreaksPlugin) Models() []interface{} {
	return []interface{}{
		&UserStreak{},
		&UserActivity{},
		&StreakBadge{},
	}
}

func (p *StreaksPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewStreakHandler(p.svc)

	router.Get("/streaks", handler.GetStreaks)
	router.Post("/streaks/update", handler.UpdateStreak)
	router.Get("/streaks/leaderboard", handler.GetLeaderboard)
	router.Get("/streaks/badges", handler.GetBadges)
}

func (p *StreaksPlugin) PurgeUser(tx *gorm.DB, userID uuid.UUID) error {
	return p.svc.PurgeUser(tx, userID)
}
