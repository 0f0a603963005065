package apps

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/selfora/backend/internal/config"
	"gorm.io/gorm"
)

// Plugin defines the interface every feature area must implement.
type Plugin interface {
	// ID returns the unique feature identifier used in logs and metrics.
	ID() string

	// Models returns the list of GORM model pointers for AutoMigrate.
	Models() []interface{}

	// RegisterRoutes mounts feature routes on the given Fiber group.
	// The group is prefixed with /api/p and has JWT middleware applied.
	RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config)
}

// AdminPlugin extends Plugin with admin-specific route registration.
type AdminPlugin interface {
	Plugin

	// RegisterAdminRoutes mounts admin-only routes on the given Fiber group.
	// The group has both JWT and Admin middleware applied.
	RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config)
}

// PublicPlugin is implemented by plugins that expose unauthenticated routes
// directly under /api.
type PublicPlugin interface {
	Plugin

	RegisterPublicRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config)
}

// UserPurger is implemented by plugins that own per-user rows. PurgeUser runs
// inside the account deletion transaction.
type UserPurger interface {
	PurgeUser(tx *gorm.DB, userID uuid.UUID) error
}

// Purgers returns the plugins that own per-user rows.
func Purgers(plugins []Plugin) []UserPurger {
	var out []UserPurger
	for _, p := range plugins {
		if up, ok := p.(UserPurger); ok {
			out = append(out, up)
		}
	}
	return out
}
