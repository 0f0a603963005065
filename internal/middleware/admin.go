package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/selfora/backend/internal/config"
	"github.com/selfora/backend/internal/dto"
	"github.com/selfora/backend/internal/models"
	"github.com/selfora/backend/internal/userctx"
	"gorm.io/gorm"
)

// StaffChecker decides whether the authenticated caller is staff:
// either listed in ADMIN_EMAILS or holding the admin role in the database.
type StaffChecker struct {
	db          *gorm.DB
	adminEmails []string
}

func NewStaffChecker(db *gorm.DB, cfg *config.Config) *StaffChecker {
	return &StaffChecker{db: db, adminEmails: parseCSV(cfg.AdminEmails)}
}

func (s *StaffChecker) IsStaff(c *fiber.Ctx) bool {
	if email := userctx.GetEmail(c); email != "" && containsFold(s.adminEmails, email) {
		return true
	}

	userID, err := userctx.GetUserID(c)
	if err != nil {
		return false
	}
	var user models.User
	if err := s.db.WithContext(c.UserContext()).Select("role", "is_active").First(&user, "id = ?", userID).Error; err != nil {
		return false
	}
	return user.IsActive && user.IsStaff()
}

// AdminRequired rejects callers that are not staff. It must run after JWTProtected.
func AdminRequired(staff *StaffChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := userctx.GetUserID(c); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		if !staff.IsStaff(c) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Admin access required",
			})
		}
		return c.Next()
	}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func containsFold(list []string, val string) bool {
	for _, item := range list {
		if strings.EqualFold(item, val) {
			return true
		}
	}
	return false
}
