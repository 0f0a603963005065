package streaks

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/selfora/backend/internal/dto"
	"github.com/selfora/backend/internal/userctx"
	"github.com/selfora/backend/internal/validation"
)

type StreakHandler struct {
	svc *Service
}

func NewStreakHandler(svc *Service) *StreakHandler {
	return &StreakHandler{svc: svc}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

// GetStreaks handles GET /streaks
func (h *StreakHandler) GetStreaks(c *fiber.Ctx) error {
	userID, err := userctx.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	summary, err := h.svc.Summary(c.UserContext(), userID)
	if err != nil {
		slog.Error("failed to load streak summary", "user_id", userID.String(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load streaks",
		})
	}
	return c.JSON(summary)
}

// UpdateStreak handles POST /streaks/update
func (h *StreakHandler) UpdateStreak(c *fiber.Ctx) error {
	userID, err := userctx.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req UpdateRequest
	if err := validation.Bind(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	t, err := ParseStreakType(req.ActivityType)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid activity_type: " + req.ActivityType,
		})
	}

	result, err := h.svc.RecordActivity(c.UserContext(), userID, t)
	if err != nil {
		slog.Error("streak update failed",
			"user_id", userID.String(),
			"action", "streak_update",
			"streak_type", string(t),
			"request_id", requestID(c),
			"error", err,
		)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update streak",
		})
	}

	return c.JSON(UpdateResponse{
		CurrentStreak:   result.Streak.CurrentStreak,
		LongestStreak:   result.Streak.LongestStreak,
		IsNewRecord:     result.IsNewRecord(),
		AlreadyRecorded: !result.Created,
		Badge:           result.Badge,
	})
}

// GetLeaderboard handles GET /streaks/leaderboard?type=&limit=
func (h *StreakHandler) GetLeaderboard(c *fiber.Ctx) error {
	userID, err := userctx.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	t, err := ParseStreakType(c.Query("type", string(DailyLogin)))
	if errors.Is(err, ErrInvalidActivityType) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid streak type: " + c.Query("type"),
		})
	}

	entries, err := h.svc.Leaderboard(c.UserContext(), t, c.QueryInt("limit", DefaultLeaderboardLimit), userID)
	if err != nil {
		slog.Error("failed to load leaderboard", "streak_type", string(t), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load leaderboard",
		})
	}
	return c.JSON(LeaderboardResponse{StreakType: t, Leaderboard: entries})
}

// GetBadges handles GET /streaks/badges
func (h *StreakHandler) GetBadges(c *fiber.Ctx) error {
	userID, err := userctx.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	badges, err := h.svc.Badges(c.UserContext(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load badges",
		})
	}
	return c.JSON(fiber.Map{"badges": badges, "total": len(badges)})
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return c.Get(fiber.HeaderXRequestID)
}
