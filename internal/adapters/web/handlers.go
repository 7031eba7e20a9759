package web

import (
	"context"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"verifybot/internal/domain"
	"verifybot/internal/usecases"
	"verifybot/pkg/log"
	"verifybot/templates/pages"
)

const maxLeaderboardLimit = 100

// HealthFunc reports whether a backing service is usable.
type HealthFunc func(ctx context.Context) error

// Handlers contains the HTTP handlers for the status surface.
type Handlers struct {
	leaderboard *usecases.LeaderboardUseCase
	health      HealthFunc
}

// NewHandlers creates a new Handlers instance. health may be nil.
func NewHandlers(leaderboard *usecases.LeaderboardUseCase, health HealthFunc) *Handlers {
	return &Handlers{
		leaderboard: leaderboard,
		health:      health,
	}
}

// render is a helper to render templ components. The status goes through
// templ because the adaptor overwrites one set on c.
func render(c *fiber.Ctx, status int, component templ.Component) error {
	return adaptor.HTTPHandler(templ.Handler(component, templ.WithStatus(status)))(c)
}

// Health answers 200 while the store is reachable and 503 otherwise.
func (h *Handlers) Health(c *fiber.Ctx) error {
	if h.health != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.health(ctx); err != nil {
			log.WarnCtx(ctx, "health check failed", "error", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

type leaderboardResponse struct {
	GuildID string                    `json:"guild_id"`
	Entries []domain.LeaderboardEntry `json:"entries"`
}

// APILeaderboard returns the message leaderboard of a server as JSON.
func (h *Handlers) APILeaderboard(c *fiber.Ctx) error {
	guildID, err := ParseGuildID(c.Params("guildID"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	entries, err := h.top(c, guildID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "leaderboard unavailable"})
	}
	return c.JSON(leaderboardResponse{GuildID: guildID, Entries: entries})
}

// LeaderboardPage renders the message leaderboard of a server as HTML.
func (h *Handlers) LeaderboardPage(c *fiber.Ctx) error {
	guildID, err := ParseGuildID(c.Params("guildID"))
	if err != nil {
		return render(c, fiber.StatusBadRequest, pages.Error("That doesn't look like a Discord server id."))
	}

	entries, err := h.top(c, guildID)
	if err != nil {
		return render(c, fiber.StatusInternalServerError, pages.Error("The leaderboard can't be loaded right now. Please try again in a moment."))
	}
	return render(c, fiber.StatusOK, pages.Leaderboard(guildID, entries))
}

func (h *Handlers) top(c *fiber.Ctx, guildID string) ([]domain.LeaderboardEntry, error) {
	limit := usecases.LeaderboardSize
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = min(n, maxLeaderboardLimit)
		}
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	entries, err := h.leaderboard.Top(ctx, guildID, limit)
	if err != nil {
		log.ErrorCtx(ctx, "read leaderboard failed", "guild_id", guildID, "error", err)
		return nil, err
	}
	return entries, nil
}
