package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/voicebill/voice-billing-be/internal/modules/billing/services"
)

type StatsHandler struct {
	statsService *services.StatsService
}

func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// GetStats godoc
// @Summary Dashboard stats
// @Description Catalog size, template count and bills generated in the last 30 days
// @Tags Stats
// @Produce json
// @Success 200 {object} models.Stats
// @Failure 500 {object} map[string]interface{}
// @Router /api/stats [get]
func (h *StatsHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.statsService.GetStats()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(stats)
}
