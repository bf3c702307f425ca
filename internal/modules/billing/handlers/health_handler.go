package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/voicebill/voice-billing-be/internal/core/transcribe"
	"github.com/voicebill/voice-billing-be/internal/core/upload"
)

type HealthHandler struct {
	transcribeService *transcribe.Service
	files             *upload.Service
}

func NewHealthHandler(transcribeService *transcribe.Service, files *upload.Service) *HealthHandler {
	return &HealthHandler{
		transcribeService: transcribeService,
		files:             files,
	}
}

// GetHealth godoc
// @Summary Service health check
// @Description Check if API is alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":      "ok",
		"service":     "voice-billing-api",
		"transcriber": h.transcribeService.GetProviderName(),
		"storage":     h.files.GetProviderName(),
	})
}
