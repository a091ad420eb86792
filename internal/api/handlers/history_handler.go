package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/contentdesk/internal/service"
)

type HistoryHandler struct {
	s         service.HistoryService
	analytics service.AnalyticsService
}

func NewHistoryHandler(service service.HistoryService, analytics service.AnalyticsService) *HistoryHandler {
	return &HistoryHandler{s: service, analytics: analytics}
}

func (h *HistoryHandler) ListTriggers(c *fiber.Ctx) error {
	triggers, err := h.s.Triggers(c.Context(), GetUserID(c), c.QueryInt("limit"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(triggers)
}

func (h *HistoryHandler) ListAnomalies(c *fiber.Ctx) error {
	anomalies, err := h.s.Anomalies(c.Context(), GetUserID(c), c.QueryInt("limit"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(anomalies)
}

func (h *HistoryHandler) Analytics(c *fiber.Ctx) error {
	summary, err := h.analytics.Summary(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
