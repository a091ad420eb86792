package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/contentdesk/internal/models"
	"github.com/maheshrc27/contentdesk/internal/service"
	"github.com/maheshrc27/contentdesk/internal/transfer"
)

type GuidelineHandler struct {
	s service.GuidelineService
}

func NewGuidelineHandler(service service.GuidelineService) *GuidelineHandler {
	return &GuidelineHandler{s: service}
}

func (h *GuidelineHandler) ListGuidelines(c *fiber.Ctx) error {
	guidelines, err := h.s.List(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(guidelines)
}

func (h *GuidelineHandler) EditMain(c *fiber.Ctx) error {
	var req transfer.GuidelineText
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	guideline, err := h.s.EditMain(c.Context(), GetUserID(c), req.Guidelines)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(guideline)
}

func (h *GuidelineHandler) EditGuideline(c *fiber.Ctx) error {
	var req transfer.PostEdit
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if len(req.Fields) == 0 {
		return badRequest(c, "no fields to edit")
	}

	guideline, err := h.s.Edit(c.Context(), GetUserID(c), c.Params("id"), models.Fields(req.Fields))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(guideline)
}

func (h *GuidelineHandler) SaveGuideline(c *fiber.Ctx) error {
	guideline, err := h.s.Save(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(guideline)
}

func (h *GuidelineHandler) SaveAll(c *fiber.Ctx) error {
	result, err := h.s.SaveAll(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	if len(result.Failed) > 0 {
		return c.Status(fiber.StatusMultiStatus).JSON(result)
	}
	return c.JSON(result)
}

func (h *GuidelineHandler) CreateStyle(c *fiber.Ctx) error {
	var req transfer.StyleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	style, err := h.s.CreateStyle(c.Context(), GetUserID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(style)
}

func (h *GuidelineHandler) RemoveStyle(c *fiber.Ctx) error {
	if err := h.s.RemoveStyle(c.Context(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *GuidelineHandler) DiscardGuideline(c *fiber.Ctx) error {
	if err := h.s.Discard(c.Context(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
