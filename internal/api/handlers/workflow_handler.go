package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/contentdesk/internal/service"
	"github.com/maheshrc27/contentdesk/internal/transfer"
)

type WorkflowHandler struct {
	s       service.WorkflowService
	sources service.SourceService
}

func NewWorkflowHandler(service service.WorkflowService, sources service.SourceService) *WorkflowHandler {
	return &WorkflowHandler{s: service, sources: sources}
}

func (h *WorkflowHandler) GenerateContent(c *fiber.Ctx) error {
	var req transfer.ContentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	result, err := h.s.GenerateContent(c.Context(), GetUserID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(result)
}

func (h *WorkflowHandler) StartCampaign(c *fiber.Ctx) error {
	var req transfer.CampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	result, err := h.s.StartCampaign(c.Context(), GetUserID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(result)
}

func (h *WorkflowHandler) SubmitIdea(c *fiber.Ctx) error {
	var req transfer.IdeaRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	result, err := h.s.SubmitIdea(c.Context(), GetUserID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(result)
}

func (h *WorkflowHandler) PreviewSource(c *fiber.Ctx) error {
	var req transfer.SourceRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	preview, err := h.sources.Preview(c.Context(), req.URL)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(preview)
}
