package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/contentdesk/internal/service"
	"github.com/maheshrc27/contentdesk/internal/transfer"
)

type PromptHandler struct {
	s       service.PromptService
	folders service.FolderService
}

func NewPromptHandler(service service.PromptService, folders service.FolderService) *PromptHandler {
	return &PromptHandler{s: service, folders: folders}
}

func (h *PromptHandler) ListPrompts(c *fiber.Ctx) error {
	prompts, err := h.s.List(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(prompts)
}

func (h *PromptHandler) EditPrompt(c *fiber.Ctx) error {
	var req transfer.PromptEdit
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	prompt, err := h.s.Edit(c.Context(), GetUserID(c), c.Params("id"), req.Prompt)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(prompt)
}

func (h *PromptHandler) SavePrompt(c *fiber.Ctx) error {
	prompt, err := h.s.Save(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(prompt)
}

func (h *PromptHandler) SaveAll(c *fiber.Ctx) error {
	result, err := h.s.SaveAll(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	if len(result.Failed) > 0 {
		return c.Status(fiber.StatusMultiStatus).JSON(result)
	}
	return c.JSON(result)
}

// ListFolders is read-only; folders are never edited from the dashboard.
func (h *PromptHandler) ListFolders(c *fiber.Ctx) error {
	folders, err := h.folders.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(folders)
}
