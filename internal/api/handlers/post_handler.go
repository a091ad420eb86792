package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/contentdesk/internal/models"
	"github.com/maheshrc27/contentdesk/internal/service"
	"github.com/maheshrc27/contentdesk/internal/transfer"
)

type PostHandler struct {
	s     service.PostService
	media service.MediaService
}

func NewPostHandler(service service.PostService, media service.MediaService) *PostHandler {
	return &PostHandler{s: service, media: media}
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	posts, err := h.s.List(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

func (h *PostHandler) ReloadPosts(c *fiber.Ctx) error {
	posts, err := h.s.Reload(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

func (h *PostHandler) ApprovalQueue(c *fiber.Ctx) error {
	posts, err := h.s.ApprovalQueue(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

func (h *PostHandler) PublishQueue(c *fiber.Ctx) error {
	posts, err := h.s.PublishQueue(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	post, err := h.s.Get(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

func (h *PostHandler) EditPost(c *fiber.Ctx) error {
	var req transfer.PostEdit
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if len(req.Fields) == 0 {
		return badRequest(c, "no fields to edit")
	}

	post, err := h.s.Edit(c.Context(), GetUserID(c), c.Params("id"), models.Fields(req.Fields))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

func (h *PostHandler) SavePost(c *fiber.Ctx) error {
	post, err := h.s.Save(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

func (h *PostHandler) SaveAll(c *fiber.Ctx) error {
	result, err := h.s.SaveAll(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	if len(result.Failed) > 0 {
		return c.Status(fiber.StatusMultiStatus).JSON(result)
	}
	return c.JSON(result)
}

func (h *PostHandler) NewDraft(c *fiber.Ctx) error {
	var req transfer.PostEdit
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
	}

	post, err := h.s.NewDraft(c.Context(), GetUserID(c), models.Fields(req.Fields))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	var req transfer.PostEdit
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	post, err := h.s.Create(c.Context(), GetUserID(c), models.Fields(req.Fields))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *PostHandler) RemovePost(c *fiber.Ctx) error {
	if err := h.s.Remove(c.Context(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *PostHandler) DiscardPost(c *fiber.Ctx) error {
	post, err := h.s.Discard(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if post == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(post)
}

func (h *PostHandler) SetStatus(c *fiber.Ctx) error {
	var req transfer.StatusChange
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	post, err := h.s.SetStatus(c.Context(), GetUserID(c), c.Params("id"), req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

func (h *PostHandler) SchedulePost(c *fiber.Ctx) error {
	var req transfer.ScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.ScheduledAt.IsZero() {
		return badRequest(c, "scheduledAt is required")
	}

	post, err := h.s.Schedule(c.Context(), GetUserID(c), c.Params("id"), req.ScheduledAt)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

func (h *PostHandler) UploadImage(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file is required")
	}

	f, err := file.Open()
	if err != nil {
		return badRequest(c, "unable to read file")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, service.MaxImageBytes+1))
	if err != nil {
		return badRequest(c, "unable to read file")
	}

	result, err := h.media.UploadPostImage(c.Context(), GetUserID(c), c.Params("id"), file.Filename, data)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}
