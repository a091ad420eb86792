package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/contentdesk/internal/logger"
	"github.com/maheshrc27/contentdesk/pkg/apperror"
)

func GetUserID(c *fiber.Ctx) int64 {
	raw, _ := c.Locals("user_id").(string)
	userID, _ := strconv.ParseInt(raw, 10, 64)
	return userID
}

// respondError maps typed errors to their status; anything else is a 500
// with a generic message.
func respondError(c *fiber.Ctx, err error) error {
	var coded apperror.Coded
	if errors.As(err, &coded) {
		return c.Status(coded.StatusCode()).JSON(fiber.Map{
			"error": coded.Error(),
			"code":  coded.ErrCode(),
		})
	}

	logger.GetLogger().WithError(err).WithField("path", c.Path()).Error("Request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "something went wrong",
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
	})
}
