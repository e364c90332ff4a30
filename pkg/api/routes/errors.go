package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/travigo/commute/pkg/sources"
)

func sendError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	switch {
	case sources.IsParameterError(err):
		status = fiber.StatusBadRequest
	case errors.Is(err, sources.ErrNoService):
		status = fiber.StatusNotFound
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("Request failed")
	}

	c.SendStatus(status)
	return c.JSON(fiber.Map{
		"error": err.Error(),
	})
}
