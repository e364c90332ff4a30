package routes

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/commute/pkg/ctdf"
)

type TubeSource interface {
	TubeStatus(ctx context.Context, line string) (*ctdf.Leg, error)
	NextTube(ctx context.Context, line string, startID string, endID string) (*ctdf.Leg, error)
}

func TubesRouter(router fiber.Router, tubes TubeSource) {
	router.Get("/:line/status", func(c *fiber.Ctx) error {
		status, err := tubes.TubeStatus(c.UserContext(), c.Params("line"))
		if err != nil {
			return sendError(c, err)
		}

		return c.JSON(status)
	})

	router.Get("/:line/next/:startID/to/:endID", func(c *fiber.Ctx) error {
		leg, err := tubes.NextTube(c.UserContext(), c.Params("line"), c.Params("startID"), c.Params("endID"))
		if err != nil {
			return sendError(c, err)
		}

		return c.JSON(leg)
	})
}
