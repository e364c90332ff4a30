package routes

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/commute/pkg/ctdf"
	"github.com/travigo/commute/pkg/sources"
	"github.com/travigo/commute/pkg/sources/tfl"
)

type BusSource interface {
	BusStatus(ctx context.Context, route string) (*ctdf.Leg, error)
	NextBus(ctx context.Context, route string, stopPoint string) (*tfl.BusArrivals, error)
}

type StopPointResolver interface {
	StopPoint(route string, atHome bool) (string, error)
}

func BusesRouter(router fiber.Router, buses BusSource, stops StopPointResolver) {
	router.Get("/:route", func(c *fiber.Ctx) error {
		status, err := buses.BusStatus(c.UserContext(), c.Params("route"))
		if err != nil {
			return sendError(c, err)
		}

		return c.JSON(status)
	})

	router.Get("/:route/next", func(c *fiber.Ctx) error {
		route := c.Params("route")

		// Callers not saying otherwise are assumed to be at home.
		atHome := c.Query("atHome") != "false"

		stopPoint, err := stops.StopPoint(route, atHome)
		if err != nil {
			return sendError(c, err)
		}

		arrivals, err := buses.NextBus(c.UserContext(), route, stopPoint)
		if errors.Is(err, sources.ErrNoService) {
			return c.JSON(fiber.Map{})
		} else if err != nil {
			return sendError(c, err)
		}

		return c.JSON(arrivals)
	})
}
