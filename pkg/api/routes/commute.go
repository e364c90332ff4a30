package routes

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/rs/zerolog/log"
	"github.com/travigo/commute/pkg/commute"
	"github.com/travigo/commute/pkg/ctdf"
)

type CommuteService interface {
	GetCommuteStatus(ctx context.Context) (*ctdf.CommuteStatus, error)
	GetCommute(ctx context.Context, lat string, long string) ([]ctdf.Journey, error)
}

func CommuteRouter(router fiber.Router, service CommuteService) {
	router.Get("/getcommutestatus", func(c *fiber.Ctx) error {
		return getCommuteStatus(c, service)
	})
	router.Get("/commute/:lat/:long", func(c *fiber.Ctx) error {
		return getCommute(c, service)
	})
}

func getCommuteStatus(c *fiber.Ctx, service CommuteService) error {
	status, err := service.GetCommuteStatus(c.UserContext())
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(status)
}

func getCommute(c *fiber.Ctx, service CommuteService) error {
	journeys, err := service.GetCommute(c.UserContext(), c.Params("lat"), c.Params("long"))

	var unroutable *commute.UnroutableError
	if errors.As(err, &unroutable) {
		log.Info().Str("kind", string(unroutable.Kind)).Err(err).Msg("Unable to route commute")
		journeys = []ctdf.Journey{ctdf.NewErrorJourney(unroutable.Reason)}
	} else if err != nil {
		return sendError(c, err)
	}

	groups := []string{"basic"}
	if c.QueryBool("detail") {
		groups = append(groups, "detailed")
	}

	journeysReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: groups,
	}, journeys)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(fiber.Map{
		"journeys": journeysReduced,
	})
}
