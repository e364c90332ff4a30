package routes

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/commute/pkg/sources"
	"github.com/travigo/commute/pkg/sources/transportapi"
	"github.com/travigo/commute/pkg/util"
)

type TrainSource interface {
	NextTrain(ctx context.Context, query transportapi.TrainQuery) (*transportapi.TrainResult, error)
}

func TrainsRouter(router fiber.Router, trains TrainSource) {
	router.Get("/:startID/to/:endID", func(c *fiber.Ctx) error {
		offset, err := util.ParseOffset(c.Query("departureTimeOffSet"))
		if err != nil {
			return sendError(c, sources.InvalidParameter("departureTimeOffSet: %s", err))
		}

		query := transportapi.TrainQuery{
			StartID:             c.Params("startID"),
			EndID:               c.Params("endID"),
			DepartureTimeOffset: offset,
			DisruptionsOnly:     c.Query("disruptionsOnly") == "true",
			NextTrainOnly:       c.Query("nextTrainOnly") == "true",
		}

		result, err := trains.NextTrain(c.UserContext(), query)
		if err != nil {
			return sendError(c, err)
		}

		if query.DisruptionsOnly {
			return c.JSON(fiber.Map{
				"anyDisruptions": result.AnyDisruptions,
			})
		}

		return c.JSON(result.Legs)
	})
}
