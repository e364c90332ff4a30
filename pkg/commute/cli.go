package commute

import (
	"fmt"

	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/travigo/commute/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

func connectEnvironment() (*Environment, error) {
	if redis_client.Configured() {
		if err := redis_client.Connect(); err != nil {
			return nil, err
		}
	}

	return NewEnvironment(redis_client.Client)
}

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "commute",
		Usage: "Query the commute from the command line",
		Subcommands: []*cli.Command{
			{
				Name:  "journey",
				Usage: "plan the commute from a location",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "lat",
						Usage:    "latitude of the starting location",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "long",
						Usage:    "longitude of the starting location",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					environment, err := connectEnvironment()
					if err != nil {
						return err
					}

					journeys, err := environment.Service.GetCommute(c.Context, c.String("lat"), c.String("long"))
					if err != nil {
						return err
					}

					for _, journey := range journeys {
						pretty.Println(journey)
					}

					return nil
				},
			},
			{
				Name:  "status",
				Usage: "check both commute directions for disruptions",
				Action: func(c *cli.Context) error {
					environment, err := connectEnvironment()
					if err != nil {
						return err
					}

					status, err := environment.Service.GetCommuteStatus(c.Context)
					if err != nil {
						return err
					}

					log.Info().Bool("disruptions", status.AnyDisruptions).Msg("Commute status")
					fmt.Println(status.AnyDisruptions)

					return nil
				},
			},
		},
	}
}
