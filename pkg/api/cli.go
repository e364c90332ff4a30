package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/travigo/commute/pkg/commute"
	"github.com/travigo/commute/pkg/database"
	"github.com/travigo/commute/pkg/elastic_client"
	"github.com/travigo/commute/pkg/redis_client"
	"github.com/travigo/commute/pkg/scheduler"
	"github.com/travigo/commute/pkg/sources"
	"github.com/travigo/commute/pkg/util"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the commute web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server",
					},
					&cli.BoolFlag{
						Name:    "mock",
						Usage:   "serve the API without running the commute schedule",
						EnvVars: []string{"COMMUTE_MOCK"},
					},
				},
				Action: func(c *cli.Context) error {
					env := util.GetEnvironmentVariables()

					if err := database.Connect(); err != nil {
						return err
					}
					if redis_client.Configured() {
						if err := redis_client.Connect(); err != nil {
							return err
						}
					}
					if err := elastic_client.Connect(false); err != nil {
						return err
					}

					environment, err := commute.NewEnvironment(redis_client.Client)
					if err != nil {
						return err
					}

					if c.Bool("mock") {
						log.Info().Msg("Mock mode, commute schedule disabled")
					} else {
						commuteScheduler, err := scheduler.NewFromEnvironment(c.Context, environment.Service)
						if err != nil {
							return err
						}
						commuteScheduler.Setup(c.Context)
						defer commuteScheduler.Stop()
					}

					webApp, err := NewApp(environment, ServerOptions{
						ClientAccessKey: env["COMMUTE_CLIENT_ACCESS_KEY"],
						Auth0Domain:     env["AUTH0_DOMAIN"],
						Auth0Audience:   env["AUTH0_AUDIENCE"],
						PushTargets:     database.NewPushTargetStore(),
					})
					if err != nil {
						return err
					}

					signals := make(chan os.Signal, 1)
					signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
					defer signal.Stop(signals)

					go func() {
						<-signals
						log.Info().Msg("Shutting down web api")

						if err := webApp.Shutdown(); err != nil {
							log.Error().Err(err).Msg("Failed to shut down web api")
						}
					}()

					log.Info().Str("listen", c.String("listen")).Msg("Starting web api")
					if err := webApp.Listen(c.String("listen")); err != nil {
						return err
					}

					elastic_client.WaitUntilQueueEmpty()

					return database.Disconnect(context.Background())
				},
			},
			{
				Name:  "healthcheck",
				Usage: "check a running web api responds",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "url",
						Value: "http://localhost:8080",
						Usage: "base url of the web api",
					},
				},
				Action: func(c *cli.Context) error {
					return healthcheck(c.Context, c.String("url"), util.GetEnvironmentVariables()["COMMUTE_CLIENT_ACCESS_KEY"])
				},
			},
		},
	}
}

func healthcheck(ctx context.Context, baseURL string, clientAccessKey string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/ping", nil)
	if err != nil {
		return err
	}
	req.Header.Set(ClientAccessKeyHeader, clientAccessKey)

	resp, err := sources.NewHTTPClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("web api returned %s", resp.Status)
	}

	log.Info().Str("url", baseURL).Msg("Web api is healthy")

	return nil
}
