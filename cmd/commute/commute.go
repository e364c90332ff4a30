package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/travigo/commute/pkg/api"
	"github.com/travigo/commute/pkg/commute"
	"github.com/travigo/commute/pkg/notify"
	"github.com/travigo/commute/pkg/scheduler"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("Failed to read .env file")
	}

	if os.Getenv("COMMUTE_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("COMMUTE_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "commute",
		Description: "Checks the daily commute for disruptions and plans the journey",

		Commands: []*cli.Command{
			api.RegisterCLI(),
			scheduler.RegisterCLI(),
			notify.RegisterCLI(),
			commute.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
