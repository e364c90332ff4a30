package scheduler

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/commute/pkg/cachedresults"
	"github.com/travigo/commute/pkg/calendar"
	"github.com/travigo/commute/pkg/commute"
	"github.com/travigo/commute/pkg/database"
	"github.com/travigo/commute/pkg/elastic_client"
	"github.com/travigo/commute/pkg/notify"
	"github.com/travigo/commute/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

// NewFromEnvironment connects the scheduler to the settings store, the bank
// holiday calendar and a notifier. Notifications go through the notify queue
// when redis is available and straight to Firebase otherwise.
func NewFromEnvironment(ctx context.Context, status StatusSource) (*Scheduler, error) {
	holidays := calendar.New()

	var notifier notify.Notifier
	if redis_client.Client != nil {
		holidays.Cache = cachedresults.New(redis_client.Client, "bank-holidays", 24*time.Hour)

		queueNotifier, err := notify.NewQueueNotifier(redis_client.QueueConnection)
		if err != nil {
			return nil, err
		}
		notifier = queueNotifier
	} else {
		pushManager := &notify.PushManager{Targets: database.NewPushTargetStore()}
		if err := pushManager.Setup(ctx); err != nil {
			return nil, err
		}
		notifier = pushManager
	}

	return New(status, database.NewSettingsStore(), holidays, notifier), nil
}

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "scheduler",
		Usage: "Checks the commute for disruptions each working morning",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run the commute scheduler",
				Action: func(c *cli.Context) error {
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

					scheduler, err := NewFromEnvironment(c.Context, environment.Service)
					if err != nil {
						return err
					}
					scheduler.Setup(c.Context)

					signals := make(chan os.Signal, 1)
					signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
					defer signal.Stop(signals)

					<-signals
					log.Info().Msg("Stopping scheduler")

					scheduler.Stop()
					elastic_client.WaitUntilQueueEmpty()

					return database.Disconnect(context.Background())
				},
			},
		},
	}
}
