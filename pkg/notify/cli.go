package notify

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/commute/pkg/consumer"
	"github.com/travigo/commute/pkg/database"
	"github.com/travigo/commute/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "notify",
		Usage: "Provides the notification system",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run notify server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "stats-listen",
						Value: ":3333",
						Usage: "address for the queue stats server, empty to disable",
					},
				},
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}
					if err := redis_client.Connect(); err != nil {
						return err
					}

					pushManager := &PushManager{Targets: database.NewPushTargetStore()}
					if err := pushManager.Setup(c.Context); err != nil {
						return err
					}

					redisConsumer := consumer.RedisConsumer{
						Connection:      redis_client.QueueConnection,
						QueueName:       QueueName,
						NumberConsumers: 2,
						BatchSize:       10,
						Timeout:         2 * time.Second,
						Consumer:        NewNotifyBatchConsumer(pushManager),
						StatsAddress:    c.String("stats-listen"),
						Health:          consumer.NewHealthHandler(redis_client.Client, database.MongoGlobalInstance.Client),
					}
					if err := redisConsumer.Setup(); err != nil {
						return err
					}

					signals := make(chan os.Signal, 1)
					signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
					defer signal.Stop(signals)

					<-signals // wait for signal
					go func() {
						<-signals // hard exit on second signal (in case shutdown gets stuck)
						os.Exit(1)
					}()

					<-redis_client.QueueConnection.StopAllConsuming() // wait for all Consume() calls to finish

					return database.Disconnect(context.Background())
				},
			},
			{
				Name:  "test-push",
				Usage: "queue a test push notification",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "message",
						Value: DisruptionMessage,
						Usage: "notification body",
					},
					&cli.StringFlag{
						Name:  "user",
						Usage: "only notify this user's devices",
					},
				},
				Action: func(c *cli.Context) error {
					if err := redis_client.Connect(); err != nil {
						return err
					}

					notifier, err := NewQueueNotifier(redis_client.QueueConnection)
					if err != nil {
						return err
					}

					notification := DisruptionNotification(true)
					notification.Message = c.String("message")
					notification.TargetUser = c.String("user")

					if err := notifier.Notify(c.Context, notification); err != nil {
						return err
					}

					log.Info().Str("message", notification.Message).Msg("Queued test notification")

					return nil
				},
			},
		},
	}
}
