package notify

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/commute/pkg/ctdf"
	"github.com/travigo/commute/pkg/util"
	"google.golang.org/api/option"
)

const defaultMaxConcurrentSends = 5

type MessageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type TargetSource interface {
	PushTargets(ctx context.Context) ([]ctdf.UserPushNotificationTarget, error)
}

// PushManager delivers notifications through Firebase Cloud Messaging to every
// registered device, or only to the devices of the notification's target user
// when one is set.
type PushManager struct {
	FirebaseApp *firebase.App

	Sender  MessageSender
	Targets TargetSource

	MaxConcurrentSends int
}

func (m *PushManager) Setup(ctx context.Context) error {
	fireBaseAuthKey := util.GetEnvironmentVariables()["COMMUTE_FIREBASE_SERVICE_ACCOUNT"]
	if fireBaseAuthKey == "" {
		return errors.New("COMMUTE_FIREBASE_SERVICE_ACCOUNT is not set")
	}

	decodedKey, err := base64.StdEncoding.DecodeString(fireBaseAuthKey)
	if err != nil {
		return err
	}

	opts := []option.ClientOption{option.WithCredentialsJSON(decodedKey)}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return err
	}

	fcmClient, err := app.Messaging(ctx)
	if err != nil {
		return err
	}

	m.FirebaseApp = app
	m.Sender = fcmClient

	return nil
}

func (m *PushManager) Notify(ctx context.Context, notification ctdf.Notification) error {
	if m.Sender == nil {
		return errors.New("push manager has not been set up")
	}

	targets, err := m.Targets.PushTargets(ctx)
	if err != nil {
		return fmt.Errorf("find push targets: %w", err)
	}

	maxConcurrent := m.MaxConcurrentSends
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrentSends
	}

	p := pool.New().WithErrors().WithMaxGoroutines(maxConcurrent)
	sent := 0

	for _, target := range targets {
		if notification.TargetUser != "" && target.UserID != notification.TargetUser {
			continue
		}
		sent++

		target := target
		p.Go(func() error {
			_, err := m.Sender.Send(ctx, &messaging.Message{
				Notification: &messaging.Notification{
					Title: notification.Title,
					Body:  notification.Message,
				},
				Token: target.PushNotificationToken,
			})
			if err != nil {
				return fmt.Errorf("send push to %s: %w", target.UserID, err)
			}

			log.Info().Str("target", target.UserID).Msg("Sent Push Notification")

			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return err
	}

	if sent == 0 {
		log.Warn().Str("message", notification.Message).Msg("No devices registered for push notification")
	}

	return nil
}
