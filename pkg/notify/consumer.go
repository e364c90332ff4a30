package notify

import (
	"context"
	"encoding/json"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
	"github.com/travigo/commute/pkg/ctdf"
)

type NotifyBatchConsumer struct {
	Notifier Notifier
}

func NewNotifyBatchConsumer(notifier Notifier) *NotifyBatchConsumer {
	return &NotifyBatchConsumer{Notifier: notifier}
}

func (c *NotifyBatchConsumer) Consume(batch rmq.Deliveries) {
	for _, delivery := range batch {
		var notification ctdf.Notification
		if err := json.Unmarshal([]byte(delivery.Payload()), &notification); err != nil {
			log.Error().Err(err).Msg("Failed to decode notification")

			if err := delivery.Reject(); err != nil {
				log.Error().Err(err).Msg("Failed to reject notification")
			}
			continue
		}

		if err := c.Notifier.Notify(context.Background(), notification); err != nil {
			log.Error().Err(err).Str("message", notification.Message).Msg("Failed to send notification")

			if err := delivery.Reject(); err != nil {
				log.Error().Err(err).Msg("Failed to reject notification")
			}
			continue
		}

		if err := delivery.Ack(); err != nil {
			log.Error().Err(err).Msg("Failed to ack notification")
		}
	}
}
