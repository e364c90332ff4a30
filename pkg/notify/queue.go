package notify

import (
	"context"
	"encoding/json"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
	"github.com/travigo/commute/pkg/ctdf"
)

// QueueNotifier hands notifications to the notify-queue for the notify
// service to deliver.
type QueueNotifier struct {
	Queue rmq.Queue
}

func NewQueueNotifier(connection rmq.Connection) (*QueueNotifier, error) {
	queue, err := connection.OpenQueue(QueueName)
	if err != nil {
		return nil, err
	}

	return &QueueNotifier{Queue: queue}, nil
}

func (n *QueueNotifier) Notify(ctx context.Context, notification ctdf.Notification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return err
	}

	if err := n.Queue.PublishBytes(payload); err != nil {
		return err
	}

	log.Debug().Str("queue", QueueName).Str("message", notification.Message).Msg("Queued notification")

	return nil
}
