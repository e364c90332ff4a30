package notify

import (
	"context"
	"time"

	"github.com/travigo/commute/pkg/ctdf"
)

const QueueName = "notify-queue"

const (
	DisruptionTitle   = "Commute"
	DisruptionMessage = "Disruptions on the 🚂, please check transport apps for more information."
	ClearedMessage    = "🚂 Disruptions have cleared"
)

type Notifier interface {
	Notify(ctx context.Context, notification ctdf.Notification) error
}

// DisruptionNotification is the push sent when the commute disruption state
// changes, in either direction.
func DisruptionNotification(disrupted bool) ctdf.Notification {
	message := ClearedMessage
	if disrupted {
		message = DisruptionMessage
	}

	return ctdf.Notification{
		Type:             ctdf.NotificationTypePush,
		Title:            DisruptionTitle,
		Message:          message,
		CreationDateTime: time.Now(),
	}
}
