package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/adjust/rmq/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/commute/pkg/ctdf"
)

type fakeSender struct {
	mutex  sync.Mutex
	tokens []string
	fail   map[string]bool
}

func (s *fakeSender) Send(ctx context.Context, message *messaging.Message) (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.fail[message.Token] {
		return "", errors.New("unregistered")
	}
	s.tokens = append(s.tokens, message.Token)

	return "projects/commute/messages/1", nil
}

type fakeTargets []ctdf.UserPushNotificationTarget

func (t fakeTargets) PushTargets(ctx context.Context) ([]ctdf.UserPushNotificationTarget, error) {
	return t, nil
}

var testTargets = fakeTargets{
	{UserID: "alex", PushNotificationToken: "token-phone"},
	{UserID: "alex", PushNotificationToken: "token-watch"},
	{UserID: "sam", PushNotificationToken: "token-tablet"},
}

type recordingNotifier struct {
	notifications []ctdf.Notification
	err           error
}

func (n *recordingNotifier) Notify(ctx context.Context, notification ctdf.Notification) error {
	n.notifications = append(n.notifications, notification)
	return n.err
}

func TestPushManagerSendsToEveryDevice(t *testing.T) {
	sender := &fakeSender{}
	manager := &PushManager{Sender: sender, Targets: testTargets}

	require.NoError(t, manager.Notify(context.Background(), DisruptionNotification(true)))
	assert.ElementsMatch(t, []string{"token-phone", "token-watch", "token-tablet"}, sender.tokens)
}

func TestPushManagerTargetUser(t *testing.T) {
	sender := &fakeSender{}
	manager := &PushManager{Sender: sender, Targets: testTargets}

	notification := DisruptionNotification(false)
	notification.TargetUser = "sam"

	require.NoError(t, manager.Notify(context.Background(), notification))
	assert.Equal(t, []string{"token-tablet"}, sender.tokens)
}

func TestPushManagerReportsFailures(t *testing.T) {
	sender := &fakeSender{fail: map[string]bool{"token-watch": true}}
	manager := &PushManager{Sender: sender, Targets: testTargets}

	err := manager.Notify(context.Background(), DisruptionNotification(true))
	assert.ErrorContains(t, err, "unregistered")
	assert.ElementsMatch(t, []string{"token-phone", "token-tablet"}, sender.tokens)
}

func TestPushManagerNotSetUp(t *testing.T) {
	manager := &PushManager{Targets: testTargets}
	assert.Error(t, manager.Notify(context.Background(), DisruptionNotification(true)))
}

func TestDisruptionNotification(t *testing.T) {
	assert.Equal(t, DisruptionMessage, DisruptionNotification(true).Message)
	assert.Equal(t, ClearedMessage, DisruptionNotification(false).Message)
	assert.Equal(t, ctdf.NotificationTypePush, DisruptionNotification(true).Type)
}

func TestQueueNotifier(t *testing.T) {
	connection := rmq.NewTestConnection()

	notifier, err := NewQueueNotifier(connection)
	require.NoError(t, err)

	require.NoError(t, notifier.Notify(context.Background(), DisruptionNotification(true)))

	deliveries := connection.GetDeliveries(QueueName)
	require.Len(t, deliveries, 1)

	var notification ctdf.Notification
	require.NoError(t, json.Unmarshal([]byte(deliveries[0]), &notification))
	assert.Equal(t, DisruptionMessage, notification.Message)
}

func TestNotifyBatchConsumer(t *testing.T) {
	payload, err := json.Marshal(DisruptionNotification(false))
	require.NoError(t, err)

	good := rmq.NewTestDeliveryString(string(payload))
	broken := rmq.NewTestDeliveryString("{not json")

	notifier := &recordingNotifier{}
	NewNotifyBatchConsumer(notifier).Consume(rmq.Deliveries{good, broken})

	assert.Equal(t, rmq.Acked, good.State)
	assert.Equal(t, rmq.Rejected, broken.State)
	require.Len(t, notifier.notifications, 1)
	assert.Equal(t, ClearedMessage, notifier.notifications[0].Message)
}

func TestNotifyBatchConsumerRejectsFailedSends(t *testing.T) {
	payload, err := json.Marshal(DisruptionNotification(true))
	require.NoError(t, err)

	delivery := rmq.NewTestDeliveryString(string(payload))

	NewNotifyBatchConsumer(&recordingNotifier{err: errors.New("fcm down")}).Consume(rmq.Deliveries{delivery})

	assert.Equal(t, rmq.Rejected, delivery.State)
}
