package ctdf

import "time"

type Notification struct {
	TargetUser string
	Type       NotificationType

	Title   string
	Message string

	CreationDateTime time.Time
}

type NotificationType string

const (
	NotificationTypePush NotificationType = "Push"
)

type UserPushNotificationTarget struct {
	UserID                string    `bson:"userid"`
	PushNotificationToken string    `bson:"pushnotificationtoken"`
	ModificationDateTime  time.Time `bson:"modificationdatetime"`
}
