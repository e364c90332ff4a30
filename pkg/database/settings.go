package database

import (
	"context"
	"errors"

	"github.com/travigo/commute/pkg/ctdf"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SettingsStore struct {
	Collection *mongo.Collection
}

func NewSettingsStore() *SettingsStore {
	return &SettingsStore{Collection: GetCollection(SchedulesCollection)}
}

// ActiveSchedule returns the active commute schedule, or nil if none is active.
func (s *SettingsStore) ActiveSchedule(ctx context.Context) (*ctdf.ScheduleSetting, error) {
	var setting ctdf.ScheduleSetting

	opts := options.FindOne().SetSort(bson.D{{Key: "name", Value: 1}})
	err := s.Collection.FindOne(ctx, bson.M{"active": true}, opts).Decode(&setting)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return &setting, nil
}

type PushTargetStore struct {
	Collection *mongo.Collection
}

func NewPushTargetStore() *PushTargetStore {
	return &PushTargetStore{Collection: GetCollection(PushTargetsCollection)}
}

func (s *PushTargetStore) PushTargets(ctx context.Context) ([]ctdf.UserPushNotificationTarget, error) {
	cursor, err := s.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	var targets []ctdf.UserPushNotificationTarget
	if err := cursor.All(ctx, &targets); err != nil {
		return nil, err
	}

	return targets, nil
}

// RegisterPushTarget stores a device token for a user, replacing any record
// already held for the same token.
func (s *PushTargetStore) RegisterPushTarget(ctx context.Context, target ctdf.UserPushNotificationTarget) error {
	filter := bson.M{"pushnotificationtoken": target.PushNotificationToken}
	update := bson.M{"$set": target}
	opts := options.Update().SetUpsert(true)

	_, err := s.Collection.UpdateOne(ctx, filter, update, opts)

	return err
}
