package database

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	SchedulesCollection   = "schedules"
	PushTargetsCollection = "user_push_notification_target"
)

func createIndexes() {
	createSchedulesIndexes()
	createPushTargetsIndexes()
}

func createSchedulesIndexes() {
	schedulesCollection := GetCollection(SchedulesCollection)
	schedulesIndex := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "name", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "active", Value: 1}},
		},
	}

	opts := options.CreateIndexes()
	_, err := schedulesCollection.Indexes().CreateMany(context.Background(), schedulesIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}

func createPushTargetsIndexes() {
	pushTargetsCollection := GetCollection(PushTargetsCollection)
	pushTargetsIndex := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "pushnotificationtoken", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "userid", Value: 1}},
		},
	}

	opts := options.CreateIndexes()
	_, err := pushTargetsCollection.Indexes().CreateMany(context.Background(), pushTargetsIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}
