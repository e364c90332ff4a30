package redis_client

import (
	"context"
	"strconv"

	"github.com/adjust/rmq/v5"
	"github.com/redis/go-redis/v9"
	"github.com/travigo/commute/pkg/util"
)

var Client *redis.Client
var QueueConnection rmq.Connection

const defaultConnectionAddress = "localhost:6379"
const defaultConnectionPassword = ""
const defaultDatabase = 0

const queueTag = "commute"

func Connect() error {
	address := defaultConnectionAddress
	password := defaultConnectionPassword
	database := defaultDatabase

	env := util.GetEnvironmentVariables()

	if env["COMMUTE_REDIS_ADDRESS"] != "" {
		address = env["COMMUTE_REDIS_ADDRESS"]
	}

	if env["COMMUTE_REDIS_PASSWORD"] != "" {
		password = env["COMMUTE_REDIS_PASSWORD"]
	}

	if env["COMMUTE_REDIS_DATABASE"] != "" {
		if n, err := strconv.Atoi(env["COMMUTE_REDIS_DATABASE"]); err == nil {
			database = n
		} else {
			return err
		}
	}

	Client = redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       database,
	})

	if err := Client.Ping(context.Background()).Err(); err != nil {
		return err
	}

	var err error
	QueueConnection, err = rmq.OpenConnectionWithRedisClient(queueTag, Client, nil)
	if err != nil {
		return err
	}

	return nil
}

// Configured reports whether a redis address has been provided. Redis is
// optional for the web API, which then runs without caching or queueing.
func Configured() bool {
	return util.GetEnvironmentVariables()["COMMUTE_REDIS_ADDRESS"] != ""
}
