package db

import (
	"context"
	"log"
	"os"

	"a1taxi/config"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// InitRedis connects the shared client. Redis backs the driver GEO index,
// fare-quote cache and ride-request pub/sub, so startup fails without it.
func InitRedis() {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     config.Envs.RedisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx := context.Background()
	if _, err := RedisClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Println("Connected to Redis successfully")
}
