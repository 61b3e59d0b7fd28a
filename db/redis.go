package db

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client

// ConnectRedis connects to the cache and knowledge store backend using a
// redis:// URL. Like the database, it is optional.
func ConnectRedis(url string) error {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return err
	}

	Redis = redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return Redis.Ping(ctx).Err()
}

func CloseRedis() {
	if Redis != nil {
		Redis.Close()
	}
}
