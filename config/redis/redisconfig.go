package redisUtil

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/MPEnsystemsDeveloper/trim-v1/config/toml"
)

var Redis *RedisClient

// RedisClient extends the client and has its own functions
type RedisClient struct {
	*redis.Client
}

// Initialize the Redis client. Redis is a best-effort cache here: a
// failure to connect leaves Redis nil and callers fall through to the
// store.
func NewRedisClient() error {
	if Redis != nil {
		return nil
	}
	if len(toml.GetConfig().Redis.Urls) == 0 {
		return errors.New("no redis url configured")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     toml.GetConfig().Redis.Urls[0],
		Password: toml.GetConfig().Redis.Password,
		DB:       0,
		PoolSize: 10, // Connection pool size
		// Timeouts
		DialTimeout:  5 * time.Second, // Connection establishment timeout, default 5 seconds.
		ReadTimeout:  3 * time.Second, // Read timeout, default 3 seconds, -1 means cancel read timeout
		WriteTimeout: 3 * time.Second, // Write timeout, default equals read timeout
		PoolTimeout:  4 * time.Second, // The maximum wait time for the client to wait for an available connection when all connections are busy.
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return err
	}
	Redis = &RedisClient{client}
	return nil
}

func (redis *RedisClient) RSet(key string, value interface{}, ex int) *redis.StatusCmd {
	return redis.Set(context.TODO(), key, value, time.Second*time.Duration(ex))
}

func (redis *RedisClient) RGet(key string) string {
	value, err := redis.Get(context.TODO(), key).Result()
	if err != nil {
		return ""
	}
	return value
}

func (redis *RedisClient) RDel(key string) {
	redis.Del(context.TODO(), key)
}

// Close the Redis client
func (redis *RedisClient) Close() {
	if redis.Client != nil {
		redis.Client.Close()
	}
}

// Get the Redis client; if the client is not initialized
// create the Redis client
func GetRedisClient() (*RedisClient, error) {
	if Redis == nil {
		err := NewRedisClient()
		if err != nil {
			return nil, err
		}
		return Redis, nil
	}
	return Redis, nil
}
