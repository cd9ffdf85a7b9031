package tasks

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisScheduler pushes tasks onto a Redis list; workers pop from the other end.
type RedisScheduler struct {
	client *redis.Client
	key    string
}

func NewRedisScheduler(client *redis.Client, queue string) *RedisScheduler {
	return &RedisScheduler{client: client, key: "queue:" + queue}
}

// DialRedis constructs a client and verifies the server is reachable.
func DialRedis(addr, password string, db int, queue string) (*RedisScheduler, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return NewRedisScheduler(client, queue), nil
}

func (s *RedisScheduler) Schedule(ctx context.Context, task Task) error {
	body, err := encode(task)
	if err != nil {
		return err
	}
	if err := s.client.LPush(ctx, s.key, body).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRejected, err)
	}
	return nil
}

func (s *RedisScheduler) Close() error {
	return s.client.Close()
}
