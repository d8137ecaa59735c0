package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/JarcauCristian/notebook-manager/pkg/domain/notebook/cache"
)

type store struct {
	client *goredis.Client
}

var _ cache.Store = &store{}

// New wraps a redis client as a cache.Store.
func New(client *goredis.Client) cache.Store {
	return &store{client: client}
}

// Connect dials redis at addr (host:port) and verifies it with a ping.
func Connect(ctx context.Context, addr string, db int) (cache.Store, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return New(client), nil
}

func (s *store) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (s *store) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *store) Del(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}
