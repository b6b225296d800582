package kvstore

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "orgportal:slots"

// Redis stores every slot as a field of a single hash.
type Redis struct {
	client *redis.Client
	key    string
}

func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &Redis{client: client, key: prefix}
}

func (r *Redis) Get(ctx context.Context, slot Slot) ([]byte, bool, error) {
	v, err := r.client.HGet(ctx, r.key, string(slot)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "hget %s", slot)
	}
	return v, true, nil
}

func (r *Redis) Put(ctx context.Context, slot Slot, value []byte) error {
	if err := r.client.HSet(ctx, r.key, string(slot), value).Err(); err != nil {
		return errors.Wrapf(err, "hset %s", slot)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
