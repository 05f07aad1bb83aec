// Package redisstore provides a Redis-backed store.Backend, keeping the
// fixture outside the API process. Operations are serialized per process
// only; processes sharing one prefix can interleave multi-record mutations.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/flashlyapp/flashly-server/internal/store"
)

// Key layout:
//
//	{prefix}:seq                  counter used to order inserts
//	{prefix}:{collection}:data    hash of id -> payload
//	{prefix}:{collection}:order   sorted set of ids scored by insert seq
const (
	seqKeySuffix   = "seq"
	dataKeySuffix  = "data"
	orderKeySuffix = "order"
)

// Backend stores each collection as a Redis hash plus an ordering zset.
type Backend struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

var _ store.Backend = (*Backend)(nil)

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string       // key prefix (default: flashly)
	Logger   *slog.Logger // uses discard if nil
}

// Open connects to Redis and verifies the connection.
func Open(ctx context.Context, opts Options) (*Backend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}
	return New(client, opts.Prefix, opts.Logger), nil
}

// New wraps an existing client. The backend owns the client and closes it.
func New(client *redis.Client, prefix string, logger *slog.Logger) *Backend {
	if prefix == "" {
		prefix = "flashly"
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Backend{client: client, prefix: prefix, logger: logger}
}

// Name implements store.Backend.
func (b *Backend) Name() string { return "redis" }

// Get implements store.Backend.
func (b *Backend) Get(ctx context.Context, collection, id string) ([]byte, error) {
	data, err := b.client.HGet(ctx, b.key(collection, dataKeySuffix), id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("hget %s/%s: %w", collection, id, err)
	}
	return data, nil
}

// Put implements store.Backend. ZADD NX keeps the original position of a
// replaced record.
func (b *Backend) Put(ctx context.Context, collection, id string, data []byte) error {
	seq, err := b.client.Incr(ctx, b.prefix+":"+seqKeySuffix).Result()
	if err != nil {
		return fmt.Errorf("next seq: %w", err)
	}

	_, err = b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, b.key(collection, dataKeySuffix), id, data)
		pipe.ZAddNX(ctx, b.key(collection, orderKeySuffix), redis.Z{Score: float64(seq), Member: id})
		return nil
	})
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, id, err)
	}
	return nil
}

// Delete implements store.Backend.
func (b *Backend) Delete(ctx context.Context, collection, id string) error {
	var removed *redis.IntCmd
	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		removed = pipe.HDel(ctx, b.key(collection, dataKeySuffix), id)
		pipe.ZRem(ctx, b.key(collection, orderKeySuffix), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if removed.Val() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// List implements store.Backend.
func (b *Backend) List(ctx context.Context, collection string) ([][]byte, error) {
	ids, err := b.client.ZRange(ctx, b.key(collection, orderKeySuffix), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("zrange %s: %w", collection, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	values, err := b.client.HMGet(ctx, b.key(collection, dataKeySuffix), ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("hmget %s: %w", collection, err)
	}

	out := make([][]byte, 0, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			// Order entry without payload; a concurrent delete is in flight.
			b.logger.Debug("skipping orphaned order entry", "collection", collection, "id", ids[i])
			continue
		}
		out = append(out, []byte(s))
	}
	return out, nil
}

// Close closes the Redis client.
func (b *Backend) Close() error {
	return b.client.Close()
}

func (b *Backend) key(collection, suffix string) string {
	return b.prefix + ":" + collection + ":" + suffix
}
