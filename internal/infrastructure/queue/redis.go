package queue

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisKeyPrefix = "invoicing:queue:"

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host      string
	Port      int
	Password  string
	DB        int
	KeyPrefix string
	Queue     string
}

// RedisBackend keeps jobs in a Redis list: LPUSH to enqueue, BRPOP to dequeue
type RedisBackend struct {
	client      *redis.Client
	key         string
	pollTimeout time.Duration
	closed      atomic.Bool
}

// NewRedisBackend connects to Redis and verifies the connection
func NewRedisBackend(cfg RedisConfig) (*RedisBackend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisBackendWithClient(client, cfg.KeyPrefix, cfg.Queue), nil
}

// NewRedisBackendWithClient creates a backend over an existing client
func NewRedisBackendWithClient(client *redis.Client, keyPrefix, queue string) *RedisBackend {
	return &RedisBackend{
		client:      client,
		key:         redisQueueKey(keyPrefix, queue),
		pollTimeout: time.Second,
	}
}

func redisQueueKey(prefix, queue string) string {
	if prefix == "" {
		prefix = defaultRedisKeyPrefix
	}
	if queue == "" {
		queue = "default"
	}
	return prefix + queue
}

// Key returns the Redis list key
func (b *RedisBackend) Key() string {
	return b.key
}

// Push enqueues the job at the head of the list
func (b *RedisBackend) Push(ctx context.Context, job *Job) error {
	if b.closed.Load() {
		return ErrQueueClosed
	}
	data, err := encodeJob(job)
	if err != nil {
		return err
	}
	if err := b.client.LPush(ctx, b.key, data).Err(); err != nil {
		return fmt.Errorf("failed to push job: %w", err)
	}
	return nil
}

// Pop takes a job from the tail of the list. It polls with a short BRPOP
// timeout so a cancelled context is noticed promptly.
func (b *RedisBackend) Pop(ctx context.Context) (*Job, error) {
	for {
		if b.closed.Load() {
			return nil, ErrQueueClosed
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := b.client.BRPop(ctx, b.pollTimeout, b.key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("failed to pop job: %w", err)
		}
		// result is [key, value]
		if len(result) != 2 {
			continue
		}
		return decodeJob([]byte(result[1]))
	}
}

// Len returns the number of pending jobs
func (b *RedisBackend) Len(ctx context.Context) (int64, error) {
	return b.client.LLen(ctx, b.key).Result()
}

// Close closes the Redis client
func (b *RedisBackend) Close() error {
	if b.closed.Swap(true) {
		return nil
	}
	return b.client.Close()
}

// GetClient returns the underlying Redis client (for health checks)
func (b *RedisBackend) GetClient() *redis.Client {
	return b.client
}

var _ Backend = (*RedisBackend)(nil)
