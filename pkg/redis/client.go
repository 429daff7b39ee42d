package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// ErrNil is returned by Get and GetJSON when the key does not exist
var ErrNil = redis.Nil

// IsNil reports whether err means the key does not exist
func IsNil(err error) bool {
	return errors.Is(err, redis.Nil)
}

// RedisClient implements the Client interface for both single-node and cluster modes
type RedisClient struct {
	mode      RedisMode
	cmd       redis.Cmdable
	closer    func() error
	keyPrefix string // Key prefix for logical separation in cluster mode
}

// NewRedisClient creates a new Redis client based on configuration and pings it
func NewRedisClient(cfg RedisConfig, keyPrefix string, db int) (*RedisClient, error) {
	client := &RedisClient{
		mode:      RedisMode(cfg.Mode),
		keyPrefix: keyPrefix,
	}

	switch client.mode {
	case ModeSingle:
		single := redis.NewClient(&redis.Options{
			Addr:         fmt.Sprintf("%s:%d", cfg.Single.Host, cfg.Single.Port),
			Password:     cfg.Single.Password,
			DB:           db,
			DialTimeout:  cfg.Pool.DialTimeout,
			ReadTimeout:  cfg.Pool.ReadTimeout,
			WriteTimeout: cfg.Pool.WriteTimeout,
			PoolSize:     cfg.Pool.Size,
			PoolTimeout:  cfg.Pool.Timeout,
		})
		client.cmd = single
		client.closer = single.Close

	case ModeCluster:
		cluster := redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:        cfg.Cluster.Nodes,
			Password:     cfg.Cluster.Password,
			DialTimeout:  cfg.Pool.DialTimeout,
			ReadTimeout:  cfg.Pool.ReadTimeout,
			WriteTimeout: cfg.Pool.WriteTimeout,
			PoolSize:     cfg.Pool.Size,
			PoolTimeout:  cfg.Pool.Timeout,
		})
		client.cmd = cluster
		client.closer = cluster.Close

	default:
		return nil, fmt.Errorf("unsupported Redis mode: %s", cfg.Mode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.cmd.Ping(ctx).Err(); err != nil {
		_ = client.closer()
		return nil, fmt.Errorf("failed to connect to %s Redis: %w", client.mode, err)
	}

	return client, nil
}

// buildKey constructs the final key with prefix for cluster mode
func (r *RedisClient) buildKey(key string) string {
	if r.keyPrefix != "" {
		return r.keyPrefix + key
	}
	return key
}

// Set sets a key-value pair with expiration
func (r *RedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return r.cmd.Set(ctx, r.buildKey(key), value, expiration).Err()
}

// SetNX sets the key only when it does not exist and reports whether it was set
func (r *RedisClient) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return r.cmd.SetNX(ctx, r.buildKey(key), value, expiration).Result()
}

// Get retrieves a value by key, returning ErrNil when absent
func (r *RedisClient) Get(ctx context.Context, key string) (string, error) {
	return r.cmd.Get(ctx, r.buildKey(key)).Result()
}

// SetJSON stores JSON-serialized data with expiration
func (r *RedisClient) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	return r.Set(ctx, key, data, expiration)
}

// GetJSON retrieves and deserializes JSON data
func (r *RedisClient) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := r.Get(ctx, key)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	return nil
}

// Incr atomically increments the counter at key
func (r *RedisClient) Incr(ctx context.Context, key string) (int64, error) {
	return r.cmd.Incr(ctx, r.buildKey(key)).Result()
}

// Delete removes one or more keys
func (r *RedisClient) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	finalKeys := make([]string, len(keys))
	for i, key := range keys {
		finalKeys[i] = r.buildKey(key)
	}

	return r.cmd.Del(ctx, finalKeys...).Err()
}

// Exists checks if a key exists
func (r *RedisClient) Exists(ctx context.Context, key string) (bool, error) {
	count, err := r.cmd.Exists(ctx, r.buildKey(key)).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Health checks the Redis connection
func (r *RedisClient) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return r.cmd.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	if r.closer != nil {
		return r.closer()
	}
	return nil
}
