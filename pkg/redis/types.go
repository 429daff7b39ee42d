package redis

import (
	"context"
	"time"
)

// RedisMode defines the Redis deployment mode
type RedisMode string

const (
	ModeSingle  RedisMode = "single"  // Single-node Redis
	ModeCluster RedisMode = "cluster" // Redis Cluster
)

// Database constants for single-node Redis logical separation
const (
	DBMain  = 0 // User records and indexes
	DBAsynq = 0 // Job queue (same as main for now, could be separate)
)

// Key prefixes for Redis Cluster logical separation (since DB selection not supported)
const (
	PrefixMain  = "main:"
	PrefixAsynq = "asynq:"
)

// Client defines the unified Redis client interface
type Client interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetJSON(ctx context.Context, key string, dest interface{}) error
	Incr(ctx context.Context, key string) (int64, error)
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	Health() error
	Close() error
}

// RedisConfig holds Redis configuration for different modes
type RedisConfig struct {
	Mode    string        `json:"mode"`    // single, cluster
	Single  SingleConfig  `json:"single"`  // Single-node configuration
	Cluster ClusterConfig `json:"cluster"` // Cluster configuration
	Pool    PoolConfig    `json:"pool"`    // Connection pool settings
}

// SingleConfig holds single-node Redis configuration
type SingleConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// ClusterConfig holds Redis Cluster configuration
type ClusterConfig struct {
	Nodes    []string `json:"nodes"`
	Password string   `json:"password"`
}

// PoolConfig holds connection pool configuration
type PoolConfig struct {
	Size         int           `json:"size"`
	Timeout      time.Duration `json:"timeout"`
	DialTimeout  time.Duration `json:"dial_timeout"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
}

// DefaultPoolConfig returns the pool settings used by every client
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		Size:         10,
		Timeout:      30 * time.Second,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}
