package redis

import (
	"errors"
	"fmt"
	"sync"

	"github.com/benedict-erwin/auth-gateway/config"
	"github.com/benedict-erwin/auth-gateway/pkg/logger"
)

var (
	mainClient Client
	mu         sync.RWMutex
)

// ErrNotInitialized is returned by Health before Init succeeds
var ErrNotInitialized = errors.New("redis client not initialized")

// Init initializes the main Redis client from configuration
func Init(cfg config.RedisConfig) error {
	if err := ValidateConfig(cfg); err != nil {
		return fmt.Errorf("invalid Redis configuration: %w", err)
	}

	client, err := NewClientForMain(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize main Redis client: %w", err)
	}

	mu.Lock()
	if mainClient != nil {
		_ = mainClient.Close()
	}
	mainClient = client
	mu.Unlock()

	logger.Info().
		Str("mode", cfg.Mode).
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Msg("Redis client initialized successfully")

	return nil
}

// GetClient returns the main Redis client instance
func GetClient() Client {
	mu.RLock()
	defer mu.RUnlock()
	return mainClient
}

// Close closes all Redis connections
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if mainClient != nil {
		err := mainClient.Close()
		mainClient = nil
		return err
	}

	return nil
}

// Health checks the main Redis connection
func Health() error {
	client := GetClient()
	if client == nil {
		return ErrNotInitialized
	}

	return client.Health()
}

// ValidateConfig validates the Redis configuration
func ValidateConfig(cfg config.RedisConfig) error {
	if cfg.Mode == "" {
		cfg.Mode = string(ModeSingle)
	}

	switch RedisMode(cfg.Mode) {
	case ModeSingle:
		if cfg.Host == "" {
			return fmt.Errorf("redis host not specified for single-node mode")
		}
		if cfg.Port <= 0 || cfg.Port > 65535 {
			return fmt.Errorf("invalid Redis port: %d", cfg.Port)
		}

	case ModeCluster:
		if len(cfg.Cluster.Nodes) == 0 {
			return fmt.Errorf("redis cluster nodes not specified")
		}
		for _, node := range cfg.Cluster.Nodes {
			if node == "" {
				return fmt.Errorf("empty Redis cluster node")
			}
		}

	default:
		return fmt.Errorf("unsupported Redis mode: %s", cfg.Mode)
	}

	return nil
}
