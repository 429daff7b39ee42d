package redis

import (
	"fmt"

	"github.com/benedict-erwin/auth-gateway/config"
	"github.com/benedict-erwin/auth-gateway/pkg/logger"
)

// BuildRedisConfig creates RedisConfig from the application redis section
func BuildRedisConfig(cfg config.RedisConfig) RedisConfig {
	mode := cfg.Mode
	if mode == "" {
		mode = string(ModeSingle)
	}

	return RedisConfig{
		Mode:    mode,
		Single:  SingleConfig{Host: cfg.Host, Port: cfg.Port, Password: cfg.Password, DB: cfg.DB},
		Cluster: ClusterConfig{Nodes: cfg.Cluster.Nodes, Password: cfg.Cluster.Password},
		Pool:    DefaultPoolConfig(),
	}
}

// NewClientForMain returns the Redis client holding user records
func NewClientForMain(cfg config.RedisConfig) (Client, error) {
	redisConfig := BuildRedisConfig(cfg)

	var keyPrefix string
	db := cfg.DB

	switch RedisMode(redisConfig.Mode) {
	case ModeSingle:
		keyPrefix = ""
	case ModeCluster:
		db = 0 // Cluster doesn't use DB selection
		keyPrefix = PrefixMain
	default:
		return nil, fmt.Errorf("unsupported Redis mode: %s", redisConfig.Mode)
	}

	client, err := NewRedisClient(redisConfig, keyPrefix, db)
	if err != nil {
		return nil, fmt.Errorf("failed to create main Redis client: %w", err)
	}

	logger.Info().
		Str("mode", redisConfig.Mode).
		Str("prefix", keyPrefix).
		Int("db", db).
		Msg("Main Redis client initialized")

	return client, nil
}
