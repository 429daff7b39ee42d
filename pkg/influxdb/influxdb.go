package influxdb

import (
	"context"
	"errors"
	"sync"

	"github.com/benedict-erwin/auth-gateway/config"
	"github.com/benedict-erwin/auth-gateway/pkg/logger"
)

// ErrNotInitialized is returned by the package-level helpers before Init
var ErrNotInitialized = errors.New("InfluxDB client not initialized")

var (
	mu            sync.RWMutex
	currentClient Client
)

// Init creates the global client. Disabled InfluxDB is not an error.
func Init(cfg config.InfluxDBConfig) error {
	log := logger.WithScope("influxdb")
	if !cfg.Enabled {
		log.Debug().Msg("InfluxDB disabled")
		return nil
	}

	client, err := NewClient(cfg)
	if err != nil {
		return err
	}
	SetClient(client)

	log.Info().
		Str("url", cfg.URL).
		Str("bucket", cfg.Bucket).
		Str("version", cfg.Version).
		Msg("InfluxDB client initialized")
	return nil
}

// SetClient replaces the global client, closing the previous one
func SetClient(c Client) {
	mu.Lock()
	old := currentClient
	currentClient = c
	mu.Unlock()

	if old != nil {
		old.Close()
	}
}

// Enabled reports whether a client is configured
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return currentClient != nil
}

// WritePoints writes through the global client
func WritePoints(ctx context.Context, points ...Point) error {
	mu.RLock()
	c := currentClient
	mu.RUnlock()
	if c == nil {
		return ErrNotInitialized
	}
	return c.WritePoints(ctx, points...)
}

// HealthCheck pings the global client
func HealthCheck(ctx context.Context) error {
	mu.RLock()
	c := currentClient
	mu.RUnlock()
	if c == nil {
		return ErrNotInitialized
	}
	return c.HealthCheck(ctx)
}

// Close releases the global client
func Close() {
	SetClient(nil)
}
