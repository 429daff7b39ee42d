package influxdb

import (
	"fmt"

	"github.com/benedict-erwin/auth-gateway/config"
)

// NewClient creates the client for the configured server version
func NewClient(cfg config.InfluxDBConfig) (Client, error) {
	if cfg.URL == "" || cfg.Token == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("incomplete InfluxDB configuration: url, token and bucket are required")
	}

	switch InfluxDBVersion(cfg.Version) {
	case VersionV2OSS, "":
		return newV2OSSClient(cfg)
	case VersionV3Core:
		return newV3CoreClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported InfluxDB version %q", cfg.Version)
	}
}
