package influxdb

import (
	"context"
	"time"
)

// Point is one time-series sample, independent of the server version
type Point struct {
	Measurement string
	Tags        map[string]string
	Fields      map[string]interface{}
	Time        time.Time
}

// Client defines the InfluxDB operations used by the audit pipeline
type Client interface {
	WritePoints(ctx context.Context, points ...Point) error
	HealthCheck(ctx context.Context) error
	Close()
}

// InfluxDBVersion represents supported InfluxDB versions
type InfluxDBVersion string

const (
	VersionV2OSS  InfluxDBVersion = "v2-oss"
	VersionV3Core InfluxDBVersion = "v3-core"
)
