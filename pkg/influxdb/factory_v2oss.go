package influxdb

import (
	"context"
	"fmt"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/benedict-erwin/auth-gateway/config"
)

// v2OSSClient writes through the InfluxDB v2 OSS blocking write API
type v2OSSClient struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
}

func newV2OSSClient(cfg config.InfluxDBConfig) (*v2OSSClient, error) {
	if cfg.Org == "" {
		return nil, fmt.Errorf("incomplete InfluxDB v2-oss configuration: org is required")
	}

	opts := influxdb2.DefaultOptions()
	if cfg.Timeout > 0 {
		opts.SetHTTPRequestTimeout(uint(cfg.Timeout.Seconds()))
	}

	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token, opts)
	return &v2OSSClient{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
	}, nil
}

func (c *v2OSSClient) WritePoints(ctx context.Context, points ...Point) error {
	v2Points := make([]*write.Point, len(points))
	for i, p := range points {
		v2Points[i] = write.NewPoint(p.Measurement, p.Tags, p.Fields, p.Time)
	}

	if err := c.writeAPI.WritePoint(ctx, v2Points...); err != nil {
		return fmt.Errorf("failed to write points: %w", err)
	}
	return nil
}

func (c *v2OSSClient) HealthCheck(ctx context.Context) error {
	health, err := c.client.Health(ctx)
	if err != nil {
		return fmt.Errorf("InfluxDB v2-oss health check failed: %w", err)
	}

	if health.Status != "pass" {
		return fmt.Errorf("InfluxDB v2-oss is not healthy: %s", health.Status)
	}
	return nil
}

func (c *v2OSSClient) Close() {
	c.client.Close()
}
