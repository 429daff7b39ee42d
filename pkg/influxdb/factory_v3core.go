package influxdb

import (
	"context"
	"fmt"

	"github.com/InfluxCommunity/influxdb3-go/v2/influxdb3"

	"github.com/benedict-erwin/auth-gateway/config"
)

// v3CoreClient writes through the InfluxDB 3 Core client
type v3CoreClient struct {
	client *influxdb3.Client
}

func newV3CoreClient(cfg config.InfluxDBConfig) (*v3CoreClient, error) {
	client, err := influxdb3.New(influxdb3.ClientConfig{
		Host:       cfg.URL,
		Token:      cfg.Token,
		Database:   cfg.Bucket,
		AuthScheme: cfg.AuthScheme,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize InfluxDB v3-core client: %w", err)
	}
	return &v3CoreClient{client: client}, nil
}

func (c *v3CoreClient) WritePoints(ctx context.Context, points ...Point) error {
	v3Points := make([]*influxdb3.Point, len(points))
	for i, p := range points {
		v3Points[i] = influxdb3.NewPoint(p.Measurement, p.Tags, p.Fields, p.Time)
	}

	if err := c.client.WritePoints(ctx, v3Points); err != nil {
		return fmt.Errorf("failed to write points: %w", err)
	}
	return nil
}

// HealthCheck runs a trivial query, the v3 client has no health endpoint
func (c *v3CoreClient) HealthCheck(ctx context.Context) error {
	if _, err := c.client.Query(ctx, "SELECT 1"); err != nil {
		return fmt.Errorf("InfluxDB v3-core health check failed: %w", err)
	}
	return nil
}

func (c *v3CoreClient) Close() {
	_ = c.client.Close()
}
