package audit

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/benedict-erwin/auth-gateway/internal/constants"
	authevents "github.com/benedict-erwin/auth-gateway/internal/entities/auth_events"
	"github.com/benedict-erwin/auth-gateway/pkg/asynq"
	"github.com/benedict-erwin/auth-gateway/pkg/influxdb"
	"github.com/benedict-erwin/auth-gateway/pkg/logger"
	"github.com/benedict-erwin/auth-gateway/pkg/maxmind"
	"github.com/benedict-erwin/auth-gateway/pkg/useragent"
	"github.com/benedict-erwin/auth-gateway/pkg/utils"
)

// Publisher records authentication events. Publishing is best effort:
// callers log a failure and carry on.
type Publisher interface {
	Publish(ctx context.Context, event authevents.Event) error
}

// QueuePublisher enqueues events for the audit worker
type QueuePublisher struct {
	enq asynq.Enqueuer
}

// NewQueuePublisher publishes through enq, usually the global asynq client
func NewQueuePublisher(enq asynq.Enqueuer) *QueuePublisher {
	return &QueuePublisher{enq: enq}
}

// Publish enqueues event as an auth:events task
func (p *QueuePublisher) Publish(_ context.Context, event authevents.Event) error {
	return asynq.Dispatch(p.enq, &asynq.Payload{
		TaskId:   uuid.NewString(),
		TaskType: constants.TaskAuthEvents,
		Queue:    event.Queue(),
		Data:     event,
	})
}

// LogPublisher writes events straight to the log when no queue is configured
type LogPublisher struct {
	log *logger.ScopedLogger
}

// NewLogPublisher returns a publisher logging under the "audit" scope
func NewLogPublisher() *LogPublisher {
	return &LogPublisher{log: logger.WithScope("audit")}
}

// Publish records event inline
func (p *LogPublisher) Publish(ctx context.Context, event authevents.Event) error {
	return Record(ctx, p.log, event)
}

// MeasurementAuthEvents is the InfluxDB measurement auth events are stored in
const MeasurementAuthEvents = "auth_events"

// Record writes one event to the log with the level its type calls for, and
// to InfluxDB when configured. The user agent is classified and the client
// address geolocated when GeoIP is enabled.
func Record(ctx context.Context, log *logger.ScopedLogger, event authevents.Event) error {
	client := useragent.Detect(event.UserAgent)
	loc, located := maxmind.Lookup(event.IPAddress)

	e := log.Info()
	if event.Severity() == "warn" {
		e = log.Warn()
	}
	if located {
		e = e.Str("country_code", loc.CountryCode).
			Str("city", loc.City).
			Uint("asn", loc.ASN)
	}
	e.Str("event", string(event.Type)).
		Str("username", event.Username).
		Str("email", event.Email).
		Str("ip_address", event.IPAddress).
		Str("user_agent", event.UserAgent).
		Str("device", client.Device.String()).
		Str("os", client.OS).
		Str("browser", client.Browser).
		Bool("is_bot", client.IsBot).
		Str("request_id", event.RequestID).
		Time("event_time", event.Timestamp).
		Msg("Auth event")

	if !influxdb.Enabled() {
		return nil
	}
	if err := influxdb.WritePoints(ctx, EventPoint(event, client, loc)); err != nil {
		return fmt.Errorf("failed to store auth event: %w", err)
	}
	return nil
}

// EventPoint converts an event into its time-series sample. Account
// identifiers are not stored.
func EventPoint(event authevents.Event, client useragent.Client, loc maxmind.Location) influxdb.Point {
	tags := map[string]string{
		"event":   string(event.Type),
		"device":  client.Device.String(),
		"os":      client.OS,
		"browser": client.Browser,
		"is_bot":  strconv.FormatBool(client.IsBot),
	}
	if loc.CountryCode != "" {
		tags["country_code"] = loc.CountryCode
	}

	ts := event.Timestamp
	if ts.IsZero() {
		ts = utils.Now()
	}

	return influxdb.Point{
		Measurement: MeasurementAuthEvents,
		Tags:        tags,
		Fields: map[string]interface{}{
			"count":      1,
			"request_id": event.RequestID,
		},
		Time: ts,
	}
}
