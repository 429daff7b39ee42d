package authevents

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/hibiken/asynq"

	"github.com/benedict-erwin/auth-gateway/internal/constants"
	entity "github.com/benedict-erwin/auth-gateway/internal/entities/auth_events"
	"github.com/benedict-erwin/auth-gateway/internal/services/audit"
	"github.com/benedict-erwin/auth-gateway/pkg/logger"
)

// HandleAuthEvents records one audit event from the queue
func HandleAuthEvents(ctx context.Context, t *asynq.Task) error {
	log := logger.WithScope(constants.TaskAuthEvents)

	var event entity.Event
	if err := json.Unmarshal(t.Payload(), &event); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal payload")
		// retrying cannot fix a corrupt payload
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	switch event.Type {
	case entity.EventRegister, entity.EventLoginSuccess, entity.EventLoginFailure:
	default:
		return fmt.Errorf("%w: unknown event type %q", asynq.SkipRetry, event.Type)
	}

	// a failed InfluxDB write is retried by asynq
	return audit.Record(ctx, log, event)
}
