package asynq

import (
	"context"
	"time"

	"github.com/hibiken/asynq"

	"github.com/benedict-erwin/auth-gateway/config"
	"github.com/benedict-erwin/auth-gateway/internal/constants"
	"github.com/benedict-erwin/auth-gateway/pkg/logger"
)

var server *asynq.Server

// GenerateQueues weights each queue by its priority
func GenerateQueues() map[string]int {
	queues := make(map[string]int)
	for _, q := range constants.GetAllQueues() {
		queues[q] = constants.GetQueuePriority(q) * 2
	}
	return queues
}

// InitServer creates the Asynq server processing audit jobs
func InitServer(cfg *config.Config) *asynq.Server {
	log := logger.WithScope("InitServer")

	concurrency := cfg.Asynq.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	server = asynq.NewServer(
		RedisOpt(cfg),
		asynq.Config{
			Concurrency:     concurrency,
			Queues:          GenerateQueues(),
			ShutdownTimeout: 30 * time.Second, // Wait 30s for running tasks
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				// payload is not logged, it carries account identifiers
				log.Error().
					Err(err).
					Str("task_type", task.Type()).
					Msg("Task processing failed")
			}),
		},
	)

	log.Info().
		Int("concurrency", concurrency).
		Interface("queues", GenerateQueues()).
		Int("pool_size", cfg.Asynq.PoolSize).
		Msg("Asynq server initialized")
	return server
}

// GetServer returns the current Asynq server instance
func GetServer() *asynq.Server {
	return server
}

// CloseServer shuts the Asynq server down
func CloseServer() {
	if server != nil {
		server.Shutdown()
		logger.Info().Msg("Asynq server shut down")
		server = nil
	}
}
