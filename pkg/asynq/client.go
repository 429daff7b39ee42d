package asynq

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/hibiken/asynq"

	"github.com/benedict-erwin/auth-gateway/config"
	"github.com/benedict-erwin/auth-gateway/internal/constants"
	"github.com/benedict-erwin/auth-gateway/pkg/logger"
)

var (
	client   *asynq.Client
	clientMu sync.RWMutex
)

// ErrClientUnavailable is returned when no queue client is initialized
var ErrClientUnavailable = errors.New("queue client not available")

// RedisOpt builds the asynq connection options from the application config
func RedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Asynq.DB,
		PoolSize: cfg.Asynq.PoolSize,
	}
}

// InitClient initializes the Asynq Redis client
func InitClient(cfg *config.Config) error {
	c := asynq.NewClient(RedisOpt(cfg))

	clientMu.Lock()
	client = c
	clientMu.Unlock()

	logger.Info().
		Str("host", cfg.Redis.Host).
		Int("port", cfg.Redis.Port).
		Int("db", cfg.Asynq.DB).
		Msg("Asynq client initialized")

	return nil
}

// GetClient returns the current Asynq client instance
func GetClient() *asynq.Client {
	clientMu.RLock()
	defer clientMu.RUnlock()
	return client
}

// DispatchJob enqueues payload on the global client
func DispatchJob(payload *Payload) error {
	c := GetClient()
	if c == nil {
		return ErrClientUnavailable
	}
	return Dispatch(c, payload)
}

// Dispatch enqueues payload on enq. Duplicate task IDs are not an error.
func Dispatch(enq Enqueuer, payload *Payload) error {
	if payload == nil {
		return fmt.Errorf("payload cannot be nil")
	}
	if enq == nil {
		return ErrClientUnavailable
	}

	log := logger.WithScope("DispatchJob")

	data, err := json.Marshal(payload.Data)
	if err != nil {
		log.Error().Err(err).Str("taskType", payload.TaskType).Msg("Failed to marshal task payload")
		return err
	}

	queue := payload.Queue
	if !constants.IsValidQueue(queue) {
		queue = constants.QueueDefault
	}

	opts := []asynq.Option{
		asynq.Queue(queue),
		asynq.MaxRetry(3),
	}
	if payload.TaskId != "" {
		opts = append(opts, asynq.TaskID(payload.TaskId), asynq.Unique(5*time.Minute))
	}

	_, err = enq.Enqueue(asynq.NewTask(payload.TaskType, data), opts...)
	if err != nil {
		if errors.Is(err, asynq.ErrDuplicateTask) || errors.Is(err, asynq.ErrTaskIDConflict) {
			log.Warn().
				Str("taskId", payload.TaskId).
				Str("taskType", payload.TaskType).
				Msg("Duplicate task ignored - already in queue")
			return nil
		}

		log.Error().
			Err(err).
			Str("taskId", payload.TaskId).
			Str("taskType", payload.TaskType).
			Msg("Failed to enqueue task")
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	log.Debug().
		Str("taskId", payload.TaskId).
		Str("taskType", payload.TaskType).
		Str("queue", queue).
		Msg("Task enqueued successfully")

	return nil
}

// CloseClient closes the Asynq client connection
func CloseClient() {
	clientMu.Lock()
	defer clientMu.Unlock()

	if client != nil {
		if err := client.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close Asynq client")
		} else {
			logger.Info().Msg("Asynq client closed")
		}
		client = nil
	}
}
