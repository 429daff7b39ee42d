package jobs

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/benedict-erwin/auth-gateway/internal/constants"
	authevents "github.com/benedict-erwin/auth-gateway/internal/jobs/auth_events"
)

// JobRegistration holds job metadata for registration
type JobRegistration struct {
	TaskType string                                   `json:"task_type"`
	Handler  func(context.Context, *asynq.Task) error `json:"-"` // Not serialized
	Queue    string                                   `json:"queue"`
}

// RegisterHandlers registers all job handlers with the asynq server mux and returns job metadata
func RegisterHandlers(mux *asynq.ServeMux) ([]JobRegistration, error) {
	jobs := []JobRegistration{
		// login failures land on critical, other events on default
		{
			TaskType: constants.TaskAuthEvents,
			Handler:  authevents.HandleAuthEvents,
			Queue:    constants.QueueCritical,
		},
	}

	for _, job := range jobs {
		if !constants.IsValidQueue(job.Queue) {
			return nil, fmt.Errorf("invalid queue '%s' for job '%s'. Valid queues: %v",
				job.Queue, job.TaskType, constants.GetAllQueues())
		}
	}

	if mux != nil {
		for _, job := range jobs {
			mux.HandleFunc(job.TaskType, job.Handler)
		}
	}

	return jobs, nil
}

// GetRegisteredJobs returns job metadata without handlers
func GetRegisteredJobs() ([]JobRegistration, error) {
	return RegisterHandlers(nil)
}
