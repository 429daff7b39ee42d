package asynq

import "github.com/hibiken/asynq"

// Payload describes one task to enqueue
type Payload struct {
	TaskId   string      // Asynq TaskID metadata
	TaskType string      // Asynq TaskType metadata
	Queue    string      // Target queue, defaults to constants.QueueDefault
	Data     interface{} // The Task Payload (JSON)
}

// Enqueuer is satisfied by *asynq.Client
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}
