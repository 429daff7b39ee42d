package asynq

import (
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benedict-erwin/auth-gateway/internal/constants"
)

type recordingEnqueuer struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (r *recordingEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.tasks = append(r.tasks, task)
	r.opts = append(r.opts, opts)
	return &asynq.TaskInfo{ID: "id", Type: task.Type()}, nil
}

func queueOf(opts []asynq.Option) string {
	for _, o := range opts {
		if o.Type() == asynq.QueueOpt {
			return o.Value().(string)
		}
	}
	return ""
}

func TestDispatch(t *testing.T) {
	enq := &recordingEnqueuer{}
	err := Dispatch(enq, &Payload{
		TaskId:   "t-1",
		TaskType: constants.TaskAuthEvents,
		Queue:    constants.QueueCritical,
		Data:     map[string]string{"type": "login_failure"},
	})
	require.NoError(t, err)
	require.Len(t, enq.tasks, 1)

	assert.Equal(t, constants.TaskAuthEvents, enq.tasks[0].Type())
	assert.JSONEq(t, `{"type":"login_failure"}`, string(enq.tasks[0].Payload()))
	assert.Equal(t, constants.QueueCritical, queueOf(enq.opts[0]))
}

func TestDispatchDefaultsQueue(t *testing.T) {
	enq := &recordingEnqueuer{}
	require.NoError(t, Dispatch(enq, &Payload{TaskType: constants.TaskAuthEvents, Queue: "bogus", Data: 1}))
	assert.Equal(t, constants.QueueDefault, queueOf(enq.opts[0]))
}

func TestDispatchErrors(t *testing.T) {
	assert.Error(t, Dispatch(&recordingEnqueuer{}, nil))
	assert.ErrorIs(t, Dispatch(nil, &Payload{TaskType: "x"}), ErrClientUnavailable)

	assert.NoError(t, Dispatch(&recordingEnqueuer{err: asynq.ErrDuplicateTask}, &Payload{TaskType: "x", TaskId: "dup"}))
	assert.NoError(t, Dispatch(&recordingEnqueuer{err: asynq.ErrTaskIDConflict}, &Payload{TaskType: "x", TaskId: "dup"}))

	boom := errors.New("redis down")
	assert.ErrorIs(t, Dispatch(&recordingEnqueuer{err: boom}, &Payload{TaskType: "x"}), boom)

	err := Dispatch(&recordingEnqueuer{}, &Payload{TaskType: "x", Data: make(chan int)})
	assert.Error(t, err)
}

func TestDispatchJobWithoutClient(t *testing.T) {
	CloseClient()
	assert.ErrorIs(t, DispatchJob(&Payload{TaskType: "x"}), ErrClientUnavailable)
}

func TestGenerateQueues(t *testing.T) {
	q := GenerateQueues()
	assert.Len(t, q, 3)
	assert.Greater(t, q[constants.QueueCritical], q[constants.QueueDefault])
	assert.Greater(t, q[constants.QueueDefault], q[constants.QueueLow])
}
