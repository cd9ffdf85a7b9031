// Package tasks hands background work to a queue consumed by task workers.
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var ErrRejected = errors.New("tasks: task rejected by queue")

// Task is a unit of background work identified by name.
type Task interface {
	TaskName() string
}

// Scheduler enqueues tasks. A nil error means the queue accepted the task.
type Scheduler interface {
	Schedule(ctx context.Context, task Task) error
}

// DeleteAttachment removes an attachment record and its stored file.
type DeleteAttachment struct {
	AttachmentID string `json:"attachmentId"`
}

func (DeleteAttachment) TaskName() string { return "DeleteAttachmentTask" }

type envelope struct {
	Name       string          `json:"name"`
	Props      json.RawMessage `json:"props"`
	EnqueuedAt time.Time       `json:"enqueuedAt"`
}

func encode(task Task) ([]byte, error) {
	props, err := json.Marshal(task)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{
		Name:       task.TaskName(),
		Props:      props,
		EnqueuedAt: time.Now().UTC(),
	})
}
