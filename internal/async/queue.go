package async

import (
	"context"
	"errors"
	"time"
)

// Job asks for one document on disk to be processed.
type Job struct {
	Path        string
	SubmittedAt time.Time
	RequestID   string
}

var ErrQueueClosed = errors.New("queue is shutting down")

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
