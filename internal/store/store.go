package store

import (
	"context"
	"errors"
	"time"

	"github.com/amishk599/careerpath/internal/model"
)

// ErrNotFound is returned by Get when no record has the requested id.
var ErrNotFound = errors.New("generation not found")

// Store persists generation history.
type Store interface {
	model.GenerationRecorder
	List(ctx context.Context, opts ListOptions) ([]model.GenerationRecord, error)
	Get(ctx context.Context, id string) (model.GenerationRecord, error)
	Cleanup(ctx context.Context, olderThan time.Duration) (int64, error)
	Close() error
}

// ListOptions narrows a List call. Zero values mean "no filter".
type ListOptions struct {
	Operation model.Operation
	Limit     int
}
