package store

import (
	"context"
	"time"

	"github.com/amishk599/careerpath/internal/model"
)

// NopStore is used when history is disabled. It accepts records and drops
// them, so listings are always empty.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) Record(context.Context, model.GenerationRecord) error { return nil }
func (s *NopStore) List(context.Context, ListOptions) ([]model.GenerationRecord, error) {
	return nil, nil
}
func (s *NopStore) Get(context.Context, string) (model.GenerationRecord, error) {
	return model.GenerationRecord{}, ErrNotFound
}
func (s *NopStore) Cleanup(context.Context, time.Duration) (int64, error) { return 0, nil }
func (s *NopStore) Close() error                                          { return nil }
