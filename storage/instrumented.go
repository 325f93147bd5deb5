package storage

import (
	"context"

	"github.com/justapithecus/depthcap/metrics"
	"github.com/justapithecus/depthcap/types"
)

// InstrumentedStorage wraps a Storage and records write metrics.
// Each Save call increments storage_write_success or storage_write_failure.
type InstrumentedStorage struct {
	inner     Storage
	collector *metrics.Collector
}

// NewInstrumentedStorage wraps a storage with metrics instrumentation.
func NewInstrumentedStorage(inner Storage, collector *metrics.Collector) *InstrumentedStorage {
	return &InstrumentedStorage{inner: inner, collector: collector}
}

// Save delegates to the inner storage and records success or failure.
func (s *InstrumentedStorage) Save(ctx context.Context, kind types.ArtifactKind, name string, data []byte) error {
	err := s.inner.Save(ctx, kind, name, data)
	if err != nil {
		s.collector.IncStorageWriteFailure()
	} else {
		s.collector.IncStorageWriteSuccess(len(data))
	}
	return err
}

// Verify InstrumentedStorage implements Storage.
var _ Storage = (*InstrumentedStorage)(nil)
