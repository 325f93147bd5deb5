package storage

import (
	"context"
	"sync"

	"github.com/justapithecus/depthcap/types"
)

// StubStorage records Save calls without persisting.
// Use for pipeline tests.
type StubStorage struct {
	mu    sync.Mutex
	Saves []StubSaveRecord

	// FailKinds maps artifact kinds to the error Save returns for them.
	FailKinds map[types.ArtifactKind]error
	// Gate, if non-nil, blocks every Save until a value is received or the
	// channel is closed. Lets tests hold a pipeline in flight.
	Gate chan struct{}
	// Started, if non-nil, receives the artifact name when a Save begins.
	// The send never blocks; names are dropped when the channel is full.
	Started chan string
}

// StubSaveRecord is a recorded Save call.
type StubSaveRecord struct {
	Kind types.ArtifactKind
	Name string
	Data []byte
}

// NewStubStorage creates a new stub storage.
func NewStubStorage() *StubStorage {
	return &StubStorage{FailKinds: make(map[types.ArtifactKind]error)}
}

// Save implements Storage by recording the call.
func (s *StubStorage) Save(ctx context.Context, kind types.ArtifactKind, name string, data []byte) error {
	if s.Started != nil {
		select {
		case s.Started <- name:
		default:
		}
	}
	if s.Gate != nil {
		select {
		case <-s.Gate:
		case <-ctx.Done():
			return NewStorageError(ErrTimeout, "save", name, ctx.Err())
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.FailKinds[kind]; err != nil {
		return NewStorageError(classifyError(err), "save", name, err)
	}
	s.Saves = append(s.Saves, StubSaveRecord{Kind: kind, Name: name, Data: data})
	return nil
}

// Fail makes subsequent saves of kind return err.
func (s *StubStorage) Fail(kind types.ArtifactKind, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FailKinds[kind] = err
}

// Records returns a copy of the recorded saves.
func (s *StubStorage) Records() []StubSaveRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StubSaveRecord, len(s.Saves))
	copy(out, s.Saves)
	return out
}

// Count returns the number of recorded saves of kind.
func (s *StubStorage) Count(kind types.ArtifactKind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.Saves {
		if r.Kind == kind {
			n++
		}
	}
	return n
}

// Verify StubStorage implements Storage.
var _ Storage = (*StubStorage)(nil)
