// Package policy defines tick admission policies for continuous capture.
//
// A tick is admitted when it may start a capture pipeline. At most one
// pipeline is in flight at any time under every policy; policies differ in
// what happens to a tick that arrives while one is running.
package policy

import (
	"context"
	"fmt"
	"sync"
)

// Policy names accepted by New.
const (
	NameSkip      = "skip"
	NameSerialize = "serialize"
)

// Policy decides whether a tick may start a capture pipeline.
type Policy interface {
	// Admit is called once per tick. If ok, the caller owns the pipeline slot
	// and must call release exactly once when the pipeline completes.
	// If !ok the tick was dropped and release is nil.
	Admit(ctx context.Context) (release func(), ok bool)

	// Name returns the policy name ("skip" or "serialize").
	Name() string

	// Stats returns an atomic snapshot of admission counters.
	Stats() Stats
}

// Stats represents tick admission counters.
type Stats struct {
	// Received is the number of ticks offered to Admit.
	Received int64
	// Admitted is the number of ticks that started a pipeline.
	Admitted int64
	// Skipped is the number of ticks dropped because a pipeline was in flight.
	Skipped int64
	// Canceled is the number of ticks abandoned because ctx ended while waiting.
	Canceled int64
}

// New creates a policy by name. Empty name selects skip.
func New(name string) (Policy, error) {
	switch name {
	case "", NameSkip:
		return NewSkipPolicy(), nil
	case NameSerialize:
		return NewSerializePolicy(), nil
	default:
		return nil, fmt.Errorf("unknown policy %q (want %s or %s)", name, NameSkip, NameSerialize)
	}
}

// statsRecorder is an internal helper for thread-safe stats management.
type statsRecorder struct {
	mu    sync.Mutex
	stats Stats
}

func (r *statsRecorder) incReceived() {
	r.mu.Lock()
	r.stats.Received++
	r.mu.Unlock()
}

func (r *statsRecorder) incAdmitted() {
	r.mu.Lock()
	r.stats.Admitted++
	r.mu.Unlock()
}

func (r *statsRecorder) incSkipped() {
	r.mu.Lock()
	r.stats.Skipped++
	r.mu.Unlock()
}

func (r *statsRecorder) incCanceled() {
	r.mu.Lock()
	r.stats.Canceled++
	r.mu.Unlock()
}

func (r *statsRecorder) snapshot() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// releaseOnce wraps fn so repeated calls are harmless.
func releaseOnce(fn func()) func() {
	var once sync.Once
	return func() { once.Do(fn) }
}
