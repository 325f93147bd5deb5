package policy

import (
	"context"
	"sync/atomic"
)

// SkipPolicy drops any tick that arrives while a pipeline is in flight.
// Admit never blocks.
type SkipPolicy struct {
	busy  atomic.Bool
	stats statsRecorder
}

// NewSkipPolicy creates a new skip policy.
func NewSkipPolicy() *SkipPolicy {
	return &SkipPolicy{}
}

// Admit claims the pipeline slot if it is free.
func (p *SkipPolicy) Admit(_ context.Context) (func(), bool) {
	p.stats.incReceived()
	if !p.busy.CompareAndSwap(false, true) {
		p.stats.incSkipped()
		return nil, false
	}
	p.stats.incAdmitted()
	return releaseOnce(func() { p.busy.Store(false) }), true
}

// Name returns "skip".
func (p *SkipPolicy) Name() string {
	return NameSkip
}

// Stats returns admission counters.
func (p *SkipPolicy) Stats() Stats {
	return p.stats.snapshot()
}

// Verify SkipPolicy implements Policy.
var _ Policy = (*SkipPolicy)(nil)
