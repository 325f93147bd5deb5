package policy

import "context"

// SerializePolicy makes a tick wait for the in-flight pipeline to finish.
// No ticks are dropped, but the tick loop stalls while waiting, so a
// time.Ticker caller coalesces the ticks it misses instead of queueing them.
type SerializePolicy struct {
	slot  chan struct{}
	stats statsRecorder
}

// NewSerializePolicy creates a new serialize policy.
func NewSerializePolicy() *SerializePolicy {
	return &SerializePolicy{slot: make(chan struct{}, 1)}
}

// Admit blocks until the pipeline slot is free or ctx is done.
func (p *SerializePolicy) Admit(ctx context.Context) (func(), bool) {
	p.stats.incReceived()
	select {
	case p.slot <- struct{}{}:
		p.stats.incAdmitted()
		return releaseOnce(func() { <-p.slot }), true
	case <-ctx.Done():
		p.stats.incCanceled()
		return nil, false
	}
}

// Name returns "serialize".
func (p *SerializePolicy) Name() string {
	return NameSerialize
}

// Stats returns admission counters.
func (p *SerializePolicy) Stats() Stats {
	return p.stats.snapshot()
}

// Verify SerializePolicy implements Policy.
var _ Policy = (*SerializePolicy)(nil)
