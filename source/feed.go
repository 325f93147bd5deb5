package source

import (
	"context"
	"time"
)

// Feed publishes frames from producer into l, modelling a camera that
// delivers frames independently of capture ticks. The first frame is
// published before Feed returns; later frames are published every interval
// by a background goroutine until ctx ends. The returned channel is closed
// when that goroutine exits. A poll that yields no frame clears l.
func Feed(ctx context.Context, l *Latest, producer FrameSource, interval time.Duration) <-chan struct{} {
	publish := func() {
		if f, ok := producer.CurrentFrame(); ok {
			l.Publish(f)
		} else {
			l.Clear()
		}
	}

	publish()

	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				publish()
			}
		}
	}()
	return done
}
