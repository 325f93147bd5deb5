package policy_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/justapithecus/depthcap/policy"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		wantName string
		wantErr  bool
	}{
		{"", policy.NameSkip, false},
		{"skip", policy.NameSkip, false},
		{"serialize", policy.NameSerialize, false},
		{"buffered", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pol, err := policy.New(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if err == nil && pol.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", pol.Name(), tt.wantName)
			}
		})
	}
}

func TestSkipPolicy_DropsWhileBusy(t *testing.T) {
	pol := policy.NewSkipPolicy()
	ctx := t.Context()

	release, ok := pol.Admit(ctx)
	if !ok {
		t.Fatal("first tick should be admitted")
	}
	for range 3 {
		if r, ok := pol.Admit(ctx); ok || r != nil {
			t.Fatal("tick should be skipped while busy")
		}
	}
	release()
	release() // idempotent

	release2, ok := pol.Admit(ctx)
	if !ok {
		t.Fatal("tick after release should be admitted")
	}
	release2()

	stats := pol.Stats()
	want := policy.Stats{Received: 5, Admitted: 2, Skipped: 3}
	if stats != want {
		t.Errorf("Stats = %+v, want %+v", stats, want)
	}
}

func TestSkipPolicy_AtMostOneInFlight(t *testing.T) {
	pol := policy.NewSkipPolicy()
	ctx := t.Context()

	var (
		mu       sync.Mutex
		inFlight int
		maxSeen  int
		wg       sync.WaitGroup
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, ok := pol.Admit(ctx)
			if !ok {
				return
			}
			mu.Lock()
			inFlight++
			if inFlight > maxSeen {
				maxSeen = inFlight
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			inFlight--
			mu.Unlock()
			release()
		}()
	}
	wg.Wait()

	if maxSeen != 1 {
		t.Errorf("max in flight = %d, want 1", maxSeen)
	}
	stats := pol.Stats()
	if stats.Received != 50 || stats.Admitted+stats.Skipped != 50 {
		t.Errorf("inconsistent stats: %+v", stats)
	}
}

func TestSerializePolicy_WaitsForRelease(t *testing.T) {
	pol := policy.NewSerializePolicy()
	ctx := t.Context()

	release, ok := pol.Admit(ctx)
	if !ok {
		t.Fatal("first tick should be admitted")
	}

	admitted := make(chan func())
	go func() {
		r, ok := pol.Admit(ctx)
		if ok {
			admitted <- r
		}
	}()

	select {
	case <-admitted:
		t.Fatal("second tick admitted while slot held")
	case <-time.After(20 * time.Millisecond):
	}

	release()
	select {
	case r := <-admitted:
		r()
	case <-time.After(time.Second):
		t.Fatal("second tick not admitted after release")
	}

	stats := pol.Stats()
	if stats.Admitted != 2 || stats.Skipped != 0 {
		t.Errorf("Stats = %+v, want 2 admitted, 0 skipped", stats)
	}
}

func TestSerializePolicy_CanceledWhileWaiting(t *testing.T) {
	pol := policy.NewSerializePolicy()
	release, ok := pol.Admit(t.Context())
	if !ok {
		t.Fatal("first tick should be admitted")
	}
	defer release()

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()
	if r, ok := pol.Admit(ctx); ok || r != nil {
		t.Fatal("expected Admit to give up when ctx is done")
	}
	if got := pol.Stats().Canceled; got != 1 {
		t.Errorf("Canceled = %d, want 1", got)
	}
}
