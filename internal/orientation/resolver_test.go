package orientation

import (
	"sync"
	"testing"
)

func TestResolverInitialState(t *testing.T) {
	r := NewResolver()
	if got := r.Current(); got != DevicePortrait {
		t.Errorf("Current() = %s, want portrait", got)
	}
	if r.Running() {
		t.Error("new resolver should not be running")
	}
}

func TestResolverObserveUpdatesCache(t *testing.T) {
	r := NewResolver()
	r.Start(nil)

	if got := r.Observe(Sample{X: -1, Y: 0, Z: 0}); got != DeviceLandscapeLeft {
		t.Errorf("Observe() = %s, want landscapeLeft", got)
	}
	if got := r.Current(); got != DeviceLandscapeLeft {
		t.Errorf("Current() = %s, want landscapeLeft", got)
	}
}

func TestResolverIgnoresSamplesWhileStopped(t *testing.T) {
	r := NewResolver()

	// never started
	if got := r.Observe(Sample{X: -1, Y: 0, Z: 0}); got != DevicePortrait {
		t.Errorf("Observe() before Start = %s, want portrait", got)
	}

	r.Start(nil)
	r.Observe(Sample{X: -1, Y: 0, Z: 0})
	r.Stop()

	if got := r.Observe(Sample{X: 0, Y: 1, Z: 0}); got != DeviceLandscapeLeft {
		t.Errorf("Observe() after Stop = %s, want cached landscapeLeft", got)
	}
}

func TestResolverStartIdempotent(t *testing.T) {
	r := NewResolver()

	var calls []DeviceOrientation
	r.Start(func(o DeviceOrientation) { calls = append(calls, o) })
	// second Start must not replace the callback or reset state
	r.Start(func(o DeviceOrientation) { t.Error("replacement callback should not be installed") })

	if !r.Running() {
		t.Fatal("resolver should be running after Start")
	}
	r.Observe(Sample{X: 1, Y: 0, Z: 0})
	if len(calls) != 1 || calls[0] != DeviceLandscapeRight {
		t.Errorf("calls = %v, want [landscapeRight]", calls)
	}
}

func TestResolverStopIdempotent(t *testing.T) {
	r := NewResolver()

	// Stop without Start must not panic
	r.Stop()

	r.Start(nil)
	r.Stop()
	r.Stop()
	if r.Running() {
		t.Error("resolver should be stopped")
	}
}

// An oscillating sample sequence produces a notification on each actual
// transition and none for repeated identical classifications.
func TestResolverNotifiesOnlyOnTransitions(t *testing.T) {
	r := NewResolver()

	var calls []DeviceOrientation
	r.Start(func(o DeviceOrientation) { calls = append(calls, o) })

	portrait := Sample{X: 0, Y: -1, Z: 0}
	landscape := Sample{X: -1, Y: 0, Z: 0}

	for _, s := range []Sample{portrait, portrait, landscape, landscape, landscape, portrait, landscape} {
		r.Observe(s)
	}

	// initial portrait -> portrait is not a transition
	want := []DeviceOrientation{DeviceLandscapeLeft, DevicePortrait, DeviceLandscapeLeft}
	if len(calls) != len(want) {
		t.Fatalf("got %d notifications (%v), want %d", len(calls), calls, len(want))
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("notification %d = %s, want %s", i, calls[i], want[i])
		}
	}
}

func TestResolverDegenerateSampleDoesNotNotify(t *testing.T) {
	r := NewResolver()

	notified := 0
	r.Start(func(DeviceOrientation) { notified++ })

	r.Observe(Sample{X: 1, Y: 0, Z: 0})
	r.Observe(Sample{X: 0, Y: 0, Z: 0.2})

	if notified != 1 {
		t.Errorf("notified = %d, want 1 (degenerate sample keeps cached orientation)", notified)
	}
	if got := r.Current(); got != DeviceLandscapeRight {
		t.Errorf("Current() = %s, want landscapeRight", got)
	}
}

func TestResolverVideoOrientation(t *testing.T) {
	r := NewResolver()
	r.Start(nil)

	r.Observe(Sample{X: 0, Y: 0.2, Z: -0.9})
	if got := r.VideoOrientation(InterfaceLandscapeRight); got != VideoLandscapeRight {
		t.Errorf("VideoOrientation() = %s, want landscapeRight fallback", got)
	}

	r.Observe(Sample{X: -1, Y: 0, Z: 0})
	if got := r.VideoOrientation(InterfacePortrait); got != VideoLandscapeRight {
		t.Errorf("VideoOrientation() = %s, want swapped landscapeRight", got)
	}
}

// Concurrent Observe and Current must not race; callbacks run outside the
// resolver lock so they may read Current safely.
func TestResolverConcurrentAccess(t *testing.T) {
	r := NewResolver()
	r.Start(func(DeviceOrientation) { _ = r.Current() })

	var wg sync.WaitGroup
	samples := []Sample{
		{X: -1, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: -1, Z: 0},
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Observe(samples[(n+j)%len(samples)])
				_ = r.Current()
			}
		}(i)
	}
	wg.Wait()
}
