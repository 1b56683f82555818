package orientation

import "sync"

// ChangeFunc is invoked when the cached device orientation transitions to a
// new value. It runs on the goroutine that delivered the sample, so
// implementations must hand off to their own context rather than block.
type ChangeFunc func(DeviceOrientation)

// Resolver caches the last known device orientation across a stream of
// acceleration samples. The initial orientation is portrait. A change
// callback fires only on actual transitions, never for a repeated identical
// classification.
//
// Resolver serializes its own state; Observe may be called from a sampling
// goroutine while Current is read elsewhere.
type Resolver struct {
	mu       sync.Mutex
	current  DeviceOrientation
	onChange ChangeFunc
	running  bool
}

// NewResolver returns a Resolver with the cached orientation set to portrait.
func NewResolver() *Resolver {
	return &Resolver{current: DevicePortrait}
}

// Start begins sample consumption, delivering transitions to onChange.
// Calling Start while already started is a no-op; the original callback is
// retained.
func (r *Resolver) Start(onChange ChangeFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}
	r.running = true
	r.onChange = onChange
}

// Stop halts sample consumption. It is idempotent and safe to call without a
// prior Start. The cached orientation is retained.
func (r *Resolver) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = false
	r.onChange = nil
}

// Running reports whether the resolver is consuming samples.
func (r *Resolver) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Current returns the last known device orientation.
func (r *Resolver) Current() DeviceOrientation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// VideoOrientation returns the video orientation for the current cached
// device orientation, using fallback when the device is flat or unknown.
func (r *Resolver) VideoOrientation(fallback InterfaceOrientation) VideoOrientation {
	return VideoOrientationFor(r.Current(), fallback)
}

// Observe classifies one sample and updates the cached orientation. Samples
// observed while stopped are ignored. The returned value is the cached
// orientation after classification.
func (r *Resolver) Observe(s Sample) DeviceOrientation {
	r.mu.Lock()
	if !r.running {
		current := r.current
		r.mu.Unlock()
		return current
	}

	next := ClassifySample(s, r.current)
	changed := next != r.current
	r.current = next
	onChange := r.onChange
	r.mu.Unlock()

	// Deliver outside the lock so a callback reading Current cannot deadlock.
	if changed && onChange != nil {
		onChange(next)
	}
	return next
}
