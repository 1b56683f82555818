package motion

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/banshee-data/camera.capture/internal/orientation"
)

// TestSource implements Sourcer for testing SampleMux without hardware.
type TestSource struct {
	mu        sync.Mutex
	data      []byte
	readIndex int
	closed    bool
}

func NewTestSource(data string) *TestSource {
	return &TestSource{data: []byte(data)}
}

func (s *TestSource) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, io.EOF
	}
	if s.readIndex >= len(s.data) {
		// simulate waiting for more data
		time.Sleep(10 * time.Millisecond)
		if s.closed {
			return 0, io.EOF
		}
		return 0, nil
	}
	n := copy(p, s.data[s.readIndex:])
	s.readIndex += n
	return n, nil
}

func (s *TestSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func collectSamples(t *testing.T, ch chan orientation.Sample, n int) []orientation.Sample {
	t.Helper()
	var out []orientation.Sample
	timeout := time.After(2 * time.Second)
	for len(out) < n {
		select {
		case s, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, s)
		case <-timeout:
			t.Fatalf("timed out after %d of %d samples", len(out), n)
		}
	}
	return out
}

func TestSampleMuxDeliversParsedSamples(t *testing.T) {
	src := NewTestSource("0,-1,0\n-1,0,0\n0.1,0.1,-0.9\n")
	mux := NewSampleMux(src)
	defer mux.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, ch := mux.Subscribe()
	go mux.Monitor(ctx)

	got := collectSamples(t, ch, 3)
	want := []orientation.Sample{
		{X: 0, Y: -1, Z: 0},
		{X: -1, Y: 0, Z: 0},
		{X: 0.1, Y: 0.1, Z: -0.9},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSampleMuxSkipsMalformedLines(t *testing.T) {
	src := NewTestSource("0,-1,0\ngarbage\n1,0\n-1,0,0\n")
	mux := NewSampleMux(src)
	defer mux.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, ch := mux.Subscribe()
	go mux.Monitor(ctx)

	got := collectSamples(t, ch, 2)
	if got[0] != (orientation.Sample{Y: -1}) || got[1] != (orientation.Sample{X: -1}) {
		t.Errorf("samples = %+v, want the two well-formed readings", got)
	}
	if n := mux.BadLines(); n != 2 {
		t.Errorf("BadLines() = %d, want 2", n)
	}
}

func TestSampleMuxUnsubscribeClosesChannel(t *testing.T) {
	mux := NewSampleMux(NewTestSource(""))
	defer mux.Close()

	id, ch := mux.Subscribe()
	mux.Unsubscribe(id)

	if _, ok := <-ch; ok {
		t.Error("channel should be closed after Unsubscribe")
	}

	// unsubscribing an unknown ID is a no-op
	mux.Unsubscribe("missing")
}

func TestSampleMuxMonitorStopsOnContextCancel(t *testing.T) {
	mux := NewSampleMux(NewTestSource("0,-1,0\n"))
	defer mux.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- mux.Monitor(ctx) }()

	cancel()
	select {
	case err := <-errCh:
		if err != context.Canceled {
			t.Errorf("Monitor returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Monitor did not stop on context cancel")
	}
}

func TestSampleMuxSlowSubscriberDoesNotBlock(t *testing.T) {
	src := NewTestSource("0,-1,0\n-1,0,0\n1,0,0\n0,1,0\n")
	mux := NewSampleMux(src)
	defer mux.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// subscribed but never read from
	mux.Subscribe()
	_, ch := mux.Subscribe()

	go mux.Monitor(ctx)

	// the reading subscriber still receives samples
	collectSamples(t, ch, 2)
}

func TestSampleMuxCloseStopsMonitor(t *testing.T) {
	mux := NewSampleMux(NewTestSource("0,-1,0\n0,-1,0\n"))

	ctx := context.Background()
	errCh := make(chan error, 1)
	go func() { errCh <- mux.Monitor(ctx) }()

	time.Sleep(20 * time.Millisecond)
	if err := mux.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Monitor returned %v after Close, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Monitor did not stop after Close")
	}
}
