package motion

import (
	"bufio"
	"context"
	crand "crypto/rand"
	"encoding/hex"
	"sync"

	"github.com/banshee-data/camera.capture/internal/monitoring"
	"github.com/banshee-data/camera.capture/internal/orientation"
)

// SampleMux reads newline-delimited readings from a motion source, parses
// them, and fans the samples out to any number of subscribers. A slow
// subscriber never blocks the sampling loop; its samples are dropped
// instead, matching the contract that classification must tolerate
// irregular delivery.
type SampleMux[T Sourcer] struct {
	source       T
	subscribers  map[string]chan orientation.Sample
	subscriberMu sync.Mutex

	closing   bool
	closingMu sync.Mutex

	badLines   int64
	badLinesMu sync.Mutex
}

// SampleMuxInterface defines the interface for the SampleMux type.
type SampleMuxInterface interface {
	// Subscribe creates a new channel for receiving samples from the motion
	// source. The channel ID identifies the channel when unsubscribing.
	Subscribe() (string, chan orientation.Sample)
	// Unsubscribe removes a channel from the list of subscribers.
	Unsubscribe(string)
	// Monitor reads lines from the source, parses them, and delivers
	// samples to subscribers until the context is cancelled.
	Monitor(context.Context) error
	// BadLines reports how many unparseable lines have been skipped.
	BadLines() int64
	// Close closes all subscribed channels and the underlying source.
	Close() error
}

// NewSampleMux creates a SampleMux backed by the given motion source.
func NewSampleMux[T Sourcer](source T) *SampleMux[T] {
	return &SampleMux[T]{
		source:      source,
		subscribers: make(map[string]chan orientation.Sample),
	}
}

// randomID generates a random channel ID (8 byte random hex encoded value)
func randomID() string {
	b := make([]byte, 8)
	crand.Read(b)
	return hex.EncodeToString(b)
}

// subscriberBuffer absorbs short consumer stalls before samples are dropped.
const subscriberBuffer = 16

func (m *SampleMux[T]) Subscribe() (string, chan orientation.Sample) {
	id := randomID()
	ch := make(chan orientation.Sample, subscriberBuffer)
	m.subscriberMu.Lock()
	defer m.subscriberMu.Unlock()
	m.subscribers[id] = ch
	return id, ch
}

// Unsubscribe removes a subscriber from the mux.
func (m *SampleMux[T]) Unsubscribe(id string) {
	m.subscriberMu.Lock()
	defer m.subscriberMu.Unlock()
	if ch, ok := m.subscribers[id]; ok {
		close(ch)
		delete(m.subscribers, id)
	}
}

// BadLines reports how many unparseable lines have been skipped so far.
func (m *SampleMux[T]) BadLines() int64 {
	m.badLinesMu.Lock()
	defer m.badLinesMu.Unlock()
	return m.badLines
}

func (m *SampleMux[T]) recordBadLine() {
	m.badLinesMu.Lock()
	m.badLines++
	m.badLinesMu.Unlock()
}

// Monitor reads readings from the motion source and delivers parsed samples
// to subscribers. Malformed lines are counted and skipped. Monitor returns
// when the context is cancelled, the source is exhausted, or a read fails.
func (m *SampleMux[T]) Monitor(ctx context.Context) error {
	scan := bufio.NewScanner(m.source)

	lineChan := make(chan string)
	scanErrChan := make(chan error, 1)

	// The blocking scan.Scan runs in its own goroutine so the outer loop can
	// await lines and context cancellation at the same time.
	go func() {
		defer close(lineChan)
		for scan.Scan() {
			select {
			case lineChan <- scan.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scan.Err(); err != nil {
			select {
			case scanErrChan <- err:
			case <-ctx.Done():
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-scanErrChan:
			return err

		case line, ok := <-lineChan:
			if !ok {
				// source exhausted
				if err := scan.Err(); err != nil {
					return err
				}
				return nil
			}

			m.closingMu.Lock()
			if m.closing {
				m.closingMu.Unlock()
				return nil
			}
			m.closingMu.Unlock()

			sample, err := ParseSample(line)
			if err != nil {
				m.recordBadLine()
				monitoring.Debugf("skipping unparseable reading %q: %v", line, err)
				continue
			}

			m.subscriberMu.Lock()
			for _, ch := range m.subscribers {
				select {
				case ch <- sample:
				default:
					// skip a full subscriber so the sampling loop never blocks
				}
			}
			m.subscriberMu.Unlock()
		}
	}
}

// Close closes all subscriber channels and the underlying source. It is safe
// to call while Monitor is running.
func (m *SampleMux[T]) Close() error {
	m.closingMu.Lock()
	m.closing = true
	m.closingMu.Unlock()

	m.subscriberMu.Lock()
	defer m.subscriberMu.Unlock()
	for id, ch := range m.subscribers {
		close(ch)
		delete(m.subscribers, id)
	}
	return m.source.Close()
}
