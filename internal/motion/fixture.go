package motion

import (
	"io"
	"strings"
	"time"
)

// FixtureSource replays recorded sample lines at a fixed interval to
// simulate a live IMU in dev mode. The lines cycle forever until Close.
type FixtureSource struct {
	reader *io.PipeReader
	done   chan struct{}
}

// NewFixtureSource creates a FixtureSource replaying the given fixture data
// line by line every interval.
func NewFixtureSource(data []byte, interval time.Duration) *FixtureSource {
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	r, w := io.Pipe()
	done := make(chan struct{})

	go func() {
		defer w.Close()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		i := 0
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				line := lines[i%len(lines)]
				i++
				if _, err := w.Write([]byte(line + "\n")); err != nil {
					return
				}
			}
		}
	}()

	return &FixtureSource{reader: r, done: done}
}

func (f *FixtureSource) Read(p []byte) (int, error) {
	return f.reader.Read(p)
}

// Close stops the replay goroutine and closes the pipe. Pending reads return
// io.ErrClosedPipe.
func (f *FixtureSource) Close() error {
	select {
	case <-f.done:
	default:
		close(f.done)
	}
	return f.reader.Close()
}
