package motion

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/banshee-data/camera.capture/internal/orientation"
)

// ParseSample parses one line from a motion source into a sample. Two
// formats are accepted: JSON objects with x/y/z keys, and bare CSV
// "x,y,z" readings as emitted by IMU breakout firmware.
func ParseSample(line string) (orientation.Sample, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return orientation.Sample{}, fmt.Errorf("empty sample line")
	}

	if strings.HasPrefix(line, "{") {
		var s orientation.Sample
		if err := json.Unmarshal([]byte(line), &s); err != nil {
			return orientation.Sample{}, fmt.Errorf("failed to unmarshal JSON sample: %w", err)
		}
		return s, nil
	}

	segments := strings.Split(line, ",")
	if len(segments) != 3 {
		return orientation.Sample{}, fmt.Errorf("invalid sample format %q: expected 3 segments", line)
	}

	var s orientation.Sample
	var err error
	if s.X, err = strconv.ParseFloat(strings.TrimSpace(segments[0]), 64); err != nil {
		return orientation.Sample{}, fmt.Errorf("failed to parse x: %w", err)
	}
	if s.Y, err = strconv.ParseFloat(strings.TrimSpace(segments[1]), 64); err != nil {
		return orientation.Sample{}, fmt.Errorf("failed to parse y: %w", err)
	}
	if s.Z, err = strconv.ParseFloat(strings.TrimSpace(segments[2]), 64); err != nil {
		return orientation.Sample{}, fmt.Errorf("failed to parse z: %w", err)
	}
	return s, nil
}
