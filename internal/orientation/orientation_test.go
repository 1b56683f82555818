package orientation

import "testing"

func TestClassifySample(t *testing.T) {
	tests := []struct {
		name     string
		sample   Sample
		previous DeviceOrientation
		expected DeviceOrientation
	}{
		// z thresholds take priority over x/y
		{"flat face up", Sample{X: 0.1, Y: 0.1, Z: -0.9}, DevicePortrait, DeviceFaceUp},
		{"flat face down", Sample{X: 0.1, Y: 0.1, Z: 0.9}, DevicePortrait, DeviceFaceDown},
		{"face up wins over landscape x", Sample{X: -1.0, Y: 0, Z: -0.8}, DevicePortrait, DeviceFaceUp},
		{"face down wins over upside down y", Sample{X: 0, Y: 1.0, Z: 0.8}, DevicePortrait, DeviceFaceDown},
		{"face up with zero horizontal", Sample{X: 0, Y: 0, Z: -0.9}, DevicePortrait, DeviceFaceUp},
		{"z exactly at threshold is not flat", Sample{X: 0, Y: -1.0, Z: -0.75}, DeviceLandscapeLeft, DevicePortrait},

		// landscape via normalized x
		{"hard landscape left", Sample{X: -1.0, Y: 0, Z: 0}, DevicePortrait, DeviceLandscapeLeft},
		{"hard landscape right", Sample{X: 1.0, Y: 0, Z: 0}, DevicePortrait, DeviceLandscapeRight},
		{"tilted landscape left", Sample{X: -0.6, Y: -0.3, Z: 0.2}, DevicePortrait, DeviceLandscapeLeft},
		{"tilted landscape right", Sample{X: 0.6, Y: -0.3, Z: -0.2}, DevicePortrait, DeviceLandscapeRight},

		// portrait via normalized y
		{"upside down", Sample{X: 0, Y: 1.0, Z: 0}, DevicePortrait, DevicePortraitUpsideDown},
		{"upright portrait", Sample{X: 0, Y: -1.0, Z: 0}, DeviceLandscapeLeft, DevicePortrait},
		{"portrait with slight tilt", Sample{X: 0.2, Y: -0.8, Z: 0.1}, DeviceFaceUp, DevicePortrait},

		// normalization: raw magnitudes do not matter, only the ratio
		{"small magnitudes normalize", Sample{X: -0.02, Y: 0.01, Z: 0}, DevicePortrait, DeviceLandscapeLeft},
		{"balanced x/y falls through to portrait", Sample{X: 0.5, Y: -0.5, Z: 0}, DeviceFaceDown, DevicePortrait},

		// degenerate samples keep the previous orientation
		{"degenerate keeps portrait", Sample{X: 0, Y: 0, Z: 0.1}, DevicePortrait, DevicePortrait},
		{"degenerate keeps landscape", Sample{X: 0, Y: 0, Z: -0.5}, DeviceLandscapeRight, DeviceLandscapeRight},
		{"degenerate keeps unknown", Sample{X: 0, Y: 0, Z: 0}, DeviceUnknown, DeviceUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ClassifySample(tt.sample, tt.previous)
			if result != tt.expected {
				t.Errorf("ClassifySample(%+v, %s) = %s, want %s", tt.sample, tt.previous, result, tt.expected)
			}
		})
	}
}

// Every sample with z below the face threshold classifies as faceUp no
// matter what the horizontal components are.
func TestClassifySampleFaceUpPriority(t *testing.T) {
	horizontals := []struct{ x, y float64 }{
		{0, 0}, {-1, 0}, {1, 0}, {0, 1}, {0, -1}, {0.7, 0.7}, {-3, 2},
	}
	for _, h := range horizontals {
		s := Sample{X: h.x, Y: h.y, Z: -0.76}
		if got := ClassifySample(s, DevicePortrait); got != DeviceFaceUp {
			t.Errorf("ClassifySample(%+v) = %s, want faceUp", s, got)
		}
	}
}

func TestParseInterfaceOrientation(t *testing.T) {
	for _, valid := range []string{"portrait", "portraitUpsideDown", "landscapeLeft", "landscapeRight"} {
		got, ok := ParseInterfaceOrientation(valid)
		if !ok || string(got) != valid {
			t.Errorf("ParseInterfaceOrientation(%q) = (%s, %v), want (%s, true)", valid, got, ok, valid)
		}
	}
	for _, invalid := range []string{"", "sideways", "Portrait", "face_up"} {
		if _, ok := ParseInterfaceOrientation(invalid); ok {
			t.Errorf("ParseInterfaceOrientation(%q) should not parse", invalid)
		}
	}
}

func TestVideoOrientationFor(t *testing.T) {
	tests := []struct {
		name     string
		device   DeviceOrientation
		fallback InterfaceOrientation
		expected VideoOrientation
	}{
		// landscape swap is unconditional
		{"landscape left swaps", DeviceLandscapeLeft, InterfacePortrait, VideoLandscapeRight},
		{"landscape left swaps regardless of fallback", DeviceLandscapeLeft, InterfaceLandscapeLeft, VideoLandscapeRight},
		{"landscape right swaps", DeviceLandscapeRight, InterfacePortrait, VideoLandscapeLeft},
		{"landscape right swaps regardless of fallback", DeviceLandscapeRight, InterfaceLandscapeRight, VideoLandscapeLeft},

		// portrait orientations pass through
		{"portrait", DevicePortrait, InterfaceLandscapeLeft, VideoPortrait},
		{"upside down", DevicePortraitUpsideDown, InterfaceLandscapeLeft, VideoPortraitUpsideDown},

		// flat/unknown fall back to the interface orientation 1:1
		{"face up uses fallback portrait", DeviceFaceUp, InterfacePortrait, VideoPortrait},
		{"face up uses fallback landscape left", DeviceFaceUp, InterfaceLandscapeLeft, VideoLandscapeLeft},
		{"face down uses fallback landscape right", DeviceFaceDown, InterfaceLandscapeRight, VideoLandscapeRight},
		{"face down uses fallback upside down", DeviceFaceDown, InterfacePortraitUpsideDown, VideoPortraitUpsideDown},
		{"unknown uses fallback", DeviceUnknown, InterfaceLandscapeRight, VideoLandscapeRight},

		// unusable fallback degrades to portrait, never an error
		{"face up with empty fallback", DeviceFaceUp, InterfaceOrientation(""), VideoPortrait},
		{"unknown with garbage fallback", DeviceUnknown, InterfaceOrientation("sideways"), VideoPortrait},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := VideoOrientationFor(tt.device, tt.fallback)
			if result != tt.expected {
				t.Errorf("VideoOrientationFor(%s, %s) = %s, want %s", tt.device, tt.fallback, result, tt.expected)
			}
		})
	}
}
