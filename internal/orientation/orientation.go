// Package orientation classifies accelerometer samples into a discrete
// device orientation and maps device/interface orientation into the video
// orientation applied to captured frames.
package orientation

// DeviceOrientation is the physical spatial orientation of the capture
// device, inferred from accelerometer data.
type DeviceOrientation string

const (
	// DevicePortrait indicates the device upright with the home edge down.
	DevicePortrait DeviceOrientation = "portrait"
	// DevicePortraitUpsideDown indicates the device upright, rotated 180 degrees.
	DevicePortraitUpsideDown DeviceOrientation = "portraitUpsideDown"
	// DeviceLandscapeLeft indicates the device rotated left of portrait.
	DeviceLandscapeLeft DeviceOrientation = "landscapeLeft"
	// DeviceLandscapeRight indicates the device rotated right of portrait.
	DeviceLandscapeRight DeviceOrientation = "landscapeRight"
	// DeviceFaceUp indicates the device lying flat, screen up.
	DeviceFaceUp DeviceOrientation = "faceUp"
	// DeviceFaceDown indicates the device lying flat, screen down.
	DeviceFaceDown DeviceOrientation = "faceDown"
	// DeviceUnknown indicates no usable orientation information.
	DeviceUnknown DeviceOrientation = "unknown"
)

// VideoOrientation is the rotation tag applied to captured frames so that
// played-back media appears upright.
type VideoOrientation string

const (
	VideoPortrait           VideoOrientation = "portrait"
	VideoPortraitUpsideDown VideoOrientation = "portraitUpsideDown"
	VideoLandscapeLeft      VideoOrientation = "landscapeLeft"
	VideoLandscapeRight     VideoOrientation = "landscapeRight"
)

// InterfaceOrientation is the rotation of the on-screen UI, supplied by the
// host UI layer. It is a read-only input used as a fallback when the device
// orientation carries no rotation information.
type InterfaceOrientation string

const (
	InterfacePortrait           InterfaceOrientation = "portrait"
	InterfacePortraitUpsideDown InterfaceOrientation = "portraitUpsideDown"
	InterfaceLandscapeLeft      InterfaceOrientation = "landscapeLeft"
	InterfaceLandscapeRight     InterfaceOrientation = "landscapeRight"
)

// ParseInterfaceOrientation parses an interface orientation name. The ok
// result is false for unrecognized input.
func ParseInterfaceOrientation(s string) (InterfaceOrientation, bool) {
	switch InterfaceOrientation(s) {
	case InterfacePortrait, InterfacePortraitUpsideDown,
		InterfaceLandscapeLeft, InterfaceLandscapeRight:
		return InterfaceOrientation(s), true
	default:
		return "", false
	}
}

// Sample is a single 3-axis acceleration reading in g units.
type Sample struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Classification thresholds. The z checks run before the normalized x/y
// checks: a sample can satisfy both, and face-up/face-down wins.
const (
	// FaceZThreshold is the |z| magnitude beyond which the device is flat.
	FaceZThreshold = 0.75
	// LandscapeNXThreshold is the normalized |x| beyond which the device is
	// in a landscape orientation.
	LandscapeNXThreshold = 0.5
	// UpsideDownNYThreshold is the normalized y beyond which the device is
	// upside down.
	UpsideDownNYThreshold = 0.5
)

// ClassifySample classifies one acceleration sample. The z checks run
// first and need no normalization. The horizontal components are then
// normalized by 1/(|x|+|y|); a degenerate sample with zero horizontal
// magnitude carries no usable rotation information and returns previous
// unchanged (guard against division by zero).
func ClassifySample(s Sample, previous DeviceOrientation) DeviceOrientation {
	if s.Z < -FaceZThreshold {
		return DeviceFaceUp
	}
	if s.Z > FaceZThreshold {
		return DeviceFaceDown
	}

	horizontal := abs(s.X) + abs(s.Y)
	if horizontal == 0 {
		return previous
	}

	scale := 1 / horizontal
	nx := s.X * scale
	ny := s.Y * scale

	switch {
	case nx < -LandscapeNXThreshold:
		return DeviceLandscapeLeft
	case nx > LandscapeNXThreshold:
		return DeviceLandscapeRight
	case ny > UpsideDownNYThreshold:
		return DevicePortraitUpsideDown
	default:
		return DevicePortrait
	}
}

// VideoOrientationFor maps a device orientation to the video orientation for
// captured output. Landscape left and right are swapped between the two
// coordinate spaces (sensor convention vs. output frame convention). Face-up,
// face-down and unknown carry no rotation information, so the interface
// orientation is reused to avoid visible flicker when the device is laid
// flat; an unusable fallback degrades to portrait.
func VideoOrientationFor(device DeviceOrientation, fallback InterfaceOrientation) VideoOrientation {
	switch device {
	case DeviceLandscapeLeft:
		return VideoLandscapeRight
	case DeviceLandscapeRight:
		return VideoLandscapeLeft
	case DevicePortraitUpsideDown:
		return VideoPortraitUpsideDown
	case DevicePortrait:
		return VideoPortrait
	default:
		return videoFromInterface(fallback)
	}
}

// videoFromInterface maps an interface orientation 1:1 onto a video
// orientation, defaulting to portrait for any unrecognized value.
func videoFromInterface(o InterfaceOrientation) VideoOrientation {
	switch o {
	case InterfaceLandscapeLeft:
		return VideoLandscapeLeft
	case InterfaceLandscapeRight:
		return VideoLandscapeRight
	case InterfacePortraitUpsideDown:
		return VideoPortraitUpsideDown
	case InterfacePortrait:
		return VideoPortrait
	default:
		return VideoPortrait
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
