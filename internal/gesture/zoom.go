// Package gesture maps raw pinch and pan gesture deltas onto clamped camera
// parameters given the capability bounds of the device that owns them. All
// inputs are absorbed by clamping rather than rejected; there are no fallible
// operations in this package.
package gesture

// Zoom bounds
const (
	// ZoomFloor is the hard lower bound applied to the zoom factor in the
	// default clamp mode. Zoom never drops below 1x even when the device
	// reports a minimum above or below it.
	ZoomFloor = 1.0
)

// ZoomState holds the zoom parameters for one physical camera device.
// Invariant: MinZoom <= CurrentZoom <= MaxZoom. BeginZoomScale is the zoom
// value at pinch-gesture start and is reset whenever a new pinch begins.
type ZoomState struct {
	MinZoom        float64 `json:"min_zoom"`
	MaxZoom        float64 `json:"max_zoom"`
	BeginZoomScale float64 `json:"begin_zoom_scale"`
	CurrentZoom    float64 `json:"current_zoom"`
}

// NewZoomState returns a ZoomState for a device reporting the given zoom
// bounds. The minimum is floored at 1x and the maximum floored at the
// minimum, so any reported bounds yield a usable state. The current zoom
// starts at the minimum.
func NewZoomState(minZoom, maxZoom float64) ZoomState {
	if minZoom < ZoomFloor {
		minZoom = ZoomFloor
	}
	if maxZoom < minZoom {
		maxZoom = minZoom
	}
	return ZoomState{
		MinZoom:        minZoom,
		MaxZoom:        maxZoom,
		BeginZoomScale: minZoom,
		CurrentZoom:    minZoom,
	}
}

// MapperOptions configures the behavioral variants of a Mapper.
type MapperOptions struct {
	// ClampToDeviceMin selects the zoom lower clamp bound: false clamps at
	// the hard 1x floor, true clamps at the device-reported minimum. Some
	// device families report a minimum zoom above 1x.
	ClampToDeviceMin bool

	// PanFullScale is the vertical pan translation, in pixels, that maps to
	// a full exposure swing. Zero selects the default of 400.
	PanFullScale float64
}

// Mapper converts gesture deltas into zoom factors and exposure values.
// Methods take and return value states; the caller owns serialization (one
// logical owner per physical device).
type Mapper struct {
	clampToDeviceMin bool
	panFullScale     float64
}

// NewMapper returns a Mapper with the given options applied.
func NewMapper(opts MapperOptions) *Mapper {
	scale := opts.PanFullScale
	if scale <= 0 {
		scale = DefaultPanFullScale
	}
	return &Mapper{
		clampToDeviceMin: opts.ClampToDeviceMin,
		panFullScale:     scale,
	}
}

// BeginPinch snapshots the current zoom as the baseline for an incoming
// pinch gesture.
func (m *Mapper) BeginPinch(s ZoomState) ZoomState {
	s.BeginZoomScale = s.CurrentZoom
	return s
}

// ApplyPinch maps a pinch gesture scale (1.0 = no change) onto a new zoom
// factor. The raw zoom is the gesture-begin baseline multiplied by the
// scale, clamped into the configured bounds. A scale at or below zero
// collapses to the lower bound.
func (m *Mapper) ApplyPinch(s ZoomState, gestureScale float64) ZoomState {
	lower := ZoomFloor
	if m.clampToDeviceMin {
		lower = s.MinZoom
	}
	raw := s.BeginZoomScale * gestureScale
	s.CurrentZoom = clamp(raw, lower, s.MaxZoom)
	return s
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
