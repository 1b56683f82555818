package gesture

import "math"

// Exposure constants
const (
	// NeutralExposure is the centered exposure value set when a new focus
	// point is chosen.
	NeutralExposure = 0.5

	// DefaultPanFullScale is the vertical pan translation in pixels that
	// maps to a full swing of the exposure value.
	DefaultPanFullScale = 400.0

	// ExposureDurationFloor is the hardware-independent minimum exposure
	// duration in seconds (1/2000 s). Devices reporting shorter minimums
	// are floored here.
	ExposureDurationFloor = 1.0 / 2000.0
)

// ExposureState holds the manual exposure value for one physical camera
// device. Invariant: 0 <= Value <= 1. TranslationAccumulator is the net
// vertical pan offset committed across gesture sessions; it resets only when
// the focus point changes.
type ExposureState struct {
	Value                  float64 `json:"value"`
	TranslationAccumulator float64 `json:"translation_accumulator"`
}

// NewExposureState returns an ExposureState at neutral exposure.
func NewExposureState() ExposureState {
	return ExposureState{Value: NeutralExposure}
}

// ApplyPanTranslation maps a vertical pan delta in pixels onto a new
// exposure value. Panning up (negative delta) brightens toward 1.0, panning
// down darkens toward 0.0, saturating at the configured full-scale
// translation. The accumulator is committed only when the gesture ends;
// mid-gesture deltas preview against the last committed offset.
func (m *Mapper) ApplyPanTranslation(s ExposureState, deltaY float64, gestureEnded bool) ExposureState {
	current := s.TranslationAccumulator + deltaY

	swing := math.Min(math.Abs(current)/m.panFullScale, 1) / 2
	if current < 0 {
		s.Value = NeutralExposure + swing
	} else {
		s.Value = NeutralExposure - swing
	}

	if gestureEnded {
		s.TranslationAccumulator = current
	}
	return s
}

// ResetFocus starts a fresh exposure baseline for a new tap-to-focus target:
// the accumulator clears and the value returns to neutral.
func (m *Mapper) ResetFocus(s ExposureState) ExposureState {
	s.TranslationAccumulator = 0
	s.Value = NeutralExposure
	return s
}

// ExposureDuration maps a slider value in [0,1] onto an exposure duration in
// seconds between the device bounds. The power-of-4 gain curve gives the low
// end of the slider finer control than the high end. The minimum duration is
// floored at ExposureDurationFloor regardless of what the hardware reports.
func (m *Mapper) ExposureDuration(sliderValue, minDuration, maxDuration float64) float64 {
	slider := clamp(sliderValue, 0, 1)
	if minDuration < ExposureDurationFloor {
		minDuration = ExposureDurationFloor
	}
	if maxDuration < minDuration {
		maxDuration = minDuration
	}
	p := math.Pow(slider, 4)
	return minDuration + p*(maxDuration-minDuration)
}
