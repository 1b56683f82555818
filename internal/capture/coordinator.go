// Package capture owns the per-device capture state: the orientation
// resolver, the zoom and exposure state driven by gestures, and the journal
// of every value computed for the device. One Coordinator drives exactly one
// physical camera device and serializes all access to its state.
package capture

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/camera.capture/internal/config"
	"github.com/banshee-data/camera.capture/internal/gesture"
	"github.com/banshee-data/camera.capture/internal/monitoring"
	"github.com/banshee-data/camera.capture/internal/motion"
	"github.com/banshee-data/camera.capture/internal/orientation"
	"github.com/banshee-data/camera.capture/internal/timeutil"
)

// DeviceCapabilities are the bounds reported by (or configured for) the
// camera device being driven.
type DeviceCapabilities struct {
	MinZoom             float64 `json:"min_zoom"`
	MaxZoom             float64 `json:"max_zoom"`
	MinExposureDuration float64 `json:"min_exposure_duration"` // seconds
	MaxExposureDuration float64 `json:"max_exposure_duration"` // seconds
	MinISO              float64 `json:"min_iso"`
	MaxISO              float64 `json:"max_iso"`
}

// CapabilitiesFromConfig assembles device capabilities from the tuning file.
func CapabilitiesFromConfig(cfg *config.TuningConfig) DeviceCapabilities {
	return DeviceCapabilities{
		MinZoom:             cfg.GetMinZoom(),
		MaxZoom:             cfg.GetMaxZoom(),
		MinExposureDuration: cfg.GetMinExposureDuration(),
		MaxExposureDuration: cfg.GetMaxExposureDuration(),
		MinISO:              cfg.GetMinISO(),
		MaxISO:              cfg.GetMaxISO(),
	}
}

// Journal receives the values the coordinator computes. *db.DB satisfies it;
// tests may substitute a recorder. A nil Journal disables journaling.
type Journal interface {
	RecordSessionStart(sessionID string, startedAt time.Time) error
	RecordSessionStop(sessionID string, stoppedAt time.Time) error
	RecordOrientationEvent(sessionID, device, video string, observedAt time.Time) error
	RecordCaptureSetting(sessionID, kind string, value float64, appliedAt time.Time) error
}

// Setting kinds mirrored from the journal schema. Declared here too so the
// coordinator does not depend on the db package.
const (
	settingZoom             = "zoom"
	settingExposureValue    = "exposure_value"
	settingExposureDuration = "exposure_duration"
)

// Status is a point-in-time snapshot of the coordinator's state.
type Status struct {
	SessionID            string                           `json:"session_id"`
	UptimeSeconds        float64                          `json:"uptime_seconds"`
	DeviceOrientation    orientation.DeviceOrientation    `json:"device_orientation"`
	VideoOrientation     orientation.VideoOrientation     `json:"video_orientation"`
	InterfaceOrientation orientation.InterfaceOrientation `json:"interface_orientation"`
	Zoom                 gesture.ZoomState                `json:"zoom"`
	Exposure             gesture.ExposureState            `json:"exposure"`
	Capabilities         DeviceCapabilities               `json:"capabilities"`
	SamplesObserved      int64                            `json:"samples_observed"`
	OrientationChanges   int64                            `json:"orientation_changes"`
}

// Coordinator wires the motion stream into the orientation resolver and
// applies gesture deltas to the zoom/exposure state for one device.
type Coordinator struct {
	mu sync.Mutex

	caps     DeviceCapabilities
	mapper   *gesture.Mapper
	resolver *orientation.Resolver

	zoom     gesture.ZoomState
	exposure gesture.ExposureState
	iface    orientation.InterfaceOrientation

	sessionID string
	startedAt time.Time
	clock     timeutil.Clock
	journal   Journal

	samplesObserved    int64
	orientationChanges int64

	// ring of recent samples for calibration reads
	recent    []orientation.Sample
	recentLen int
	recentIdx int
}

// Options configures a Coordinator.
type Options struct {
	Capabilities      DeviceCapabilities
	Mapper            *gesture.Mapper
	Journal           Journal
	Clock             timeutil.Clock
	CalibrationWindow int
}

// NewCoordinator creates a Coordinator for one device. The zoom state starts
// at the device minimum and exposure at neutral.
func NewCoordinator(opts Options) *Coordinator {
	mapper := opts.Mapper
	if mapper == nil {
		mapper = gesture.NewMapper(gesture.MapperOptions{})
	}
	clock := opts.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	window := opts.CalibrationWindow
	if window <= 0 {
		window = 64
	}

	return &Coordinator{
		caps:      opts.Capabilities,
		mapper:    mapper,
		resolver:  orientation.NewResolver(),
		zoom:      gesture.NewZoomState(opts.Capabilities.MinZoom, opts.Capabilities.MaxZoom),
		exposure:  gesture.NewExposureState(),
		iface:     orientation.InterfacePortrait,
		sessionID: uuid.NewString(),
		clock:     clock,
		journal:   opts.Journal,
		recent:    make([]orientation.Sample, window),
	}
}

// SessionID returns the unique ID assigned to this coordinator's run.
func (c *Coordinator) SessionID() string {
	return c.sessionID
}

// Run consumes samples from the mux until the context is cancelled. The
// resolver observes every sample on this goroutine, so orientation change
// journaling never runs on the mux's sampling goroutine.
func (c *Coordinator) Run(ctx context.Context, mux motion.SampleMuxInterface) error {
	c.mu.Lock()
	c.startedAt = c.clock.Now()
	c.mu.Unlock()

	c.resolver.Start(c.orientationChanged)
	defer c.resolver.Stop()

	if c.journal != nil {
		if err := c.journal.RecordSessionStart(c.sessionID, c.startedAt); err != nil {
			monitoring.Logf("failed to record session start: %v", err)
		}
	}
	defer func() {
		if c.journal != nil {
			if err := c.journal.RecordSessionStop(c.sessionID, c.clock.Now()); err != nil {
				monitoring.Logf("failed to record session stop: %v", err)
			}
		}
	}()

	id, samples := mux.Subscribe()
	defer mux.Unsubscribe(id)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s, ok := <-samples:
			if !ok {
				return nil
			}
			c.observe(s)
		}
	}
}

func (c *Coordinator) observe(s orientation.Sample) {
	c.mu.Lock()
	c.samplesObserved++
	c.recent[c.recentIdx] = s
	c.recentIdx = (c.recentIdx + 1) % len(c.recent)
	if c.recentLen < len(c.recent) {
		c.recentLen++
	}
	c.mu.Unlock()

	c.resolver.Observe(s)
}

// orientationChanged journals each transition with the video orientation it
// resolves to under the current interface hint.
func (c *Coordinator) orientationChanged(device orientation.DeviceOrientation) {
	c.mu.Lock()
	c.orientationChanges++
	iface := c.iface
	c.mu.Unlock()

	video := orientation.VideoOrientationFor(device, iface)
	if c.journal != nil {
		if err := c.journal.RecordOrientationEvent(c.sessionID, string(device), string(video), c.clock.Now()); err != nil {
			monitoring.Logf("failed to record orientation event: %v", err)
		}
	}
}

// SetInterfaceOrientation updates the UI rotation hint used as the video
// orientation fallback.
func (c *Coordinator) SetInterfaceOrientation(o orientation.InterfaceOrientation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.iface = o
}

// DeviceOrientation returns the last known device orientation.
func (c *Coordinator) DeviceOrientation() orientation.DeviceOrientation {
	return c.resolver.Current()
}

// VideoOrientation returns the video orientation for the current device
// orientation and interface hint.
func (c *Coordinator) VideoOrientation() orientation.VideoOrientation {
	c.mu.Lock()
	iface := c.iface
	c.mu.Unlock()
	return c.resolver.VideoOrientation(iface)
}

// BeginPinch snapshots the current zoom as the baseline for a new pinch
// gesture.
func (c *Coordinator) BeginPinch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.zoom = c.mapper.BeginPinch(c.zoom)
}

// ApplyPinch maps a pinch scale onto the device zoom factor and returns the
// new value.
func (c *Coordinator) ApplyPinch(scale float64) float64 {
	c.mu.Lock()
	c.zoom = c.mapper.ApplyPinch(c.zoom, scale)
	value := c.zoom.CurrentZoom
	c.mu.Unlock()

	c.journalSetting(settingZoom, value)
	return value
}

// ApplyPan maps a vertical pan delta onto the exposure value and returns the
// new value. The accumulator commits when gestureEnded is true.
func (c *Coordinator) ApplyPan(deltaY float64, gestureEnded bool) float64 {
	c.mu.Lock()
	c.exposure = c.mapper.ApplyPanTranslation(c.exposure, deltaY, gestureEnded)
	value := c.exposure.Value
	c.mu.Unlock()

	if gestureEnded {
		c.journalSetting(settingExposureValue, value)
	}
	return value
}

// FocusChanged resets the exposure baseline for a new tap-to-focus target
// and returns the neutral exposure value.
func (c *Coordinator) FocusChanged() float64 {
	c.mu.Lock()
	c.exposure = c.mapper.ResetFocus(c.exposure)
	value := c.exposure.Value
	c.mu.Unlock()

	c.journalSetting(settingExposureValue, value)
	return value
}

// ExposureDuration evaluates the duration curve for a slider value against
// the device bounds and returns the duration in seconds.
func (c *Coordinator) ExposureDuration(sliderValue float64) float64 {
	c.mu.Lock()
	minDur, maxDur := c.caps.MinExposureDuration, c.caps.MaxExposureDuration
	c.mu.Unlock()

	d := c.mapper.ExposureDuration(sliderValue, minDur, maxDur)
	c.journalSetting(settingExposureDuration, d)
	return d
}

func (c *Coordinator) journalSetting(kind string, value float64) {
	if c.journal == nil {
		return
	}
	if err := c.journal.RecordCaptureSetting(c.sessionID, kind, value, c.clock.Now()); err != nil {
		monitoring.Logf("failed to record %s setting: %v", kind, err)
	}
}

// Calibration computes bias/noise statistics over the recent sample window.
func (c *Coordinator) Calibration() motion.Calibration {
	c.mu.Lock()
	window := make([]orientation.Sample, c.recentLen)
	copy(window, c.recent[:c.recentLen])
	c.mu.Unlock()

	return motion.Calibrate(window)
}

// Status snapshots the coordinator state for the API layer.
func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	var uptime float64
	if !c.startedAt.IsZero() {
		uptime = c.clock.Since(c.startedAt).Seconds()
	}

	device := c.resolver.Current()
	return Status{
		SessionID:            c.sessionID,
		UptimeSeconds:        uptime,
		DeviceOrientation:    device,
		VideoOrientation:     orientation.VideoOrientationFor(device, c.iface),
		InterfaceOrientation: c.iface,
		Zoom:                 c.zoom,
		Exposure:             c.exposure,
		Capabilities:         c.caps,
		SamplesObserved:      c.samplesObserved,
		OrientationChanges:   c.orientationChanges,
	}
}
