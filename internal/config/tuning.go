// Package config loads the camera tuning file: capability bounds for the
// device being driven, gesture mapping parameters, and the motion sample
// stream settings.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/banshee-data/camera.capture/internal/motion"
)

// TuningConfig represents the root configuration for camera tuning
// parameters. Fields omitted from the JSON file retain their defaults, so
// partial configs are safe; the Get* accessors supply the fallback values.
type TuningConfig struct {
	// Device capability bounds
	MinZoom             *float64 `json:"min_zoom,omitempty"`
	MaxZoom             *float64 `json:"max_zoom,omitempty"`
	MinExposureDuration *float64 `json:"min_exposure_duration,omitempty"` // seconds
	MaxExposureDuration *float64 `json:"max_exposure_duration,omitempty"` // seconds
	MinISO              *float64 `json:"min_iso,omitempty"`
	MaxISO              *float64 `json:"max_iso,omitempty"`

	// Gesture mapping params
	PanFullScale         *float64 `json:"pan_full_scale,omitempty"` // pixels
	ZoomClampToDeviceMin *bool    `json:"zoom_clamp_to_device_min,omitempty"`

	// Motion stream params
	SampleInterval    *string `json:"sample_interval,omitempty"` // duration string like "20ms"
	CalibrationWindow *int    `json:"calibration_window,omitempty"`

	// Serial port params for the IMU source
	BaudRate *int    `json:"baud_rate,omitempty"`
	DataBits *int    `json:"data_bits,omitempty"`
	StopBits *int    `json:"stop_bits,omitempty"`
	Parity   *string `json:"parity,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The file is
// validated to ensure it has a .json extension and is under the max file
// size.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if c.MinZoom != nil && *c.MinZoom < 1 {
		return fmt.Errorf("min_zoom must be at least 1, got %f", *c.MinZoom)
	}
	if c.MaxZoom != nil && c.MinZoom != nil && *c.MaxZoom < *c.MinZoom {
		return fmt.Errorf("max_zoom %f must not be below min_zoom %f", *c.MaxZoom, *c.MinZoom)
	}

	if c.MinExposureDuration != nil && *c.MinExposureDuration <= 0 {
		return fmt.Errorf("min_exposure_duration must be positive, got %f", *c.MinExposureDuration)
	}
	if c.MaxExposureDuration != nil && c.MinExposureDuration != nil &&
		*c.MaxExposureDuration < *c.MinExposureDuration {
		return fmt.Errorf("max_exposure_duration %f must not be below min_exposure_duration %f",
			*c.MaxExposureDuration, *c.MinExposureDuration)
	}

	if c.MinISO != nil && *c.MinISO <= 0 {
		return fmt.Errorf("min_iso must be positive, got %f", *c.MinISO)
	}
	if c.MaxISO != nil && c.MinISO != nil && *c.MaxISO < *c.MinISO {
		return fmt.Errorf("max_iso %f must not be below min_iso %f", *c.MaxISO, *c.MinISO)
	}

	if c.PanFullScale != nil && *c.PanFullScale <= 0 {
		return fmt.Errorf("pan_full_scale must be positive, got %f", *c.PanFullScale)
	}

	if c.SampleInterval != nil && *c.SampleInterval != "" {
		if _, err := time.ParseDuration(*c.SampleInterval); err != nil {
			return fmt.Errorf("invalid sample_interval '%s': %w", *c.SampleInterval, err)
		}
	}

	if c.CalibrationWindow != nil && *c.CalibrationWindow < 0 {
		return fmt.Errorf("calibration_window must be non-negative, got %d", *c.CalibrationWindow)
	}

	if _, err := c.GetPortOptions().Normalize(); err != nil {
		return err
	}

	return nil
}

// GetMinZoom returns the min_zoom value or the default.
func (c *TuningConfig) GetMinZoom() float64 {
	if c.MinZoom == nil {
		return 1.0
	}
	return *c.MinZoom
}

// GetMaxZoom returns the max_zoom value or the default.
func (c *TuningConfig) GetMaxZoom() float64 {
	if c.MaxZoom == nil {
		return 5.0
	}
	return *c.MaxZoom
}

// GetMinExposureDuration returns the min_exposure_duration value or the default.
func (c *TuningConfig) GetMinExposureDuration() float64 {
	if c.MinExposureDuration == nil {
		return 1.0 / 2000.0
	}
	return *c.MinExposureDuration
}

// GetMaxExposureDuration returns the max_exposure_duration value or the default.
func (c *TuningConfig) GetMaxExposureDuration() float64 {
	if c.MaxExposureDuration == nil {
		return 0.5
	}
	return *c.MaxExposureDuration
}

// GetMinISO returns the min_iso value or the default.
func (c *TuningConfig) GetMinISO() float64 {
	if c.MinISO == nil {
		return 50
	}
	return *c.MinISO
}

// GetMaxISO returns the max_iso value or the default.
func (c *TuningConfig) GetMaxISO() float64 {
	if c.MaxISO == nil {
		return 3200
	}
	return *c.MaxISO
}

// GetPanFullScale returns the pan_full_scale value or the default.
func (c *TuningConfig) GetPanFullScale() float64 {
	if c.PanFullScale == nil {
		return 400
	}
	return *c.PanFullScale
}

// GetZoomClampToDeviceMin returns the zoom_clamp_to_device_min value or the
// default (false: zoom clamps at the hard 1x floor).
func (c *TuningConfig) GetZoomClampToDeviceMin() bool {
	if c.ZoomClampToDeviceMin == nil {
		return false
	}
	return *c.ZoomClampToDeviceMin
}

// GetSampleInterval parses and returns the SampleInterval as a time.Duration.
func (c *TuningConfig) GetSampleInterval() time.Duration {
	if c.SampleInterval == nil || *c.SampleInterval == "" {
		return 20 * time.Millisecond // default
	}
	d, err := time.ParseDuration(*c.SampleInterval)
	if err != nil {
		return 20 * time.Millisecond // default on parse error
	}
	return d
}

// GetCalibrationWindow returns the calibration_window value or the default.
func (c *TuningConfig) GetCalibrationWindow() int {
	if c.CalibrationWindow == nil {
		return 64
	}
	return *c.CalibrationWindow
}

// GetPortOptions assembles the serial port options for the IMU source.
// Unset fields stay zero; motion.PortOptions.Normalize applies the defaults.
func (c *TuningConfig) GetPortOptions() motion.PortOptions {
	opts := motion.PortOptions{}
	if c.BaudRate != nil {
		opts.BaudRate = *c.BaudRate
	}
	if c.DataBits != nil {
		opts.DataBits = *c.DataBits
	}
	if c.StopBits != nil {
		opts.StopBits = *c.StopBits
	}
	if c.Parity != nil {
		opts.Parity = *c.Parity
	}
	return opts
}
