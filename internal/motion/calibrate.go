package motion

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/camera.capture/internal/orientation"
)

// Calibration summarizes the bias and noise of a window of at-rest samples.
// A healthy stationary device shows a mean magnitude near 1 g and small
// per-axis standard deviations.
type Calibration struct {
	Samples int `json:"samples"`

	MeanX float64 `json:"mean_x"`
	MeanY float64 `json:"mean_y"`
	MeanZ float64 `json:"mean_z"`

	StdDevX float64 `json:"stddev_x"`
	StdDevY float64 `json:"stddev_y"`
	StdDevZ float64 `json:"stddev_z"`

	// MeanMagnitude is the mean of |a| across the window, in g.
	MeanMagnitude float64 `json:"mean_magnitude"`
}

// Calibrate computes per-axis mean and sample standard deviation over a
// window of samples. An empty window yields a zero Calibration.
func Calibrate(samples []orientation.Sample) Calibration {
	if len(samples) == 0 {
		return Calibration{}
	}

	xs := make([]float64, len(samples))
	ys := make([]float64, len(samples))
	zs := make([]float64, len(samples))
	mags := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = s.X
		ys[i] = s.Y
		zs[i] = s.Z
		mags[i] = math.Sqrt(s.X*s.X + s.Y*s.Y + s.Z*s.Z)
	}

	c := Calibration{
		Samples:       len(samples),
		MeanX:         stat.Mean(xs, nil),
		MeanY:         stat.Mean(ys, nil),
		MeanZ:         stat.Mean(zs, nil),
		MeanMagnitude: stat.Mean(mags, nil),
	}
	if len(samples) > 1 {
		c.StdDevX = stat.StdDev(xs, nil)
		c.StdDevY = stat.StdDev(ys, nil)
		c.StdDevZ = stat.StdDev(zs, nil)
	}
	return c
}
