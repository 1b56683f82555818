// Package api serves the HTTP surface for one capture device: orientation
// and session reads, gesture writes, and journal queries.
package api

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/banshee-data/camera.capture/internal/capture"
	"github.com/banshee-data/camera.capture/internal/db"
	"github.com/banshee-data/camera.capture/internal/httputil"
	"github.com/banshee-data/camera.capture/internal/motion"
	"github.com/banshee-data/camera.capture/internal/orientation"
	"github.com/banshee-data/camera.capture/internal/version"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

type Server struct {
	c  *capture.Coordinator
	m  motion.SampleMuxInterface
	db *db.DB
}

func NewServer(c *capture.Coordinator, m motion.SampleMuxInterface, database *db.DB) *Server {
	return &Server{
		c:  c,
		m:  m,
		db: database,
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/orientation", s.showOrientation)
	mux.HandleFunc("/api/session", s.showSession)
	mux.HandleFunc("/api/gesture/pinch", s.applyPinch)
	mux.HandleFunc("/api/gesture/pan", s.applyPan)
	mux.HandleFunc("/api/gesture/focus", s.applyFocus)
	mux.HandleFunc("/api/exposure/duration", s.showExposureDuration)
	mux.HandleFunc("/api/calibration", s.showCalibration)
	mux.HandleFunc("/api/motion", s.showMotionHealth)
	mux.HandleFunc("/api/version", s.showVersion)
	mux.HandleFunc("/api/events", s.listOrientationEvents)
	mux.HandleFunc("/api/settings", s.listCaptureSettings)
	return mux
}

// showOrientation reports the current device and video orientation. An
// optional interface query parameter updates the UI rotation hint first.
func (s *Server) showOrientation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	if hint := r.URL.Query().Get("interface"); hint != "" {
		iface, ok := orientation.ParseInterfaceOrientation(hint)
		if !ok {
			httputil.BadRequest(w, "invalid interface orientation: "+hint)
			return
		}
		s.c.SetInterfaceOrientation(iface)
	}

	httputil.WriteJSONOK(w, map[string]interface{}{
		"device_orientation": s.c.DeviceOrientation(),
		"video_orientation":  s.c.VideoOrientation(),
	})
}

func (s *Server) showSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, s.c.Status())
}

type pinchRequest struct {
	Phase string  `json:"phase"`
	Scale float64 `json:"scale"`
}

// applyPinch maps one pinch gesture event onto the zoom factor. A began
// phase snapshots the baseline; a changed phase applies the scale.
func (s *Server) applyPinch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	var req pinchRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	switch req.Phase {
	case "began":
		s.c.BeginPinch()
		httputil.WriteJSONOK(w, map[string]float64{"zoom": s.c.Status().Zoom.CurrentZoom})
	case "changed", "ended":
		zoom := s.c.ApplyPinch(req.Scale)
		httputil.WriteJSONOK(w, map[string]float64{"zoom": zoom})
	default:
		httputil.BadRequest(w, "invalid pinch phase: "+req.Phase)
	}
}

type panRequest struct {
	DeltaY float64 `json:"delta_y"`
	Ended  bool    `json:"ended"`
}

func (s *Server) applyPan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	var req panRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	value := s.c.ApplyPan(req.DeltaY, req.Ended)
	httputil.WriteJSONOK(w, map[string]float64{"exposure_value": value})
}

func (s *Server) applyFocus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}
	value := s.c.FocusChanged()
	httputil.WriteJSONOK(w, map[string]float64{"exposure_value": value})
}

// showExposureDuration evaluates the duration curve for a slider value.
func (s *Server) showExposureDuration(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	raw := r.URL.Query().Get("value")
	if raw == "" {
		httputil.BadRequest(w, "missing value parameter")
		return
	}
	slider, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		httputil.BadRequest(w, "invalid value parameter: "+raw)
		return
	}

	httputil.WriteJSONOK(w, map[string]float64{
		"slider_value":     slider,
		"duration_seconds": s.c.ExposureDuration(slider),
	})
}

func (s *Server) showCalibration(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, s.c.Calibration())
}

func (s *Server) showVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, version.Get())
}

// showMotionHealth reports sample stream counters for the device.
func (s *Server) showMotionHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	status := s.c.Status()
	httputil.WriteJSONOK(w, map[string]int64{
		"samples_observed":    status.SamplesObserved,
		"orientation_changes": status.OrientationChanges,
		"bad_lines":           s.m.BadLines(),
	})
}

// parseLimit reads an optional limit query parameter, 0 meaning default.
func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func (s *Server) listOrientationEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	if s.db == nil {
		httputil.NotFound(w, "journal not enabled")
		return
	}

	limit, err := parseLimit(r)
	if err != nil {
		httputil.BadRequest(w, "invalid limit parameter")
		return
	}

	events, err := s.db.OrientationEvents(s.c.SessionID(), limit)
	if err != nil {
		log.Printf("failed to list orientation events: %v", err)
		httputil.InternalServerError(w, "failed to list orientation events")
		return
	}
	httputil.WriteJSONOK(w, events)
}

func (s *Server) listCaptureSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	if s.db == nil {
		httputil.NotFound(w, "journal not enabled")
		return
	}

	limit, err := parseLimit(r)
	if err != nil {
		httputil.BadRequest(w, "invalid limit parameter")
		return
	}

	settings, err := s.db.CaptureSettings(s.c.SessionID(), limit)
	if err != nil {
		log.Printf("failed to list capture settings: %v", err)
		httputil.InternalServerError(w, "failed to list capture settings")
		return
	}
	httputil.WriteJSONOK(w, settings)
}
