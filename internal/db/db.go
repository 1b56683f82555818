// Package db persists the capture journal: sessions, orientation
// transitions, and the zoom/exposure values computed for each gesture.
package db

import (
	"compress/gzip"
	"database/sql"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/tailscale/tailsql/server/tailsql"
	_ "modernc.org/sqlite"
	"tailscale.com/tsweb"
)

type DB struct {
	*sql.DB
}

// NewDB opens (creating if needed) the capture journal at path and ensures
// the bootstrap schema exists.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			session_id        TEXT PRIMARY KEY,
			started_at        TIMESTAMP,
			stopped_at        TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS orientation_events (
			session_id        TEXT,
			device            TEXT,
			video             TEXT,
			observed_at       TIMESTAMP,
			FOREIGN KEY(session_id) REFERENCES sessions(session_id)
		);
		CREATE TABLE IF NOT EXISTS capture_settings (
			session_id        TEXT,
			kind              TEXT,
			value             DOUBLE,
			applied_at        TIMESTAMP,
			FOREIGN KEY(session_id) REFERENCES sessions(session_id)
		);
	`)
	if err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// Setting kinds journaled in capture_settings.
const (
	SettingZoom             = "zoom"
	SettingExposureValue    = "exposure_value"
	SettingExposureDuration = "exposure_duration"
)

// RecordSessionStart inserts a new capture session row.
func (db *DB) RecordSessionStart(sessionID string, startedAt time.Time) error {
	_, err := db.Exec(
		"INSERT INTO sessions (session_id, started_at) VALUES (?, ?)",
		sessionID, startedAt,
	)
	return err
}

// RecordSessionStop stamps the session's stop time.
func (db *DB) RecordSessionStop(sessionID string, stoppedAt time.Time) error {
	_, err := db.Exec(
		"UPDATE sessions SET stopped_at = ? WHERE session_id = ?",
		stoppedAt, sessionID,
	)
	return err
}

// RecordOrientationEvent journals one device-orientation transition and the
// video orientation it resolves to.
func (db *DB) RecordOrientationEvent(sessionID, device, video string, observedAt time.Time) error {
	_, err := db.Exec(
		"INSERT INTO orientation_events (session_id, device, video, observed_at) VALUES (?, ?, ?, ?)",
		sessionID, device, video, observedAt,
	)
	return err
}

// RecordCaptureSetting journals a computed zoom or exposure value.
func (db *DB) RecordCaptureSetting(sessionID, kind string, value float64, appliedAt time.Time) error {
	_, err := db.Exec(
		"INSERT INTO capture_settings (session_id, kind, value, applied_at) VALUES (?, ?, ?, ?)",
		sessionID, kind, value, appliedAt,
	)
	return err
}

// OrientationEvent is one journaled orientation transition.
type OrientationEvent struct {
	SessionID  string    `json:"session_id"`
	Device     string    `json:"device"`
	Video      string    `json:"video"`
	ObservedAt time.Time `json:"observed_at"`
}

func (e *OrientationEvent) String() string {
	return fmt.Sprintf("Session: %s, Device: %s, Video: %s, ObservedAt: %s",
		e.SessionID, e.Device, e.Video, e.ObservedAt.Format(time.RFC3339))
}

// OrientationEvents returns the most recent orientation transitions for a
// session, newest first.
func (db *DB) OrientationEvents(sessionID string, limit int) ([]OrientationEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.Query(
		`SELECT session_id, device, video, observed_at FROM orientation_events
		 WHERE session_id = ? ORDER BY observed_at DESC LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []OrientationEvent
	for rows.Next() {
		var e OrientationEvent
		if err := rows.Scan(&e.SessionID, &e.Device, &e.Video, &e.ObservedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// CountOrientationEvents returns how many transitions a session journaled.
func (db *DB) CountOrientationEvents(sessionID string) (int64, error) {
	var n int64
	err := db.QueryRow(
		"SELECT COUNT(*) FROM orientation_events WHERE session_id = ?", sessionID,
	).Scan(&n)
	return n, err
}

// CaptureSetting is one journaled zoom/exposure value.
type CaptureSetting struct {
	SessionID string    `json:"session_id"`
	Kind      string    `json:"kind"`
	Value     float64   `json:"value"`
	AppliedAt time.Time `json:"applied_at"`
}

// CaptureSettings returns the most recent journaled settings for a session,
// newest first.
func (db *DB) CaptureSettings(sessionID string, limit int) ([]CaptureSetting, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.Query(
		`SELECT session_id, kind, value, applied_at FROM capture_settings
		 WHERE session_id = ? ORDER BY applied_at DESC LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []CaptureSetting
	for rows.Next() {
		var s CaptureSetting
		if err := rows.Scan(&s.SessionID, &s.Kind, &s.Value, &s.AppliedAt); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return settings, nil
}

// AttachAdminRoutes mounts debug endpoints for live SQL inspection and
// database backup. These routes are only reachable over localhost/Tailscale.
func (db *DB) AttachAdminRoutes(mux *http.ServeMux) {
	debug := tsweb.Debugger(mux)

	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: "/debug/tailsql/",
	})
	if err != nil {
		log.Fatalf("failed to create tailsql server: %v", err)
	}
	tsql.SetDB("sqlite://capture.db", db.DB, &tailsql.DBOptions{
		Label: "Capture journal",
	})
	debug.Handle("tailsql/", "SQL live debugging", tsql.NewMux())

	debug.Handle("backup", "Create and download a backup of the journal now", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backupPath := fmt.Sprintf("backup-%d.db", time.Now().Unix())
		if _, err := db.DB.Exec("VACUUM INTO ?", backupPath); err != nil {
			http.Error(w, fmt.Sprintf("Failed to create backup: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", backupPath))
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Encoding", "gzip")

		backupFile, err := os.Open(backupPath)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to open backup file: %v", err), http.StatusInternalServerError)
			return
		}
		defer func() {
			backupFile.Close()
			if err := os.Remove(backupPath); err != nil {
				log.Printf("Failed to remove backup file: %v", err)
			}
		}()

		gzipWriter := gzip.NewWriter(w)
		defer gzipWriter.Close()
		if _, err := io.Copy(gzipWriter, backupFile); err != nil {
			http.Error(w, fmt.Sprintf("Failed to write backup file: %v", err), http.StatusInternalServerError)
			return
		}
	}))
}
