package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "capture.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSessionLifecycle(t *testing.T) {
	db := newTestDB(t)

	started := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, db.RecordSessionStart("s1", started))
	require.NoError(t, db.RecordSessionStop("s1", started.Add(time.Minute)))

	var stoppedAt time.Time
	err := db.QueryRow("SELECT stopped_at FROM sessions WHERE session_id = ?", "s1").Scan(&stoppedAt)
	require.NoError(t, err)
	assert.Equal(t, started.Add(time.Minute).Unix(), stoppedAt.Unix())
}

func TestOrientationEvents(t *testing.T) {
	db := newTestDB(t)
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, db.RecordSessionStart("s1", base))
	require.NoError(t, db.RecordOrientationEvent("s1", "landscapeLeft", "landscapeRight", base.Add(time.Second)))
	require.NoError(t, db.RecordOrientationEvent("s1", "portrait", "portrait", base.Add(2*time.Second)))
	require.NoError(t, db.RecordOrientationEvent("other", "faceUp", "portrait", base.Add(3*time.Second)))

	events, err := db.OrientationEvents("s1", 10)
	require.NoError(t, err)
	require.Len(t, events, 2)

	// newest first
	assert.Equal(t, "portrait", events[0].Device)
	assert.Equal(t, "landscapeLeft", events[1].Device)
	assert.Equal(t, "landscapeRight", events[1].Video)

	n, err := db.CountOrientationEvents("s1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestOrientationEventsLimit(t *testing.T) {
	db := newTestDB(t)
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, db.RecordOrientationEvent("s1", "portrait", "portrait", base.Add(time.Duration(i)*time.Second)))
	}

	events, err := db.OrientationEvents("s1", 3)
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestCaptureSettings(t *testing.T) {
	db := newTestDB(t)
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, db.RecordCaptureSetting("s1", SettingZoom, 2.5, base))
	require.NoError(t, db.RecordCaptureSetting("s1", SettingExposureValue, 0.75, base.Add(time.Second)))

	settings, err := db.CaptureSettings("s1", 10)
	require.NoError(t, err)
	require.Len(t, settings, 2)

	assert.Equal(t, SettingExposureValue, settings[0].Kind)
	assert.Equal(t, 0.75, settings[0].Value)
	assert.Equal(t, SettingZoom, settings[1].Kind)
	assert.Equal(t, 2.5, settings[1].Value)
}

func TestMigrations(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.MigrateUp("migrations"))

	version, dirty, err := db.MigrateVersion("migrations")
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.EqualValues(t, 2, version)

	require.NoError(t, db.MigrateDown("migrations"))
	version, _, err = db.MigrateVersion("migrations")
	require.NoError(t, err)
	assert.EqualValues(t, 1, version)
}
