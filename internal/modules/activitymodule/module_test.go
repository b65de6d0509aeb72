package activitymodule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ottworks/streamserve/internal/database"
	"github.com/ottworks/streamserve/internal/events"
)

func setPackageLog(t *testing.T, log *Log) {
	t.Helper()
	logMu.Lock()
	prev := activityLog
	activityLog = log
	logMu.Unlock()
	t.Cleanup(func() {
		logMu.Lock()
		activityLog = prev
		logMu.Unlock()
	})
}

func TestRecordAuthEvent(t *testing.T) {
	db := newTestDB(t)
	setPackageLog(t, NewLog(db))

	ev := events.NewEvent(events.EventUserLoggedIn, "user:3", "User Logged In", "asha")
	ev.Timestamp = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	ev.Data = map[string]interface{}{
		"user_id":    uint(3),
		"ip_address": "10.0.0.9",
		"user_agent": "test-agent",
	}

	recordAuthEvent(ev)

	var rec database.UserActivity
	require.NoError(t, db.First(&rec).Error)
	assert.Equal(t, uint(3), rec.UserID)
	assert.Equal(t, database.ActivityLogin, rec.ActivityType)
	assert.Equal(t, "User logged in", rec.Description)
	assert.Equal(t, "10.0.0.9", rec.IPAddress)
	assert.Equal(t, "test-agent", rec.UserAgent)
	assert.Equal(t, ev.ID, rec.EventID)
}

func TestRecordAuthEventRegistration(t *testing.T) {
	db := newTestDB(t)
	setPackageLog(t, NewLog(db))

	ev := events.NewEvent(events.EventUserCreated, "user:4", "User Created", "noor")
	ev.Data = map[string]interface{}{"user_id": uint(4)}

	recordAuthEvent(ev)

	var rec database.UserActivity
	require.NoError(t, db.First(&rec).Error)
	assert.Equal(t, database.ActivityProfileUpdate, rec.ActivityType)
}

func TestRecordAuthEventIgnoresMalformedData(t *testing.T) {
	db := newTestDB(t)
	setPackageLog(t, NewLog(db))

	ev := events.NewEvent(events.EventUserLoggedIn, "user:?", "User Logged In", "")
	ev.Data = map[string]interface{}{"user_id": "not-a-uint"}

	recordAuthEvent(ev)

	var count int64
	db.Model(&database.UserActivity{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
