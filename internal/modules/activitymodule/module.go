// Package activitymodule records user activity and keeps the movie view
// counters.
package activitymodule

import (
	"sync"

	"gorm.io/gorm"

	"github.com/ottworks/streamserve/internal/database"
	"github.com/ottworks/streamserve/internal/events"
	"github.com/ottworks/streamserve/internal/logger"
	"github.com/ottworks/streamserve/internal/modules/modulemanager"
)

var (
	activityLog *Log
	logMu       sync.RWMutex
)

// Module wires the activity log into the module system
type Module struct {
	id   string
	name string
	core bool
}

func init() {
	modulemanager.Register(&Module{
		id:   "system.activity",
		name: "Activity Log",
		core: true,
	})
}

// ID returns the module ID
func (m *Module) ID() string {
	return m.id
}

// Name returns the module name
func (m *Module) Name() string {
	return m.name
}

// Core returns whether this is a core module
func (m *Module) Core() bool {
	return m.core
}

// Migrate creates the activity schema
func (m *Module) Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&database.UserActivity{})
}

// Init creates the activity log and hooks it into the auth lifecycle events
func (m *Module) Init() error {
	logMu.Lock()
	activityLog = NewLog(database.GetDB())
	logMu.Unlock()

	if bus := events.GetGlobalEventBus(); bus != nil {
		bus.Subscribe(recordAuthEvent, events.EventUserCreated, events.EventUserLoggedIn)
	}
	return nil
}

// recordAuthEvent turns a user lifecycle event into an activity record
func recordAuthEvent(ev events.Event) {
	log := GetLog()
	if log == nil {
		return
	}

	userID, ok := ev.Data["user_id"].(uint)
	if !ok {
		return
	}
	ip, _ := ev.Data["ip_address"].(string)
	agent, _ := ev.Data["user_agent"].(string)

	rec := database.UserActivity{
		EventID:   ev.ID,
		UserID:    userID,
		IPAddress: ip,
		UserAgent: agent,
		CreatedAt: ev.Timestamp,
	}
	switch ev.Type {
	case events.EventUserCreated:
		rec.ActivityType = database.ActivityProfileUpdate
		rec.Description = "User account created"
	case events.EventUserLoggedIn:
		rec.ActivityType = database.ActivityLogin
		rec.Description = "User logged in"
	default:
		return
	}

	if err := log.Append(rec); err != nil {
		logger.Warn("failed to record %s activity for user %d: %v", rec.ActivityType, userID, err)
	}
}

// GetLog returns the activity log, nil before module initialization
func GetLog() *Log {
	logMu.RLock()
	defer logMu.RUnlock()
	return activityLog
}
