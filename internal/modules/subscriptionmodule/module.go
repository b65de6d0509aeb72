// Package subscriptionmodule owns subscription records and the checkout
// handoff that funds them.
package subscriptionmodule

import (
	"sync"

	"gorm.io/gorm"

	"github.com/ottworks/streamserve/internal/database"
	"github.com/ottworks/streamserve/internal/modules/modulemanager"
)

var (
	store   *Store
	storeMu sync.RWMutex
)

// Module wires subscriptions into the module system
type Module struct {
	id   string
	name string
	core bool
}

func init() {
	modulemanager.Register(&Module{
		id:   "system.subscription",
		name: "Subscriptions",
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

// Migrate creates the subscription schema
func (m *Module) Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&database.Subscription{})
}

// Init creates the subscription store
func (m *Module) Init() error {
	storeMu.Lock()
	defer storeMu.Unlock()
	store = NewStore(database.GetDB())
	return nil
}

// GetStore returns the subscription store, nil before module initialization
func GetStore() *Store {
	storeMu.RLock()
	defer storeMu.RUnlock()
	return store
}
