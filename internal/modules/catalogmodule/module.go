// Package catalogmodule owns the movie catalog: browsing, search, ratings,
// and watchlists.
package catalogmodule

import (
	"sync"

	"gorm.io/gorm"

	"github.com/ottworks/streamserve/internal/database"
	"github.com/ottworks/streamserve/internal/modules/modulemanager"
)

var (
	manager   *Manager
	managerMu sync.RWMutex
)

// Module wires the catalog into the module system
type Module struct {
	id   string
	name string
	core bool
}

func init() {
	modulemanager.Register(&Module{
		id:   "system.catalog",
		name: "Movie Catalog",
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

// Migrate creates the catalog schema
func (m *Module) Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&database.Genre{},
		&database.Movie{},
		&database.Watchlist{},
		&database.MovieRating{},
	)
}

// Init creates the catalog manager
func (m *Module) Init() error {
	managerMu.Lock()
	defer managerMu.Unlock()
	manager = NewManager(database.GetDB())
	return nil
}

// GetManager returns the catalog manager, nil before module initialization
func GetManager() *Manager {
	managerMu.RLock()
	defer managerMu.RUnlock()
	return manager
}
