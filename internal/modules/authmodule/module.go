// Package authmodule provides account registration, login, and the JWT
// bearer-token middleware that attaches the request principal.
package authmodule

import (
	"gorm.io/gorm"

	"github.com/ottworks/streamserve/internal/database"
	"github.com/ottworks/streamserve/internal/modules/modulemanager"
)

// Module wires authentication into the module system
type Module struct {
	id   string
	name string
	core bool
}

func init() {
	modulemanager.Register(&Module{
		id:   "system.auth",
		name: "Authentication",
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

// Migrate creates the user schema
func (m *Module) Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&database.User{})
}

// Init has nothing to set up; handlers read the database lazily
func (m *Module) Init() error {
	return nil
}
