package streammodule

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/ottworks/streamserve/internal/config"
	"github.com/ottworks/streamserve/internal/database"
	"github.com/ottworks/streamserve/internal/modules/activitymodule"
	"github.com/ottworks/streamserve/internal/modules/catalogmodule"
	"github.com/ottworks/streamserve/internal/modules/modulemanager"
	"github.com/ottworks/streamserve/internal/modules/subscriptionmodule"
)

// Module wires the streaming responder into the module system
type Module struct {
	id          string
	name        string
	core        bool
	initialized bool
	responder   *Responder
}

// Auto-register the module when imported
func init() {
	modulemanager.Register(&Module{
		id:   "system.stream",
		name: "Video Streaming",
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

// Migrate performs any pending migrations. The streaming core owns no
// tables; catalog and activity schemas belong to their modules.
func (m *Module) Migrate(db *gorm.DB) error {
	return nil
}

// Init builds the responder against the catalog, subscription, and activity
// modules
func (m *Module) Init() error {
	cfg := config.Get()

	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "streamserve",
		Level: hclog.Info,
	})

	m.responder = NewResponder(
		logger,
		&catalogAdapter{mediaDir: cfg.Streaming.MediaDir},
		&subscriptionAdapter{},
		&activityAdapter{},
		DiskStorage{},
		cfg.Streaming.ChunkSize,
	)

	m.initialized = true
	return nil
}

// catalogAdapter resolves assets through the catalog module. Managers are
// fetched per call: module init order is not guaranteed.
type catalogAdapter struct {
	mediaDir string
}

func (a *catalogAdapter) LookupAsset(id uint) (*Asset, error) {
	mgr := catalogmodule.GetManager()
	if mgr == nil {
		return nil, fmt.Errorf("catalog module not initialized")
	}

	movie, err := mgr.GetMovie(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, err
	}

	path := movie.VideoPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(a.mediaDir, path)
	}

	return &Asset{ID: movie.ID, Title: movie.Title, Path: path}, nil
}

type subscriptionAdapter struct{}

func (a *subscriptionAdapter) GetSubscription(userID uint) (*Subscription, error) {
	store := subscriptionmodule.GetStore()
	if store == nil {
		return nil, fmt.Errorf("subscription module not initialized")
	}

	sub, err := store.GetForUser(userID)
	if err != nil || sub == nil {
		return nil, err
	}

	return &Subscription{
		Plan:        sub.Plan,
		Status:      sub.Status,
		ActiveUntil: sub.EndDate,
	}, nil
}

type activityAdapter struct{}

func (a *activityAdapter) AppendView(rec ActivityRecord) error {
	log := activitymodule.GetLog()
	if log == nil {
		return fmt.Errorf("activity module not initialized")
	}

	assetID := rec.AssetID
	return log.Append(database.UserActivity{
		EventID:      rec.EventID,
		UserID:       rec.UserID,
		ActivityType: database.ActivityMovieView,
		Description:  fmt.Sprintf("Viewed movie: %s", rec.Title),
		MovieID:      &assetID,
		IPAddress:    rec.IPAddress,
		UserAgent:    rec.UserAgent,
		CreatedAt:    rec.Timestamp,
	})
}

func (a *activityAdapter) IncrementViewCount(assetID uint) error {
	log := activitymodule.GetLog()
	if log == nil {
		return fmt.Errorf("activity module not initialized")
	}
	return log.IncrementViewCount(assetID)
}
