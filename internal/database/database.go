package database

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ottworks/streamserve/internal/config"
)

var DB *gorm.DB

// Initialize sets up the database connection from the application config.
// Module schemas are migrated by the module system, not here.
func Initialize() error {
	cfg := config.Get()

	var err error
	switch cfg.Database.Type {
	case "postgres":
		DB, err = connectPostgres(&cfg.Database)
	case "sqlite":
		DB, err = connectSQLite(&cfg.Database)
	default:
		return fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}

	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	return nil
}

func gormConfig(dbCfg *config.DatabaseConfig) *gorm.Config {
	logMode := gormlogger.Warn
	if dbCfg.LogQueries {
		logMode = gormlogger.Info
	}
	return &gorm.Config{
		Logger: gormlogger.Default.LogMode(logMode),
	}
}

func connectPostgres(dbCfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
		dbCfg.Host, dbCfg.Username, dbCfg.Password, dbCfg.Database, dbCfg.Port)

	return gorm.Open(postgres.Open(dsn), gormConfig(dbCfg))
}

func connectSQLite(dbCfg *config.DatabaseConfig) (*gorm.DB, error) {
	if err := os.MkdirAll(dbCfg.DataDir, 0755); err != nil {
		return nil, err
	}

	return gorm.Open(sqlite.Open(dbCfg.DatabasePath), gormConfig(dbCfg))
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// SetDB replaces the database instance (used by tests)
func SetDB(db *gorm.DB) {
	DB = db
}
