// Package db opens the gorm handle for the configured engine and migrates the schema.
package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/complyhub/complyhub/internal/config"
	"github.com/complyhub/complyhub/internal/db/dsn"
	"github.com/complyhub/complyhub/internal/db/models"
	"github.com/complyhub/complyhub/internal/logger/adapter/gormlogger"
)

// ErrDBNil is returned when a nil gorm handle is passed.
var ErrDBNil = errors.New("db is nil")

// Dialector returns the gorm dialector for the configured engine.
func Dialector(dbCfg *config.DB) gorm.Dialector {
	switch dbCfg.GormEngine {
	case config.EnginePostgres:
		return postgres.Open(dsn.Create(dbCfg))
	case config.EngineSQLite:
		return sqlite.Open(dsn.Create(dbCfg))
	default:
		return gormmysql.Open(dsn.Create(dbCfg))
	}
}

// Open connects to the database. Driver errors surface as gorm.ErrDuplicatedKey and friends.
func Open(cfg *config.Config) (*gorm.DB, error) {
	return OpenDialector(Dialector(&cfg.DB), cfg)
}

// OpenDialector connects through an already built dialector, sqlmock tests use it directly.
func OpenDialector(dialector gorm.Dialector, cfg *config.Config) (*gorm.DB, error) {
	gormLogger := gormlogger.New(time.Duration(cfg.Log.SlowQuery)*time.Millisecond, cfg.DB.LogSQL)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	// an in-memory sqlite database exists once per connection.
	if cfg.DB.GormEngine == config.EngineSQLite && (cfg.DB.Path == "" || cfg.DB.Path == dsn.SQLiteMemory) {
		sqlDB, sqlErr := db.DB()
		if sqlErr != nil {
			return nil, fmt.Errorf("failed to get sql handle: %w", sqlErr)
		}

		sqlDB.SetMaxOpenConns(1)
	}

	log.Debug().Str("engine", cfg.DB.GormEngine).Msg("database connected")

	return db, nil
}

// Migrate creates or updates all tables.
func Migrate(db *gorm.DB) error {
	if db == nil {
		return ErrDBNil
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	return nil
}
