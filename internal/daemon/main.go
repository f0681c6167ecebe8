// Package daemon wires storage, authorization and the web service together.
package daemon

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/complyhub/complyhub/internal/authz"
	"github.com/complyhub/complyhub/internal/bootstrap"
	"github.com/complyhub/complyhub/internal/config"
	"github.com/complyhub/complyhub/internal/db"
	"github.com/complyhub/complyhub/internal/token"
	"github.com/complyhub/complyhub/internal/web"
	"github.com/complyhub/complyhub/internal/web/handler"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	cache      *authz.Cache
	webService *web.Service
}

// Start serves until SIGINT or SIGTERM and releases every resource afterwards.
func (d *Daemon) Start() error {
	addr := fmt.Sprintf(":%d", d.cfg.Webserver.Port)

	go func() {
		log.Info().Str("addr", addr).Msg("starting http server")

		if err := d.webService.Start(addr); err != nil {
			log.Error().Err(err).Msg("http server")
		}
	}()

	d.webService.WaitShutdown()

	return d.Close()
}

// Close releases the cache storage and the database connections.
func (d *Daemon) Close() error {
	if d.cache != nil {
		if err := d.cache.Close(); err != nil {
			log.Error().Err(err).Msg("close privilege cache")
		}
	}

	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// Web returns the web service.
func (d *Daemon) Web() *web.Service {
	return d.webService
}

// OpenDB connects to the configured database and migrates its schema.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	conn, err := db.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err = db.Migrate(conn); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return conn, nil
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, config.ErrConfigNil
	}

	conn, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}

	return NewWithDB(cfg, conn)
}

// NewWithDB seeds an opened, migrated database and builds the web service on top of it.
func NewWithDB(cfg *config.Config, conn *gorm.DB) (*Daemon, error) {
	if err := bootstrap.Seed(conn, &cfg.Bootstrap); err != nil {
		return nil, fmt.Errorf("seed database: %w", err)
	}

	secret, err := bootstrap.TokenSecret(conn, &cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("token secret: %w", err)
	}

	issuer, err := token.New(secret, cfg.Token.Issuer, cfg.Token.TTL)
	if err != nil {
		return nil, err
	}

	d := &Daemon{cfg: cfg, db: conn}

	var opts []authz.Option

	if cfg.Authz.CacheTTL > 0 {
		storage, err := authz.NewStorage(cfg)
		if err != nil {
			return nil, fmt.Errorf("privilege cache storage: %w", err)
		}

		d.cache = authz.NewCache(storage, cfg.Authz.CacheTTL)
		if err = d.cache.RegisterCallbacks(conn); err != nil {
			return nil, fmt.Errorf("privilege cache callbacks: %w", err)
		}

		opts = append(opts, authz.WithCache(d.cache))

		log.Info().Str("backend", cfg.Authz.CacheBackend).Dur("ttl", cfg.Authz.CacheTTL).
			Msg("privilege cache enabled")
	}

	d.webService = web.New(&handler.Env{
		Cfg:      cfg,
		DB:       conn,
		Resolver: authz.New(authz.NewGormStore(conn), opts...),
		Issuer:   issuer,
	})

	return d, nil
}
