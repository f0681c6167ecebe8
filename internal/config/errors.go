package config

import (
	"errors"
)

var (
	// ErrConfigNil error if a nil config is passed.
	ErrConfigNil = errors.New("config is nil")

	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnknownGormEngine error if config db.gormEngine is none of mysql, postgres or sqlite.
	ErrUnknownGormEngine = errors.New("toml config db.gormEngine is not supported")

	// ErrUnknownCacheBackend error if config authz.cacheBackend is none of memory, mysql or postgres.
	ErrUnknownCacheBackend = errors.New("toml config authz.cacheBackend is not supported")

	// ErrCacheBackendEngineMismatch error if a shared cache backend differs from db.gormEngine.
	ErrCacheBackendEngineMismatch = errors.New("toml config authz.cacheBackend must be memory or match db.gormEngine")

	// ErrNegativeCacheTTL error if config authz.cacheTTL is below zero.
	ErrNegativeCacheTTL = errors.New("toml config authz.cacheTTL can not be negative")
)
