package authz

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory/v2"
	"github.com/gofiber/storage/mysql/v2"
	"github.com/gofiber/storage/postgres/v3"

	"github.com/complyhub/complyhub/internal/config"
	"github.com/complyhub/complyhub/internal/db/dsn"
)

// NewStorage builds the fiber storage the privilege cache lives in.
// The mysql and postgres backends share the cache between replicas through the main database.
func NewStorage(cfg *config.Config) (fiber.Storage, error) {
	switch cfg.Authz.CacheBackend {
	case config.CacheBackendMemory, "":
		return memory.New(), nil
	case config.CacheBackendMySQL:
		return mysql.New(mysql.Config{
			ConnectionURI: dsn.Create(&cfg.DB),
			Table:         cfg.Authz.CacheTable,
		}), nil
	case config.CacheBackendPostgres:
		return postgres.New(postgres.Config{
			ConnectionURI: dsn.Create(&cfg.DB),
			Table:         cfg.Authz.CacheTable,
		}), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownCacheBackend, cfg.Authz.CacheBackend)
	}
}
