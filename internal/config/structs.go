package config

import (
	"time"

	"github.com/complyhub/complyhub/internal/logger"
)

const (
	// CacheBackendMemory keeps resolved privilege sets in process memory.
	CacheBackendMemory = "memory"
	// CacheBackendMySQL shares resolved privilege sets between replicas through mysql.
	CacheBackendMySQL = "mysql"
	// CacheBackendPostgres shares resolved privilege sets between replicas through postgres.
	CacheBackendPostgres = "postgres"
)

// Config overall data structure.
type Config struct {
	DevMode   bool       `toml:"devMode"` // enable dev mode for development
	Title     string     `toml:"title"`
	DB        DB         `toml:"db"`
	Log       logger.Log `toml:"log"`
	Webserver Webserver  `toml:"webserver"`
	Token     Token      `toml:"token"`
	Authz     Authz      `toml:"authz"`
	Bootstrap Bootstrap  `toml:"bootstrap"`
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover  bool          `toml:"disableRecover"`  // disable recover middleware
	Port            int           `toml:"port"`            // listening port for the webserver
	ShutDownTime    int           `toml:"shutDownTime"`    // seconds /checkalive reports 503 before shutdown
	URL             string        `toml:"url"`             // base url for the webserver
	LoginRateLimit  int           `toml:"loginRateLimit"`  // login attempts per client ip and window
	LoginRateWindow time.Duration `toml:"loginRateWindow"` // window of LoginRateLimit
}

// Token holds the bearer token settings.
type Token struct {
	// Secret signs HS256 tokens. When empty a generated secret is persisted in the settings table.
	Secret string        `toml:"secret"`
	Issuer string        `toml:"issuer"`
	TTL    time.Duration `toml:"ttl"`
}

// Authz holds the privilege resolution settings.
type Authz struct {
	// CacheTTL bounds how long a resolved privilege set is reused. Zero disables caching.
	CacheTTL     time.Duration `toml:"cacheTTL"`
	CacheBackend string        `toml:"cacheBackend"`
	CacheTable   string        `toml:"cacheTable"`
}

// Bootstrap holds what is seeded at startup.
type Bootstrap struct {
	CompanyID     uint   `toml:"companyID"`
	AdminUsername string `toml:"adminUsername"`
	AdminEmail    string `toml:"adminEmail"`
	AdminPassword string `toml:"adminPassword"` // a random password is generated and logged once when empty
	CatalogPath   string `toml:"catalogPath"`   // system function catalog; the embedded catalog is used when empty
}
