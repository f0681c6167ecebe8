package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func etcPath(t *testing.T) string {
	t.Helper()

	// Get the project root by going up from internal/config
	projectRoot, err := filepath.Abs("../../")
	require.NoError(t, err, "failed to get project root")

	return filepath.Join(projectRoot, "etc") + string(filepath.Separator)
}

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(etcPath(t))
	require.NoError(t, err)

	assert.Equal(t, "complyhub", cfg.Title)
	assert.Equal(t, 8080, cfg.Webserver.Port)
	assert.Equal(t, "http://localhost:8080", cfg.Webserver.URL)
	assert.Equal(t, time.Minute, cfg.Webserver.LoginRateWindow)

	assert.Equal(t, EngineMySQL, cfg.DB.GormEngine)
	assert.Equal(t, "127.0.0.1", cfg.DB.Host)
	assert.Equal(t, 3306, cfg.DB.Port)

	assert.Equal(t, "info", cfg.Log.LogLevel)
	assert.True(t, cfg.Log.Console.Enabled)
	assert.Equal(t, "access.log", cfg.Log.File.AccessLog)

	assert.Equal(t, 24*time.Hour, cfg.Token.TTL)
	assert.Equal(t, 30*time.Second, cfg.Authz.CacheTTL)
	assert.Equal(t, CacheBackendMemory, cfg.Authz.CacheBackend)

	assert.Equal(t, uint(1), cfg.Bootstrap.CompanyID)
	assert.Equal(t, "admin", cfg.Bootstrap.AdminUsername)
}

func TestReadConfigMissingFile(t *testing.T) {
	_, err := ReadConfig(t.TempDir())
	require.Error(t, err)
}

func TestConfigValidation(t *testing.T) {
	valid := Webserver{Port: 8080, URL: "http://localhost:8080"}

	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:   "valid config",
			config: Config{Webserver: valid},
		},
		{
			name:    "missing port",
			config:  Config{Webserver: Webserver{URL: "http://localhost:8080"}},
			wantErr: ErrWebServerPortCanNotBeZero,
		},
		{
			name:    "missing URL",
			config:  Config{Webserver: Webserver{Port: 8080}},
			wantErr: ErrEmptyURL,
		},
		{
			name:    "unknown engine",
			config:  Config{Webserver: valid, DB: DB{GormEngine: "oracle"}},
			wantErr: ErrUnknownGormEngine,
		},
		{
			name:    "unknown cache backend",
			config:  Config{Webserver: valid, Authz: Authz{CacheBackend: "redis"}},
			wantErr: ErrUnknownCacheBackend,
		},
		{
			name:    "shared cache on another engine",
			config:  Config{Webserver: valid, DB: DB{GormEngine: EngineSQLite}, Authz: Authz{CacheBackend: CacheBackendPostgres}},
			wantErr: ErrCacheBackendEngineMismatch,
		},
		{
			name:   "shared cache on same engine",
			config: Config{Webserver: valid, DB: DB{GormEngine: EnginePostgres}, Authz: Authz{CacheBackend: CacheBackendPostgres}},
		},
		{
			name:    "negative cache ttl",
			config:  Config{Webserver: valid, Authz: Authz{CacheTTL: -time.Second}},
			wantErr: ErrNegativeCacheTTL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate(&tt.config)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Config{Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"}}
	require.NoError(t, validate(&cfg))

	assert.Equal(t, EngineMySQL, cfg.DB.GormEngine)
	assert.Equal(t, CacheBackendMemory, cfg.Authz.CacheBackend)
	assert.Equal(t, defaultCacheTable, cfg.Authz.CacheTable)
	assert.Equal(t, defaultTokenTTL, cfg.Token.TTL)
	assert.Equal(t, defaultTokenIssuer, cfg.Token.Issuer)
	assert.Equal(t, defaultLoginRateLimit, cfg.Webserver.LoginRateLimit)
	assert.Equal(t, defaultAdminUsername, cfg.Bootstrap.AdminUsername)
	assert.Equal(t, uint(defaultAdminCompanyID), cfg.Bootstrap.CompanyID)
}

func TestReadConfigWithJSONOverride(t *testing.T) {
	t.Setenv(EnvConfigJSON, `{"Title":"Test Override","Webserver":{"Port":9090},"DB":{"GormEngine":"sqlite"}}`)

	cfg, err := ReadConfig(etcPath(t))
	require.NoError(t, err)

	assert.Equal(t, "Test Override", cfg.Title)
	assert.Equal(t, 9090, cfg.Webserver.Port)
	assert.Equal(t, EngineSQLite, cfg.DB.GormEngine)
	// untouched keys keep the file value
	assert.Equal(t, "http://localhost:8080", cfg.Webserver.URL)
}

func TestReadConfigJSONOverrideDurations(t *testing.T) {
	tests := []struct {
		name     string
		override string
		cacheTTL time.Duration
		tokenTTL time.Duration
	}{
		{
			name:     "duration strings",
			override: `{"authz":{"cacheTTL":"45s"},"token":{"ttl":"2h"}}`,
			cacheTTL: 45 * time.Second,
			tokenTTL: 2 * time.Hour,
		},
		{
			name:     "nanoseconds",
			override: `{"authz":{"cacheTTL":1000000000}}`,
			cacheTTL: time.Second,
			tokenTTL: defaultTokenTTL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvConfigJSON, tt.override)

			cfg, err := ReadConfig(etcPath(t))
			require.NoError(t, err)

			assert.Equal(t, tt.cacheTTL, cfg.Authz.CacheTTL)
			assert.Equal(t, tt.tokenTTL, cfg.Token.TTL)
			// untouched keys keep the file value
			assert.Equal(t, "http://localhost:8080", cfg.Webserver.URL)
		})
	}
}

func TestReadConfigWithBrokenJSONOverride(t *testing.T) {
	t.Setenv(EnvConfigJSON, `{"Title":`)

	_, err := ReadConfig(etcPath(t))
	require.Error(t, err)
}

func TestDumpConfig(t *testing.T) {
	cfg := Config{
		Title:   "Test",
		DevMode: true,
		Webserver: Webserver{
			Port: 8080,
			URL:  "http://localhost:8080",
		},
		Authz: Authz{CacheBackend: CacheBackendMemory},
	}

	tomlStr, err := DumpConfig(&cfg)
	require.NoError(t, err)
	assert.Contains(t, tomlStr, "title = 'Test'")
	assert.Contains(t, tomlStr, "[webserver]")
	assert.Contains(t, tomlStr, "cacheBackend = 'memory'")
}

func TestDumpConfigJSON(t *testing.T) {
	cfg := Config{
		Title: "Test",
		Webserver: Webserver{
			Port: 8080,
			URL:  "http://localhost:8080",
		},
	}

	jsonStr, err := DumpConfigJSON(&cfg)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(jsonStr, "{"))
	assert.Contains(t, jsonStr, `"Title": "Test"`)
}
