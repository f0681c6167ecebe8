// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvConfigJSON names the environment variable holding a JSON document merged over the TOML config.
	EnvConfigJSON = "COMPLYHUB_CONFIG_JSON"

	// MainConfigFile is the file name read from the config directory.
	MainConfigFile = "main.toml"

	defaultShutDownTime    = 5
	defaultTokenTTL        = 24 * time.Hour
	defaultTokenIssuer     = "complyhub"
	defaultLoginRateLimit  = 10
	defaultLoginRateWindow = time.Minute
	defaultAdminUsername   = "admin"
	defaultAdminCompanyID  = 1
	defaultCacheTable      = "authz_cache"
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	if !strings.HasSuffix(path, string(os.PathSeparator)) {
		path += string(os.PathSeparator)
	}

	v := viper.New()
	v.SetConfigFile(path + MainConfigFile)
	v.SetConfigType("toml")

	if err = v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		if err = mergeJSONOverride(v, JSONConfigEnv); err != nil {
			return Config{}, err
		}
	}

	if err = v.Unmarshal(&c, useTOMLTags); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	return c, validate(&c)
}

// useTOMLTags lets viper decode with the same tags go-toml uses when dumping.
func useTOMLTags(dc *mapstructure.DecoderConfig) {
	dc.TagName = "toml"
}

// mergeJSONOverride merges a JSON document over the loaded TOML. Keys are the TOML
// names, matched case-insensitively, and durations accept strings such as "30s".
func mergeJSONOverride(v *viper.Viper, configAsJSON string) error {
	v.SetConfigType("json")

	if err := v.MergeConfig(strings.NewReader(configAsJSON)); err != nil {
		return errors.Wrap(err, "failed to read json config override")
	}

	return nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the settings the daemon can not start without and fills in defaults.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	switch c.DB.GormEngine {
	case "":
		c.DB.GormEngine = EngineMySQL
	case EngineMySQL, EnginePostgres, EngineSQLite:
	default:
		return errors.Wrapf(ErrUnknownGormEngine, "%s: %q", invalidErrMessage, c.DB.GormEngine)
	}

	switch c.Authz.CacheBackend {
	case "":
		c.Authz.CacheBackend = CacheBackendMemory
	case CacheBackendMemory, CacheBackendMySQL, CacheBackendPostgres:
	default:
		return errors.Wrapf(ErrUnknownCacheBackend, "%s: %q", invalidErrMessage, c.Authz.CacheBackend)
	}

	// shared cache backends live in the main database.
	if c.Authz.CacheBackend != CacheBackendMemory && c.Authz.CacheBackend != c.DB.GormEngine {
		return errors.Wrapf(ErrCacheBackendEngineMismatch, "%s: %q on %q", invalidErrMessage,
			c.Authz.CacheBackend, c.DB.GormEngine)
	}

	if c.Authz.CacheTTL < 0 {
		return errors.Wrap(ErrNegativeCacheTTL, invalidErrMessage)
	}

	if c.Authz.CacheTable == "" {
		c.Authz.CacheTable = defaultCacheTable
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Webserver.LoginRateLimit == 0 {
		c.Webserver.LoginRateLimit = defaultLoginRateLimit
	}

	if c.Webserver.LoginRateWindow == 0 {
		c.Webserver.LoginRateWindow = defaultLoginRateWindow
	}

	if c.Token.TTL == 0 {
		c.Token.TTL = defaultTokenTTL
	}

	if c.Token.Issuer == "" {
		c.Token.Issuer = defaultTokenIssuer
	}

	if c.Bootstrap.AdminUsername == "" {
		c.Bootstrap.AdminUsername = defaultAdminUsername
	}

	if c.Bootstrap.CompanyID == 0 {
		c.Bootstrap.CompanyID = defaultAdminCompanyID
	}

	return nil
}
