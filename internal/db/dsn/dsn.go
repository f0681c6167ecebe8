// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"strings"

	"github.com/complyhub/complyhub/internal/config"
)

// SQLiteMemory is used when the sqlite engine has no path configured.
const SQLiteMemory = ":memory:"

// Create builds the Data Source Name for the configured gorm engine.
func Create(dbCfg *config.DB) string {
	switch dbCfg.GormEngine {
	case config.EnginePostgres:
		out := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
			dbCfg.Host,
			dbCfg.Port,
			dbCfg.User,
			dbCfg.Password,
			dbCfg.Name,
		)

		// extras are given as url query for mysql, postgres wants space separated pairs.
		if dbCfg.Extras != "" {
			out += " " + strings.ReplaceAll(dbCfg.Extras, "&", " ")
		}

		return out
	case config.EngineSQLite:
		out := dbCfg.Path
		if out == "" {
			out = SQLiteMemory
		}

		if dbCfg.Extras != "" {
			out += "?" + dbCfg.Extras
		}

		return out
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
			dbCfg.User,
			dbCfg.Password,
			dbCfg.Host,
			dbCfg.Port,
			dbCfg.Name,
			dbCfg.Extras,
		)
	}
}
