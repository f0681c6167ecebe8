package config

const (
	// EngineMySQL selects gorm.io/driver/mysql.
	EngineMySQL = "mysql"
	// EnginePostgres selects gorm.io/driver/postgres.
	EnginePostgres = "postgres"
	// EngineSQLite selects the pure go sqlite driver; Path holds the database file.
	EngineSQLite = "sqlite"
)

// DB holds the database configuration settings.
type DB struct {
	Extras     string `toml:"extras"`
	Host       string `toml:"host"`
	Port       int    `toml:"port"`
	User       string `toml:"user"`
	Password   string `toml:"password"`
	Name       string `toml:"name"`
	Path       string `toml:"path"`
	GormEngine string `toml:"gormEngine"`
	LogSQL     bool   `toml:"logSQL"` // trace every statement through the gorm logger adapter
}
