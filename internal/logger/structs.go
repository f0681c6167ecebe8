package logger

// Console implements a console based logger.
type Console struct {
	Enabled          bool `toml:"enabled"`
	UseConsoleWriter bool `toml:"useConsoleWriter"`
}

// LogFile implements a file based logger.
type LogFile struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`

	AccessLog        string `toml:"access"`
	AccessMaxSize    int    `toml:"accessMaxSize"`
	AccessMaxBackups int    `toml:"accessMaxBackups"`
	AccessMaxAge     int    `toml:"accessMaxAge"`

	ErrorLog        string `toml:"error"`
	ErrorMaxSize    int    `toml:"errorMaxSize"`
	ErrorMaxBackups int    `toml:"errorMaxBackups"`
	ErrorMaxAge     int    `toml:"errorMaxAge"`

	InfoLog        string `toml:"info"`
	InfoMaxSize    int    `toml:"infoMaxSize"`
	InfoMaxBackups int    `toml:"infoMaxBackups"`
	InfoMaxAge     int    `toml:"infoMaxAge"`

	TraceLog        string `toml:"trace"`
	TraceMaxSize    int    `toml:"traceMaxSize"`
	TraceMaxBackups int    `toml:"traceMaxBackups"`
	TraceMaxAge     int    `toml:"traceMaxAge"`

	WarnLog        string `toml:"warn"`
	WarnMaxSize    int    `toml:"warnMaxSize"`
	WarnMaxBackups int    `toml:"warnMaxBackups"`
	WarnMaxAge     int    `toml:"warnMaxAge"`
}

// AuditLog configures the rolling file receiving every authorization decision.
// Decisions are written regardless of LogLevel.
type AuditLog struct {
	Enabled    bool   `toml:"enabled"`
	Path       string `toml:"path"`
	File       string `toml:"file"`
	MaxSize    int    `toml:"maxSize"`
	MaxBackups int    `toml:"maxBackups"`
	MaxAge     int    `toml:"maxAge"`

	// Console mirrors decisions to stdout.
	Console bool `toml:"console"`
}

// Log implements the logger config.
type Log struct {
	LogLevel string `toml:"logLevel"` // trace, debug, info, warn, error.
	LogEnv   string `toml:"logEnv"`

	// EnableAccessLogToConsole if true the webserver access log is written to the console too.
	// Does not overrule flag Console.Enabled!
	EnableAccessLogToConsole bool `toml:"enableAccessLogToConsole"`
	ReportCaller             bool `toml:"reportCaller"`
	DisableCheckAlive        bool `toml:"disableCheckAlive"` // do not log /checkalive calls

	// SlowQuery marks gorm statements slower than this many milliseconds as warnings. Zero disables it.
	SlowQuery int `toml:"slowQuery"`

	AppName     string `toml:"appName"`
	ServiceName string `toml:"serviceName"`

	// Console used mainly for docker and dev.
	Console Console `toml:"console"`

	// File based rolling logs.
	File LogFile `toml:"file"`

	// Audit writes authorization decisions to their own file. Disabled, they go to
	// the main logger tagged with channel=audit.
	Audit AuditLog `toml:"audit"`
}
