// Package logger configures the global zerolog logger and the authorization audit log.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelWriter routes every event to the writer of its level group.
type LevelWriter struct {
	io.Writer
	ErrorWriter io.Writer
	InfoWriter  io.Writer
	TraceWriter io.Writer
	WarnWriter  io.Writer
}

// WriteLevel implements zerolog.LevelWriter. Debug, info and level-less events go
// to InfoWriter, error and above to ErrorWriter.
func (lw *LevelWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	switch {
	case l == zerolog.Disabled:
		return 0, nil
	case l == zerolog.TraceLevel:
		return lw.TraceWriter.Write(p) //nolint:wrapcheck
	case l == zerolog.WarnLevel:
		return lw.WarnWriter.Write(p) //nolint:wrapcheck
	case l == zerolog.NoLevel || l < zerolog.WarnLevel:
		return lw.InfoWriter.Write(p) //nolint:wrapcheck
	default:
		return lw.ErrorWriter.Write(p) //nolint:wrapcheck
	}
}

// Init replaces the global zerolog logger and the audit logger.
// With neither console nor file enabled the main logger is silent.
func Init(cfg Log) error {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrapf(err, "loglevel %s is not supported", cfg.LogLevel)
	}

	if cfg.ServiceName == "" {
		return ErrServiceNameIsEmpty
	}

	if cfg.AppName == "" {
		return ErrAppNameIsEmpty
	}

	var writers []io.Writer

	if cfg.Console.Enabled {
		writers = append(writers, NewConsoleWriter(cfg))
	}

	if cfg.File.Enabled {
		files, err := newRollingFiles(cfg.File)
		if err != nil {
			return err
		}

		writers = append(writers, files)
	}

	zerolog.SetGlobalLevel(level)
	zerolog.ErrorHandler = ErrorHandler //nolint:reassign

	with := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Hook(NewPrometheusHook(cfg.ServiceName, ChannelMain)).
		With().
		Timestamp().
		Str("service", cfg.ServiceName)

	if level == zerolog.TraceLevel {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack //nolint:reassign
	}

	switch {
	case cfg.ReportCaller && level == zerolog.TraceLevel:
		with = with.Stack()
	case cfg.ReportCaller:
		with = with.Caller()
	}

	log.Logger = with.Logger()

	return initAudit(cfg)
}

// newRollingFiles splits the main log into one lumberjack file per level group.
func newRollingFiles(cfg LogFile) (io.Writer, error) {
	if err := os.MkdirAll(cfg.Path, 0o750); err != nil { //nolint:mnd
		return nil, errors.Wrapf(err, "can't create log directory %s", cfg.Path)
	}

	return &LevelWriter{
		ErrorWriter: rollingFile(cfg.Path, cfg.ErrorLog, cfg.ErrorMaxSize, cfg.ErrorMaxBackups, cfg.ErrorMaxAge),
		InfoWriter:  rollingFile(cfg.Path, cfg.InfoLog, cfg.InfoMaxSize, cfg.InfoMaxBackups, cfg.InfoMaxAge),
		TraceWriter: rollingFile(cfg.Path, cfg.TraceLog, cfg.TraceMaxSize, cfg.TraceMaxBackups, cfg.TraceMaxAge),
		WarnWriter:  rollingFile(cfg.Path, cfg.WarnLog, cfg.WarnMaxSize, cfg.WarnMaxBackups, cfg.WarnMaxAge),
	}, nil
}

func rollingFile(dir, name string, maxSize, maxBackups, maxAge int) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, name),
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		MaxAge:     maxAge,
	}
}

// NewConsoleWriter writes info and debug to stdout, everything else to stderr.
func NewConsoleWriter(cfg Log) io.Writer {
	var out, errOut io.Writer = os.Stdout, os.Stderr

	if cfg.Console.UseConsoleWriter {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: zerolog.TimeFieldFormat}
		errOut = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: zerolog.TimeFieldFormat}
	}

	return &LevelWriter{
		ErrorWriter: errOut,
		InfoWriter:  out,
		TraceWriter: errOut,
		WarnWriter:  errOut,
	}
}
