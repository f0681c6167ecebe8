// Package gormlogger routes gorm statements and errors through zerolog.
package gormlogger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	gormlog "gorm.io/gorm/logger"
)

// Logger implements gorm's logger.Interface on top of a zerolog logger.
type Logger struct {
	zl            zerolog.Logger
	level         gormlog.LogLevel
	slowThreshold time.Duration
	traceAll      bool
}

// New returns a gorm logger writing to the global zerolog logger.
// traceAll logs every statement at debug level, slowThreshold of zero disables slow query warnings.
func New(slowThreshold time.Duration, traceAll bool) *Logger {
	return &Logger{
		zl:            log.Logger.With().Str("component", "gorm").Logger(),
		level:         gormlog.Warn,
		slowThreshold: slowThreshold,
		traceAll:      traceAll,
	}
}

// WithLogger replaces the zerolog logger, mostly for tests.
func (l *Logger) WithLogger(zl zerolog.Logger) *Logger {
	n := *l
	n.zl = zl

	return &n
}

// LogMode implements gorm logger.Interface.
func (l *Logger) LogMode(level gormlog.LogLevel) gormlog.Interface {
	n := *l
	n.level = level

	return &n
}

// Info implements gorm logger.Interface.
func (l *Logger) Info(_ context.Context, msg string, args ...any) {
	if l.level >= gormlog.Info {
		l.zl.Info().Msg(fmt.Sprintf(msg, args...))
	}
}

// Warn implements gorm logger.Interface.
func (l *Logger) Warn(_ context.Context, msg string, args ...any) {
	if l.level >= gormlog.Warn {
		l.zl.Warn().Msg(fmt.Sprintf(msg, args...))
	}
}

// Error implements gorm logger.Interface.
func (l *Logger) Error(_ context.Context, msg string, args ...any) {
	if l.level >= gormlog.Error {
		l.zl.Error().Msg(fmt.Sprintf(msg, args...))
	}
}

// Trace implements gorm logger.Interface.
// Record not found is expected by the controllers and never logged as an error.
func (l *Logger) Trace(_ context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlog.Silent {
		return
	}

	elapsed := time.Since(begin)

	switch {
	case err != nil && l.level >= gormlog.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		l.zl.Error().Err(err).Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("query failed")
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= gormlog.Warn:
		sql, rows := fc()
		l.zl.Warn().Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).
			Dur("threshold", l.slowThreshold).Msg("slow query")
	case l.traceAll:
		sql, rows := fc()
		l.zl.Debug().Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("query")
	}
}
