package logger

import (
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// ChannelMain labels events of the global logger.
	ChannelMain = "main"

	// ChannelAudit labels authorization decisions.
	ChannelAudit = "audit"
)

var (
	auditMu     sync.RWMutex    //nolint:gochecknoglobals
	auditLogger *zerolog.Logger //nolint:gochecknoglobals
	auditFile   io.Closer       //nolint:gochecknoglobals
)

// AuditEvent starts an authorization audit record. The audit file keeps every
// record whatever the global level; without one the record goes to the main
// logger at level.
func AuditEvent(level zerolog.Level) *zerolog.Event {
	auditMu.RLock()
	l := auditLogger
	auditMu.RUnlock()

	if l == nil {
		return log.WithLevel(level).Str("channel", ChannelAudit)
	}

	return l.Log().Str(zerolog.LevelFieldName, level.String())
}

// SetAuditOutput sends audit records to w. A nil w falls back to the main logger.
func SetAuditOutput(w io.Writer) {
	var l *zerolog.Logger

	if w != nil {
		audit := zerolog.New(w).
			Hook(NewPrometheusHook("", ChannelAudit)).
			With().
			Timestamp().
			Str("channel", ChannelAudit).
			Logger()
		l = &audit
	}

	auditMu.Lock()
	defer auditMu.Unlock()

	if auditFile != nil {
		_ = auditFile.Close()
		auditFile = nil
	}

	auditLogger = l
}

func initAudit(cfg Log) error {
	if !cfg.Audit.Enabled {
		SetAuditOutput(nil)

		return nil
	}

	if cfg.Audit.Path == "" || cfg.Audit.File == "" {
		return ErrAuditFileIsEmpty
	}

	if err := os.MkdirAll(cfg.Audit.Path, 0o750); err != nil { //nolint:mnd
		return errors.Wrapf(err, "can't create audit log directory %s", cfg.Audit.Path)
	}

	file := rollingFile(cfg.Audit.Path, cfg.Audit.File, cfg.Audit.MaxSize, cfg.Audit.MaxBackups, cfg.Audit.MaxAge)

	var w io.Writer = file
	if cfg.Audit.Console {
		w = io.MultiWriter(file, os.Stdout)
	}

	SetAuditOutput(w)

	auditMu.Lock()
	auditFile = file
	auditMu.Unlock()

	return nil
}
