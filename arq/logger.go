package arq

import (
	"context"
	"log/slog"

	"github.com/yesiltepe-hidir/RDT-with-UDP-under-SR/internal"
)

// logger is a thin embeddable wrapper around *slog.Logger giving every
// component in this package the same debug/trace/warn/logerr vocabulary.
// A zero-value logger is silent: log == nil disables all output.
type logger struct {
	log *slog.Logger
}

func (l *logger) SetLogger(log *slog.Logger) {
	l.log = log
}

func (l *logger) logenabled(lvl slog.Level) bool {
	return l.log != nil && l.log.Handler().Enabled(context.Background(), lvl)
}

func (l *logger) logattrs(lvl slog.Level, msg string, attrs ...slog.Attr) {
	internal.LogAttrs(l.log, lvl, msg, attrs...)
}

func (l *logger) debug(msg string, attrs ...slog.Attr) {
	l.logattrs(slog.LevelDebug, msg, attrs...)
}

func (l *logger) trace(msg string, attrs ...slog.Attr) {
	l.logattrs(internal.LevelTrace, msg, attrs...)
}

func (l *logger) warn(msg string, attrs ...slog.Attr) {
	l.logattrs(slog.LevelWarn, msg, attrs...)
}

func (l *logger) logerr(msg string, attrs ...slog.Attr) {
	l.logattrs(slog.LevelError, msg, attrs...)
}
