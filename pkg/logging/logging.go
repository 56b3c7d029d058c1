// Package logging adapts github.com/go-logr/logr to the verbosity levels
// the decoders actually use and provides a logfmt-style colored sink for
// the command-line tools.
package logging

import "github.com/go-logr/logr"

// Verbosity levels passed to logr.Logger.V(). Events sent through Error
// are emitted regardless of level.
const (
	INFO  = 0
	DEBUG = 1
	TRACE = 2
)

// severityKey tags recoverable decode anomalies emitted through Warn so
// sinks can render them apart from ordinary info output without a
// dedicated logr level.
const severityKey = "severity"

// New wraps an existing logr.Logger, falling back to a discard logger if
// the sink hasn't been initialized.
func New(log logr.Logger) *Logger {
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	return &Logger{log: log}
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return &Logger{log: logr.Discard()}
}

// Logger narrows logr.Logger down to the handful of calls the parsers make.
type Logger struct {
	log logr.Logger
}

func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Info(msg, keysAndValues...)
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.V(DEBUG).Info(msg, keysAndValues...)
}

func (l *Logger) Trace(msg string, keysAndValues ...interface{}) {
	l.log.V(TRACE).Info(msg, keysAndValues...)
}

func (l *Logger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(err, msg, keysAndValues...)
}

// Warn logs a recoverable decode anomaly (e.g. a synthesized DELETEDn
// member, an IEBCOPY decode that falls back to sequential) that does not
// abort parsing. The
// event goes out at the always-visible level, tagged with severity=warn.
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Info(msg, append([]interface{}{severityKey, "warn"}, keysAndValues...)...)
}
