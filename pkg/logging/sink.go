package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/go-logr/logr"
)

// TextSink is a logr.LogSink that renders each event as a single
// logfmt-style line: a colored level token, the logger name, the quoted
// message, then key=value pairs. Sinks derived through WithName and
// WithValues share one mutex, so concurrent parsers interleave whole
// lines only. It backs the mfxplore CLI's -v/-vv flags.
type TextSink struct {
	out    io.Writer
	max    int
	name   string
	fields []interface{}
	mu     *sync.Mutex
}

// NewTextSink builds a TextSink. A nil writer defaults to os.Stderr.
func NewTextSink(out io.Writer, verbosity int) *TextSink {
	if out == nil {
		out = os.Stderr
	}
	return &TextSink{out: out, max: verbosity, mu: &sync.Mutex{}}
}

// NewLogger returns a logr.Logger backed by a TextSink at the given
// verbosity (0=info, 1=debug, 2=trace).
func NewLogger(out io.Writer, verbosity int) logr.Logger {
	return logr.New(NewTextSink(out, verbosity))
}

func (s *TextSink) Init(info logr.RuntimeInfo) {}

func (s *TextSink) Enabled(level int) bool { return level <= s.max }

func (s *TextSink) Info(level int, msg string, kv ...interface{}) {
	if !s.Enabled(level) {
		return
	}
	s.emit(levelToken(level, kv), msg, nil, kv)
}

func (s *TextSink) Error(err error, msg string, kv ...interface{}) {
	s.emit(color.RedString("error"), msg, err, kv)
}

func (s *TextSink) WithValues(kv ...interface{}) logr.LogSink {
	clone := *s
	clone.fields = append(append([]interface{}{}, s.fields...), kv...)
	return &clone
}

func (s *TextSink) WithName(name string) logr.LogSink {
	clone := *s
	if clone.name != "" {
		name = clone.name + "/" + name
	}
	clone.name = name
	return &clone
}

// levelToken picks the colored level string for an event. A severity=warn
// pair (attached by Logger.Warn) overrides the verbosity-derived token.
func levelToken(level int, kv []interface{}) string {
	if hasWarnSeverity(kv) {
		return color.YellowString("warn")
	}
	switch level {
	case TRACE:
		return color.MagentaString("trace")
	case DEBUG:
		return color.CyanString("debug")
	default:
		return color.GreenString("info")
	}
}

func hasWarnSeverity(kv []interface{}) bool {
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i] == severityKey && kv[i+1] == "warn" {
			return true
		}
	}
	return false
}

func (s *TextSink) emit(token, msg string, err error, kv []interface{}) {
	var line strings.Builder
	line.WriteString(token)
	if s.name != "" {
		fmt.Fprintf(&line, " logger=%s", s.name)
	}
	fmt.Fprintf(&line, " msg=%q", msg)
	appendPairs(&line, s.fields)
	appendPairs(&line, kv)
	if err != nil {
		fmt.Fprintf(&line, " error=%q", err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.out, line.String())
}

// appendPairs renders key=value pairs, skipping the severity tag the
// level token already consumed.
func appendPairs(line *strings.Builder, kv []interface{}) {
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i] == severityKey {
			continue
		}
		fmt.Fprintf(line, " %v=%v", kv[i], kv[i+1])
	}
}
