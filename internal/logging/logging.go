// Package logging adapts logrus to the key/value Logger used by the rom
// and console packages.
package logging

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
)

// Logger forwards key/value log calls to a logrus entry.
type Logger struct {
	entry *log.Entry
}

// New returns a Logger writing to the given logrus logger.
func New(l *log.Logger) *Logger {
	return &Logger{entry: log.NewEntry(l)}
}

// NewStandard builds a text logger on w at the named level ("debug",
// "info", ...). Verbose forces debug.
func NewStandard(w io.Writer, level string, verbose bool) (*Logger, error) {
	l := log.New()
	l.SetOutput(w)
	l.SetFormatter(&log.TextFormatter{DisableColors: true, FullTimestamp: true})

	lvl := log.InfoLevel
	if level != "" {
		var err error
		if lvl, err = log.ParseLevel(level); err != nil {
			return nil, err
		}
	}
	if verbose {
		lvl = log.DebugLevel
	}
	l.SetLevel(lvl)

	return New(l), nil
}

// With returns a Logger that adds the given pairs to every message.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{entry: l.entry.WithFields(fields(keysAndValues))}
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(fields(keysAndValues)).Debug(msg)
}

// Info logs at info level.
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(fields(keysAndValues)).Info(msg)
}

// Error logs at error level.
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(fields(keysAndValues)).Error(msg)
}

// fields pairs up keys and values. A trailing key without a value is kept
// under "!BADKEY".
func fields(kv []interface{}) log.Fields {
	f := make(log.Fields, len(kv)/2+1)
	for i := 0; i < len(kv); i += 2 {
		if i+1 == len(kv) {
			f["!BADKEY"] = kv[i]
			break
		}
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		f[key] = kv[i+1]
	}
	return f
}
