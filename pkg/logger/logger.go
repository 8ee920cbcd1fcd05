package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Interface is the logging contract used across the service.
// Arguments after the message are alternating key/value pairs.
type Interface interface {
	Debug(message string, args ...interface{})
	Info(message string, args ...interface{})
	Warn(message string, args ...interface{})
	Error(message string, args ...interface{})
	Fatal(message string, args ...interface{})
}

// Logger is a zerolog backed Interface
type Logger struct {
	logger *zerolog.Logger
}

var _ Interface = (*Logger)(nil)

// New creates a JSON logger on stdout
func New(level string) *Logger {
	return NewWithWriter(level, "json", os.Stdout)
}

// NewWithFormat creates a logger on stdout in the given format (json or console)
func NewWithFormat(level, format string) *Logger {
	return NewWithWriter(level, format, os.Stdout)
}

// NewWithWriter creates a logger writing to w
func NewWithWriter(level, format string, w io.Writer) *Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	out := w
	if strings.EqualFold(format, "console") {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}

	l := zerolog.New(out).Level(ParseLevel(level)).With().Timestamp().Logger()

	return &Logger{logger: &l}
}

// ParseLevel maps a level name to a zerolog level. WARNING and CRITICAL
// are accepted for compatibility with existing deployments; unknown
// names select info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal", "critical":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *Logger) Debug(message string, args ...interface{}) {
	l.msg(l.logger.Debug(), message, args...)
}

func (l *Logger) Info(message string, args ...interface{}) {
	l.msg(l.logger.Info(), message, args...)
}

func (l *Logger) Warn(message string, args ...interface{}) {
	l.msg(l.logger.Warn(), message, args...)
}

func (l *Logger) Error(message string, args ...interface{}) {
	l.msg(l.logger.Error(), message, args...)
}

// Fatal logs and exits the process
func (l *Logger) Fatal(message string, args ...interface{}) {
	l.msg(l.logger.Fatal(), message, args...)
}

func (l *Logger) msg(e *zerolog.Event, message string, args ...interface{}) {
	if len(args) == 0 {
		e.Msg(message)
		return
	}

	// an odd trailing value is kept under a fixed key
	if len(args)%2 != 0 {
		args = append(args[:len(args)-1:len(args)-1], "extra", args[len(args)-1])
	}

	e.Fields(args).Msg(message)
}
