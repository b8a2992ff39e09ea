// Package log provides a thin wrapper around zerolog with a global logger,
// human friendly console output and both printf-style and structured
// key-value logging functions.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// Log levels accepted by Init.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
	LogLevelFatal = "fatal"
)

const logTestWriterName = "_testwriter"

var (
	log      zerolog.Logger
	logLevel string

	// panicOnInvalidChars enables a sanity check on every write: if a log
	// line carries invalid utf8 the process panics. Only meant for tests,
	// enabled with LOG_PANIC_ON_INVALIDCHARS=true.
	panicOnInvalidChars = os.Getenv("LOG_PANIC_ON_INVALIDCHARS") == "true"

	// logTestWriter is the output used when Init is called with
	// logTestWriterName as output.
	logTestWriter io.Writer = io.Discard
)

// checkedWriter wraps an io.Writer panicking on invalid utf8 writes when
// panicOnInvalidChars is set.
type checkedWriter struct {
	w io.Writer
}

func (cw checkedWriter) Write(p []byte) (int, error) {
	if panicOnInvalidChars && !utf8.Valid(p) {
		panic(fmt.Sprintf("log line with invalid chars: %q", p))
	}
	return cw.w.Write(p)
}

// Init initializes the global logger with the given level and output. The
// output can be "stdout", "stderr" or a file path. The errorOutput is an
// optional additional writer which receives only the messages of level error
// or above.
func Init(level, output string, errorOutput io.Writer) {
	var out io.Writer
	switch output {
	case "stdout":
		out = os.Stdout
	case "stderr":
		out = os.Stderr
	case logTestWriterName:
		out = logTestWriter
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			panic(fmt.Sprintf("cannot create log output: %v", err))
		}
		out = f
	}
	out = checkedWriter{w: out}
	if output != logTestWriterName {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "3:04PM",
		}
	}
	writers := []io.Writer{out}
	if errorOutput != nil {
		writers = append(writers, &zerolog.FilteredLevelWriter{
			Writer: zerolog.MultiLevelWriter(checkedWriter{w: errorOutput}),
			Level:  zerolog.ErrorLevel,
		})
	}
	log = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	zerolog.TimeFieldFormat = time.RFC3339Nano

	logLevel = strings.ToLower(level)
	switch logLevel {
	case LogLevelDebug:
		log = log.Level(zerolog.DebugLevel)
	case LogLevelInfo:
		log = log.Level(zerolog.InfoLevel)
	case LogLevelWarn:
		log = log.Level(zerolog.WarnLevel)
	case LogLevelError:
		log = log.Level(zerolog.ErrorLevel)
	case LogLevelFatal:
		log = log.Level(zerolog.FatalLevel)
	default:
		panic(fmt.Sprintf("invalid log level: %q", level))
	}
	Infow("logger initialized", "level", logLevel)
}

// Level returns the current log level, as passed to Init.
func Level() string {
	return logLevel
}

// Logger returns the global zerolog.Logger.
func Logger() *zerolog.Logger {
	return &log
}

func withKeyValues(ev *zerolog.Event, keyvalues []any) *zerolog.Event {
	for i := 0; i+1 < len(keyvalues); i += 2 {
		key, ok := keyvalues[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", keyvalues[i])
		}
		ev = ev.Interface(key, keyvalues[i+1])
	}
	return ev
}

// Debug logs the arguments at debug level.
func Debug(args ...any) {
	log.Debug().Msg(fmt.Sprint(args...))
}

// Debugf logs a formatted message at debug level.
func Debugf(format string, args ...any) {
	log.Debug().Msgf(format, args...)
}

// Debugw logs a message with alternating key-value pairs at debug level.
func Debugw(msg string, keyvalues ...any) {
	withKeyValues(log.Debug(), keyvalues).Msg(msg)
}

// Info logs the arguments at info level.
func Info(args ...any) {
	log.Info().Msg(fmt.Sprint(args...))
}

// Infof logs a formatted message at info level.
func Infof(format string, args ...any) {
	log.Info().Msgf(format, args...)
}

// Infow logs a message with alternating key-value pairs at info level.
func Infow(msg string, keyvalues ...any) {
	withKeyValues(log.Info(), keyvalues).Msg(msg)
}

// Warn logs the arguments at warning level.
func Warn(args ...any) {
	log.Warn().Msg(fmt.Sprint(args...))
}

// Warnf logs a formatted message at warning level.
func Warnf(format string, args ...any) {
	log.Warn().Msgf(format, args...)
}

// Warnw logs a message with alternating key-value pairs at warning level.
func Warnw(msg string, keyvalues ...any) {
	withKeyValues(log.Warn(), keyvalues).Msg(msg)
}

// Error logs the arguments at error level.
func Error(args ...any) {
	log.Error().Msg(fmt.Sprint(args...))
}

// Errorf logs a formatted message at error level.
func Errorf(format string, args ...any) {
	log.Error().Msgf(format, args...)
}

// Errorw logs an error with a message at error level.
func Errorw(err error, msg string) {
	log.Error().Err(err).Msg(msg)
}

// Fatalf logs a formatted message at fatal level and exits the process.
func Fatalf(format string, args ...any) {
	log.Fatal().Msgf(format, args...)
}
