package logger

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
)

// EnvVarHumanReadableLogMessages switches the output to zerolog's console format.
const EnvVarHumanReadableLogMessages = "CERTGEN_HUMAN_READABLE_LOGS"

// CallerHook implements zerolog.Hook interface.
type CallerHook struct{}

// Run adds the file and line of the log call
func (h CallerHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	if _, file, line, ok := runtime.Caller(3); ok {
		e.Str("file", fmt.Sprintf("%s:%d", path.Base(file), line))
	}
}

// New creates a new zerolog.Logger writing to stderr
func New(component string) zerolog.Logger {
	return NewWithWriter(component, os.Stderr)
}

func NewWithWriter(component string, w io.Writer) zerolog.Logger {
	if os.Getenv(EnvVarHumanReadableLogMessages) == "true" {
		w = zerolog.ConsoleWriter{Out: w}
	}
	return zerolog.New(w).With().Timestamp().Str("component", component).Logger().Hook(CallerHook{})
}

// SetLogLevel sets the global logging level
func SetLogLevel(verbosity string) error {
	switch strings.ToLower(strings.TrimSpace(verbosity)) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "", "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "disabled":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	case "trace":
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	default:
		return fmt.Errorf("invalid log level '%s' specified. Please specify one of %v", verbosity, Levels)
	}
	return nil
}

// Levels lists the accepted verbosity values.
var Levels = []string{"debug", "info", "warn", "error", "disabled", "trace"}

func ValidLevel(verbosity string) bool {
	v := strings.ToLower(strings.TrimSpace(verbosity))
	if v == "" {
		return true
	}
	for _, level := range Levels {
		if level == v {
			return true
		}
	}
	return false
}
