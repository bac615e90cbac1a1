// Package logger provides a process-global logging facade backed by
// zerolog. Until Init is called all log output is discarded, which keeps
// library use and tests quiet by default.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu      sync.Mutex
	log     = zerolog.New(io.Discard)
	logFile *os.File
)

// Init initializes the global logger. With an empty path, logs go to
// stderr through zerolog's console writer; otherwise they append to the
// given file as JSON lines. Level is one of debug, info, warn, error.
func Init(path, level string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}

	lvl := parseLevel(level)
	if path == "" {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(lvl).With().Timestamp().Logger()
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	logFile = f
	log = zerolog.New(f).Level(lvl).With().Timestamp().Logger()
	return nil
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Close closes the log file and reverts to discarding output.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	log = zerolog.New(io.Discard)
}

// Debug logs a debug message.
func Debug(format string, v ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	log.Debug().Msgf(format, v...)
}

// Info logs an info message.
func Info(format string, v ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	log.Info().Msgf(format, v...)
}

// Warn logs a warning message.
func Warn(format string, v ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	log.Warn().Msgf(format, v...)
}

// Error logs an error message.
func Error(format string, v ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	log.Error().Msgf(format, v...)
}

// Writer returns the underlying writer for use by collaborators.
func Writer() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		return logFile
	}
	return io.Discard
}
