// Package logging provides the structured logger used across rulesmcp.
//
// stdout carries the MCP stdio transport, so log output goes to stderr or,
// with DEBUG set, to a log file. The file defaults to rulesmcp.log in the
// working directory; RULESMCP_LOG_FILE overrides it and RULESMCP_LOG_LEVEL
// overrides the level in either mode.
package logging

import (
	"bytes"
	"errors"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"rulesmcp/pkg/fileops"

	"github.com/charmbracelet/log"
)

const (
	logPrefix   = "rulesmcp"
	logFileName = logPrefix + ".log"

	EnvDebug    = "DEBUG"
	EnvLogFile  = "RULESMCP_LOG_FILE"
	EnvLogLevel = "RULESMCP_LOG_LEVEL"
)

// AppLogger wraps a charmbracelet logger.
type AppLogger struct {
	logger *log.Logger
	debug  bool
}

var (
	defaultLogger *AppLogger
	once          sync.Once
)

// GetDefault returns the process-wide logger, creating it on first use.
func GetDefault() *AppLogger {
	once.Do(func() {
		defaultLogger = NewAppLogger()
	})
	return defaultLogger
}

func Info(msg string, keyvals ...interface{}) {
	GetDefault().Info(msg, keyvals...)
}

func Warn(msg string, keyvals ...interface{}) {
	GetDefault().Warn(msg, keyvals...)
}

func Error(msg string, keyvals ...interface{}) {
	GetDefault().Error(msg, keyvals...)
}

func Debug(msg string, keyvals ...interface{}) {
	GetDefault().Debug(msg, keyvals...)
}

func LogPerformance(operation string, start time.Time) {
	GetDefault().LogPerformance(operation, start)
}

// NewAppLogger builds a logger from the process environment.
func NewAppLogger() *AppLogger {
	return newFromEnv(os.Getenv)
}

func newFromEnv(getenv func(string) string) *AppLogger {
	opts := log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          logPrefix,
	}
	level := log.WarnLevel
	var out io.Writer = os.Stderr

	var logPath string
	var fileErr error
	if getenv(EnvDebug) != "" {
		opts.ReportCaller = true
		opts.TimeFormat = time.Kitchen
		level = log.DebugLevel

		var f *os.File
		f, logPath, fileErr = openLogFile(getenv(EnvLogFile))
		if fileErr == nil {
			out = f
		}
	}

	var levelErr error
	if v := getenv(EnvLogLevel); v != "" {
		parsed, err := log.ParseLevel(v)
		if err == nil {
			level = parsed
		} else {
			levelErr = err
		}
	}

	logger := log.NewWithOptions(out, opts)
	logger.SetLevel(level)

	al := &AppLogger{
		logger: logger,
		debug:  level <= log.DebugLevel,
	}

	if fileErr != nil {
		al.Warn("Debug log file unavailable, logging to stderr", "error", fileErr)
	}
	if levelErr != nil {
		al.Warn("Ignoring "+EnvLogLevel, "value", getenv(EnvLogLevel), "error", levelErr)
	}
	if logPath != "" {
		al.Info("Debug logging enabled", "log_file", logPath)
	}
	return al
}

// openLogFile truncates and opens the first writable candidate: the requested
// path, then rulesmcp.log in the working directory, then in the temp dir.
// Clients often start the server from a read-only directory.
func openLogFile(requested string) (*os.File, string, error) {
	var candidates []string
	if requested != "" {
		candidates = append(candidates, fileops.ExpandPath(requested))
	}
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, logFileName))
	}
	candidates = append(candidates, filepath.Join(os.TempDir(), logFileName))

	var errs []error
	for _, path := range candidates {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err == nil {
			return f, path, nil
		}
		errs = append(errs, err)
	}
	return nil, "", errors.Join(errs...)
}

func (al *AppLogger) Info(msg string, keyvals ...interface{}) {
	al.logger.Info(msg, keyvals...)
}

func (al *AppLogger) Warn(msg string, keyvals ...interface{}) {
	al.logger.Warn(msg, keyvals...)
}

func (al *AppLogger) Error(msg string, keyvals ...interface{}) {
	al.logger.Error(msg, keyvals...)
}

func (al *AppLogger) Debug(msg string, keyvals ...interface{}) {
	if al.debug {
		al.logger.Debug(msg, keyvals...)
	}
}

// With returns a logger that adds keyvals to every entry.
func (al *AppLogger) With(keyvals ...interface{}) *AppLogger {
	return &AppLogger{
		logger: al.logger.With(keyvals...),
		debug:  al.debug,
	}
}

// LogPerformance records how long operation took since start. It is meant
// to be deferred.
func (al *AppLogger) LogPerformance(operation string, start time.Time) {
	if !al.debug {
		return
	}
	al.logger.Debug("Performance",
		"operation", operation,
		"duration", time.Since(start),
	)
}

// StandardLog adapts the logger for libraries that only accept a *log.Logger
// from the standard library. Everything written to it is logged at error level.
func (al *AppLogger) StandardLog() *stdlog.Logger {
	return al.logger.StandardLog(log.StandardLogOptions{
		ForceLevel: log.ErrorLevel,
	})
}

// NewTestLogger returns a debug-level logger writing to the returned buffer,
// without timestamps.
func NewTestLogger() (*AppLogger, *bytes.Buffer) {
	var buf bytes.Buffer

	logger := log.NewWithOptions(&buf, log.Options{
		Prefix: "Test",
	})
	logger.SetLevel(log.DebugLevel)

	return &AppLogger{
		logger: logger,
		debug:  true,
	}, &buf
}
