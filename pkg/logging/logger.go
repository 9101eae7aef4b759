package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Log formats accepted in Options.Format.
const (
	FormatText = "text"
	FormatJSON = "json"
)

const timestampFormat = "2006-01-02 15:04:05.000"

// Options controls where and how a Logger writes.
type Options struct {
	// Dir is the log directory. Defaults to ~/.autojoin/logs.
	Dir string

	// Level is a logrus level name. Defaults to info.
	Level string

	// Format is FormatText or FormatJSON. Defaults to FormatText.
	Format string
}

// Logger writes structured entries for autojoin components.
// All loggers of one process share a session ID and append to the same
// file, <dir>/<session-id>-autojoin.log.
type Logger struct {
	sessionID string
	component string
	logPath   string
	base      *logrus.Logger
	entry     *logrus.Entry
	file      *fileHandle
}

type fileHandle struct {
	f    *os.File
	once sync.Once
	err  error
}

func (h *fileHandle) close() error {
	if h == nil {
		return nil
	}
	h.once.Do(func() {
		if h.f != nil {
			h.err = h.f.Close()
		}
	})
	return h.err
}

var (
	// Global session ID for the current execution
	sessionID     string
	sessionIDOnce sync.Once
)

func getSessionID() string {
	sessionIDOnce.Do(func() {
		sessionID = uuid.New().String()
	})
	return sessionID
}

// DefaultDir returns ~/.autojoin/logs.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".autojoin", "logs"), nil
}

// NewLogger creates a logger for component.
//
// If the log directory or file cannot be opened it returns a logger writing
// to stderr along with the error, so callers can warn and keep going.
func NewLogger(component string, opts Options) (*Logger, error) {
	base := logrus.New()
	base.SetLevel(parseLevel(opts.Level))
	base.SetFormatter(formatter(opts.Format))

	dir := opts.Dir
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return newFallbackLogger(base, component, err), err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		err = fmt.Errorf("failed to create log directory: %w", err)
		return newFallbackLogger(base, component, err), err
	}

	sessID := getSessionID()
	logPath := filepath.Join(dir, fmt.Sprintf("%s-autojoin.log", sessID))

	// Append mode: several components may write to the same file
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		err = fmt.Errorf("failed to open log file: %w", err)
		return newFallbackLogger(base, component, err), err
	}
	base.SetOutput(f)

	return newLogger(base, sessID, component, logPath, &fileHandle{f: f}), nil
}

func newFallbackLogger(base *logrus.Logger, component string, cause error) *Logger {
	base.SetOutput(os.Stderr)
	l := newLogger(base, getSessionID(), component, "", nil)
	l.Warnf("Failed to initialize file logging: %v", cause)
	l.Warnf("Falling back to stderr logging")
	return l
}

func newLogger(base *logrus.Logger, sessID, component, logPath string, fh *fileHandle) *Logger {
	return &Logger{
		sessionID: sessID,
		component: component,
		logPath:   logPath,
		base:      base,
		entry:     base.WithFields(logrus.Fields{"session_id": sessID, "component": component}),
		file:      fh,
	}
}

func parseLevel(s string) logrus.Level {
	if s == "" {
		return logrus.InfoLevel
	}
	lvl, err := logrus.ParseLevel(s)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

func formatter(format string) logrus.Formatter {
	if strings.EqualFold(format, FormatJSON) {
		return &logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"}
	}
	return &logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: timestampFormat,
	}
}

// WithComponent returns a logger for another component sharing this
// logger's output and session.
func (l *Logger) WithComponent(component string) *Logger {
	return newLogger(l.base, l.sessionID, component, l.logPath, l.file)
}

// Debugf logs a debug-level message
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.entry.Debugf(format, v...)
}

// Infof logs an info-level message
func (l *Logger) Infof(format string, v ...interface{}) {
	l.entry.Infof(format, v...)
}

// Warnf logs a warning-level message
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.entry.Warnf(format, v...)
}

// Errorf logs an error-level message
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.entry.Errorf(format, v...)
}

// Log writes message at level on behalf of component, with extra fields.
// An empty component keeps the logger's own.
func (l *Logger) Log(level logrus.Level, component, message string, fields map[string]interface{}) {
	entry := l.entry
	if component != "" && component != l.component {
		entry = entry.WithField("component", component)
	}
	if len(fields) > 0 {
		entry = entry.WithFields(logrus.Fields(fields))
	}
	entry.Log(level, message)
}

// Enabled reports whether entries at level are written.
func (l *Logger) Enabled(level logrus.Level) bool {
	return l.base.IsLevelEnabled(level)
}

// SessionID returns the current session ID
func (l *Logger) SessionID() string {
	return l.sessionID
}

// LogPath returns the path to the log file, empty in fallback mode
func (l *Logger) LogPath() string {
	return l.logPath
}

// Close closes the log file. Safe to call multiple times, from any logger
// derived with WithComponent.
func (l *Logger) Close() error {
	return l.file.close()
}
