package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Logger provides a centralized logging mechanism for matchninja
type Logger struct {
	infoLogger    *log.Logger
	warningLogger *log.Logger
	debugLogger   *log.Logger
	errorLogger   *log.Logger
	file          *os.File
	debug         bool
	mu            sync.Mutex
}

var (
	defaultLogger *Logger
	mu            sync.Mutex
)

// DefaultLogPath is used when no log file is configured.
func DefaultLogPath() string {
	return filepath.Join(os.TempDir(), "matchninja.log")
}

// GetLogger returns the default logger, opening DefaultLogPath on first use.
func GetLogger() *Logger {
	mu.Lock()
	defer mu.Unlock()
	if defaultLogger == nil {
		l, err := NewLogger(DefaultLogPath())
		if err != nil {
			// Fallback to stderr if we can't create the log file
			log.Printf("Failed to create log file, falling back to stderr: %v", err)
			l = NewWriterLogger(os.Stderr)
		}
		defaultLogger = l
	}
	return defaultLogger
}

// Init replaces the default logger with one writing to logPath. Debug
// messages are dropped unless verbose is set.
func Init(logPath string, verbose bool) error {
	if logPath == "" {
		logPath = DefaultLogPath()
	}
	l, err := NewLogger(logPath)
	if err != nil {
		return err
	}
	l.debug = verbose

	mu.Lock()
	old := defaultLogger
	defaultLogger = l
	mu.Unlock()

	if old != nil {
		old.Close()
	}
	return nil
}

// NewLogger creates a new logger that writes to the specified file
func NewLogger(logPath string) (*Logger, error) {
	dir := filepath.Dir(logPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := NewWriterLogger(file)
	l.file = file
	return l, nil
}

// NewWriterLogger logs to w with debug output enabled.
func NewWriterLogger(w io.Writer) *Logger {
	flags := log.LstdFlags | log.Lshortfile
	return &Logger{
		infoLogger:    log.New(w, "[INFO] ", flags),
		warningLogger: log.New(w, "[WARN] ", flags),
		debugLogger:   log.New(w, "[DEBUG] ", flags),
		errorLogger:   log.New(w, "[ERROR] ", flags),
		debug:         true,
	}
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infoLogger.Output(3, fmt.Sprintf(format, args...))
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warningLogger.Output(3, fmt.Sprintf(format, args...))
}

// Debug logs a debug message when verbose logging is on
func (l *Logger) Debug(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.debug {
		return
	}
	l.debugLogger.Output(3, fmt.Sprintf(format, args...))
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errorLogger.Output(3, fmt.Sprintf(format, args...))
}

// Close closes the log file (if any)
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Convenience functions for the default logger
func Info(format string, args ...interface{}) {
	GetLogger().Info(format, args...)
}

func Warning(format string, args ...interface{}) {
	GetLogger().Warning(format, args...)
}

func Debug(format string, args ...interface{}) {
	GetLogger().Debug(format, args...)
}

func Error(format string, args ...interface{}) {
	GetLogger().Error(format, args...)
}
