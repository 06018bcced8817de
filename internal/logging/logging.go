// Package logging provides component loggers for scaleup built on
// charmbracelet/log.
//
// Basic usage:
//
//	if err := logging.Init(logging.Config{Level: "info"}); err != nil {
//	    return err
//	}
//	defer logging.Close()
//
//	logger := logging.Get("executor")
//	logger.Info("run started", "workers", 4)
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
)

// ErrInvalidLevel is returned when an invalid log level string is provided.
var ErrInvalidLevel = errors.New("invalid log level")

// ParseLevel parses a level name (debug, info, warn, error).
func ParseLevel(s string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel, nil
	case "", "info":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("%w: %s", ErrInvalidLevel, s)
	}
}

// Config configures the logging system.
type Config struct {
	// Level is the default level for every component.
	Level string

	// Path is an optional log file. Logs go to stderr and, when set, to
	// this file as well.
	Path string

	// Components overrides the level for individual components.
	Components map[string]string

	// JSON switches the formatter to JSON lines.
	JSON bool

	// Writer replaces stderr as the console destination (tests).
	Writer io.Writer
}

type state struct {
	mu          sync.RWMutex
	initialized bool
	writer      io.Writer
	file        *os.File
	level       log.Level
	components  map[string]log.Level
	formatter   log.Formatter
	loggers     map[string]*log.Logger
}

var globalState = &state{
	loggers:    make(map[string]*log.Logger),
	components: make(map[string]log.Level),
}

// Init configures the logging system. Loggers handed out before Init
// discard everything; they are rebuilt here.
func Init(cfg Config) error {
	globalState.mu.Lock()
	defer globalState.mu.Unlock()

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}

	components := make(map[string]log.Level, len(cfg.Components))
	for comp, lvl := range cfg.Components {
		parsed, err := ParseLevel(lvl)
		if err != nil {
			return fmt.Errorf("parsing level for component %s: %w", comp, err)
		}
		components[comp] = parsed
	}

	console := cfg.Writer
	if console == nil {
		console = os.Stderr
	}

	if globalState.file != nil {
		_ = globalState.file.Close()
		globalState.file = nil
	}

	writer := console
	if cfg.Path != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		globalState.file = f
		writer = io.MultiWriter(console, f)
	}

	globalState.level = level
	globalState.components = components
	globalState.writer = writer
	globalState.formatter = log.TextFormatter
	if cfg.JSON {
		globalState.formatter = log.JSONFormatter
	}
	globalState.initialized = true

	for component := range globalState.loggers {
		globalState.loggers[component] = createLogger(component)
	}
	return nil
}

// Get returns the logger for a component, creating it on first use.
func Get(component string) *log.Logger {
	globalState.mu.RLock()
	if logger, ok := globalState.loggers[component]; ok {
		globalState.mu.RUnlock()
		return logger
	}
	globalState.mu.RUnlock()

	globalState.mu.Lock()
	defer globalState.mu.Unlock()

	if logger, ok := globalState.loggers[component]; ok {
		return logger
	}
	logger := createLogger(component)
	globalState.loggers[component] = logger
	return logger
}

// createLogger must be called with globalState.mu held.
func createLogger(component string) *log.Logger {
	level := globalState.level
	if compLevel, ok := globalState.components[component]; ok {
		level = compLevel
	}

	if !globalState.initialized {
		return log.NewWithOptions(io.Discard, log.Options{Level: level, Prefix: component})
	}

	return log.NewWithOptions(globalState.writer, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          component,
		Formatter:       globalState.formatter,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// Close closes the log file, if any, and resets the logging system.
func Close() error {
	globalState.mu.Lock()
	defer globalState.mu.Unlock()

	var err error
	if globalState.file != nil {
		if cerr := globalState.file.Close(); cerr != nil {
			err = fmt.Errorf("closing log file: %w", cerr)
		}
		globalState.file = nil
	}

	globalState.initialized = false
	globalState.writer = nil
	globalState.loggers = make(map[string]*log.Logger)
	globalState.components = make(map[string]log.Level)
	return err
}

// DefaultLogPath returns $XDG_STATE_HOME/scaleup/scaleup.log.
func DefaultLogPath() string {
	return filepath.Join(xdg.StateHome, "scaleup", "scaleup.log")
}
