package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level is the logging level.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return "INFO"
	}
}

// Config controls logger initialization.
type Config struct {
	Enabled bool
	Level   string
	File    string
	Console bool
}

// Logger is a leveled writer shared by all components.
type Logger struct {
	mu      sync.Mutex
	level   Level
	logger  *log.Logger
	closer  io.Closer
	enabled bool
}

// Component prefixes messages with a component name.
type Component struct {
	name string
}

var (
	globalMu     sync.RWMutex
	globalLogger *Logger
)

// Init initializes the global logger.
func Init(cfg Config) error {
	if !cfg.Enabled {
		swap(&Logger{enabled: false})
		return nil
	}

	var writers []io.Writer
	var closer io.Closer

	if cfg.File != "" {
		dir := filepath.Dir(cfg.File)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create log directory: %w", err)
			}
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		writers = append(writers, f)
		closer = f
	}

	if cfg.Console || len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}

	swap(&Logger{
		level:   ParseLevel(cfg.Level),
		logger:  log.New(io.MultiWriter(writers...), "", 0),
		closer:  closer,
		enabled: true,
	})
	return nil
}

// SetOutput routes all log output to w at the given level.
func SetOutput(w io.Writer, level Level) {
	swap(&Logger{level: level, logger: log.New(w, "", 0), enabled: true})
}

// Close releases the log file, if any.
func Close() error {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil || globalLogger.closer == nil {
		return nil
	}
	err := globalLogger.closer.Close()
	globalLogger.closer = nil
	return err
}

func swap(l *Logger) {
	globalMu.Lock()
	prev := globalLogger
	globalLogger = l
	globalMu.Unlock()
	if prev != nil && prev.closer != nil {
		prev.closer.Close()
	}
}

// ParseLevel converts a level name, defaulting to Info.
func ParseLevel(levelStr string) Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return Debug
	case "info":
		return Info
	case "warn", "warning":
		return Warn
	case "error":
		return Error
	default:
		return Info
	}
}

func emit(level Level, component, format string, args ...interface{}) {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l == nil || !l.enabled || l.level > level {
		return
	}

	ts := time.Now().Format("2006-01-02 15:04:05")
	msg := fmt.Sprintf(format, args...)
	var line string
	if component != "" {
		line = fmt.Sprintf("[%s] [%s] [%s] %s", ts, level, component, msg)
	} else {
		line = fmt.Sprintf("[%s] [%s] %s", ts, level, msg)
	}

	l.mu.Lock()
	l.logger.Println(line)
	l.mu.Unlock()
}

// Named returns a logger that tags messages with a component name.
func Named(name string) Component {
	return Component{name: name}
}

// Debugf logs a debug message.
func Debugf(format string, args ...interface{}) { emit(Debug, "", format, args...) }

// Infof logs an info message.
func Infof(format string, args ...interface{}) { emit(Info, "", format, args...) }

// Warnf logs a warning.
func Warnf(format string, args ...interface{}) { emit(Warn, "", format, args...) }

// Errorf logs an error message.
func Errorf(format string, args ...interface{}) { emit(Error, "", format, args...) }

// Debugf logs a debug message.
func (c Component) Debugf(format string, args ...interface{}) { emit(Debug, c.name, format, args...) }

// Infof logs an info message.
func (c Component) Infof(format string, args ...interface{}) { emit(Info, c.name, format, args...) }

// Warnf logs a warning.
func (c Component) Warnf(format string, args ...interface{}) { emit(Warn, c.name, format, args...) }

// Errorf logs an error message.
func (c Component) Errorf(format string, args ...interface{}) { emit(Error, c.name, format, args...) }
