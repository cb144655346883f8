package logging

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
)

// Level represents the severity of a log message.
type Level int

const (
	// LevelDebug logs everything, including per-file pipeline detail.
	LevelDebug Level = iota
	// LevelInfo is the default operating level.
	LevelInfo
	// LevelWarn logs recoverable problems (degraded metadata, retries).
	LevelWarn
	// LevelError logs failures that abort processing of a file.
	LevelError
)

var (
	level     Level
	levelOnce sync.Once
)

func loadLevel() {
	levelOnce.Do(func() {
		if debug := strings.ToLower(os.Getenv("DEBUG")); debug == "1" || debug == "true" || debug == "yes" || debug == "on" {
			level = LevelDebug
			return
		}
		switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
		case "debug":
			level = LevelDebug
		case "warn", "warning":
			level = LevelWarn
		case "error":
			level = LevelError
		default:
			level = LevelInfo
		}
	})
}

// GetLevel returns the active log level.
func GetLevel() Level {
	loadLevel()
	return level
}

// Debug logs a debug message.
func Debug(format string, args ...interface{}) {
	if GetLevel() <= LevelDebug {
		log.Printf("[DEBUG] "+format, args...)
	}
}

// Info logs an informational message.
func Info(format string, args ...interface{}) {
	if GetLevel() <= LevelInfo {
		log.Printf("[INFO] "+format, args...)
	}
}

// Warn logs a warning message.
func Warn(format string, args ...interface{}) {
	if GetLevel() <= LevelWarn {
		log.Printf("[WARN] "+format, args...)
	}
}

// Error logs an error message.
func Error(format string, args ...interface{}) {
	if GetLevel() <= LevelError {
		log.Printf("[ERROR] "+format, args...)
	}
}

// Audit logs a security-relevant event. Audit messages are never
// suppressed by the log level.
func Audit(format string, args ...interface{}) {
	log.Printf("[AUDIT] "+format, args...)
}

// Fatal logs an error message and exits.
func Fatal(format string, args ...interface{}) {
	log.Fatalf("[FATAL] "+format, args...)
}

// String returns the string representation of a log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", l)
	}
}
