package logger

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger provides component-tagged logging with levels

type Logger struct {
	MinLevel LogLevel
	mu       sync.Mutex
	out      *logrus.Logger
}

// LogLevel represents the severity of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Options configures the backend built by New.
type Options struct {
	Level  LogLevel
	Format string // "text" or "json"

	// Output overrides stdout. Ignored when File is set.
	Output io.Writer

	// File enables size-based rotation through lumberjack.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}
