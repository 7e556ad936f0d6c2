package logger

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const timestampFormat = "2006-01-02 15:04:05.000"

var logLevelNames = map[LogLevel]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

var logrusLevels = map[LogLevel]logrus.Level{
	LevelDebug: logrus.DebugLevel,
	LevelInfo:  logrus.InfoLevel,
	LevelWarn:  logrus.WarnLevel,
	LevelError: logrus.ErrorLevel,
}

// New builds a Logger backed by its own logrus instance.
func New(opts Options) *Logger {
	out := logrus.New()

	if strings.EqualFold(opts.Format, "json") {
		out.SetFormatter(&logrus.JSONFormatter{TimestampFormat: timestampFormat})
	} else {
		out.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: timestampFormat})
	}

	switch {
	case opts.File != "":
		out.SetOutput(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
		})
	case opts.Output != nil:
		out.SetOutput(opts.Output)
	default:
		out.SetOutput(os.Stdout)
	}

	// The backend level tracks MinLevel so WithFields entries are filtered too.
	out.SetLevel(logrusLevels[opts.Level])

	return &Logger{MinLevel: opts.Level, out: out}
}

// ParseLevel maps debug, info, warn and error to a LogLevel. Anything else is info.
func ParseLevel(level string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (level LogLevel) String() string {
	if name, ok := logLevelNames[level]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int(level))
}

// SetLogLevel sets the minimum log level
func (l *Logger) SetLogLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.MinLevel = level
	if l.out != nil {
		l.out.SetLevel(logrusLevels[level])
	}
}

func (l *Logger) backend() (*logrus.Logger, LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.out == nil {
		return logrus.StandardLogger(), l.MinLevel
	}
	return l.out, l.MinLevel
}

// WithFields returns an entry tagged with the component for structured
// logging. The entry honours the level set through New or SetLogLevel.
func (l *Logger) WithFields(component string, fields logrus.Fields) *logrus.Entry {
	out, _ := l.backend()
	entry := out.WithFields(fields)
	if component != "" {
		entry = entry.WithField("component", component)
	}
	return entry
}

func (l *Logger) log(level LogLevel, component, message string, args ...interface{}) {
	out, minLevel := l.backend()
	if level < minLevel {
		return
	}

	formattedMsg := message
	if len(args) > 0 {
		formattedMsg = fmt.Sprintf(message, args...)
	}

	if component != "" {
		out.WithField("component", component).Log(logrusLevels[level], formattedMsg)
	} else {
		out.Log(logrusLevels[level], formattedMsg)
	}
}

// Debug logs a debug message
func (l *Logger) Debug(component, message string, args ...interface{}) {
	l.log(LevelDebug, component, message, args...)
}

// Info logs an info message
func (l *Logger) Info(component, message string, args ...interface{}) {
	l.log(LevelInfo, component, message, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(component, message string, args ...interface{}) {
	l.log(LevelWarn, component, message, args...)
}

// Error logs an error message
func (l *Logger) Error(component, message string, args ...interface{}) {
	l.log(LevelError, component, message, args...)
}

// Fatal logs an error message and exits
func (l *Logger) Fatal(component, message string, args ...interface{}) {
	l.log(LevelError, component, message, args...)
	os.Exit(1)
}
