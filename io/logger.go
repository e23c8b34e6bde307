package clapio

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelSuccess
	LevelWarning
	LevelError
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelSuccess:
		return "SUCCESS"
	case LevelWarning:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LogFormat defines the prefix style of log lines
type LogFormat int

const (
	LogFormatTagged  LogFormat = iota // [INFO] [WARN] [ERROR] ...
	LogFormatSymbols                  // ◆ ▲ ✗ ...
	LogFormatPlain                    // No prefix
)

var (
	taggedPrefixes = map[LogLevel]string{
		LevelDebug:   "[DEBUG]",
		LevelInfo:    "[INFO]",
		LevelSuccess: "[SUCCESS]",
		LevelWarning: "[WARN]",
		LevelError:   "[ERROR]",
	}
	symbolPrefixes = map[LogLevel]string{
		LevelDebug:   "●",
		LevelInfo:    "◆",
		LevelSuccess: "✓",
		LevelWarning: "▲",
		LevelError:   "✗",
	}
)

// Logger writes leveled diagnostics through an IOManager.
type Logger struct {
	io           *IOManager
	format       LogFormat
	level        LogLevel
	withTime     bool
	timeFormat   string
	errorsStderr bool
	colors       map[LogLevel]*color.Color
}

// NewLogger creates a logger bound to the given IOManager. Debug messages are
// dropped until WithLevel(LevelDebug) is set.
func NewLogger(m *IOManager) *Logger {
	return &Logger{
		io:           m,
		format:       LogFormatTagged,
		level:        LevelInfo,
		errorsStderr: true,
		timeFormat:   "15:04:05",
		colors: map[LogLevel]*color.Color{
			LevelDebug:   color.New(color.FgMagenta),
			LevelInfo:    color.New(color.FgBlue),
			LevelSuccess: color.New(color.FgGreen),
			LevelWarning: color.New(color.FgYellow),
			LevelError:   color.New(color.FgRed, color.Bold),
		},
	}
}

// Discard returns a logger that writes nowhere.
func Discard() *Logger {
	return NewLogger(New().WithOut(io.Discard).WithErr(io.Discard).NoColor())
}

// WithFormat sets the prefix style and returns the logger for chaining
func (l *Logger) WithFormat(format LogFormat) *Logger {
	l.format = format
	return l
}

// WithLevel sets the minimum level that is written
func (l *Logger) WithLevel(level LogLevel) *Logger {
	l.level = level
	return l
}

// WithTimestamp enables or disables timestamp in log output
func (l *Logger) WithTimestamp(enabled bool) *Logger {
	l.withTime = enabled
	return l
}

// WithTimeFormat sets the time format (Go time format string)
func (l *Logger) WithTimeFormat(format string) *Logger {
	l.timeFormat = format
	return l
}

// ErrorsToStderr controls whether errors and warnings go to stderr
func (l *Logger) ErrorsToStderr(enabled bool) *Logger {
	l.errorsStderr = enabled
	return l
}

// Enabled reports whether messages at level are written.
func (l *Logger) Enabled(level LogLevel) bool {
	return level >= l.level
}

// Log outputs a log message at the specified level
func (l *Logger) Log(level LogLevel, format string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(l.selectWriter(level), l.formatMessage(level, msg))
}

func (l *Logger) formatMessage(level LogLevel, msg string) string {
	if strings.TrimSpace(msg) == "" {
		return msg
	}

	var b strings.Builder
	switch l.format {
	case LogFormatTagged:
		b.WriteString(taggedPrefixes[level])
	case LogFormatSymbols:
		b.WriteString(symbolPrefixes[level])
	case LogFormatPlain:
	}
	if l.withTime {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString("[" + time.Now().Format(l.timeFormat) + "]")
	}
	if b.Len() > 0 {
		b.WriteByte(' ')
	}
	b.WriteString(msg)

	return l.colorize(level, b.String())
}

func (l *Logger) colorize(level LogLevel, text string) string {
	c, ok := l.colors[level]
	if !ok {
		return text
	}
	if l.io.SupportsColor() {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(text)
}

func (l *Logger) selectWriter(level LogLevel) io.Writer {
	if l.errorsStderr && (level == LevelError || level == LevelWarning) {
		return l.io.Err()
	}
	return l.io.Out()
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...any) {
	l.Log(LevelDebug, format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...any) {
	l.Log(LevelInfo, format, args...)
}

// Success logs a success message
func (l *Logger) Success(format string, args ...any) {
	l.Log(LevelSuccess, format, args...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...any) {
	l.Log(LevelWarning, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...any) {
	l.Log(LevelError, format, args...)
}
