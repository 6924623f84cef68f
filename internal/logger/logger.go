// Package logger writes levelled, timestamped diagnostics for the critic CLI.
//
// Lines have the form "[HH:MM:SS] [LEVEL] message". When the destination is
// a terminal the level is coloured; NO_COLOR and non-TTY writers get plain
// text. A ConsoleLogger is safe for concurrent use.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Level orders message severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

var levelColors = map[Level]*color.Color{
	LevelDebug: color.New(color.FgCyan),
	LevelInfo:  color.New(color.FgBlue),
	LevelWarn:  color.New(color.FgYellow),
	LevelError: color.New(color.FgRed),
}

func init() {
	// color.NoColor describes stdout; whether to colour is decided per writer.
	for _, c := range levelColors {
		c.EnableColor()
	}
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "INFO"
}

// ParseLevel maps a case-insensitive name to a Level. Unknown or empty names
// give LevelInfo.
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug", "trace":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// ConsoleLogger writes diagnostics to a single writer.
type ConsoleLogger struct {
	mu    sync.Mutex
	w     io.Writer
	level Level
	color bool
	now   func() time.Time
}

// New returns a ConsoleLogger writing messages at or above level to w.
// A nil writer discards everything.
func New(w io.Writer, level Level) *ConsoleLogger {
	return &ConsoleLogger{
		w:     w,
		level: level,
		color: isTerminal(w),
		now:   time.Now,
	}
}

// isTTY is swapped in tests.
var isTTY = func(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// isTerminal reports whether w is a terminal that should get colour. The
// check is made on w itself, so stderr keeps colour when stdout is redirected.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if _, set := os.LookupEnv("NO_COLOR"); set || os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTTY(f.Fd())
}

// SetLevel changes the minimum level written.
func (l *ConsoleLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *ConsoleLogger) Debugf(format string, args ...interface{}) {
	l.logf(LevelDebug, format, args...)
}

func (l *ConsoleLogger) Infof(format string, args ...interface{}) {
	l.logf(LevelInfo, format, args...)
}

func (l *ConsoleLogger) Warnf(format string, args ...interface{}) {
	l.logf(LevelWarn, format, args...)
}

func (l *ConsoleLogger) Errorf(format string, args ...interface{}) {
	l.logf(LevelError, format, args...)
}

func (l *ConsoleLogger) logf(level Level, format string, args ...interface{}) {
	if l.w == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level {
		return
	}

	label := level.String()
	if l.color {
		label = levelColors[level].Sprint(label)
	}
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(l.w, "[%s] [%s] %s\n", l.now().Format("15:04:05"), label, msg)
}

// Discard is a logger that drops every message.
var Discard = New(nil, LevelError)
