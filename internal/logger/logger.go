package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// Level is the severity of a log line.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelSuccess
	LevelWarn
	LevelError
)

// Logger is the console logger used across the CLI.
type Logger interface {
	Log(level Level, format string, args ...any)
	SetOutput(out io.Writer)
	SetErrorOutput(out io.Writer)
	SetVerbose(enabled bool)
	SetQuiet(enabled bool)
	IsVerbose() bool
	IsQuiet() bool
}

const (
	blueColor   = "\033[34m"
	greenColor  = "\033[32m"
	yellowColor = "\033[33m"
	redColor    = "\033[31m"
	grayColor   = "\033[90m"
	resetColor  = "\033[0m"
)

type style struct {
	icon  string
	label string
	color string
}

var styles = map[Level]style{
	LevelDebug:   {icon: "🔍", label: "DEBUG", color: grayColor},
	LevelInfo:    {icon: "ℹ️", label: "INFO", color: blueColor},
	LevelSuccess: {icon: "✓", label: "SUCCESS", color: greenColor},
	LevelWarn:    {icon: "⚠", label: "WARN", color: yellowColor},
	LevelError:   {icon: "✗", label: "ERROR", color: redColor},
}

// ConsoleLogger writes to stdout, errors to stderr. Colors and icons are
// used only when attached to a terminal.
type ConsoleLogger struct {
	mu      sync.Mutex
	output  io.Writer
	errOut  io.Writer
	verbose bool
	quiet   bool
	tty     bool
	now     func() time.Time
}

var (
	instance Logger
	once     sync.Once
)

// GetLogger returns the process-wide logger.
func GetLogger() Logger {
	once.Do(func() {
		instance = New(os.Stdout, os.Stderr, term.IsTerminal(int(os.Stdout.Fd())))
	})
	return instance
}

// New returns a ConsoleLogger. tty enables colors and icons.
func New(out, errOut io.Writer, tty bool) *ConsoleLogger {
	return &ConsoleLogger{
		output: out,
		errOut: errOut,
		tty:    tty,
		now:    time.Now,
	}
}

func SetVerbose(verbose bool) { GetLogger().SetVerbose(verbose) }
func IsVerbose() bool         { return GetLogger().IsVerbose() }
func SetQuiet(quiet bool)     { GetLogger().SetQuiet(quiet) }
func IsQuiet() bool           { return GetLogger().IsQuiet() }

func Debug(format string, args ...any)   { GetLogger().Log(LevelDebug, format, args...) }
func Info(format string, args ...any)    { GetLogger().Log(LevelInfo, format, args...) }
func Success(format string, args ...any) { GetLogger().Log(LevelSuccess, format, args...) }
func Warn(format string, args ...any)    { GetLogger().Log(LevelWarn, format, args...) }
func Error(format string, args ...any)   { GetLogger().Log(LevelError, format, args...) }

func (l *ConsoleLogger) SetOutput(out io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = out
}

func (l *ConsoleLogger) SetErrorOutput(out io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errOut = out
}

func (l *ConsoleLogger) SetVerbose(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = enabled
}

func (l *ConsoleLogger) IsVerbose() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.verbose
}

func (l *ConsoleLogger) SetQuiet(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.quiet = enabled
}

func (l *ConsoleLogger) IsQuiet() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.quiet
}

// Log writes one line at level. Debug lines need verbose mode; quiet mode
// drops everything below LevelError.
func (l *ConsoleLogger) Log(level Level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch {
	case level == LevelDebug && !l.verbose:
		return
	case level < LevelError && l.quiet:
		return
	}

	s := styles[level]
	prefix := s.label
	if l.tty {
		prefix = s.icon
	}
	if level == LevelDebug {
		prefix = fmt.Sprintf("[%s] %s", l.now().Format("2006-01-02 15:04:05.000"), prefix)
	}

	out := l.output
	if level == LevelError {
		out = l.errOut
	}

	msg := fmt.Sprintf(format, args...)
	if l.tty {
		fmt.Fprintf(out, "%s%s %s%s\n", s.color, prefix, msg, resetColor)
		return
	}
	fmt.Fprintf(out, "%s %s\n", prefix, msg)
}
