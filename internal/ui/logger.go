package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelDebug
)

// Options configures the Logger.
type Options struct {
	// Out is where user-facing logs go. Usually os.Stdout.
	Out io.Writer

	// FullLogWriter, if non-nil, receives every log and tail line in plain
	// text, regardless of level.
	FullLogWriter io.Writer

	// TailLines controls how many lines the live tail box keeps.
	// If <= 0, defaults to 10.
	TailLines int

	// EnableTail controls whether the live tail box is rendered. When off,
	// tail lines print as normal output.
	EnableTail bool

	// LogLevel controls how much reaches stdout:
	// error < info < warn < debug.
	LogLevel LogLevel

	// Component identifies the source of log messages (e.g., "host").
	// If empty, no component tag is included in log output.
	Component string
}

// Logger is the stdout logger + live tail manager used by every command.
type Logger struct {
	out   io.Writer
	full  io.Writer
	mu    sync.Mutex
	style styles

	logLevel  LogLevel
	component string

	tail       *tailState
	tailLines  int
	enableTail bool
}

type styles struct {
	logInfo   lipgloss.Style
	logWarn   lipgloss.Style
	logError  lipgloss.Style
	banner    lipgloss.Style
	tailBox   lipgloss.Style
	tailTitle lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		logInfo:   lipgloss.NewStyle(),
		logWarn:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		logError:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		banner:    lipgloss.NewStyle().Bold(true).Border(lipgloss.NormalBorder()).Padding(0, 1).Margin(1, 0),
		tailBox:   lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1),
		tailTitle: lipgloss.NewStyle().Bold(true),
	}
}

// New creates a new Logger.
func New(opts Options) *Logger {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.TailLines <= 0 {
		opts.TailLines = 10
	}

	return &Logger{
		out:        opts.Out,
		full:       opts.FullLogWriter,
		style:      defaultStyles(),
		tailLines:  opts.TailLines,
		enableTail: opts.EnableTail,
		logLevel:   opts.LogLevel,
		component:  opts.Component,
	}
}

func (l *Logger) SetComponent(component string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.component = component
}

func (l *Logger) SetLogLevel(logLevel LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logLevel = logLevel
}

// SetFullLogWriter attaches the plain-text mirror. Ignored if already set.
func (l *Logger) SetFullLogWriter(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.full == nil {
		l.full = w
	}
}

// Close finalizes any active tail and closes the full log if it is a Closer.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.tail != nil && !l.tail.closed {
		l.finalizeTailLocked()
	}

	if c, ok := l.full.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (l *Logger) Error(format string, args ...any) {
	l.printLog(false, "ERR ", l.style.logError, format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.printLog(l.logLevel < LogLevelWarn, "WARN", l.style.logWarn, format, args...)
}

func (l *Logger) Info(format string, args ...any) {
	l.printLog(l.logLevel < LogLevelInfo, "INFO", l.style.logInfo, format, args...)
}

// InfoSilent records to the full log only.
func (l *Logger) InfoSilent(format string, args ...any) {
	l.printLog(true, "INFO", l.style.logInfo, format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	if l.logLevel >= LogLevelDebug {
		l.printLog(false, "DEBG", l.style.logInfo, format, args...)
	}
}

// printLog handles clearing/redrawing the tail box around a log line.
func (l *Logger) printLog(silent bool, level string, style lipgloss.Style, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format("2006-01-02T15:04:05.000")

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.component != "" {
		msg = fmt.Sprintf("[%s] %s", l.component, msg)
	}

	if l.enableTail && l.tail != nil && !l.tail.closed && l.tail.lastBoxHeight > 0 {
		l.clearTailBoxLocked()
	}

	if l.full != nil {
		fmt.Fprintf(l.full, "[%s] [%s] %s\n", timestamp, level, msg)
	}

	if !silent {
		fmt.Fprintln(l.out, style.Render(fmt.Sprintf("[%s] [%s] %s", timestamp, level, msg)))

		if l.enableTail && l.tail != nil && !l.tail.closed && len(l.tail.buf) > 0 {
			l.drawTailBoxLocked()
		}
	}
}

// Banner prints a boxed title.
func (l *Logger) Banner(title string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.enableTail && l.tail != nil && !l.tail.closed && l.tail.lastBoxHeight > 0 {
		l.clearTailBoxLocked()
	}

	if l.full != nil {
		fmt.Fprintf(l.full, "\n===== %s =====\n\n", title)
		if s, ok := l.full.(interface{ Sync() error }); ok {
			s.Sync()
		}
	}

	fmt.Fprintln(l.out, l.style.banner.Render(title))

	if l.enableTail && l.tail != nil && !l.tail.closed && len(l.tail.buf) > 0 {
		l.drawTailBoxLocked()
	}
}

func (l *Logger) Spacer() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.out)
}
