package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Red-Bob7120/Data-Science/src/config"
	"github.com/rs/zerolog"
)

// LogLevel orders log severities from DEBUG to FATAL.
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARNING
	ERROR
	FATAL
)

// Logger writes JSON log lines through zerolog to a file (or any writer) and
// fans every rendered line out to subscribers.
type Logger struct {
	zl          zerolog.Logger
	out         io.Writer
	file        *os.File
	filename    string
	mu          sync.Mutex
	subscribers []chan string
}

// NewLogger opens (or creates) filename in append mode.
func NewLogger(filename string) (*Logger, error) {
	file, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", filename, err)
	}

	l := &Logger{file: file, out: file, filename: filename}
	l.zl = zerolog.New(l).With().Timestamp().Logger()
	return l, nil
}

// NewWriterLogger logs to w. Reopen and rotation are no-ops for it.
func NewWriterLogger(w io.Writer) *Logger {
	l := &Logger{out: w}
	l.zl = zerolog.New(l).With().Timestamp().Logger()
	return l
}

// NewNopLogger discards everything.
func NewNopLogger() *Logger {
	return NewWriterLogger(io.Discard)
}

// Write implements io.Writer for zerolog. One call carries one rendered event.
func (l *Logger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	n, err := l.out.Write(p)

	entry := strings.TrimRight(string(p), "\n")
	for _, ch := range l.subscribers {
		select {
		case ch <- entry:
		default:
		}
	}
	return n, err
}

// SetLevel drops events below the named level ("debug", "info", ...).
func (l *Logger) SetLevel(name string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", name, err)
	}
	l.mu.Lock()
	l.zl = l.zl.Level(lvl)
	l.mu.Unlock()
	return nil
}

// Close closes the log file and every subscriber channel.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, ch := range l.subscribers {
		close(ch)
	}
	l.subscribers = nil

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		l.out = io.Discard
		return err
	}
	return nil
}

// Reopen closes the current file and opens filename, e.g. after an external
// logrotate on SIGHUP.
func (l *Logger) Reopen(filename string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil && l.filename == "" {
		return nil
	}
	if l.file != nil {
		_ = l.file.Close()
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		l.file = nil
		l.out = io.Discard
		return fmt.Errorf("reopen log file %s: %w", filename, err)
	}
	l.file = file
	l.out = file
	l.filename = filename
	return nil
}

// Event starts a structured event at level. Call Msg on it to emit.
func (l *Logger) Event(level LogLevel) *zerolog.Event {
	l.mu.Lock()
	zl := l.zl
	l.mu.Unlock()
	return zl.WithLevel(level.zerolog())
}

func (l *Logger) Log(level LogLevel, message string) {
	l.Event(level).Msg(message)
}

// CheckRotate renames the current file aside once it grows past
// cfg.LogMaxSize and starts a fresh one under the same name.
func (l *Logger) CheckRotate(cfg *config.Config) error {
	l.mu.Lock()
	file := l.file
	l.mu.Unlock()
	if file == nil {
		return nil
	}

	limit, err := eval(cfg.LogMaxSize)
	if err != nil {
		return err
	}

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat log file: %w", err)
	}
	if info.Size() <= limit {
		return nil
	}
	return l.rotateLog()
}

func (l *Logger) rotateLog() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	ext := filepath.Ext(l.filename)
	rotated := fmt.Sprintf("%s.%s%s",
		strings.TrimSuffix(l.filename, ext),
		time.Now().Format("20060102150405"),
		ext)

	if l.file != nil {
		_ = l.file.Close()
	}
	if err := os.Rename(l.filename, rotated); err != nil {
		return fmt.Errorf("rotate log: %w", err)
	}

	file, err := os.OpenFile(l.filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		l.file = nil
		l.out = io.Discard
		return fmt.Errorf("rotate log: %w", err)
	}
	l.file = file
	l.out = file
	return nil
}

// Subscribe returns a channel receiving every rendered line. The channel is
// buffered (100); lines are dropped while it is full. Close closes it.
func (l *Logger) Subscribe() <-chan string {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch := make(chan string, 100)
	l.subscribers = append(l.subscribers, ch)
	return ch
}

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARNING:
		return "WARNING"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) zerolog() zerolog.Level {
	switch l {
	case DEBUG:
		return zerolog.DebugLevel
	case INFO:
		return zerolog.InfoLevel
	case WARNING:
		return zerolog.WarnLevel
	case ERROR:
		return zerolog.ErrorLevel
	case FATAL:
		return zerolog.FatalLevel
	default:
		return zerolog.NoLevel
	}
}

// eval computes size expressions such as "10 * 1024 * 1024".
func eval(expr string) (int64, error) {
	if strings.TrimSpace(expr) == "" {
		return 0, fmt.Errorf("empty log size expression")
	}

	var result int64 = 1
	for _, part := range strings.Split(expr, "*") {
		num, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid log size expression %q: %w", expr, err)
		}
		result *= num
	}
	return result, nil
}

func (l *Logger) Debug(msg string)   { l.Log(DEBUG, msg) }
func (l *Logger) Info(msg string)    { l.Log(INFO, msg) }
func (l *Logger) Warning(msg string) { l.Log(WARNING, msg) }
func (l *Logger) Error(msg string)   { l.Log(ERROR, msg) }
func (l *Logger) Fatal(msg string)   { l.Log(FATAL, msg) }
