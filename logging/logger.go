// Package logging provides a structured logger factory built on log/slog.
//
// Loggers are created by name. Requesting the same name twice returns the
// same logger, so packages can call Get freely without duplicating file
// handles or handlers. Console output goes through a stdio.Streams so that
// log lines participate in output redirection; an optional file target
// receives JSON lines, with size-based rotation when configured.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/STomoya/stutil/stdio"
)

// Log levels accepted by Options.Level.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// Options configures a logger created by New or Get.
type Options struct {
	// Level is the minimum level logged. Defaults to INFO.
	Level string

	// Streams receives human-readable console output. Defaults to
	// stdio.Default, writing text lines to its Err slot.
	Streams *stdio.Streams

	// JSONConsole switches the console handler to JSON lines.
	JSONConsole bool

	// FilePath, when set, mirrors log records to a JSON-lines file.
	FilePath string

	// FileFlags is the os.OpenFile flag set for FilePath. Zero means
	// append+create.
	FileFlags int

	// Rotation enables size-based rotation of the log file. Only used
	// together with FilePath.
	Rotation *RotationConfig

	// Handlers are additional slog handlers that receive every record,
	// after level filtering.
	Handlers []slog.Handler
}

// Logger is a named structured logger.
type Logger struct {
	name   string
	logger *slog.Logger
	closer io.Closer
}

var (
	mu      sync.Mutex
	loggers = make(map[string]*Logger)
)

// Get returns the logger registered under name, creating it with opts on
// first use. Later calls with the same name ignore opts.
func Get(name string, opts Options) (*Logger, error) {
	mu.Lock()
	defer mu.Unlock()

	if logger, ok := loggers[name]; ok {
		return logger, nil
	}
	logger, err := New(name, opts)
	if err != nil {
		return nil, err
	}
	loggers[name] = logger
	return logger, nil
}

// New creates a logger without registering it. Callers own the returned
// logger and should Close it when a file target is configured.
func New(name string, opts Options) (*Logger, error) {
	level := parseLevel(opts.Level)
	handlerOpts := &slog.HandlerOptions{Level: level}

	streams := opts.Streams
	if streams == nil {
		streams = stdio.Default
	}
	console := streamErr{streams}

	var handlers []slog.Handler
	if opts.JSONConsole {
		handlers = append(handlers, slog.NewJSONHandler(console, handlerOpts))
	} else {
		handlers = append(handlers, slog.NewTextHandler(console, handlerOpts))
	}

	var closer io.Closer
	if opts.FilePath != "" {
		var target io.Writer
		if opts.Rotation != nil {
			rw, err := NewRotatingWriter(opts.FilePath, *opts.Rotation)
			if err != nil {
				return nil, err
			}
			target = rw
			closer = rw
		} else {
			flags := opts.FileFlags
			if flags == 0 {
				flags = os.O_APPEND | os.O_CREATE | os.O_WRONLY
			}
			file, err := os.OpenFile(opts.FilePath, flags, 0644)
			if err != nil {
				return nil, fmt.Errorf("failed to open log file: %w", err)
			}
			target = file
			closer = file
		}
		handlers = append(handlers, slog.NewJSONHandler(target, handlerOpts))
	}
	handlers = append(handlers, opts.Handlers...)

	var handler slog.Handler
	if len(handlers) == 1 {
		handler = handlers[0]
	} else {
		handler = multiHandler(handlers)
	}

	return &Logger{
		name:   name,
		logger: slog.New(handler).With(slog.String("logger", name)),
		closer: closer,
	}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{
		name:   "nop",
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// streamErr resolves the Err slot on every write so a logger created before
// a redirect was opened still writes through it.
type streamErr struct {
	streams *stdio.Streams
}

func (w streamErr) Write(p []byte) (int, error) {
	return w.streams.Err.Write(p)
}

func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Name returns the name the logger was created under.
func (l *Logger) Name() string { return l.name }

// With returns a child logger carrying additional key-value attributes.
// The child shares the parent's targets; closing remains the parent's job.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		name:   l.name,
		logger: l.logger.With(args...),
	}
}

// Debug logs at DEBUG level with optional key-value pairs.
func (l *Logger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }

// Info logs at INFO level with optional key-value pairs.
func (l *Logger) Info(msg string, args ...any) { l.logger.Info(msg, args...) }

// Warn logs at WARN level with optional key-value pairs.
func (l *Logger) Warn(msg string, args ...any) { l.logger.Warn(msg, args...) }

// Error logs at ERROR level with optional key-value pairs.
func (l *Logger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

// Close releases the file target if one was opened. Loggers without a file
// treat Close as a no-op.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	closer := l.closer
	l.closer = nil
	return closer.Close()
}

// multiHandler fans every record out to all wrapped handlers.
type multiHandler []slog.Handler

func (m multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m multiHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, h := range m {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(multiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (m multiHandler) WithGroup(name string) slog.Handler {
	out := make(multiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithGroup(name)
	}
	return out
}
