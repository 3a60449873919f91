package stdio

import (
	"fmt"
	"io"
	"os"
)

// DefaultFileFlags is the open mode used for the mirror file when Options.Flags
// is zero: append to an existing file, creating it if needed.
const DefaultFileFlags = os.O_APPEND | os.O_CREATE | os.O_WRONLY

// TruncateFileFlags opens the mirror file fresh, discarding previous contents.
const TruncateFileFlags = os.O_TRUNC | os.O_CREATE | os.O_WRONLY

// Options configures an output redirect.
type Options struct {
	// Path is the file that writes are mirrored into. Empty means no file:
	// the redirect only forwards to the captured writers.
	Path string

	// Flags is the os.OpenFile flag set for Path. Zero means DefaultFileFlags.
	Flags int

	// NoFlush disables the flush performed after every non-empty write.
	// Flushing per write keeps the mirror file current even if the process
	// dies without a clean Close, at the cost of a sync per write.
	NoFlush bool
}

// flusher is the optional capability a captured writer may expose so that
// Redirect.Flush can push buffered output through it. *os.File is unbuffered
// and deliberately not matched: Sync on a terminal fd fails with EINVAL.
type flusher interface {
	Flush() error
}

// Streams holds the swappable standard output targets for one scope,
// usually the whole process. The zero value is not usable; call New.
type Streams struct {
	// Out and Err are the current output targets. Code that prints through
	// a Streams reads these fields directly.
	Out io.Writer
	Err io.Writer

	active *Redirect
}

// New returns a Streams targeting the real process stdout and stderr.
func New() *Streams {
	return &Streams{Out: os.Stdout, Err: os.Stderr}
}

// Default is the process-wide Streams instance used by the package-level
// Open, Close and With helpers.
var Default = New()

// Redirect is an output stream installed over a Streams' Out and Err slots.
// Writes go to the mirror file first (when one is open) and then to the
// writer that was installed as Out when the redirect was opened.
type Redirect struct {
	streams *Streams
	out     io.Writer // Out captured at open time
	err     io.Writer // Err captured at open time
	file    *os.File
	flush   bool
}

// Active returns the currently installed redirect, or nil.
func (s *Streams) Active() *Redirect { return s.active }

// OpenRedirect installs a redirect over s. If one is already active it is
// returned unchanged: no file is opened and no writers are re-captured.
func (s *Streams) OpenRedirect(opts Options) (*Redirect, error) {
	if s.active != nil {
		return s.active, nil
	}

	var file *os.File
	if opts.Path != "" {
		flags := opts.Flags
		if flags == 0 {
			flags = DefaultFileFlags
		}
		var err error
		file, err = os.OpenFile(opts.Path, flags, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open redirect file: %w", err)
		}
	}

	r := &Redirect{
		streams: s,
		out:     s.Out,
		err:     s.Err,
		file:    file,
		flush:   !opts.NoFlush,
	}
	s.Out = r
	s.Err = r
	s.active = r
	return r, nil
}

// CloseRedirect closes the active redirect. It is a no-op when none is
// installed.
func (s *Streams) CloseRedirect() error {
	if s.active == nil {
		return nil
	}
	return s.active.Close()
}

// WithRedirect opens a redirect, runs fn, and closes the redirect on every
// exit path. A close error is only surfaced when fn itself succeeded.
func (s *Streams) WithRedirect(opts Options, fn func(*Redirect) error) (err error) {
	r, err := s.OpenRedirect(opts)
	if err != nil {
		return err
	}
	defer func() {
		cerr := r.Close()
		if err == nil {
			err = cerr
		}
	}()
	return fn(r)
}

// Write mirrors p into the file (if open) and forwards it to the writer
// captured at open time. A zero-length write is a deliberate no-op: nothing
// is written and nothing is flushed.
func (r *Redirect) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if r.file != nil {
		if _, err := r.file.Write(p); err != nil {
			return 0, fmt.Errorf("failed to write redirect file: %w", err)
		}
	}
	n, err := r.out.Write(p)
	if err != nil {
		return n, err
	}
	if r.flush {
		if err := r.Flush(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// WriteString writes decoded text through Write.
func (r *Redirect) WriteString(s string) (int, error) {
	return r.Write([]byte(s))
}

// Flush syncs the mirror file (if open) and flushes the captured output
// writer when it supports flushing. Safe to call at any time.
func (r *Redirect) Flush() error {
	if r.file != nil {
		if err := r.file.Sync(); err != nil {
			return fmt.Errorf("failed to sync redirect file: %w", err)
		}
	}
	if w, ok := r.out.(flusher); ok {
		return w.Flush()
	}
	return nil
}

// Close flushes, restores the captured writers, and closes the mirror file.
// A flush failure is reported but never skips restoration: a broken sink
// must not leave stdout and stderr captured.
//
// The writers are only restored while the Streams slots still point at this
// instance; a redirect never tears down routing it did not install. The file
// is closed and cleared regardless, so a second Close is a safe no-op.
func (r *Redirect) Close() error {
	err := r.Flush()

	if w, ok := r.streams.Out.(*Redirect); ok && w == r {
		r.streams.Out = r.out
	}
	if w, ok := r.streams.Err.(*Redirect); ok && w == r {
		r.streams.Err = r.err
	}
	if r.streams.active == r {
		r.streams.active = nil
	}

	if r.file != nil {
		file := r.file
		r.file = nil
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close redirect file: %w", cerr)
		}
	}
	return err
}

// Open installs a redirect over the process-wide Default streams, returning
// the active instance if one already exists.
func Open(opts Options) (*Redirect, error) {
	return Default.OpenRedirect(opts)
}

// Close closes the Default redirect if one is active.
func Close() error {
	return Default.CloseRedirect()
}

// With runs fn under a redirect on the Default streams, closing it on exit.
func With(opts Options, fn func(*Redirect) error) error {
	return Default.WithRedirect(opts, fn)
}
