package logging

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// FollowOptions controls Follow.
type FollowOptions struct {
	// FromStart replays the existing file contents before waiting for new
	// lines. Default is to start at the current end of file.
	FromStart bool
}

// Follow tails the file at path, invoking fn for every complete line until
// ctx is cancelled or fn returns an error. New data is picked up through
// filesystem notifications rather than polling, which keeps the follow
// responsive on status files written from detached processes.
//
// Follow returns nil on context cancellation; fn errors are returned as-is.
func Follow(ctx context.Context, path string, opts FollowOptions, fn func(line string) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	if !opts.FromStart {
		if _, err := file.Seek(0, io.SeekEnd); err != nil {
			return fmt.Errorf("failed to seek %s: %w", path, err)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the parent directory: watching the file itself breaks when
	// writers replace it.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	reader := bufio.NewReader(file)
	var partial strings.Builder

	// Lines already present before the first event.
	if err := drainLines(reader, &partial, fn); err != nil {
		return err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			eventPath, err := filepath.Abs(event.Name)
			if err != nil || eventPath != absPath {
				continue
			}
			if err := drainLines(reader, &partial, fn); err != nil {
				return err
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch error: %w", err)
		}
	}
}

// drainLines reads everything currently available, buffering an incomplete
// trailing line in partial until its newline arrives.
func drainLines(reader *bufio.Reader, partial *strings.Builder, fn func(line string) error) error {
	for {
		chunk, err := reader.ReadString('\n')
		if err == nil {
			line := partial.String() + strings.TrimRight(chunk, "\n")
			partial.Reset()
			if err := fn(line); err != nil {
				return err
			}
			continue
		}
		if err == io.EOF {
			partial.WriteString(chunk)
			return nil
		}
		return fmt.Errorf("failed to read: %w", err)
	}
}
