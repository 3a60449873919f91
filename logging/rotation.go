package logging

import (
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// RotationConfig controls size-based rotation of a log file.
type RotationConfig struct {
	// MaxSizeMB is the size at which the file is rotated. Zero disables
	// rotation.
	MaxSizeMB int
	// MaxBackups is how many rotated files to keep. Zero keeps none.
	MaxBackups int
	// Compress gzips rotated files.
	Compress bool
}

// DefaultRotationConfig keeps up to three 10 MB files, uncompressed.
func DefaultRotationConfig() RotationConfig {
	return RotationConfig{MaxSizeMB: 10, MaxBackups: 3}
}

// RotatingWriter is an io.Writer over a log file that rotates the file when
// it would exceed the configured size. Backups are numbered path.1 (newest)
// through path.N (oldest). Safe for concurrent use.
type RotatingWriter struct {
	mu sync.Mutex

	path       string
	maxBytes   int64
	maxBackups int
	compress   bool

	file *os.File
	size int64
}

// NewRotatingWriter opens (or creates) the log file at path, creating parent
// directories as needed.
func NewRotatingWriter(path string, cfg RotationConfig) (*RotatingWriter, error) {
	rw := &RotatingWriter{
		path:       path,
		maxBytes:   int64(cfg.MaxSizeMB) * 1024 * 1024,
		maxBackups: cfg.MaxBackups,
		compress:   cfg.Compress,
	}
	if err := rw.open(); err != nil {
		return nil, err
	}
	return rw, nil
}

func (rw *RotatingWriter) open() error {
	if err := os.MkdirAll(filepath.Dir(rw.path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(rw.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}
	rw.file = file
	rw.size = info.Size()
	return nil
}

// Write appends p, rotating first when the write would push the file past
// the size limit. A failed rotation does not block the write.
func (rw *RotatingWriter) Write(p []byte) (int, error) {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.file == nil {
		return 0, fmt.Errorf("log file is closed")
	}
	if rw.maxBytes > 0 && rw.size+int64(len(p)) > rw.maxBytes {
		if err := rw.rotate(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: log rotation failed: %v\n", err)
		}
	}
	n, err := rw.file.Write(p)
	rw.size += int64(n)
	return n, err
}

// rotate closes the current file, shifts backups, and opens a fresh file.
// Caller holds the mutex.
func (rw *RotatingWriter) rotate() error {
	if err := rw.file.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	rw.file = nil

	rw.shiftBackups()

	if rw.maxBackups > 0 {
		backup := rw.backupPath(1)
		if err := os.Rename(rw.path, backup); err != nil {
			if openErr := rw.open(); openErr != nil {
				return fmt.Errorf("failed to rename log file and reopen: %w", openErr)
			}
			return fmt.Errorf("failed to rename log file: %w", err)
		}
		if rw.compress {
			compressFile(backup)
		}
	} else {
		os.Remove(rw.path)
	}

	return rw.open()
}

// shiftBackups renumbers existing backups up by one, dropping the oldest.
func (rw *RotatingWriter) shiftBackups() {
	oldest := rw.backupPath(rw.maxBackups)
	os.Remove(oldest)
	os.Remove(oldest + ".gz")

	for i := rw.maxBackups - 1; i >= 1; i-- {
		from := rw.backupPath(i)
		to := rw.backupPath(i + 1)
		if _, err := os.Stat(from + ".gz"); err == nil {
			os.Rename(from+".gz", to+".gz")
		} else if _, err := os.Stat(from); err == nil {
			os.Rename(from, to)
		}
	}
}

func (rw *RotatingWriter) backupPath(n int) string {
	return fmt.Sprintf("%s.%d", rw.path, n)
}

// compressFile gzips path and removes the original. Failures leave the
// uncompressed backup in place.
func compressFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	gzPath := path + ".gz"
	out, err := os.Create(gzPath)
	if err != nil {
		return
	}
	zw := gzip.NewWriter(out)
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		out.Close()
		os.Remove(gzPath)
		return
	}
	if err := zw.Close(); err != nil {
		out.Close()
		os.Remove(gzPath)
		return
	}
	if err := out.Close(); err != nil {
		os.Remove(gzPath)
		return
	}
	os.Remove(path)
}

// Sync flushes the current file to disk.
func (rw *RotatingWriter) Sync() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	if rw.file == nil {
		return nil
	}
	return rw.file.Sync()
}

// Size returns the current file size in bytes.
func (rw *RotatingWriter) Size() int64 {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	return rw.size
}

// Close syncs and closes the current file. Further writes fail.
func (rw *RotatingWriter) Close() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	if rw.file == nil {
		return nil
	}
	if err := rw.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync log file: %w", err)
	}
	if err := rw.file.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	rw.file = nil
	return nil
}
