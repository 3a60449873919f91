// Package pathutil provides a string-based path type with chainable helpers,
// a named-subfolder registry for run directories, and filesystem utilities
// (globbing, existence checks, numeric-aware sorting).
package pathutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/xdg"
)

// Path is a filesystem path. It is a plain string, so it can be passed
// directly to any API that takes one, while still carrying path helpers.
type Path string

// Join appends path elements, like filepath.Join rooted at p.
func (p Path) Join(elems ...string) Path {
	return Path(filepath.Join(append([]string{string(p)}, elems...)...))
}

// Name returns the base name of the path when it refers to a file, and an
// empty string when it refers to a directory.
func (p Path) Name() string {
	if !p.IsFile() {
		return ""
	}
	return filepath.Base(string(p))
}

// Base returns the last element of the path regardless of what it refers to.
func (p Path) Base() string {
	return filepath.Base(string(p))
}

// Stem returns the base name with the extension removed.
func (p Path) Stem() string {
	name := p.Base()
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Suffix returns the file extension, including the dot.
func (p Path) Suffix() string {
	return filepath.Ext(string(p))
}

// Dir returns the parent directory.
func (p Path) Dir() Path {
	return Path(filepath.Dir(string(p)))
}

// Exists reports whether the path exists.
func (p Path) Exists() bool {
	_, err := os.Stat(string(p))
	return err == nil
}

// IsDir reports whether the path exists and is a directory.
func (p Path) IsDir() bool {
	info, err := os.Stat(string(p))
	return err == nil && info.IsDir()
}

// IsFile reports whether the path exists and is a regular file.
func (p Path) IsFile() bool {
	info, err := os.Stat(string(p))
	return err == nil && info.Mode().IsRegular()
}

// MkdirAll creates the directory and any missing parents. Existing
// directories are left untouched.
func (p Path) MkdirAll() error {
	if err := os.MkdirAll(string(p), 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", p, err)
	}
	return nil
}

// ExpandUser replaces a leading ~ with the user's home directory.
func (p Path) ExpandUser() Path {
	s := string(p)
	if s == "~" {
		return Path(xdg.Home)
	}
	if strings.HasPrefix(s, "~"+string(os.PathSeparator)) || strings.HasPrefix(s, "~/") {
		return Path(filepath.Join(xdg.Home, s[2:]))
	}
	return p
}

// Resolve returns the absolute path with symlinks evaluated. Resolution
// failures fall back to the absolute path alone, matching the best-effort
// nature of display paths.
func (p Path) Resolve() Path {
	abs, err := filepath.Abs(string(p))
	if err != nil {
		return p
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return Path(abs)
	}
	return Path(resolved)
}

// GlobOptions controls Path.Glob.
type GlobOptions struct {
	// Pattern is the glob pattern matched under the path. Default "*".
	Pattern string
	// Recursive descends into subdirectories.
	Recursive bool
	// Filter keeps only paths for which it returns true.
	Filter func(Path) bool
	// Sort orders the result with NaturalSort.
	Sort bool
}

// Glob matches files and directories under p.
func (p Path) Glob(opts GlobOptions) ([]Path, error) {
	pattern := opts.Pattern
	if pattern == "" {
		pattern = "*"
	}

	var matches []string
	var err error
	if opts.Recursive {
		matches, err = globRecursive(string(p), pattern)
	} else {
		matches, err = filepath.Glob(filepath.Join(string(p), pattern))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to glob %s: %w", p, err)
	}

	paths := make([]Path, 0, len(matches))
	for _, match := range matches {
		candidate := Path(match)
		if opts.Filter != nil && !opts.Filter(candidate) {
			continue
		}
		paths = append(paths, candidate)
	}
	if opts.Sort {
		sort.Slice(paths, func(i, j int) bool {
			return naturalLess(string(paths[i]), string(paths[j]))
		})
	}
	return paths, nil
}

// globRecursive walks root and matches the pattern against base names at
// every depth, mirroring a **/pattern glob.
func globRecursive(root, pattern string) ([]string, error) {
	var matches []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		ok, err := filepath.Match(pattern, d.Name())
		if err != nil {
			return err
		}
		if ok {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// Home returns the user's home directory.
func Home() Path {
	return Path(xdg.Home)
}

// ConfigDir returns the per-application config directory under the platform
// config root.
func ConfigDir(app string) Path {
	return Path(filepath.Join(xdg.ConfigHome, app))
}

// CacheDir returns the per-application cache directory under the platform
// cache root.
func CacheDir(app string) Path {
	return Path(filepath.Join(xdg.CacheHome, app))
}

// CheckFolder reports whether folder exists, optionally creating it
// (with parents) when it does not.
func CheckFolder(folder string, make bool) (bool, error) {
	exists := Path(folder).Exists()
	if make && !exists {
		if err := Path(folder).MkdirAll(); err != nil {
			return false, err
		}
	}
	return exists, nil
}

// GlobInside globs for entries matching pattern under folder, recursing into
// subfolders by default.
func GlobInside(folder, pattern string, recursive bool) ([]Path, error) {
	return Path(folder).Glob(GlobOptions{Pattern: pattern, Recursive: recursive})
}
