// Package deprecate emits deprecation warnings for library APIs. Each
// deprecated name warns at most once per process so call sites in hot
// loops do not flood the logs.
package deprecate

import (
	"fmt"
	"sync"

	"github.com/STomoya/stutil/logging"
)

// Options describes a deprecation.
type Options struct {
	// FavorOf names the replacement the deprecation was made in favor of.
	FavorOf string

	// Recommendation is printed as a usage hint when set.
	Recommendation string

	// Logger receives the warning. Defaults to the package logger.
	Logger *logging.Logger
}

var (
	mu     sync.Mutex
	warned = map[string]struct{}{}
)

func defaultLogger() *logging.Logger {
	logger, err := logging.Get("deprecate", logging.Options{})
	if err != nil {
		return logging.Nop()
	}
	return logger
}

// Warn logs a deprecation warning for name. Repeated calls with the same
// name are silent.
func Warn(name string, opts Options) {
	mu.Lock()
	if _, ok := warned[name]; ok {
		mu.Unlock()
		return
	}
	warned[name] = struct{}{}
	mu.Unlock()

	message := fmt.Sprintf("%q is deprecated", name)
	if opts.FavorOf != "" {
		message += fmt.Sprintf(" in favor of %q", opts.FavorOf)
	}
	message += "."
	if opts.Recommendation != "" {
		message += fmt.Sprintf(" Please use %q.", opts.Recommendation)
	}

	logger := opts.Logger
	if logger == nil {
		logger = defaultLogger()
	}
	logger.Warn(message)
}

// Wrap returns a function that warns about name on every call, which the
// once-per-name guard reduces to a single warning, then delegates to fn.
func Wrap(name string, opts Options, fn func()) func() {
	return func() {
		Warn(name, opts)
		fn()
	}
}
