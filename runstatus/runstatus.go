// Package runstatus records the outcome of long-running jobs to a plain
// text file. The file is readable without any tooling, which matters when
// the process runs somewhere its output is hard to reach, like a detached
// container.
package runstatus

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/STomoya/stutil/timeutil"
)

// Open-mode flag sets for the status file.
const (
	AppendFileFlags   = os.O_APPEND | os.O_CREATE | os.O_WRONLY
	TruncateFileFlags = os.O_TRUNC | os.O_CREATE | os.O_WRONLY
)

const timeLayout = "2006-01-02 15:04:05"

const (
	statusFinished = "FINISHED 🐈"
	statusCrashed  = "CRASHED 👿"
)

// Options configures Record.
type Options struct {
	// Name labels the status block. Defaults to "main".
	Name string

	// Flags is the os.OpenFile flag set for the status file. Zero means
	// append+create.
	Flags int

	// Location for the recorded timestamps. Defaults to JST.
	Location *time.Location

	now func() time.Time
}

func (o Options) flags() int {
	if o.Flags == 0 {
		return AppendFileFlags
	}
	return o.Flags
}

func (o Options) name() string {
	if o.Name == "" {
		return "main"
	}
	return o.Name
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return timeutil.JST()
	}
	return o.Location
}

func (o Options) clock() time.Time {
	if o.now != nil {
		return o.now()
	}
	return time.Now()
}

// Record runs fn and appends a status block to the file at path: name,
// status, start and end time, and duration. A returned error or a panic
// records a crashed block with the message, and a panic additionally
// records the stack before re-panicking.
func Record(path string, opts Options, fn func() error) (err error) {
	start := opts.clock().In(opts.location())

	defer func() {
		end := opts.clock().In(opts.location())
		if r := recover(); r != nil {
			detail := fmt.Sprintf("**  ERROR       **: %v\n**  TRACEBACK   **: \n%s\n", r, debug.Stack())
			write(path, opts, statusCrashed, start, end, detail)
			panic(r)
		}
		if err != nil {
			detail := fmt.Sprintf("**  ERROR       **: %v\n", err)
			write(path, opts, statusCrashed, start, end, detail)
			return
		}
		write(path, opts, statusFinished, start, end, "")
	}()

	return fn()
}

// write appends one status block. Failures surface as a warning on stderr
// so they never mask the job's own outcome.
func write(path string, opts Options, status string, start, end time.Time, detail string) {
	block := fmt.Sprintf(
		"**  MAIN CALL   **: %s\n"+
			"**  STATUS      **: %s\n"+
			"**  START TIME  **: %s\n"+
			"**  END TIME    **: %s\n"+
			"**  DURATION    **: %s\n",
		opts.name(), status,
		start.Format(timeLayout), end.Format(timeLayout),
		end.Sub(start),
	)
	block += detail

	file, err := os.OpenFile(path, opts.flags(), 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "runstatus: failed to open %s: %v\n", path, err)
		return
	}
	defer file.Close()
	if _, err := file.WriteString(block); err != nil {
		fmt.Fprintf(os.Stderr, "runstatus: failed to write %s: %v\n", path, err)
	}
}
