// Package timer provides a manual stopwatch for measuring accumulated time
// across explicit start/stop/pause boundaries, with per-step averages.
package timer

import "time"

// Timer accumulates elapsed wall time between Start/Pause/Stop calls.
// The zero value is ready to use. Not safe for concurrent use.
type Timer struct {
	started time.Time
	running bool
	total   time.Duration
	steps   int

	// now is swappable for tests.
	now func() time.Time
}

// New returns a reset Timer.
func New() *Timer {
	return &Timer{now: time.Now}
}

func (t *Timer) clock() time.Time {
	if t.now == nil {
		return time.Now()
	}
	return t.now()
}

// Reset clears all accumulated time and steps.
func (t *Timer) Reset() {
	t.started = time.Time{}
	t.running = false
	t.total = 0
	t.steps = 0
}

// Start begins timing. Calling Start while running restarts the current
// span without banking it.
func (t *Timer) Start() {
	t.started = t.clock()
	t.running = true
}

// Stop ends timing and banks the elapsed time of the current span. A no-op
// when not running, so a Stop without a Start, or a second Stop, banks
// nothing.
func (t *Timer) Stop() {
	if t.running {
		t.total += t.elapsed()
	}
	t.started = time.Time{}
	t.running = false
}

// Pause banks the current span and suspends timing. A no-op when not
// running.
func (t *Timer) Pause() {
	if t.running {
		t.total += t.elapsed()
		t.running = false
	}
}

// Resume continues timing after a Pause. A no-op when already running.
func (t *Timer) Resume() {
	if !t.running {
		t.started = t.clock()
		t.running = true
	}
}

// Step increments the step counter used by Average.
func (t *Timer) Step() {
	t.steps++
}

// Total returns the banked time. Time in a currently running span is not
// included until Stop or Pause.
func (t *Timer) Total() time.Duration {
	return t.total
}

// Average returns the banked time divided by the number of steps, treating
// zero steps as one.
func (t *Timer) Average() time.Duration {
	denom := t.steps
	if denom < 1 {
		denom = 1
	}
	return t.total / time.Duration(denom)
}

func (t *Timer) elapsed() time.Duration {
	return t.clock().Sub(t.started)
}
