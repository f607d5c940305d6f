// Package timer tracks wall-clock durations for multi-stage command runs.
package timer

import "time"

// Timer measures the total duration of a run and the duration of the
// current stage within it.
type Timer interface {
	// Start begins tracking. Calling Start again resets the timer.
	Start()
	// NewStage marks the beginning of a new stage.
	NewStage()
	// GetTiming returns the total elapsed duration and the elapsed
	// duration of the current stage.
	GetTiming() (total, stage time.Duration)
}

type clockTimer struct {
	start      time.Time
	stageStart time.Time
	now        func() time.Time
}

// New creates a started Timer backed by the system clock.
func New() Timer {
	tmr := &clockTimer{now: time.Now}
	tmr.Start()

	return tmr
}

func (t *clockTimer) Start() {
	t.start = t.now()
	t.stageStart = t.start
}

func (t *clockTimer) NewStage() {
	t.stageStart = t.now()
}

func (t *clockTimer) GetTiming() (time.Duration, time.Duration) {
	current := t.now()

	return current.Sub(t.start).Round(time.Millisecond),
		current.Sub(t.stageStart).Round(time.Millisecond)
}
