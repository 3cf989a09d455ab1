package restart

import (
	"errors"
	"time"
)

// Action names a restart step.
type Action string

const (
	ActionTerminate Action = "terminate"
	ActionSettle    Action = "settle"
	ActionPromote   Action = "promote"
	ActionLaunch    Action = "launch"
)

// Status is the outcome of a step.
type Status string

const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Step records one executed step.
type Step struct {
	Action   Action
	Target   string
	Status   Status
	Count    int           // processes killed, for terminate
	PID      int           // launched pid
	Duration time.Duration // settle only
	Err      error
}

// Report lists steps in execution order.
type Report struct {
	Steps []Step
}

func (r *Report) add(step Step) {
	r.Steps = append(r.Steps, step)
}

// Failed returns the failed steps.
func (r Report) Failed() []Step {
	var out []Step
	for _, s := range r.Steps {
		if s.Status == StatusFailed {
			out = append(out, s)
		}
	}
	return out
}

// Err joins the errors of all failed steps.
func (r Report) Err() error {
	var errs []error
	for _, s := range r.Steps {
		if s.Err != nil {
			errs = append(errs, s.Err)
		}
	}
	return errors.Join(errs...)
}
