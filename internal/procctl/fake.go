package procctl

import (
	"context"
	"slices"
	"strings"
	"sync"
)

// Fake is an in-memory Controller for tests. It keeps a table of running
// image names and records every call as "terminate:<name>", "start:<name>",
// or "running:<name>". Tests can interleave their own events with Note.
type Fake struct {
	mu      sync.Mutex
	calls   []string
	running map[string]int
	nextPID int

	// TerminateErr and StartErr inject failures keyed by process name.
	TerminateErr map[string]error
	StartErr     map[string]error
	RunningErr   error
	// OnStart runs before a launch is recorded as running.
	OnStart func(spec LaunchSpec)
}

// NewFake returns a Fake whose table already contains names.
func NewFake(names ...string) *Fake {
	f := &Fake{
		running:      make(map[string]int),
		nextPID:      1000,
		TerminateErr: make(map[string]error),
		StartErr:     make(map[string]error),
	}
	for _, name := range names {
		f.running[key(name)] = f.allocPID()
	}
	return f
}

func (f *Fake) Terminate(_ context.Context, name string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "terminate:"+name)
	if err := f.TerminateErr[name]; err != nil {
		return 0, err
	}
	if _, ok := f.running[key(name)]; !ok {
		return 0, nil
	}
	delete(f.running, key(name))
	return 1, nil
}

func (f *Fake) Start(ctx context.Context, spec LaunchSpec) (int, error) {
	f.mu.Lock()
	f.calls = append(f.calls, "start:"+spec.Name)
	hook := f.OnStart
	startErr := f.StartErr[spec.Name]
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if startErr != nil {
		return 0, startErr
	}
	if hook != nil {
		hook(spec)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	pid := f.allocPID()
	f.running[key(spec.Name)] = pid
	return pid, nil
}

func (f *Fake) Running(_ context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "running:"+name)
	if f.RunningErr != nil {
		return false, f.RunningErr
	}
	_, ok := f.running[key(name)]
	return ok, nil
}

// Note appends a caller-defined event to the call log.
func (f *Fake) Note(event string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, event)
}

// Calls returns a copy of the call log.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// IsRunning reports whether name is in the simulated table.
func (f *Fake) IsRunning(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.running[key(name)]
	return ok
}

func (f *Fake) allocPID() int {
	f.nextPID++
	return f.nextPID
}

func key(name string) string {
	return strings.ToLower(trimExe(strings.TrimSpace(name)))
}
