package procctl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v3/process"

	"misettings/internal/logging"
)

// LaunchSpec describes one executable to start.
type LaunchSpec struct {
	// Name is the process image name used for termination and running checks.
	Name string
	Path string
	Args []string
	Dir  string
	// Hidden suppresses the console window on Windows.
	Hidden bool
}

// Controller terminates, starts, and probes external processes by name.
type Controller interface {
	// Terminate kills every process whose image matches name, children
	// first. It returns how many processes were killed; finding none is not
	// an error.
	Terminate(ctx context.Context, name string) (int, error)
	// Start launches spec detached and returns its pid without waiting.
	Start(ctx context.Context, spec LaunchSpec) (int, error)
	// Running reports whether any process matches name.
	Running(ctx context.Context, name string) (bool, error)
}

// System controls real OS processes.
type System struct {
	logger *slog.Logger
}

// NewSystem returns a Controller backed by the host process table.
func NewSystem(logger *slog.Logger) *System {
	return &System{logger: logging.NewComponentLogger(logger, "procctl")}
}

func (s *System) Terminate(ctx context.Context, name string) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errors.New("terminate: process name is empty")
	}
	matches, err := s.find(ctx, name)
	if err != nil {
		return 0, err
	}

	self := int32(os.Getpid())
	killed := 0
	var errs []error
	for _, proc := range matches {
		if proc.Pid == self {
			continue
		}
		tree := append(descendants(ctx, proc), proc)
		for _, p := range tree {
			if p.Pid == self {
				continue
			}
			if err := p.KillWithContext(ctx); err != nil {
				if alive, _ := p.IsRunningWithContext(ctx); !alive {
					continue
				}
				errs = append(errs, fmt.Errorf("kill %s (pid %d): %w", name, p.Pid, err))
				continue
			}
			killed++
			s.logger.Debug("process killed",
				logging.String(logging.FieldProcess, name),
				logging.Int(logging.FieldPID, int(p.Pid)),
			)
		}
	}
	return killed, errors.Join(errs...)
}

func (s *System) Start(ctx context.Context, spec LaunchSpec) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	path := strings.TrimSpace(spec.Path)
	if path == "" {
		return 0, fmt.Errorf("launch %s: executable path is empty", spec.Name)
	}
	if _, err := os.Stat(path); err != nil {
		return 0, fmt.Errorf("launch %s: %w", spec.Name, err)
	}

	cmd := exec.Command(path, spec.Args...)
	cmd.Dir = spec.Dir
	if cmd.Dir == "" {
		cmd.Dir = filepath.Dir(path)
	}
	cmd.SysProcAttr = detachedAttr(spec.Hidden)
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("launch %s: %w", spec.Name, err)
	}
	pid := cmd.Process.Pid
	s.logger.Debug("process launched",
		logging.String(logging.FieldProcess, spec.Name),
		logging.String("path", path),
		logging.Int(logging.FieldPID, pid),
		logging.Bool("hidden", spec.Hidden),
	)
	return pid, cmd.Process.Release()
}

func (s *System) Running(ctx context.Context, name string) (bool, error) {
	matches, err := s.find(ctx, name)
	if err != nil {
		return false, err
	}
	return len(matches) > 0, nil
}

func (s *System) find(ctx context.Context, name string) ([]*process.Process, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	var out []*process.Process
	for _, p := range procs {
		candidate, err := p.NameWithContext(ctx)
		if err != nil {
			// Exited or inaccessible; neither can be ours to kill.
			continue
		}
		if MatchName(candidate, name) {
			out = append(out, p)
		}
	}
	return out, nil
}

// descendants returns the children of p, deepest first.
func descendants(ctx context.Context, p *process.Process) []*process.Process {
	children, err := p.ChildrenWithContext(ctx)
	if err != nil {
		return nil
	}
	var out []*process.Process
	for _, child := range children {
		out = append(out, descendants(ctx, child)...)
		out = append(out, child)
	}
	return out
}

// MatchName compares process image names case-insensitively, ignoring a
// trailing .exe on either side.
func MatchName(candidate, want string) bool {
	candidate = strings.TrimSpace(candidate)
	want = strings.TrimSpace(want)
	if candidate == "" || want == "" {
		return false
	}
	return strings.EqualFold(trimExe(candidate), trimExe(want))
}

func trimExe(name string) string {
	if strings.EqualFold(filepath.Ext(name), ".exe") {
		return name[:len(name)-len(".exe")]
	}
	return name
}
