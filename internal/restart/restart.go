package restart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"misettings/internal/config"
	"misettings/internal/fileutil"
	"misettings/internal/logging"
	"misettings/internal/procctl"
)

// DefaultSettleDelay is the pause between terminating the processes and
// promoting the staged config.
const DefaultSettleDelay = time.Second

// Plan is everything the restart sequence needs to know.
type Plan struct {
	// Processes in launch order: server first, then client. Termination
	// walks the list in reverse.
	Processes   []procctl.LaunchSpec
	StagingPath string
	LivePath    string
	SettleDelay time.Duration
}

// PlanFromConfig builds a Plan from the tool configuration. Processes are
// ordered by role: servers, then processes without a role, then clients.
// Entries with the same role keep their configured order.
func PlanFromConfig(cfg *config.Config) Plan {
	plan := Plan{
		StagingPath: cfg.StagingPath(),
		LivePath:    cfg.ConfigPath(),
		SettleDelay: cfg.SettleDelay(),
	}
	procs := slices.Clone(cfg.Processes)
	slices.SortStableFunc(procs, func(a, b config.Process) int {
		return roleRank(a.Role) - roleRank(b.Role)
	})
	for _, p := range procs {
		plan.Processes = append(plan.Processes, procctl.LaunchSpec{
			Name:   p.Name,
			Path:   p.Path,
			Args:   slices.Clone(p.Args),
			Hidden: !p.Visible,
		})
	}
	return plan
}

func roleRank(role string) int {
	switch role {
	case config.RoleServer:
		return 0
	case config.RoleClient:
		return 2
	default:
		return 1
	}
}

// Restarter runs the stop, promote, and relaunch sequences against a
// procctl.Controller.
type Restarter struct {
	ctrl   procctl.Controller
	plan   Plan
	logger *slog.Logger

	// Sleep waits out the settle delay. Tests replace it.
	Sleep func(time.Duration)
}

// NewRestarter constructs a Restarter. A negative settle delay is treated as
// zero.
func NewRestarter(ctrl procctl.Controller, plan Plan, logger *slog.Logger) *Restarter {
	if plan.SettleDelay < 0 {
		plan.SettleDelay = 0
	}
	return &Restarter{
		ctrl:   ctrl,
		plan:   plan,
		logger: logging.NewComponentLogger(logger, "restart"),
		Sleep:  time.Sleep,
	}
}

// Apply terminates every process, waits the settle delay, copies the staged
// config over the live one, and relaunches the processes. Every step runs
// even when an earlier one failed; there is no rollback. The returned error
// joins one *Error per failed step and is nil only when all steps succeeded.
func (r *Restarter) Apply(ctx context.Context) (Report, error) {
	var rep Report
	started := time.Now()
	r.logger.Info("restart starting",
		logging.String(logging.FieldEventType, "restart_start"),
		logging.Int("processes", len(r.plan.Processes)),
	)

	r.terminateAll(ctx, &rep)

	r.Sleep(r.plan.SettleDelay)
	rep.add(Step{Action: ActionSettle, Status: StatusOK, Duration: r.plan.SettleDelay})

	r.promote(&rep)

	for _, spec := range r.plan.Processes {
		r.launch(ctx, &rep, spec)
	}

	err := rep.Err()
	r.logger.Info("restart finished",
		logging.String(logging.FieldEventType, "restart_complete"),
		logging.Duration("elapsed", time.Since(started)),
		logging.Int("failed_steps", len(rep.Failed())),
	)
	return rep, err
}

// Stop terminates every process without relaunching.
func (r *Restarter) Stop(ctx context.Context) (Report, error) {
	var rep Report
	r.terminateAll(ctx, &rep)
	return rep, rep.Err()
}

// StartMissing launches the processes that are not already running, in
// launch order.
func (r *Restarter) StartMissing(ctx context.Context) (Report, error) {
	var rep Report
	for _, spec := range r.plan.Processes {
		running, err := r.ctrl.Running(ctx, spec.Name)
		if err != nil {
			r.fail(&rep, Step{Action: ActionLaunch, Target: spec.Name},
				ErrLaunchFailed, fmt.Errorf("check running: %w", err))
			continue
		}
		if running {
			r.logger.Info("process already running; launch skipped",
				logging.String(logging.FieldProcess, spec.Name),
			)
			rep.add(Step{Action: ActionLaunch, Target: spec.Name, Status: StatusSkipped})
			continue
		}
		r.launch(ctx, &rep, spec)
	}
	return rep, rep.Err()
}

func (r *Restarter) terminateAll(ctx context.Context, rep *Report) {
	for i := len(r.plan.Processes) - 1; i >= 0; i-- {
		spec := r.plan.Processes[i]
		step := Step{Action: ActionTerminate, Target: spec.Name}
		killed, err := r.ctrl.Terminate(ctx, spec.Name)
		step.Count = killed
		if err != nil {
			step.Status = StatusFailed
			step.Err = &Error{Kind: ErrTerminationFailed, Target: spec.Name, Err: err}
			rep.add(step)
			logging.WarnWithContext(r.logger, "terminate failed; continuing restart", "terminate_failed",
				logging.String(logging.FieldProcess, spec.Name),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "end the process manually if it is still running"),
				logging.String(logging.FieldImpact, "the old process may hold the live config open"),
			)
			continue
		}
		step.Status = StatusOK
		rep.add(step)
		r.logger.Info("process terminated",
			logging.String(logging.FieldProcess, spec.Name),
			logging.Int("killed", killed),
		)
	}
}

func (r *Restarter) promote(rep *Report) {
	step := Step{Action: ActionPromote, Target: r.plan.LivePath}
	if err := fileutil.ReplaceFile(r.plan.StagingPath, r.plan.LivePath); err != nil {
		r.fail(rep, step, ErrFileCopyFailed, err)
		return
	}
	step.Status = StatusOK
	rep.add(step)
	r.logger.Info("staged config promoted",
		logging.String("staging", r.plan.StagingPath),
		logging.String("live", r.plan.LivePath),
	)
}

func (r *Restarter) launch(ctx context.Context, rep *Report, spec procctl.LaunchSpec) {
	step := Step{Action: ActionLaunch, Target: spec.Name}
	pid, err := r.ctrl.Start(ctx, spec)
	if err != nil {
		r.fail(rep, step, ErrLaunchFailed, err)
		return
	}
	step.Status = StatusOK
	step.PID = pid
	rep.add(step)
	r.logger.Info("process launched",
		logging.String(logging.FieldProcess, spec.Name),
		logging.Int(logging.FieldPID, pid),
	)
}

func (r *Restarter) fail(rep *Report, step Step, kind, err error) {
	step.Status = StatusFailed
	step.Err = &Error{Kind: kind, Target: step.Target, Err: err}
	rep.add(step)
	hint := "run misettings doctor to check the install layout"
	if errors.Is(kind, ErrFileCopyFailed) {
		hint = "save settings again so the staging file exists, then run misettings apply"
	}
	logging.ErrorWithContext(r.logger, "restart step failed", string(step.Action)+"_failed",
		logging.String("target", step.Target),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, hint),
	)
}
