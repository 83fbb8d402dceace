package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"dailies/internal/config"
	"dailies/internal/fileutil"
	"dailies/internal/logging"
	"dailies/internal/media"
	"dailies/internal/services"
)

// State names one step of the dispatcher's per-job state machine.
type State string

const (
	StateCreated            State = "created"
	StateWorkspaceAllocated State = "workspace_allocated"
	StateSlateRendered      State = "slate_rendered"
	StateDispatched         State = "dispatched"
	StateCompleted          State = "completed"
	StateFailed             State = "failed"
)

// Dispatcher owns the per-job lifecycle: workspace allocation, slate
// rendering, adapter selection and invocation, and result normalization.
// It executes one job per call, synchronously; concurrent callers are safe
// because every job gets its own workspace and declared output path.
type Dispatcher struct {
	cfg      *config.Config
	adapters map[Engine]Adapter
	slate    *SlateBuilder
	resolver *media.Resolver
	logger   *slog.Logger
}

// NewDispatcher wires a dispatcher from explicit collaborators. No component
// reads ambient configuration; everything arrives here.
func NewDispatcher(cfg *config.Config, adapters []Adapter, slate *SlateBuilder, resolver *media.Resolver, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	byEngine := make(map[Engine]Adapter, len(adapters))
	for _, adapter := range adapters {
		byEngine[adapter.Engine()] = adapter
	}
	return &Dispatcher{
		cfg:      cfg,
		adapters: byEngine,
		slate:    slate,
		resolver: resolver,
		logger:   logger,
	}
}

// Dispatch runs one job to completion and returns its normalized result.
// Errors are never returned bare; every failure is folded into the Result so
// the tracking publisher and UI always receive the same shape. The temp
// workspace is removed on every exit path unless retention is configured.
func (d *Dispatcher) Dispatch(ctx context.Context, job *Job) Result {
	started := time.Now()
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	ctx = services.WithJobID(ctx, job.ID)
	ctx = services.WithEngine(ctx, string(job.Settings.Engine))
	logger := logging.WithContext(ctx, d.logger)

	// state tracks the last transition the job completed; failures are
	// reported against it, never against a step the job did not reach.
	state := StateCreated
	fail := func(err error) Result {
		logger.Error("job failed", logging.FieldState, string(state), "error", err)
		return Result{
			Success:    false,
			OutputPath: job.OutputPath,
			Engine:     job.Settings.Engine,
			Error:      resultError(err),
			Duration:   time.Since(started),
		}
	}

	logger.Info("job created", logging.FieldState, string(StateCreated), "output", job.OutputPath)
	if err := d.validate(job); err != nil {
		return fail(err)
	}
	adapter := d.adapters[job.Settings.Engine]

	workspace, err := AllocateWorkspace(d.cfg.Paths.TempDir, d.cfg.Render.MinFreeMiB, d.cfg.Render.RetainWorkspaces, logger)
	if err != nil {
		return fail(err)
	}
	defer workspace.Cleanup()
	job.WorkspaceDir = workspace.Dir
	state = StateWorkspaceAllocated
	logger.Info("workspace allocated", logging.FieldState, string(state), "dir", workspace.Dir)

	release, err := d.lockOutput(job.OutputPath)
	if err != nil {
		return fail(err)
	}
	defer release()

	if job.Settings.SlateEnabled {
		if err := d.renderSlate(ctx, job); err != nil {
			// A broken slate must never produce an un-slated deliverable.
			return fail(err)
		}
		state = StateSlateRendered
		logger.Info("slate rendered", logging.FieldState, string(state), "path", job.SlatePath)
	}

	if err := os.MkdirAll(filepath.Dir(job.OutputPath), 0o755); err != nil {
		return fail(services.Wrap(services.ErrWorkspace, "dispatcher", "prepare output", job.OutputPath, err))
	}

	state = StateDispatched
	logger.Info("dispatching", logging.FieldState, string(state), "adapter", string(adapter.Engine()))
	if err := adapter.Execute(ctx, job); err != nil {
		return fail(err)
	}

	if !fileutil.NonEmptyFile(job.OutputPath) {
		return fail(services.Wrap(services.ErrEngineExecution, "dispatcher", "verify output",
			fmt.Sprintf("engine reported success but %s is missing or empty", job.OutputPath), nil))
	}

	result := Result{
		Success:    true,
		OutputPath: job.OutputPath,
		FrameRange: d.resolvedRange(job),
		Engine:     job.Settings.Engine,
		Duration:   time.Since(started),
	}
	logger.Info("job completed",
		logging.FieldState, string(StateCompleted),
		"frames", fmt.Sprintf("%d-%d", result.FrameRange.Start, result.FrameRange.End),
		"duration", result.Duration)
	return result
}

func (d *Dispatcher) validate(job *Job) error {
	if job.Media == nil {
		return services.Wrap(services.ErrNotFound, "dispatcher", "validate", "job has no media descriptor", nil)
	}
	if job.OutputPath == "" {
		return services.Wrap(services.ErrIncompatibleSettings, "dispatcher", "validate", "job has no output path", nil)
	}
	if _, ok := d.adapters[job.Settings.Engine]; !ok {
		return services.Wrap(services.ErrIncompatibleSettings, "dispatcher", "validate",
			fmt.Sprintf("no adapter registered for engine %q", job.Settings.Engine), nil)
	}
	if job.Settings.SlateEnabled && job.Slate == nil {
		return services.Wrap(services.ErrIncompatibleSettings, "dispatcher", "validate",
			"slate enabled but no slate fields supplied", nil)
	}
	return nil
}

// lockOutput guards the declared output path against a concurrent job
// writing the same file. The advisory lock lives next to the output.
func (d *Dispatcher) lockOutput(outputPath string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return nil, services.Wrap(services.ErrWorkspace, "dispatcher", "lock output", outputPath, err)
	}
	lockPath := outputPath + ".lock"
	lock := flock.New(lockPath)
	acquired, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrWorkspace, "dispatcher", "lock output", lockPath, err)
	}
	if !acquired {
		return nil, services.Wrap(services.ErrWorkspace, "dispatcher", "lock output",
			fmt.Sprintf("another job is writing %s", outputPath), nil)
	}
	return func() {
		_ = lock.Unlock()
		_ = os.Remove(lockPath)
	}, nil
}

// renderSlate sizes the slate to the output resolution, probing the source
// when settings leave the resolution at "use source".
func (d *Dispatcher) renderSlate(ctx context.Context, job *Job) error {
	width, height := job.Settings.Resolution.Width, job.Settings.Resolution.Height
	if job.Settings.Resolution.IsZero() {
		if err := d.resolver.Probe(ctx, job.Media); err != nil {
			return err
		}
		width, height = job.Media.Width, job.Media.Height
	}

	ext := "png"
	if job.Media.IsSequence && media.IsImageExtension(job.Media.Extension) {
		ext = job.Media.Extension
	}
	job.SlatePath = filepath.Join(job.WorkspaceDir, "slate."+ext)
	return d.slate.Render(ctx, *job.Slate, width, height, job.SlatePath)
}

// resolvedRange reports the final frame span, counting an inserted slate as
// the frame before the first source frame. A single video occupies frame 1,
// so its slate lands on frame 0 like a sequence starting at 1.
func (d *Dispatcher) resolvedRange(job *Job) FrameRange {
	start, end := job.Media.FrameStart, job.Media.FrameEnd
	if !job.Media.IsSequence {
		start, end = 1, 1
	}
	if job.Settings.SlateEnabled {
		start--
	}
	return FrameRange{Start: start, End: end}
}
