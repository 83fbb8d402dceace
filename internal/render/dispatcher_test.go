package render

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dailies/internal/media"
	"dailies/internal/services"
)

// fakeAdapter stands in for a real engine. It records the job it received
// and either writes the output file or fails with the configured error.
type fakeAdapter struct {
	engine Engine
	err    error
	seen   *Job
}

func (a *fakeAdapter) Engine() Engine { return a.engine }

func (a *fakeAdapter) Execute(ctx context.Context, job *Job) error {
	a.seen = job
	if a.err != nil {
		return a.err
	}
	return os.WriteFile(job.OutputPath, []byte("render"), 0o644)
}

func sequenceDescriptor(dir string) *media.Descriptor {
	return &media.Descriptor{
		BasePath:   filepath.Join(dir, "plate."),
		FrameStart: 1,
		FrameEnd:   48,
		Padding:    4,
		Extension:  "exr",
		IsSequence: true,
	}
}

func newTestJob(t *testing.T, engine Engine) *Job {
	t.Helper()
	out := t.TempDir()
	return &Job{
		Media:      sequenceDescriptor(out),
		Settings:   Settings{Engine: engine, FPS: 24, Codec: "libx264", Extension: "mov"},
		OutputPath: filepath.Join(out, "dailies", "sq010_v003.mov"),
	}
}

func newTestDispatcher(t *testing.T, adapter Adapter) *Dispatcher {
	t.Helper()
	cfg := testConfig(t)
	return NewDispatcher(cfg, []Adapter{adapter}, NewSlateBuilder(cfg, nil), nil, nil)
}

func TestDispatchSuccess(t *testing.T) {
	adapter := &fakeAdapter{engine: EngineCliTranscoder}
	dispatcher := newTestDispatcher(t, adapter)
	job := newTestJob(t, EngineCliTranscoder)

	result := dispatcher.Dispatch(context.Background(), job)
	if !result.Success {
		t.Fatalf("dispatch failed: %+v", result.Error)
	}
	if result.FrameRange != (FrameRange{Start: 1, End: 48}) {
		t.Errorf("frame range = %+v, want 1-48", result.FrameRange)
	}
	if result.Engine != EngineCliTranscoder {
		t.Errorf("engine = %q", result.Engine)
	}
	if job.ID == "" {
		t.Error("job was not assigned an id")
	}
	if adapter.seen == nil || adapter.seen.WorkspaceDir == "" {
		t.Error("adapter did not receive a workspace")
	}
	if _, err := os.Stat(job.WorkspaceDir); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("workspace %s not cleaned up after success", job.WorkspaceDir)
	}
}

func TestDispatchSlateShiftsRange(t *testing.T) {
	restore := stubSlateCommand(t, "touch")
	defer restore()

	adapter := &fakeAdapter{engine: EngineCliTranscoder}
	dispatcher := newTestDispatcher(t, adapter)
	job := newTestJob(t, EngineCliTranscoder)
	job.Settings.SlateEnabled = true
	job.Settings.Resolution = Resolution{Width: 1920, Height: 1080}
	job.Slate = &slateFixture

	result := dispatcher.Dispatch(context.Background(), job)
	if !result.Success {
		t.Fatalf("dispatch failed: %+v", result.Error)
	}
	if result.FrameRange != (FrameRange{Start: 0, End: 48}) {
		t.Errorf("frame range = %+v, want slate at frame 0", result.FrameRange)
	}
	if adapter.seen.SlatePath == "" {
		t.Error("adapter saw no slate path")
	}
}

func TestDispatchSlateFailureAbortsBeforeEngine(t *testing.T) {
	restore := stubSlateCommand(t, "fail")
	defer restore()

	adapter := &fakeAdapter{engine: EngineCliTranscoder}
	dispatcher := newTestDispatcher(t, adapter)
	job := newTestJob(t, EngineCliTranscoder)
	job.Settings.SlateEnabled = true
	job.Settings.Resolution = Resolution{Width: 1920, Height: 1080}
	job.Slate = &slateFixture

	result := dispatcher.Dispatch(context.Background(), job)
	if result.Success {
		t.Fatal("dispatch succeeded with a broken slate")
	}
	if adapter.seen != nil {
		t.Error("engine ran despite slate failure")
	}
	if result.Error == nil || result.Error.Kind != "engine_execution" {
		t.Errorf("error = %+v", result.Error)
	}
	if _, err := os.Stat(job.WorkspaceDir); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("workspace %s not cleaned up after failure", job.WorkspaceDir)
	}
	if _, err := os.Stat(job.OutputPath); !errors.Is(err, os.ErrNotExist) {
		t.Error("an un-slated deliverable was produced")
	}
}

// blockingAdapter parks in Execute until the job's context is cancelled,
// the way a long engine run behaves under Ctrl-C.
type blockingAdapter struct {
	engine  Engine
	started chan struct{}
}

func (a *blockingAdapter) Engine() Engine { return a.engine }

func (a *blockingAdapter) Execute(ctx context.Context, job *Job) error {
	close(a.started)
	<-ctx.Done()
	return services.Wrap(services.ErrEngineExecution, "ffmpeg", "transcode", "interrupted", ctx.Err())
}

func TestDispatchCancellation(t *testing.T) {
	adapter := &blockingAdapter{engine: EngineCliTranscoder, started: make(chan struct{})}
	dispatcher := newTestDispatcher(t, adapter)
	job := newTestJob(t, EngineCliTranscoder)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	results := make(chan Result, 1)
	go func() { results <- dispatcher.Dispatch(ctx, job) }()

	<-adapter.started
	cancel()

	result := <-results
	if result.Success {
		t.Fatal("dispatch succeeded after cancellation")
	}
	if result.Error == nil || result.Error.Kind != "engine_execution" {
		t.Fatalf("error = %+v, want engine_execution", result.Error)
	}
	if !strings.Contains(result.Error.Message, "interrupt") {
		t.Errorf("error %q does not mention the interruption", result.Error.Message)
	}
	if _, err := os.Stat(job.WorkspaceDir); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("workspace %s survived cancellation", job.WorkspaceDir)
	}
}

func TestDispatchVideoSlateRange(t *testing.T) {
	restore := stubSlateCommand(t, "touch")
	defer restore()

	adapter := &fakeAdapter{engine: EngineCliTranscoder}
	dispatcher := newTestDispatcher(t, adapter)
	job := newTestJob(t, EngineCliTranscoder)
	job.Media = &media.Descriptor{
		BasePath:  filepath.Join(t.TempDir(), "plate"),
		Extension: "mov",
	}
	job.Settings.SlateEnabled = true
	job.Settings.Resolution = Resolution{Width: 1920, Height: 1080}
	job.Slate = &slateFixture

	result := dispatcher.Dispatch(context.Background(), job)
	if !result.Success {
		t.Fatalf("dispatch failed: %+v", result.Error)
	}
	// The video occupies frame 1, so the slate lands on frame 0.
	if result.FrameRange != (FrameRange{Start: 0, End: 1}) {
		t.Errorf("frame range = %+v, want 0-1", result.FrameRange)
	}
}

func TestDispatchFailureLogsReachedState(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	// Allocation cannot pass an impossible free-space floor, so the job
	// never leaves created.
	cfg := testConfig(t)
	cfg.Render.MinFreeMiB = 1 << 40
	dispatcher := NewDispatcher(cfg, []Adapter{&fakeAdapter{engine: EngineCliTranscoder}}, NewSlateBuilder(cfg, nil), nil, logger)
	job := newTestJob(t, EngineCliTranscoder)

	if result := dispatcher.Dispatch(context.Background(), job); result.Success {
		t.Fatal("dispatch succeeded with an impossible free-space floor")
	}
	if failed := failureLine(t, buf.String()); !strings.Contains(failed, "state=created") {
		t.Errorf("allocation failure reported as %q, want state=created", failed)
	}

	// An engine failure with the slate disabled is reported against
	// dispatched, and slate_rendered never appears in the log.
	buf.Reset()
	cfg = testConfig(t)
	failing := &fakeAdapter{
		engine: EngineCliTranscoder,
		err:    services.Wrap(services.ErrEngineExecution, "ffmpeg", "transcode", "exit status 1", nil),
	}
	dispatcher = NewDispatcher(cfg, []Adapter{failing}, NewSlateBuilder(cfg, nil), nil, logger)
	job = newTestJob(t, EngineCliTranscoder)

	if result := dispatcher.Dispatch(context.Background(), job); result.Success {
		t.Fatal("dispatch succeeded despite engine failure")
	}
	if failed := failureLine(t, buf.String()); !strings.Contains(failed, "state=dispatched") {
		t.Errorf("engine failure reported as %q, want state=dispatched", failed)
	}
	if strings.Contains(buf.String(), string(StateSlateRendered)) {
		t.Errorf("slate_rendered logged for a job without a slate:\n%s", buf.String())
	}
}

func failureLine(t *testing.T, logs string) string {
	t.Helper()
	for _, line := range strings.Split(logs, "\n") {
		if strings.Contains(line, "job failed") {
			return line
		}
	}
	t.Fatalf("no failure line in log:\n%s", logs)
	return ""
}

func TestDispatchEngineFailure(t *testing.T) {
	engineErr := services.Wrap(services.ErrEngineExecution, "ffmpeg", "transcode",
		"Unknown encoder 'libx265'", errors.New("exit status 1"))
	adapter := &fakeAdapter{engine: EngineCliTranscoder, err: engineErr}
	dispatcher := newTestDispatcher(t, adapter)
	job := newTestJob(t, EngineCliTranscoder)

	result := dispatcher.Dispatch(context.Background(), job)
	if result.Success {
		t.Fatal("dispatch succeeded despite engine failure")
	}
	if result.Error == nil || result.Error.Kind != "engine_execution" {
		t.Fatalf("error = %+v, want engine_execution", result.Error)
	}
	if _, err := os.Stat(job.WorkspaceDir); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("workspace %s survived the failure", job.WorkspaceDir)
	}
}

func TestDispatchEmptyOutputIsFailure(t *testing.T) {
	// Engine exits zero but writes nothing.
	dispatcher := newTestDispatcher(t, silentAdapter{EngineCliTranscoder})
	job := newTestJob(t, EngineCliTranscoder)

	result := dispatcher.Dispatch(context.Background(), job)
	if result.Success {
		t.Fatal("empty output accepted as success")
	}
	if result.Error == nil || result.Error.Kind != "engine_execution" {
		t.Errorf("error = %+v, want engine_execution", result.Error)
	}
}

type silentAdapter struct{ engine Engine }

func (a silentAdapter) Engine() Engine                      { return a.engine }
func (a silentAdapter) Execute(context.Context, *Job) error { return nil }

func TestDispatchUnknownEngine(t *testing.T) {
	dispatcher := newTestDispatcher(t, &fakeAdapter{engine: EngineCliTranscoder})
	job := newTestJob(t, EnginePlayback)

	result := dispatcher.Dispatch(context.Background(), job)
	if result.Success {
		t.Fatal("dispatch succeeded without an adapter")
	}
	if result.Error == nil || result.Error.Kind != "incompatible_settings" {
		t.Errorf("error = %+v, want incompatible_settings", result.Error)
	}
}

func TestDispatchOutputCollision(t *testing.T) {
	adapter := &fakeAdapter{engine: EngineCliTranscoder}
	dispatcher := newTestDispatcher(t, adapter)
	job := newTestJob(t, EngineCliTranscoder)

	// Hold the lock the way a concurrent job would.
	release, err := dispatcher.lockOutput(job.OutputPath)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	defer release()

	result := dispatcher.Dispatch(context.Background(), job)
	if result.Success {
		t.Fatal("dispatch succeeded while the output was locked")
	}
	if result.Error == nil || result.Error.Kind != "workspace" {
		t.Errorf("error = %+v, want workspace", result.Error)
	}
}
