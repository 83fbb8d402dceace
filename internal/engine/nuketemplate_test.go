package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dailies/internal/media"
	"dailies/internal/render"
	"dailies/internal/services"
)

const burnInTemplate = `import nuke
read = nuke.nodes.Read(file="{input}", first={first}, last={last})
write = nuke.nodes.Write(file="{output}", inputs=[read])
nuke.execute(write, {first}, {last})
`

func TestNukeTemplateSubstitution(t *testing.T) {
	captured := captureCommand(t, "ok")
	cfg := engineConfig(t)
	adapter := NewNukeTemplate(cfg, nil)

	templatePath := filepath.Join(cfg.Paths.TemplateDir, "burn_in.py")
	if err := os.WriteFile(templatePath, []byte(burnInTemplate), 0o644); err != nil {
		t.Fatal(err)
	}

	job := sequenceJob(t)
	job.Settings.Engine = render.EngineCompositorTemplate
	job.Settings.TemplatePath = templatePath

	if err := adapter.Execute(context.Background(), job); err != nil {
		t.Fatalf("execute: %v", err)
	}

	data, err := os.ReadFile(captured.args[1])
	if err != nil {
		t.Fatalf("read script: %v", err)
	}
	script := string(data)
	if strings.Contains(script, "{") {
		t.Errorf("unsubstituted tokens remain:\n%s", script)
	}
	if !strings.Contains(script, "shot_####.exr") {
		t.Errorf("input token not substituted:\n%s", script)
	}
	if !strings.Contains(script, "first=1, last=48") {
		t.Errorf("frame tokens not substituted:\n%s", script)
	}
}

func TestNukeTemplateUnknownToken(t *testing.T) {
	cfg := engineConfig(t)
	adapter := NewNukeTemplate(cfg, nil)

	templatePath := filepath.Join(cfg.Paths.TemplateDir, "bad.py")
	if err := os.WriteFile(templatePath, []byte(`read = "{input}" colorspace = "{colorspace}"`), 0o644); err != nil {
		t.Fatal(err)
	}

	job := sequenceJob(t)
	job.Settings.Engine = render.EngineCompositorTemplate
	job.Settings.TemplatePath = templatePath

	err := adapter.Execute(context.Background(), job)
	if !errors.Is(err, services.ErrTemplateFieldMissing) {
		t.Fatalf("err = %v, want ErrTemplateFieldMissing", err)
	}
	if !strings.Contains(err.Error(), "colorspace") {
		t.Errorf("error %q does not name the unknown token", err)
	}
}

func TestNukeTemplateUnreadable(t *testing.T) {
	cfg := engineConfig(t)
	adapter := NewNukeTemplate(cfg, nil)

	job := sequenceJob(t)
	job.Settings.Engine = render.EngineCompositorTemplate
	job.Settings.TemplatePath = filepath.Join(cfg.Paths.TemplateDir, "missing.py")

	err := adapter.Execute(context.Background(), job)
	if !errors.Is(err, services.ErrTemplateLoad) {
		t.Fatalf("err = %v, want ErrTemplateLoad", err)
	}
}

func TestNukeTemplateSlateShiftsFirstFrame(t *testing.T) {
	captured := captureCommand(t, "ok")
	cfg := engineConfig(t)
	adapter := NewNukeTemplate(cfg, nil)

	templatePath := filepath.Join(cfg.Paths.TemplateDir, "range.py")
	if err := os.WriteFile(templatePath, []byte("range = ({first}, {last})"), 0o644); err != nil {
		t.Fatal(err)
	}

	job := sequenceJob(t)
	job.Settings.Engine = render.EngineCompositorTemplate
	job.Settings.TemplatePath = templatePath
	job.SlatePath = filepath.Join(job.WorkspaceDir, "slate.exr")

	if err := adapter.Execute(context.Background(), job); err != nil {
		t.Fatalf("execute: %v", err)
	}
	data, _ := os.ReadFile(captured.args[1])
	if got := strings.TrimSpace(string(data)); got != "range = (0, 48)" {
		t.Errorf("script = %q, want slate to occupy frame 0", got)
	}
}

func TestNukeTemplateVideoInputFrameRange(t *testing.T) {
	captured := captureCommand(t, "ok")
	cfg := engineConfig(t)
	adapter := NewNukeTemplate(cfg, nil)

	templatePath := filepath.Join(cfg.Paths.TemplateDir, "range.py")
	if err := os.WriteFile(templatePath, []byte("range = ({first}, {last})"), 0o644); err != nil {
		t.Fatal(err)
	}

	job := sequenceJob(t)
	job.Media = &media.Descriptor{
		BasePath:  filepath.Join(t.TempDir(), "plate"),
		Extension: "mov",
	}
	job.Settings.Engine = render.EngineCompositorTemplate
	job.Settings.TemplatePath = templatePath

	if err := adapter.Execute(context.Background(), job); err != nil {
		t.Fatalf("execute: %v", err)
	}
	data, _ := os.ReadFile(captured.args[1])
	if got := strings.TrimSpace(string(data)); got != "range = (1, 1)" {
		t.Errorf("script = %q, want a single video to occupy frame 1", got)
	}

	job.SlatePath = filepath.Join(job.WorkspaceDir, "slate.png")
	if err := adapter.Execute(context.Background(), job); err != nil {
		t.Fatalf("execute with slate: %v", err)
	}
	data, _ = os.ReadFile(captured.args[1])
	if got := strings.TrimSpace(string(data)); got != "range = (0, 1)" {
		t.Errorf("script = %q, want slate before the video on frame 0", got)
	}
}
