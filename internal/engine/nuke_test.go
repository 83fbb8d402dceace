package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dailies/internal/render"
)

func TestNukeGeneratedScript(t *testing.T) {
	captured := captureCommand(t, "ok")
	adapter := NewNuke(engineConfig(t), nil)
	job := sequenceJob(t)
	job.Settings.Engine = render.EngineCompositor
	job.SlatePath = filepath.Join(job.WorkspaceDir, "slate.exr")

	if err := adapter.Execute(context.Background(), job); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if captured.args[0] != "-t" {
		t.Fatalf("args = %v, want headless -t invocation", captured.args)
	}
	scriptPath := captured.args[1]
	if filepath.Dir(scriptPath) != job.WorkspaceDir {
		t.Errorf("script %s written outside the workspace", scriptPath)
	}
	data, err := os.ReadFile(scriptPath)
	if err != nil {
		t.Fatalf("read script: %v", err)
	}
	script := string(data)

	for _, want := range []string{
		"shot_####.exr",
		`read["first"].setValue(1)`,
		`read["last"].setValue(48)`,
		`nuke.createNode("AppendClip")`,
		`nuke.createNode("Reformat")`,
		`resize["box_width"].setValue(1920)`,
		fmt.Sprintf("write[%q].setValue(%q)", "file", job.OutputPath),
		`write["file_type"].setValue("mov")`,
		"nuke.execute(write, 0, 48)",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("script missing %q:\n%s", want, script)
		}
	}
	if strings.Contains(script, "import dailies") {
		t.Error("generated script is not self-contained")
	}
}

func TestNukeScriptWithoutSlateOrResize(t *testing.T) {
	captured := captureCommand(t, "ok")
	adapter := NewNuke(engineConfig(t), nil)
	job := sequenceJob(t)
	job.Settings.Engine = render.EngineCompositor
	job.Settings.Resolution = render.Resolution{}

	if err := adapter.Execute(context.Background(), job); err != nil {
		t.Fatalf("execute: %v", err)
	}
	data, err := os.ReadFile(captured.args[1])
	if err != nil {
		t.Fatal(err)
	}
	script := string(data)
	if strings.Contains(script, "AppendClip") {
		t.Error("slate clip generated without a slate")
	}
	if strings.Contains(script, "Reformat") {
		t.Error("reformat generated without a target resolution")
	}
	if !strings.Contains(script, "nuke.execute(write, 1, 48)") {
		t.Errorf("render range wrong:\n%s", script)
	}
}
