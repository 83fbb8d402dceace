package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dailies/internal/render"
	"dailies/internal/services"
)

func TestFFmpegArguments(t *testing.T) {
	captured := captureCommand(t, "ok")
	adapter := NewFFmpeg(engineConfig(t), nil)
	job := sequenceJob(t)
	job.SlatePath = filepath.Join(job.WorkspaceDir, "slate.exr")

	if err := adapter.Execute(context.Background(), job); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if captured.binary != "ffmpeg" {
		t.Errorf("binary = %q", captured.binary)
	}

	listPath := argValue(t, captured.args, "-i")
	data, err := os.ReadFile(listPath)
	if err != nil {
		t.Fatalf("read concat list: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("concat list has %d lines, want slate then source: %q", len(lines), data)
	}
	if !strings.Contains(lines[0], "slate.exr") {
		t.Errorf("slate is not the first concat entry: %q", lines[0])
	}
	if !strings.Contains(lines[1], "shot_%04d.exr") {
		t.Errorf("source pattern missing from concat list: %q", lines[1])
	}

	if got := argValue(t, captured.args, "-s"); got != "1920x1080" {
		t.Errorf("-s = %q", got)
	}
	if got := argValue(t, captured.args, "-r"); got != "24" {
		t.Errorf("-r = %q", got)
	}
	if got := argValue(t, captured.args, "-c:v"); got != "libx264" {
		t.Errorf("-c:v = %q", got)
	}
	if captured.args[len(captured.args)-1] != job.OutputPath {
		t.Errorf("output path is not the final argument: %v", captured.args)
	}
}

func TestFFmpegImageSequenceOutput(t *testing.T) {
	captured := captureCommand(t, "ok")
	adapter := NewFFmpeg(engineConfig(t), nil)
	job := sequenceJob(t)
	job.Settings.Extension = "png"
	job.Settings.Codec = "libx264" // must be ignored for image outputs

	if err := adapter.Execute(context.Background(), job); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := argValue(t, captured.args, "-c:v"); got != "png" {
		t.Errorf("-c:v = %q, want table codec for png", got)
	}
	if got := argValue(t, captured.args, "-pix_fmt"); got != "png" {
		t.Errorf("-pix_fmt = %q", got)
	}
}

func TestFFmpegNoSlateNoResolution(t *testing.T) {
	captured := captureCommand(t, "ok")
	adapter := NewFFmpeg(engineConfig(t), nil)
	job := sequenceJob(t)
	job.Settings.Resolution = render.Resolution{}

	if err := adapter.Execute(context.Background(), job); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if indexOf(captured.args, "-s") >= 0 {
		t.Errorf("-s present without a target resolution: %v", captured.args)
	}

	listPath := argValue(t, captured.args, "-i")
	data, _ := os.ReadFile(listPath)
	if lines := strings.Split(strings.TrimSpace(string(data)), "\n"); len(lines) != 1 {
		t.Errorf("concat list has %d lines, want source only", len(lines))
	}
}

func TestFFmpegUnsupportedExtension(t *testing.T) {
	adapter := NewFFmpeg(engineConfig(t), nil)
	job := sequenceJob(t)
	job.Settings.Extension = "avi"

	err := adapter.Execute(context.Background(), job)
	if !errors.Is(err, services.ErrIncompatibleSettings) {
		t.Fatalf("err = %v, want ErrIncompatibleSettings", err)
	}
}

func TestFFmpegNonZeroExit(t *testing.T) {
	captureCommand(t, "fail")
	adapter := NewFFmpeg(engineConfig(t), nil)
	job := sequenceJob(t)

	err := adapter.Execute(context.Background(), job)
	if !errors.Is(err, services.ErrEngineExecution) {
		t.Fatalf("err = %v, want ErrEngineExecution", err)
	}
	if !strings.Contains(err.Error(), "codec not found") {
		t.Errorf("error %q does not carry the captured output", err)
	}
}
