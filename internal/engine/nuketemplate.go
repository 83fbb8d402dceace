package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"dailies/internal/config"
	"dailies/internal/logging"
	"dailies/internal/render"
	"dailies/internal/services"
)

// NukeTemplate runs a user-authored script through the compositor. The
// template is plain text with a fixed placeholder set; substitution reuses
// the slate token machinery, so an unknown token in a template fails the
// same way a missing slate field does.
type NukeTemplate struct {
	binary string
	logger *slog.Logger
}

func NewNukeTemplate(cfg *config.Config, logger *slog.Logger) *NukeTemplate {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &NukeTemplate{binary: cfg.Engines.Nuke.Binary, logger: logger}
}

func (n *NukeTemplate) Engine() render.Engine {
	return render.EngineCompositorTemplate
}

// templateTokens builds the full placeholder set a template may reference.
func templateTokens(job *render.Job) map[string]string {
	width, height := job.Settings.Resolution.Width, job.Settings.Resolution.Height
	if job.Settings.Resolution.IsZero() {
		width, height = job.Media.Width, job.Media.Height
	}
	// A single video occupies frame 1; a slate always lands on the frame
	// before the first source frame.
	first, last := job.Media.FrameStart, job.Media.FrameEnd
	if !job.Media.IsSequence {
		first, last = 1, 1
	}
	if job.SlatePath != "" {
		first--
	}
	return map[string]string{
		"input":  inputHashPath(job),
		"output": job.OutputPath,
		"width":  strconv.Itoa(width),
		"height": strconv.Itoa(height),
		"fps":    strconv.Itoa(job.Settings.FPS),
		"codec":  job.Settings.Codec,
		"first":  strconv.Itoa(first),
		"last":   strconv.Itoa(last),
	}
}

func inputHashPath(job *render.Job) string {
	if job.Media.IsSequence {
		return job.Media.HashPattern()
	}
	return job.Media.BasePath
}

func (n *NukeTemplate) Execute(ctx context.Context, job *render.Job) error {
	data, err := os.ReadFile(job.Settings.TemplatePath)
	if err != nil {
		return services.Wrap(services.ErrTemplateLoad, "nuke-template", "load template",
			job.Settings.TemplatePath, err)
	}

	script, err := render.SubstituteTokens(string(data), templateTokens(job))
	if err != nil {
		return fmt.Errorf("template %s: %w", job.Settings.TemplatePath, err)
	}

	scriptPath := filepath.Join(job.WorkspaceDir, "render_template.py")
	if err := os.WriteFile(scriptPath, []byte(script), 0o644); err != nil {
		return services.Wrap(services.ErrWorkspace, "nuke-template", "write script", scriptPath, err)
	}

	return run(ctx, n.logger, "nuke-template", n.binary, "-t", scriptPath)
}
