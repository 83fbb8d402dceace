package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dailies/internal/config"
	"dailies/internal/logging"
	"dailies/internal/render"
	"dailies/internal/services"
)

// Nuke drives the compositor headlessly. It writes a self-contained Python
// script into the job workspace (Read, optional slate AppendClip, optional
// Reformat, Write) and runs it with `nuke -t`; the script never depends on
// interactive session state and is removed with the workspace.
type Nuke struct {
	binary string
	logger *slog.Logger
}

func NewNuke(cfg *config.Config, logger *slog.Logger) *Nuke {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Nuke{binary: cfg.Engines.Nuke.Binary, logger: logger}
}

func (n *Nuke) Engine() render.Engine {
	return render.EngineCompositor
}

func (n *Nuke) Execute(ctx context.Context, job *render.Job) error {
	if err := checkExtension(n.Engine(), job.Settings.Extension); err != nil {
		return err
	}

	scriptPath := filepath.Join(job.WorkspaceDir, "render_nuke.py")
	script := n.script(job)
	if err := os.WriteFile(scriptPath, []byte(script), 0o644); err != nil {
		return services.Wrap(services.ErrWorkspace, "nuke", "write script", scriptPath, err)
	}

	return run(ctx, n.logger, "nuke", n.binary, "-t", scriptPath)
}

// script generates the render graph. Frame numbering matches the dispatched
// result: the slate clip, when present, lands on the frame before the first
// source frame.
func (n *Nuke) script(job *render.Job) string {
	first := job.Media.FrameStart
	last := job.Media.FrameEnd
	if !job.Media.IsSequence {
		first, last = 1, 1
	}
	renderFirst := first
	if job.SlatePath != "" {
		renderFirst = first - 1
	}

	var b strings.Builder
	b.WriteString("import nuke\n\n")
	b.WriteString("nuke.scriptClear()\n\n")

	fmt.Fprintf(&b, "read = nuke.createNode(\"Read\")\n")
	fmt.Fprintf(&b, "read[\"file\"].setValue(%q)\n", job.Media.HashPattern())
	fmt.Fprintf(&b, "read[\"first\"].setValue(%d)\n", first)
	fmt.Fprintf(&b, "read[\"last\"].setValue(%d)\n", last)
	b.WriteString("upstream = read\n\n")

	if job.SlatePath != "" {
		fmt.Fprintf(&b, "slate = nuke.createNode(\"Read\")\n")
		fmt.Fprintf(&b, "slate[\"file\"].setValue(%q)\n", job.SlatePath)
		b.WriteString("slate[\"first\"].setValue(1)\n")
		b.WriteString("slate[\"last\"].setValue(1)\n")
		b.WriteString("clip = nuke.createNode(\"AppendClip\")\n")
		b.WriteString("clip.setInput(0, slate)\n")
		b.WriteString("clip.setInput(1, read)\n")
		fmt.Fprintf(&b, "clip[\"firstFrame\"].setValue(%d)\n", renderFirst)
		b.WriteString("upstream = clip\n\n")
	}

	if !job.Settings.Resolution.IsZero() {
		b.WriteString("resize = nuke.createNode(\"Reformat\")\n")
		b.WriteString("resize.setInput(0, upstream)\n")
		b.WriteString("resize[\"type\"].setValue(\"to box\")\n")
		fmt.Fprintf(&b, "resize[\"box_width\"].setValue(%d)\n", job.Settings.Resolution.Width)
		fmt.Fprintf(&b, "resize[\"box_height\"].setValue(%d)\n", job.Settings.Resolution.Height)
		b.WriteString("upstream = resize\n\n")
	}

	fmt.Fprintf(&b, "write = nuke.createNode(\"Write\")\n")
	fmt.Fprintf(&b, "write.setInput(0, upstream)\n")
	fmt.Fprintf(&b, "write[\"file\"].setValue(%q)\n", job.OutputPath)
	fmt.Fprintf(&b, "write[\"file_type\"].setValue(%q)\n", job.Settings.Extension)
	if job.Settings.Extension == "mov" {
		fmt.Fprintf(&b, "write[\"mov64_codec\"].setValue(%q)\n", job.Settings.Codec)
		fmt.Fprintf(&b, "write[\"mov64_fps\"].setValue(%d)\n", job.Settings.FPS)
	}
	fmt.Fprintf(&b, "\nnuke.execute(write, %d, %d)\n", renderFirst, last)
	return b.String()
}
