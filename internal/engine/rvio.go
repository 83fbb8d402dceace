package engine

import (
	"context"
	"log/slog"
	"strconv"

	"dailies/internal/config"
	"dailies/internal/logging"
	"dailies/internal/render"
)

// RVIO exports a reviewable file through the playback tool. One direct CLI
// invocation, no script generation; rvio reads the slate frame ahead of the
// source when one has been rendered.
type RVIO struct {
	binary string
	logger *slog.Logger
}

func NewRVIO(cfg *config.Config, logger *slog.Logger) *RVIO {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &RVIO{binary: cfg.Engines.RVIO.Binary, logger: logger}
}

func (r *RVIO) Engine() render.Engine {
	return render.EnginePlayback
}

func (r *RVIO) Execute(ctx context.Context, job *render.Job) error {
	if err := checkExtension(r.Engine(), job.Settings.Extension); err != nil {
		return err
	}

	var args []string
	if job.SlatePath != "" {
		args = append(args, job.SlatePath)
	}
	args = append(args,
		inputPath(job.Media),
		"-o", job.OutputPath,
		"-codec", rvioCodec[job.Settings.Extension],
		"-outfps", strconv.Itoa(job.Settings.FPS),
	)
	if !job.Settings.Resolution.IsZero() {
		args = append(args, "-outres",
			strconv.Itoa(job.Settings.Resolution.Width),
			strconv.Itoa(job.Settings.Resolution.Height))
	}
	return run(ctx, r.logger, "rvio", r.binary, args...)
}
