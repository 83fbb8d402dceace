package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"dailies/internal/config"
	"dailies/internal/logging"
	"dailies/internal/media"
	"dailies/internal/render"
	"dailies/internal/services"
)

// FFmpeg drives the command-line transcoder. Inputs are fed through a
// concat list written into the job workspace so a rendered slate frame can
// be prepended without re-encoding the source twice.
type FFmpeg struct {
	binary string
	logger *slog.Logger
}

func NewFFmpeg(cfg *config.Config, logger *slog.Logger) *FFmpeg {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &FFmpeg{binary: cfg.Engines.FFmpeg.Binary, logger: logger}
}

func (f *FFmpeg) Engine() render.Engine {
	return render.EngineCliTranscoder
}

func (f *FFmpeg) Execute(ctx context.Context, job *render.Job) error {
	if err := checkExtension(f.Engine(), job.Settings.Extension); err != nil {
		return err
	}

	listPath, err := f.writeConcatList(job)
	if err != nil {
		return err
	}

	args := f.arguments(job, listPath)
	return run(ctx, f.logger, "ffmpeg", f.binary, args...)
}

// writeConcatList writes the concat demuxer input list: the slate frame
// first when present, then the source media.
func (f *FFmpeg) writeConcatList(job *render.Job) (string, error) {
	var lines strings.Builder
	if job.SlatePath != "" {
		fmt.Fprintf(&lines, "file '%s'\n", job.SlatePath)
	}
	fmt.Fprintf(&lines, "file '%s'\n", inputPath(job.Media))

	listPath := filepath.Join(job.WorkspaceDir, "inputs.txt")
	if err := os.WriteFile(listPath, []byte(lines.String()), 0o644); err != nil {
		return "", services.Wrap(services.ErrWorkspace, "ffmpeg", "write input list", listPath, err)
	}
	return listPath, nil
}

func (f *FFmpeg) arguments(job *render.Job, listPath string) []string {
	args := []string{
		"-loglevel", "error",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
	}
	if !job.Settings.Resolution.IsZero() {
		args = append(args, "-s", job.Settings.Resolution.String())
	}
	args = append(args, "-r", strconv.Itoa(job.Settings.FPS))

	// Image-sequence outputs carry their own fixed encoder and pixel
	// format; video containers encode with the resolved codec.
	if format, ok := ffmpegFormat[job.Settings.Extension]; ok && !media.IsVideoExtension(job.Settings.Extension) {
		args = append(args, "-c:v", format.codec, "-pix_fmt", format.pixFmt)
	} else if job.Settings.Codec != "" {
		args = append(args, "-c:v", job.Settings.Codec)
	}

	args = append(args, "-y", job.OutputPath)
	return args
}

// inputPath renders the media reference the way ffmpeg addresses it.
func inputPath(descriptor *media.Descriptor) string {
	if descriptor.IsSequence {
		return descriptor.PrintfPattern()
	}
	return descriptor.BasePath
}
