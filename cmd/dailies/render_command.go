package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"dailies/internal/engine"
	"dailies/internal/media"
	"dailies/internal/render"
	"dailies/internal/tracking"
)

type renderFlags struct {
	output      string
	preset      string
	engine      string
	fps         int
	resolution  string
	codec       string
	extension   string
	slate       bool
	template    string
	project     string
	artist      string
	version     string
	description string
	link        string
	task        string
	noPublish   bool
}

func newRenderCommand(cmdCtx *commandContext) *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render <input>",
		Short: "Render input media into a reviewable dailies version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, cmdCtx, flags, args[0])
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (required)")
	cmd.Flags().StringVarP(&flags.preset, "preset", "p", "", "Named preset to apply")
	cmd.Flags().StringVar(&flags.engine, "engine", "", "Render engine: ffmpeg, nuke, nuke-template, rvio")
	cmd.Flags().IntVar(&flags.fps, "fps", 0, "Output frame rate")
	cmd.Flags().StringVar(&flags.resolution, "resolution", "", "Output resolution, e.g. 1920x1080 (default: source)")
	cmd.Flags().StringVar(&flags.codec, "codec", "", "Output codec")
	cmd.Flags().StringVar(&flags.extension, "extension", "", "Output extension, e.g. mov")
	cmd.Flags().BoolVar(&flags.slate, "slate", false, "Prepend a metadata slate frame")
	cmd.Flags().StringVar(&flags.template, "template", "", "Template script for the nuke-template engine")
	cmd.Flags().StringVar(&flags.project, "project", "", "Project name for the slate and version record")
	cmd.Flags().StringVar(&flags.artist, "artist", "", "Artist name")
	cmd.Flags().StringVar(&flags.version, "version", "", "Version name, e.g. sq010_comp_v003")
	cmd.Flags().StringVar(&flags.description, "description", "", "Version description")
	cmd.Flags().StringVar(&flags.link, "link", "", "Linked entity, e.g. the shot code")
	cmd.Flags().StringVar(&flags.task, "task", "", "Task name")
	cmd.Flags().BoolVar(&flags.noPublish, "no-publish", false, "Skip the tracking publish step")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runRender(cmd *cobra.Command, cmdCtx *commandContext, flags *renderFlags, input string) error {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return err
	}
	logger := cmdCtx.ensureLogger()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings, err := render.ResolveSettings(cfg, flags.preset, overlayFromFlags(cmd, flags))
	if err != nil {
		return err
	}

	resolver := media.NewResolver(cfg.FFprobeBinary(), logger)
	descriptor, err := resolver.Resolve(ctx, input)
	if err != nil {
		return err
	}

	job := &render.Job{
		Media:      descriptor,
		Settings:   settings,
		OutputPath: flags.output,
	}
	if settings.SlateEnabled {
		fields, err := slateFieldsFromFlags(flags, descriptor, settings)
		if err != nil {
			return err
		}
		job.Slate = &fields
	}

	adapters := []render.Adapter{
		engine.NewFFmpeg(cfg, logger),
		engine.NewNuke(cfg, logger),
		engine.NewNukeTemplate(cfg, logger),
		engine.NewRVIO(cfg, logger),
	}
	dispatcher := render.NewDispatcher(cfg, adapters, render.NewSlateBuilder(cfg, logger), resolver, logger)

	result := dispatcher.Dispatch(ctx, job)

	out := cmd.OutOrStdout()
	if !result.Success {
		fmt.Fprintf(out, "Render failed (%s): %s\n", result.Error.Kind, result.Error.Message)
		return fmt.Errorf("render %s failed", input)
	}
	fmt.Fprintf(out, "Rendered %s [frames %d-%d, %s] in %s\n",
		result.OutputPath, result.FrameRange.Start, result.FrameRange.End,
		result.Engine, result.Duration.Round(10*time.Millisecond))

	if flags.noPublish || !cfg.Tracking.Enabled || job.Slate == nil {
		return nil
	}
	store, err := tracking.OpenStore(cfg.Paths.HistoryDB)
	if err != nil {
		return fmt.Errorf("open version history: %w", err)
	}
	defer store.Close()
	record := tracking.NewRecord(*job.Slate, result)
	if err := store.Publish(ctx, record); err != nil {
		return fmt.Errorf("publish version: %w", err)
	}
	fmt.Fprintf(out, "Published %s / %s\n", record.Project, record.VersionName)
	return nil
}

// overlayFromFlags converts explicitly set flags into a settings overlay.
// Only flags the user actually passed participate in precedence.
func overlayFromFlags(cmd *cobra.Command, flags *renderFlags) render.Overlay {
	overlay := render.Overlay{}
	if cmd.Flags().Changed("engine") {
		overlay.Engine = &flags.engine
	}
	if cmd.Flags().Changed("fps") {
		overlay.FPS = &flags.fps
	}
	if cmd.Flags().Changed("resolution") {
		overlay.Resolution = &flags.resolution
	}
	if cmd.Flags().Changed("codec") {
		overlay.Codec = &flags.codec
	}
	if cmd.Flags().Changed("extension") {
		overlay.Extension = &flags.extension
	}
	if cmd.Flags().Changed("slate") {
		overlay.Slate = &flags.slate
	}
	if cmd.Flags().Changed("template") {
		overlay.TemplatePath = &flags.template
	}
	return overlay
}

func slateFieldsFromFlags(flags *renderFlags, descriptor *media.Descriptor, settings render.Settings) (render.SlateFields, error) {
	resolution := settings.Resolution.String()
	if settings.Resolution.IsZero() {
		resolution = "source"
	}
	return render.SlateFieldsFromMap(map[string]string{
		"project":     flags.project,
		"artist":      flags.artist,
		"version":     flags.version,
		"description": flags.description,
		"link":        flags.link,
		"task":        flags.task,
		"resolution":  resolution,
		"fps":         fmt.Sprintf("%d", settings.FPS),
		"file":        strings.TrimSpace(descriptor.String()),
	})
}
