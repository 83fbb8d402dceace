package render

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"dailies/internal/config"
	"dailies/internal/logging"
	"dailies/internal/services"
)

var slateCommandContext = exec.CommandContext

// SlateFields is the fixed, ordered set of metadata fields burned into a
// slate frame. Empty values are permitted; a missing key when building from
// a raw map is an error.
type SlateFields struct {
	Project     string
	Artist      string
	Version     string
	Description string
	Link        string
	Task        string
	Resolution  string
	FPS         string
	File        string
}

// slateFieldNames lists the required keys in slate display order.
var slateFieldNames = []string{
	"version", "file", "description", "artist", "link", "task", "project", "resolution", "fps",
}

// SlateFieldsFromMap builds SlateFields from a raw key/value set, requiring
// every field key to be present. Empty string values are allowed.
func SlateFieldsFromMap(values map[string]string) (SlateFields, error) {
	var missing []string
	for _, name := range slateFieldNames {
		if _, ok := values[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return SlateFields{}, services.Wrap(services.ErrTemplateFieldMissing, "slate", "collect fields",
			fmt.Sprintf("missing keys: %s", strings.Join(missing, ", ")), nil)
	}
	return SlateFields{
		Project:     values["project"],
		Artist:      values["artist"],
		Version:     values["version"],
		Description: values["description"],
		Link:        values["link"],
		Task:        values["task"],
		Resolution:  values["resolution"],
		FPS:         values["fps"],
		File:        values["file"],
	}, nil
}

// Tokens returns the substitution map for template rendering.
func (f SlateFields) Tokens() map[string]string {
	return map[string]string{
		"project":     f.Project,
		"artist":      f.Artist,
		"version":     f.Version,
		"description": f.Description,
		"link":        f.Link,
		"task":        f.Task,
		"resolution":  f.Resolution,
		"fps":         f.FPS,
		"file":        f.File,
	}
}

// slateTemplate is the fixed textual layout of the slate frame.
const slateTemplate = `VERSION: {version}
FILE: {file}
DESCRIPTION: {description}
ARTIST: {artist}
LINK: {link}
TASK: {task}
PROJECT: {project}
RESOLUTION: {resolution}
FPS: {fps}`

// SlateText renders the slate template with the field values.
func (f SlateFields) SlateText() (string, error) {
	return SubstituteTokens(slateTemplate, f.Tokens())
}

// SlateBuilder renders a metadata slate into a single still frame using the
// ffmpeg drawtext filter. Rendering is a pure function of fields and target
// resolution: identical inputs always produce the identical invocation, so
// dailies stay reproducible across reruns.
type SlateBuilder struct {
	binary      string
	fontPath    string
	fontSize    int
	lineSpacing int
	logger      *slog.Logger
}

// NewSlateBuilder constructs a slate builder from config.
func NewSlateBuilder(cfg *config.Config, logger *slog.Logger) *SlateBuilder {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &SlateBuilder{
		binary:      cfg.Engines.FFmpeg.Binary,
		fontPath:    cfg.Slate.FontPath,
		fontSize:    cfg.Slate.FontSize,
		lineSpacing: cfg.Slate.LineSpacing,
		logger:      logger,
	}
}

// Render writes a single slate frame at the given resolution to outputPath.
func (b *SlateBuilder) Render(ctx context.Context, fields SlateFields, width, height int, outputPath string) error {
	if width <= 0 || height <= 0 {
		return services.Wrap(services.ErrIncompatibleSettings, "slate", "render",
			fmt.Sprintf("invalid slate resolution %dx%d", width, height), nil)
	}
	args, err := b.command(fields, width, height, outputPath)
	if err != nil {
		return err
	}

	b.logger.Debug("rendering slate", "output", outputPath, "args", strings.Join(args, " "))
	cmd := slateCommandContext(ctx, b.binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return services.Wrap(services.ErrEngineExecution, "slate", "render",
			strings.TrimSpace(string(output)), err)
	}
	return nil
}

// command builds the deterministic ffmpeg invocation for the slate frame.
func (b *SlateBuilder) command(fields SlateFields, width, height int, outputPath string) ([]string, error) {
	text, err := fields.SlateText()
	if err != nil {
		return nil, err
	}

	lines := strings.Split(text, "\n")
	blockHeight := len(lines)*(b.fontSize+b.lineSpacing) - b.lineSpacing
	startY := (height-blockHeight)/2 + 10

	filters := make([]string, 0, len(lines))
	for i, line := range lines {
		y := startY + i*(b.fontSize+b.lineSpacing)
		filters = append(filters, fmt.Sprintf(
			"drawtext=fontsize=%d:fontcolor=White:fontfile='%s':text='%s':x=(w-text_w)/2:y=%d",
			b.fontSize, b.fontPath, escapeDrawtext(line), y))
	}

	args := []string{
		"-f", "lavfi",
		"-i", fmt.Sprintf("color=c=black:s=%dx%d", width, height),
		"-vf", strings.Join(filters, ", "),
		"-frames:v", "1",
		"-update", "1",
		"-y",
		outputPath,
	}
	return args, nil
}

// escapeDrawtext strips characters the drawtext filter treats as syntax.
func escapeDrawtext(line string) string {
	replacer := strings.NewReplacer(":", "", "'", "", "\\", "")
	return replacer.Replace(line)
}
