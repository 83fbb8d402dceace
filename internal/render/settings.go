package render

import (
	"fmt"
	"strconv"
	"strings"

	"dailies/internal/services"
)

// Engine identifies one of the supported render engines. The set is closed;
// adding an engine means adding a constant here and one adapter registration,
// never a chain of conditionals.
type Engine string

const (
	// EngineCliTranscoder drives ffmpeg with a single command line.
	EngineCliTranscoder Engine = "ffmpeg"
	// EngineCompositor drives nuke headlessly with a generated script.
	EngineCompositor Engine = "nuke"
	// EngineCompositorTemplate drives nuke with a user-authored template.
	EngineCompositorTemplate Engine = "nuke-template"
	// EnginePlayback drives rvio for review exports.
	EnginePlayback Engine = "rvio"
)

// Engines lists every supported engine in display order.
func Engines() []Engine {
	return []Engine{EngineCliTranscoder, EngineCompositor, EngineCompositorTemplate, EnginePlayback}
}

// ParseEngine maps a user-provided engine name onto the closed set.
func ParseEngine(value string) (Engine, error) {
	switch Engine(strings.ToLower(strings.TrimSpace(value))) {
	case EngineCliTranscoder:
		return EngineCliTranscoder, nil
	case EngineCompositor:
		return EngineCompositor, nil
	case EngineCompositorTemplate:
		return EngineCompositorTemplate, nil
	case EnginePlayback:
		return EnginePlayback, nil
	default:
		return "", services.Wrap(services.ErrIncompatibleSettings, "settings", "parse engine",
			fmt.Sprintf("unsupported engine %q", value), nil)
	}
}

// Resolution is an output frame size. The zero value means "use source".
type Resolution struct {
	Width  int
	Height int
}

// IsZero reports whether the resolution is unset.
func (r Resolution) IsZero() bool {
	return r.Width == 0 && r.Height == 0
}

func (r Resolution) String() string {
	if r.IsZero() {
		return "source"
	}
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// ParseResolution parses a "widthxheight" string such as "1920x1080".
func ParseResolution(value string) (Resolution, error) {
	cleaned := strings.ToLower(strings.TrimSpace(value))
	if cleaned == "" || cleaned == "source" {
		return Resolution{}, nil
	}
	width, height, found := strings.Cut(cleaned, "x")
	if !found {
		return Resolution{}, services.Wrap(services.ErrIncompatibleSettings, "settings", "parse resolution",
			fmt.Sprintf("%q is not of the form widthxheight", value), nil)
	}
	w, errW := strconv.Atoi(strings.TrimSpace(width))
	h, errH := strconv.Atoi(strings.TrimSpace(height))
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return Resolution{}, services.Wrap(services.ErrIncompatibleSettings, "settings", "parse resolution",
			fmt.Sprintf("%q is not of the form widthxheight", value), nil)
	}
	return Resolution{Width: w, Height: h}, nil
}

// Settings is the immutable, fully resolved render configuration for one job.
// Every field is populated after resolution; unset inputs fall back to the
// engine defaults from the loaded config, never to zero values.
type Settings struct {
	Engine       Engine
	FPS          int
	Resolution   Resolution
	Codec        string
	Extension    string
	SlateEnabled bool
	// TemplatePath is required iff Engine is EngineCompositorTemplate.
	TemplatePath string
}
