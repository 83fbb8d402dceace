package render

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"dailies/internal/config"
	"dailies/internal/services"
)

// Overlay is a partial settings record: a named preset on disk and the
// caller's explicit overrides share this shape. Nil fields leave the value
// from the layer below untouched.
type Overlay struct {
	Engine       *string `toml:"engine"`
	FPS          *int    `toml:"fps"`
	Resolution   *string `toml:"resolution"`
	Codec        *string `toml:"codec"`
	Extension    *string `toml:"extension"`
	Slate        *bool   `toml:"slate"`
	TemplatePath *string `toml:"template_path"`
}

// ListPresets returns the preset names discovered in the configured preset
// directory, sorted. A missing directory yields an empty list.
func ListPresets(cfg *config.Config) ([]string, error) {
	entries, err := os.ReadDir(cfg.Paths.PresetDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read preset directory: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".toml") {
			continue
		}
		names = append(names, strings.TrimSuffix(name, ".toml"))
	}
	sort.Strings(names)
	return names, nil
}

// LoadPreset reads one named preset from the preset directory.
func LoadPreset(cfg *config.Config, name string) (Overlay, error) {
	path := filepath.Join(cfg.Paths.PresetDir, name+".toml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Overlay{}, services.Wrap(services.ErrUnknownPreset, "settings", "load preset",
				fmt.Sprintf("no preset %q in %s", name, cfg.Paths.PresetDir), nil)
		}
		return Overlay{}, services.Wrap(services.ErrUnknownPreset, "settings", "load preset", name, err)
	}
	var preset Overlay
	if err := toml.Unmarshal(data, &preset); err != nil {
		return Overlay{}, services.Wrap(services.ErrUnknownPreset, "settings", "parse preset", name, err)
	}
	return preset, nil
}

// ResolveSettings merges engine defaults, an optional named preset, and
// explicit overrides into one immutable Settings record. Precedence, lowest
// first: engine default, preset value, explicit override. No field is left
// unset after resolution.
func ResolveSettings(cfg *config.Config, presetName string, overrides Overlay) (Settings, error) {
	preset := Overlay{}
	presetName = strings.TrimSpace(presetName)
	if presetName != "" && presetName != "none" {
		loaded, err := LoadPreset(cfg, presetName)
		if err != nil {
			return Settings{}, err
		}
		preset = loaded
	}

	engineName := cfg.Render.DefaultEngine
	if preset.Engine != nil {
		engineName = *preset.Engine
	}
	if overrides.Engine != nil {
		engineName = *overrides.Engine
	}
	engine, err := ParseEngine(engineName)
	if err != nil {
		return Settings{}, err
	}

	defaults, ok := cfg.EngineFor(string(engine))
	if !ok {
		return Settings{}, services.Wrap(services.ErrIncompatibleSettings, "settings", "resolve",
			fmt.Sprintf("no engine defaults for %q", engine), nil)
	}

	settings := Settings{
		Engine:    engine,
		FPS:       defaults.FPS,
		Codec:     defaults.Codec,
		Extension: defaults.Extension,
	}

	for _, layer := range []Overlay{preset, overrides} {
		if layer.FPS != nil {
			settings.FPS = *layer.FPS
		}
		if layer.Resolution != nil {
			resolution, err := ParseResolution(*layer.Resolution)
			if err != nil {
				return Settings{}, err
			}
			settings.Resolution = resolution
		}
		if layer.Codec != nil && strings.TrimSpace(*layer.Codec) != "" {
			settings.Codec = strings.TrimSpace(*layer.Codec)
		}
		if layer.Extension != nil && strings.TrimSpace(*layer.Extension) != "" {
			settings.Extension = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(*layer.Extension), "."))
		}
		if layer.Slate != nil {
			settings.SlateEnabled = *layer.Slate
		}
		if layer.TemplatePath != nil {
			settings.TemplatePath = strings.TrimSpace(*layer.TemplatePath)
		}
	}

	if settings.FPS <= 0 {
		return Settings{}, services.Wrap(services.ErrIncompatibleSettings, "settings", "resolve",
			fmt.Sprintf("fps must be positive, got %d", settings.FPS), nil)
	}

	if settings.Engine == EngineCompositorTemplate {
		if settings.TemplatePath == "" {
			return Settings{}, services.Wrap(services.ErrIncompatibleSettings, "settings", "resolve",
				"template_path is required for the nuke-template engine", nil)
		}
		if !filepath.IsAbs(settings.TemplatePath) {
			settings.TemplatePath = filepath.Join(cfg.Paths.TemplateDir, settings.TemplatePath)
		}
	}

	return settings, nil
}
