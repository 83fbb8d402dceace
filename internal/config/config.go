package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	PresetDir   string `toml:"preset_dir"`
	TemplateDir string `toml:"template_dir"`
	TempDir     string `toml:"temp_dir"`
	LogDir      string `toml:"log_dir"`
	HistoryDB   string `toml:"history_db"`
}

// Render contains dispatcher-level settings.
type Render struct {
	DefaultEngine    string `toml:"default_engine"`
	RetainWorkspaces bool   `toml:"retain_workspaces"`
	// MinFreeMiB is the free-space floor checked before a workspace is
	// allocated under temp_dir. Zero disables the check.
	MinFreeMiB int `toml:"min_free_mib"`
}

// Engine contains the binary and fallback settings for one render engine.
type Engine struct {
	Binary    string `toml:"binary"`
	FPS       int    `toml:"fps"`
	Codec     string `toml:"codec"`
	Extension string `toml:"extension"`
}

// Engines groups per-engine configuration. The nuke-template engine shares
// the nuke binary.
type Engines struct {
	FFmpeg Engine `toml:"ffmpeg"`
	Nuke   Engine `toml:"nuke"`
	RVIO   Engine `toml:"rvio"`
}

// Slate contains slate frame rendering settings.
type Slate struct {
	FontPath    string `toml:"font_path"`
	FontSize    int    `toml:"font_size"`
	LineSpacing int    `toml:"line_spacing"`
}

// Tracking contains version-history publication settings.
type Tracking struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for dailies.
//
// Configuration sections by subsystem:
//   - Paths: preset/template directories, temp workspace root, history db
//   - Render: default engine, workspace retention, free-space floor
//   - Engines: external binaries and per-engine fallback settings
//   - Slate: slate frame typography
//   - Tracking: local version-history publication
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Render   Render   `toml:"render"`
	Engines  Engines  `toml:"engines"`
	Slate    Slate    `toml:"slate"`
	Tracking Tracking `toml:"tracking"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/dailies/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/dailies/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("dailies.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.TempDir, c.Paths.LogDir, c.Paths.PresetDir, c.Paths.TemplateDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if dbDir := filepath.Dir(c.Paths.HistoryDB); dbDir != "." {
		if err := os.MkdirAll(dbDir, 0o755); err != nil {
			return fmt.Errorf("create history directory %q: %w", dbDir, err)
		}
	}
	return nil
}

// EngineFor returns the engine settings for the given engine name. The
// nuke-template engine resolves to the nuke settings.
func (c *Config) EngineFor(name string) (Engine, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ffmpeg":
		return c.Engines.FFmpeg, true
	case "nuke", "nuke-template":
		return c.Engines.Nuke, true
	case "rvio":
		return c.Engines.RVIO, true
	default:
		return Engine{}, false
	}
}

// FFprobeBinary returns the ffprobe executable name used for media probing.
func (c *Config) FFprobeBinary() string {
	return "ffprobe"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
