package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateEngines(); err != nil {
		return err
	}
	if err := c.validateSlate(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRender() error {
	if _, ok := c.EngineFor(c.Render.DefaultEngine); !ok && c.Render.DefaultEngine != "nuke-template" {
		return fmt.Errorf("render.default_engine: unsupported engine %q", c.Render.DefaultEngine)
	}
	return nil
}

func (c *Config) validateEngines() error {
	for name, engine := range map[string]Engine{
		"engines.ffmpeg": c.Engines.FFmpeg,
		"engines.nuke":   c.Engines.Nuke,
		"engines.rvio":   c.Engines.RVIO,
	} {
		if engine.Binary == "" {
			return fmt.Errorf("%s.binary must be set", name)
		}
		if engine.FPS <= 0 {
			return fmt.Errorf("%s.fps must be positive", name)
		}
	}
	return nil
}

func (c *Config) validateSlate() error {
	if c.Slate.FontSize <= 0 {
		return errors.New("slate.font_size must be positive")
	}
	if c.Slate.LineSpacing < 0 {
		return errors.New("slate.line_spacing must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
