package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRender()
	c.normalizeEngines()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.PresetDir) == "" {
		c.Paths.PresetDir = defaultPresetDir
	}
	if c.Paths.PresetDir, err = expandPath(c.Paths.PresetDir); err != nil {
		return fmt.Errorf("paths.preset_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.TemplateDir) == "" {
		c.Paths.TemplateDir = defaultTemplateDir
	}
	if c.Paths.TemplateDir, err = expandPath(c.Paths.TemplateDir); err != nil {
		return fmt.Errorf("paths.template_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.TempDir) == "" {
		c.Paths.TempDir = defaultTempDir
	}
	if c.Paths.TempDir, err = expandPath(c.Paths.TempDir); err != nil {
		return fmt.Errorf("paths.temp_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		c.Paths.HistoryDB = defaultHistoryDB
	}
	if c.Paths.HistoryDB, err = expandPath(c.Paths.HistoryDB); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeRender() {
	c.Render.DefaultEngine = strings.ToLower(strings.TrimSpace(c.Render.DefaultEngine))
	if c.Render.DefaultEngine == "" {
		c.Render.DefaultEngine = defaultEngine
	}
	if c.Render.MinFreeMiB < 0 {
		c.Render.MinFreeMiB = 0
	}
}

func (c *Config) normalizeEngines() {
	normalizeEngine(&c.Engines.FFmpeg, defaultFFmpegBinary, defaultFFmpegCodec)
	normalizeEngine(&c.Engines.Nuke, defaultNukeBinary, defaultNukeCodec)
	normalizeEngine(&c.Engines.RVIO, defaultRVIOBinary, defaultRVIOCodec)
}

func normalizeEngine(e *Engine, binary, codec string) {
	e.Binary = strings.TrimSpace(e.Binary)
	if e.Binary == "" {
		e.Binary = binary
	}
	e.Codec = strings.TrimSpace(e.Codec)
	if e.Codec == "" {
		e.Codec = codec
	}
	e.Extension = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e.Extension), "."))
	if e.Extension == "" {
		e.Extension = defaultExtension
	}
	if e.FPS <= 0 {
		e.FPS = defaultFPS
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
