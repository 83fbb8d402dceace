package config

const (
	defaultPresetDir     = "~/.config/dailies/presets"
	defaultTemplateDir   = "~/.config/dailies/templates"
	defaultTempDir       = "~/.local/share/dailies/tmp"
	defaultLogDir        = "~/.local/share/dailies/logs"
	defaultHistoryDB     = "~/.local/share/dailies/history.db"
	defaultEngine        = "ffmpeg"
	defaultMinFreeMiB    = 512
	defaultFFmpegBinary  = "ffmpeg"
	defaultNukeBinary    = "nuke"
	defaultRVIOBinary    = "rvio"
	defaultFPS           = 24
	defaultFFmpegCodec   = "libx264"
	defaultNukeCodec     = "h264"
	defaultRVIOCodec     = "avc"
	defaultExtension     = "mov"
	defaultSlateFont     = "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf"
	defaultSlateFontSize = 18
	defaultSlateSpacing  = 8
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			PresetDir:   defaultPresetDir,
			TemplateDir: defaultTemplateDir,
			TempDir:     defaultTempDir,
			LogDir:      defaultLogDir,
			HistoryDB:   defaultHistoryDB,
		},
		Render: Render{
			DefaultEngine: defaultEngine,
			MinFreeMiB:    defaultMinFreeMiB,
		},
		Engines: Engines{
			FFmpeg: Engine{
				Binary:    defaultFFmpegBinary,
				FPS:       defaultFPS,
				Codec:     defaultFFmpegCodec,
				Extension: defaultExtension,
			},
			Nuke: Engine{
				Binary:    defaultNukeBinary,
				FPS:       defaultFPS,
				Codec:     defaultNukeCodec,
				Extension: defaultExtension,
			},
			RVIO: Engine{
				Binary:    defaultRVIOBinary,
				FPS:       defaultFPS,
				Codec:     defaultRVIOCodec,
				Extension: defaultExtension,
			},
		},
		Slate: Slate{
			FontPath:    defaultSlateFont,
			FontSize:    defaultSlateFontSize,
			LineSpacing: defaultSlateSpacing,
		},
		Tracking: Tracking{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
