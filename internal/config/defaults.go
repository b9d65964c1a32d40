package config

const (
	defaultWorkspaceDir = "~/.local/share/asciisym/workspace"
	defaultPresetDir    = "~/.config/asciisym/presets"
	defaultOutputDir    = "~/asciisym"
	defaultLogDir       = "~/.local/share/asciisym/logs"

	defaultFFmpegBinary  = "ffmpeg"
	defaultFFprobeBinary = "ffprobe"
	defaultChafaBinary   = "chafa"
	defaultImg2txtBinary = "img2txt"
	defaultMagickBinary  = "magick"
	defaultPactlBinary   = "pactl"

	defaultRenderWidth  = 1280
	defaultRenderHeight = 720
	defaultRenderFPS    = 30
	defaultRenderMode   = "spectrum"
	defaultQuality      = "balanced"
	defaultColorScheme  = "rainbow"
	defaultASCIIWidth   = 100
	defaultCharset      = "utf8"
	defaultMinFreeMiB   = 512

	defaultMonitorInterval = 2
	defaultMonitorTarget   = 30

	defaultCaptureDevice     = "default"
	defaultCaptureDuration   = 10
	defaultCaptureSampleRate = 44100
	defaultCaptureChannels   = 2

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkspaceDir: defaultWorkspaceDir,
			PresetDir:    defaultPresetDir,
			OutputDir:    defaultOutputDir,
			LogDir:       defaultLogDir,
		},
		Tools: Tools{
			FFmpeg:  defaultFFmpegBinary,
			FFprobe: defaultFFprobeBinary,
			Chafa:   defaultChafaBinary,
			Img2txt: defaultImg2txtBinary,
			Magick:  defaultMagickBinary,
			Pactl:   defaultPactlBinary,
		},
		Render: Render{
			Width:       defaultRenderWidth,
			Height:      defaultRenderHeight,
			FPS:         defaultRenderFPS,
			Mode:        defaultRenderMode,
			Quality:     defaultQuality,
			ColorScheme: defaultColorScheme,
			ASCIIWidth:  defaultASCIIWidth,
			Charset:     defaultCharset,
			MinFreeMiB:  defaultMinFreeMiB,
		},
		Monitor: Monitor{
			Enabled:         true,
			IntervalSeconds: defaultMonitorInterval,
			TargetFPS:       defaultMonitorTarget,
			MinQuality:      "low",
			MaxQuality:      "ultra",
		},
		Capture: Capture{
			Device:          defaultCaptureDevice,
			DurationSeconds: defaultCaptureDuration,
			SampleRate:      defaultCaptureSampleRate,
			Channels:        defaultCaptureChannels,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
