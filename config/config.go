// Package config holds toolkit configuration with the precedence
// defaults < YAML file < environment < CLI flags.
package config

import "runtime"

// Config holds all settings shared across subcommands. YAML tags map the
// config file, env tags the MOTHGRAMS_-prefixed environment (processed by
// go-envconfig), validate tags the post-merge validation.
type Config struct {
	// Tool paths, resolved from PATH when empty.
	FFmpegPath  string `yaml:"ffmpeg_path" env:"FFMPEG_PATH" validate:"omitempty"`
	FFprobePath string `yaml:"ffprobe_path" env:"FFPROBE_PATH" validate:"omitempty"`

	// Segmenting.
	ScaleFilter string `yaml:"scale_filter" env:"SCALE_FILTER" validate:"required"`
	OutputDir   string `yaml:"output_dir" env:"OUTPUT_DIR"`

	// Spectrogram rendering.
	Spectro SpectroConfig `yaml:"spectro"`

	// Gallery generation.
	Gallery GalleryConfig `yaml:"gallery"`

	// Gallery HTTP server.
	Serve ServeConfig `yaml:"serve"`

	// Watch mode.
	Watch WatchConfig `yaml:"watch"`

	// Batch processing; 0 = auto-detect CPU count.
	Workers int `yaml:"workers" env:"WORKERS" validate:"gte=0"`

	Verbose bool `yaml:"verbose" env:"VERBOSE"`
}

// SpectroConfig holds spectrogram rendering settings.
type SpectroConfig struct {
	Width  int    `yaml:"width" env:"SPECTRO_WIDTH" validate:"gt=0"`
	Height int    `yaml:"height" env:"SPECTRO_HEIGHT" validate:"gt=0"`
	Gain   int    `yaml:"gain" env:"SPECTRO_GAIN" validate:"gt=0"`
	Color  string `yaml:"color" env:"SPECTRO_COLOR" validate:"required"`
	Video  bool   `yaml:"video" env:"SPECTRO_VIDEO"`
	GIF    bool   `yaml:"gif" env:"SPECTRO_GIF"`
}

// GalleryConfig holds gallery generation settings.
type GalleryConfig struct {
	Title    string `yaml:"title" env:"GALLERY_TITLE" validate:"required"`
	Filename string `yaml:"filename" env:"GALLERY_FILENAME" validate:"required"`
}

// ServeConfig holds HTTP server settings.
type ServeConfig struct {
	Port int `yaml:"port" env:"SERVE_PORT" validate:"gt=0,lte=65535"`
}

// WatchConfig holds watch-mode settings.
type WatchConfig struct {
	// DebounceSeconds is how long a file must stay quiet before it is
	// considered fully written and gets processed.
	DebounceSeconds int `yaml:"debounce_seconds" env:"WATCH_DEBOUNCE_SECONDS" validate:"gt=0"`
}

// Default returns the configuration defaults.
func Default() *Config {
	return &Config{
		ScaleFilter: "scale=1080:-1",
		Spectro: SpectroConfig{
			Width:  1920,
			Height: 540,
			Gain:   3,
			Color:  "magma",
		},
		Gallery: GalleryConfig{
			Title:    "AudioMoth recordings",
			Filename: "index.html",
		},
		Serve: ServeConfig{
			Port: 8000,
		},
		Watch: WatchConfig{
			DebounceSeconds: 5,
		},
		Workers: 0,
	}
}

// EffectiveWorkers resolves Workers, substituting the CPU count for 0.
func (c *Config) EffectiveWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}
