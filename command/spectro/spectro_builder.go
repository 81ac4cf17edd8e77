// Package spectro builds FFmpeg commands that render spectrograms from
// AudioMoth WAV recordings, as still images or scrolling videos.
package spectro

import (
	"context"
	"fmt"

	"mothgrams/command"
)

// Defaults chosen for field recordings: a wide image, log frequency axis,
// and enough gain to make faint calls visible.
const (
	DefaultWidth  = 1920
	DefaultHeight = 540
	DefaultGain   = 3
	DefaultColor  = "magma"
)

// ImageBuilder renders a single spectrogram PNG via showspectrumpic.
type ImageBuilder struct {
	inputPath  string
	outputPath string
	width      int
	height     int
	gain       int
	color      string
	legend     bool
	runner     *command.Runner
}

// NewImageBuilder creates an ImageBuilder with field-recording defaults.
func NewImageBuilder(inputPath, outputPath string, runner *command.Runner) *ImageBuilder {
	return &ImageBuilder{
		inputPath:  inputPath,
		outputPath: outputPath,
		width:      DefaultWidth,
		height:     DefaultHeight,
		gain:       DefaultGain,
		color:      DefaultColor,
		legend:     true,
		runner:     runner,
	}
}

// SetSize overrides the output dimensions.
func (b *ImageBuilder) SetSize(width, height int) *ImageBuilder {
	if width > 0 && height > 0 {
		b.width = width
		b.height = height
	}
	return b
}

// SetGain overrides the display gain.
func (b *ImageBuilder) SetGain(gain int) *ImageBuilder {
	if gain > 0 {
		b.gain = gain
	}
	return b
}

// SetColor overrides the colour map (e.g. "magma", "viridis", "fiery").
func (b *ImageBuilder) SetColor(color string) *ImageBuilder {
	if color != "" {
		b.color = color
	}
	return b
}

// SetLegend toggles the frequency/time legend.
func (b *ImageBuilder) SetLegend(on bool) *ImageBuilder {
	b.legend = on
	return b
}

// BuildArgs constructs the ffmpeg arguments.
func (b *ImageBuilder) BuildArgs() []string {
	legend := 0
	if b.legend {
		legend = 1
	}
	filter := fmt.Sprintf(
		"showspectrumpic=s=%dx%d:legend=%d:gain=%d:color=%s:scale=log",
		b.width, b.height, legend, b.gain, b.color,
	)
	return []string{
		"-hide_banner", "-nostdin", "-y",
		"-loglevel", "error",
		"-i", b.inputPath,
		"-lavfi", filter,
		"-frames:v", "1",
		b.outputPath,
	}
}

// Run renders the spectrogram image.
func (b *ImageBuilder) Run(ctx context.Context) error {
	return b.runner.Run(ctx, b.BuildArgs(), nil)
}

// DryRun returns the command line without executing it.
func (b *ImageBuilder) DryRun() string {
	return command.Preview(b.BuildArgs())
}

var _ command.Command = (*ImageBuilder)(nil)

// VideoBuilder renders a scrolling spectrogram video with the original
// audio muxed in, so a recording can be reviewed visually while listening.
type VideoBuilder struct {
	inputPath  string
	outputPath string
	width      int
	height     int
	gain       int
	color      string
	runner     *command.Runner
	onProgress func(command.Progress)
}

// NewVideoBuilder creates a VideoBuilder with field-recording defaults.
func NewVideoBuilder(inputPath, outputPath string, runner *command.Runner) *VideoBuilder {
	return &VideoBuilder{
		inputPath:  inputPath,
		outputPath: outputPath,
		width:      1280,
		height:     512,
		gain:       DefaultGain,
		color:      DefaultColor,
		runner:     runner,
	}
}

// SetSize overrides the output dimensions.
func (b *VideoBuilder) SetSize(width, height int) *VideoBuilder {
	if width > 0 && height > 0 {
		b.width = width
		b.height = height
	}
	return b
}

// SetProgressCallback streams ffmpeg stats updates to the callback.
func (b *VideoBuilder) SetProgressCallback(fn func(command.Progress)) *VideoBuilder {
	b.onProgress = fn
	return b
}

// BuildArgs constructs the ffmpeg arguments. The WAV audio is re-encoded to
// AAC because MP4 cannot carry PCM.
func (b *VideoBuilder) BuildArgs() []string {
	filter := fmt.Sprintf(
		"showspectrum=s=%dx%d:mode=combined:slide=scroll:gain=%d:color=%s:scale=log",
		b.width, b.height, b.gain, b.color,
	)
	return []string{
		"-hide_banner", "-nostdin", "-y",
		"-loglevel", "error", "-stats",
		"-i", b.inputPath,
		"-filter_complex", filter,
		"-c:v", "libx264",
		"-preset", "fast",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", "192k",
		b.outputPath,
	}
}

// Run renders the spectrogram video.
func (b *VideoBuilder) Run(ctx context.Context) error {
	return b.runner.Run(ctx, b.BuildArgs(), b.onProgress)
}

// DryRun returns the command line without executing it.
func (b *VideoBuilder) DryRun() string {
	return command.Preview(b.BuildArgs())
}

var _ command.Command = (*VideoBuilder)(nil)
