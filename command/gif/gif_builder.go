// Package gif builds the FFmpeg command that turns a spectrogram video
// into a looping preview GIF using the two-pass palette pipeline.
package gif

import (
	"context"
	"fmt"

	"mothgrams/command"
)

// Builder creates an animated GIF preview from a video.
type Builder struct {
	inputPath  string
	outputPath string
	fps        int
	width      int
	runner     *command.Runner
}

// NewBuilder creates a Builder with preview-friendly defaults: 10 fps,
// 480 px wide.
func NewBuilder(inputPath, outputPath string, runner *command.Runner) *Builder {
	return &Builder{
		inputPath:  inputPath,
		outputPath: outputPath,
		fps:        10,
		width:      480,
		runner:     runner,
	}
}

// SetFPS overrides the GIF frame rate.
func (b *Builder) SetFPS(fps int) *Builder {
	if fps > 0 {
		b.fps = fps
	}
	return b
}

// SetWidth overrides the GIF width; height follows the aspect ratio.
func (b *Builder) SetWidth(width int) *Builder {
	if width > 0 {
		b.width = width
	}
	return b
}

// BuildArgs constructs the ffmpeg arguments. Palette generation and use run
// in a single filtergraph to avoid an intermediate palette file.
func (b *Builder) BuildArgs() []string {
	filter := fmt.Sprintf(
		"fps=%d,scale=%d:-1:flags=lanczos,split[a][b];[a]palettegen[p];[b][p]paletteuse",
		b.fps, b.width,
	)
	return []string{
		"-hide_banner", "-nostdin", "-y",
		"-loglevel", "error",
		"-i", b.inputPath,
		"-filter_complex", filter,
		"-loop", "0",
		b.outputPath,
	}
}

// Run renders the GIF.
func (b *Builder) Run(ctx context.Context) error {
	return b.runner.Run(ctx, b.BuildArgs(), nil)
}

// DryRun returns the command line without executing it.
func (b *Builder) DryRun() string {
	return command.Preview(b.BuildArgs())
}

var _ command.Command = (*Builder)(nil)
