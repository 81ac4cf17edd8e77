// Package encode builds the FFmpeg command for one size-bounded segment.
package encode

import (
	"context"
	"fmt"

	"mothgrams/command"
	"mothgrams/internal/timeutil"
	"mothgrams/models"
)

// DefaultScaleFilter is applied when the caller provides no filter.
const DefaultScaleFilter = "scale=1080:-1"

// Builder constructs the encode command for a single segment: seek to the
// segment start, encode for the planned duration at the target bitrate with
// maxrate/bufsize constraints, copy the audio stream verbatim.
type Builder struct {
	segment     *models.Segment
	scaleFilter string
	runner      *command.Runner
	onProgress  func(command.Progress)
}

// NewBuilder creates a Builder for one segment.
func NewBuilder(segment *models.Segment, runner *command.Runner) *Builder {
	return &Builder{
		segment:     segment,
		scaleFilter: DefaultScaleFilter,
		runner:      runner,
	}
}

// SetScaleFilter overrides the video filter expression.
func (b *Builder) SetScaleFilter(filter string) *Builder {
	if filter != "" {
		b.scaleFilter = filter
	}
	return b
}

// SetProgressCallback streams ffmpeg stats updates to the callback.
func (b *Builder) SetProgressCallback(fn func(command.Progress)) *Builder {
	b.onProgress = fn
	return b
}

// BuildArgs constructs the ffmpeg arguments. The encoder self-regulates
// against bitrate+maxrate+bufsize rather than a hard byte cutoff, and
// clamps the final segment at source EOF on its own.
func (b *Builder) BuildArgs() []string {
	s := b.segment
	bufsize := 2 * s.VideoBitRate

	args := []string{
		"-hide_banner", "-nostdin", "-y",
		"-loglevel", "error", "-stats",
		"-ss", timeutil.FormatSeconds(s.Start),
		"-t", timeutil.FormatSeconds(s.Duration),
		"-i", s.SourcePath,
		"-vf", b.scaleFilter,
		"-b:v", fmt.Sprintf("%d", s.VideoBitRate),
		"-maxrate", fmt.Sprintf("%d", s.VideoBitRate),
		"-bufsize", fmt.Sprintf("%d", bufsize),
		"-c:a", "copy",
		s.OutputPath,
	}
	return args
}

// Run executes the segment encode.
func (b *Builder) Run(ctx context.Context) error {
	if err := b.segment.Validate(); err != nil {
		return fmt.Errorf("invalid segment: %w", err)
	}
	return b.runner.Run(ctx, b.BuildArgs(), b.onProgress)
}

// DryRun returns the command line without executing it.
func (b *Builder) DryRun() string {
	return command.Preview(b.BuildArgs())
}

var _ command.Command = (*Builder)(nil)
