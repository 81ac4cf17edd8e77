package segment

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mothgrams/models"
)

// ErrSegmentEncodeFailed is returned when the encoder did not produce the
// expected output file. The run aborts; already written parts are kept.
var ErrSegmentEncodeFailed = errors.New("segment encode failed")

// Encoder produces one segment file. Production code uses the ffmpeg
// builder in command/encode; tests substitute a fake.
type Encoder interface {
	Encode(ctx context.Context, seg *models.Segment) error
}

// EncoderFunc adapts a function to the Encoder interface.
type EncoderFunc func(ctx context.Context, seg *models.Segment) error

// Encode implements Encoder.
func (f EncoderFunc) Encode(ctx context.Context, seg *models.Segment) error {
	return f(ctx, seg)
}

// runState is the serial cursor of the encode loop. It is owned exclusively
// by Runner.Run and advanced through one place only, keeping the cursor
// monotonic and the part sequence gapless from 1.
type runState struct {
	cursor float64
	part   int
}

func (rs *runState) advance(chunk float64) {
	rs.cursor += chunk
	rs.part++
}

// Summary reports how far a run got.
type Summary struct {
	Results    []models.SegmentResult
	TotalBytes int64
}

// Parts returns the number of segments produced.
func (s *Summary) Parts() int { return len(s.Results) }

// Runner drives the sequential encode loop over a fixed plan.
type Runner struct {
	plan       *Plan
	sourcePath string
	outputDir  string
	encoder    Encoder
	onSegment  func(result models.SegmentResult)
}

// NewRunner creates a Runner. outputDir may be empty to place parts next to
// the source file.
func NewRunner(plan *Plan, sourcePath, outputDir string, encoder Encoder) *Runner {
	return &Runner{
		plan:       plan,
		sourcePath: sourcePath,
		outputDir:  outputDir,
		encoder:    encoder,
	}
}

// SetSegmentCallback reports each finished segment, for progress display.
func (r *Runner) SetSegmentCallback(fn func(models.SegmentResult)) *Runner {
	r.onSegment = fn
	return r
}

// OutputPath returns the path for a given part number:
// <basename>-<part>.mp4.
func (r *Runner) OutputPath(part int) string {
	base := strings.TrimSuffix(filepath.Base(r.sourcePath), filepath.Ext(r.sourcePath))
	dir := r.outputDir
	if dir == "" {
		dir = filepath.Dir(r.sourcePath)
	}
	return filepath.Join(dir, fmt.Sprintf("%s-%d.mp4", base, part))
}

// Run executes the loop: encode, verify, advance, until the cursor reaches
// the source duration. Cancellation is honored between iterations; parts
// already written stay in place. On failure of part k, no part k+1 is
// attempted and the partial summary is returned alongside the error.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	state := runState{cursor: 0, part: 1}
	summary := &Summary{}

	for state.cursor < r.plan.Duration {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		seg := &models.Segment{
			Part:         state.part,
			Start:        state.cursor,
			Duration:     r.plan.ChunkDuration,
			VideoBitRate: r.plan.VideoBitRate,
			SourcePath:   r.sourcePath,
			OutputPath:   r.OutputPath(state.part),
		}
		if err := seg.Validate(); err != nil {
			return summary, fmt.Errorf("planning part %d: %w", state.part, err)
		}

		if err := r.encoder.Encode(ctx, seg); err != nil {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			return summary, fmt.Errorf("%w: part %d: %v", ErrSegmentEncodeFailed, state.part, err)
		}

		// The output must exist; its size is recorded for reporting only.
		info, err := os.Stat(seg.OutputPath)
		if err != nil {
			return summary, fmt.Errorf("%w: part %d produced no output at %s",
				ErrSegmentEncodeFailed, state.part, seg.OutputPath)
		}

		result := models.SegmentResult{
			Part:       state.part,
			OutputPath: seg.OutputPath,
			Bytes:      info.Size(),
		}
		summary.Results = append(summary.Results, result)
		summary.TotalBytes += info.Size()
		if r.onSegment != nil {
			r.onSegment(result)
		}

		state.advance(r.plan.ChunkDuration)
	}

	return summary, nil
}
