// Package segment plans and drives size-bounded splitting of a media file
// into sequentially numbered parts.
//
// The planner computes one target video bitrate and one chunk duration from
// the full source duration, derated 20% for container overhead and encoder
// variance. All segments of a run share that bitrate and duration; the
// encoder clamps the final segment at source EOF. This deliberately does
// not re-plan from the remaining duration after each part (see DESIGN.md).
package segment

import (
	"errors"
	"fmt"
	"math"
)

// ErrInfeasibleBudget is returned when the size ceiling cannot fit even the
// audio track for the source duration after derating.
var ErrInfeasibleBudget = errors.New("size limit too small for audio track at this duration")

// DefaultAudioBitRate is assumed when the probe reports no audio bitrate.
const DefaultAudioBitRate = 128_000

// DerateFactor is the share of the theoretical bit budget actually handed
// to the encoder, leaving headroom for muxing overhead and rate variance.
const DerateFactor = 0.8

// Plan fixes the shared encode parameters for a whole run.
type Plan struct {
	VideoBitRate  int     // target video bitrate, bits/second
	AudioBitRate  int     // source audio bitrate, bits/second
	ChunkDuration float64 // planned seconds per segment
	Parts         int     // ceil(duration / ChunkDuration)
	Duration      float64 // total source duration, seconds
	SizeLimit     int64   // per-segment ceiling, bytes
}

// NewPlan computes the run plan from the source duration, the probed audio
// bitrate (pass 0 when unknown; DefaultAudioBitRate is substituted) and
// the per-segment size ceiling in bytes.
func NewPlan(duration float64, audioBitRate int, sizeLimit int64) (*Plan, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %.2f", duration)
	}
	if sizeLimit <= 0 {
		return nil, fmt.Errorf("size limit must be positive, got %d", sizeLimit)
	}
	if audioBitRate <= 0 {
		audioBitRate = DefaultAudioBitRate
	}

	// Average combined bitrate that lands each chunk near the ceiling,
	// derated for container overhead.
	budget := float64(sizeLimit) * 8 * DerateFactor / duration
	video := budget - float64(audioBitRate)
	if video <= 0 {
		return nil, fmt.Errorf(
			"%w: budget %.0f bps - audio %d bps leaves %.0f bps for video (limit %d bytes over %.1fs)",
			ErrInfeasibleBudget, budget, audioBitRate, video, sizeLimit, duration)
	}

	chunk := float64(sizeLimit) * 8 / (video + float64(audioBitRate))
	parts := int(math.Ceil(duration / chunk))
	if parts < 1 {
		parts = 1
	}

	return &Plan{
		VideoBitRate:  int(video),
		AudioBitRate:  audioBitRate,
		ChunkDuration: chunk,
		Parts:         parts,
		Duration:      duration,
		SizeLimit:     sizeLimit,
	}, nil
}
