// Package models provides the core value types shared across the toolkit.
package models

import (
	"fmt"
	"strings"
)

// Segment describes one planned output part of a size-bounded split.
//
// Start is the seek offset into the source in seconds and Duration the
// planned length; the final segment's Duration may extend past the source
// end, in which case the encoder clamps at EOF. VideoBitRate is the target
// rate in bits per second shared by every segment of a run.
type Segment struct {
	Part         int     `json:"part"`
	Start        float64 `json:"start"`
	Duration     float64 `json:"duration"`
	VideoBitRate int     `json:"video_bit_rate"`
	SourcePath   string  `json:"source_path"`
	OutputPath   string  `json:"output_path"`
}

// Validate checks the segment invariants: part numbering starts at 1, the
// start offset is non-negative, the duration strictly positive, and the
// target bitrate positive.
func (s *Segment) Validate() error {
	if s.Part < 1 {
		return fmt.Errorf("part must be >= 1, got %d", s.Part)
	}
	if strings.TrimSpace(s.SourcePath) == "" {
		return fmt.Errorf("source_path cannot be empty")
	}
	if strings.TrimSpace(s.OutputPath) == "" {
		return fmt.Errorf("output_path cannot be empty")
	}
	if s.Start < 0 {
		return fmt.Errorf("start must be >= 0, got %.2f", s.Start)
	}
	if s.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %.2f", s.Duration)
	}
	if s.VideoBitRate <= 0 {
		return fmt.Errorf("video_bit_rate must be positive, got %d", s.VideoBitRate)
	}
	return nil
}

// SegmentResult records the outcome of encoding a single segment. Sizes are
// observed via stat and used only for reporting; the plan is never adjusted
// from them.
type SegmentResult struct {
	Part       int    `json:"part"`
	OutputPath string `json:"output_path"`
	Bytes      int64  `json:"bytes"`
}
