// Package probe extracts media metadata with the ffprobe command-line tool.
package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
)

// ErrDurationUnavailable is returned when ffprobe reports no usable
// duration. Without a duration no segment plan can be computed, so callers
// treat this as fatal.
var ErrDurationUnavailable = errors.New("duration not available in probe output")

// Stream represents a single media stream (audio, video, subtitle).
type Stream struct {
	Index      int    `json:"index"`
	CodecName  string `json:"codec_name"`
	CodecType  string `json:"codec_type"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	SampleRate string `json:"sample_rate,omitempty"`
	Channels   int    `json:"channels,omitempty"`
	BitRate    string `json:"bit_rate,omitempty"`
	Duration   string `json:"duration,omitempty"`
}

// Format holds container-level metadata. AudioMoth writes its header
// description into the comment tag, which is surfaced through Tags.
type Format struct {
	Filename   string            `json:"filename"`
	FormatName string            `json:"format_name"`
	Duration   string            `json:"duration"`
	Size       string            `json:"size"`
	BitRate    string            `json:"bit_rate"`
	Tags       map[string]string `json:"tags,omitempty"`
}

// Result holds the metadata extracted from a media file.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Duration returns the container duration in seconds, or
// ErrDurationUnavailable when ffprobe reported none.
func (r *Result) Duration() (float64, error) {
	if r.Format.Duration == "" {
		return 0, ErrDurationUnavailable
	}
	d, err := strconv.ParseFloat(r.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: unparseable %q", ErrDurationUnavailable, r.Format.Duration)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: non-positive %.2f", ErrDurationUnavailable, d)
	}
	return d, nil
}

// AudioBitRate returns the bit rate of the first audio stream in bits per
// second. It falls back to the container bit rate for audio-only files.
// The boolean is false when neither is available; callers supply their own
// default in that case.
func (r *Result) AudioBitRate() (int, bool) {
	for _, s := range r.Streams {
		if s.CodecType != "audio" || s.BitRate == "" {
			continue
		}
		if br, err := strconv.Atoi(s.BitRate); err == nil && br > 0 {
			return br, true
		}
	}
	if len(r.VideoStreams()) == 0 && r.Format.BitRate != "" {
		if br, err := strconv.Atoi(r.Format.BitRate); err == nil && br > 0 {
			return br, true
		}
	}
	return 0, false
}

// SampleRate returns the sample rate of the first audio stream in Hz,
// or 0 when unavailable.
func (r *Result) SampleRate() int {
	for _, s := range r.Streams {
		if s.CodecType == "audio" && s.SampleRate != "" {
			if sr, err := strconv.Atoi(s.SampleRate); err == nil {
				return sr
			}
		}
	}
	return 0
}

// Comment returns the container comment tag. AudioMoth firmware writes its
// recording description here.
func (r *Result) Comment() string {
	if r.Format.Tags == nil {
		return ""
	}
	if c, ok := r.Format.Tags["comment"]; ok {
		return c
	}
	return r.Format.Tags["ICMT"]
}

// AudioStreams returns all audio streams.
func (r *Result) AudioStreams() []Stream {
	var out []Stream
	for _, s := range r.Streams {
		if s.CodecType == "audio" {
			out = append(out, s)
		}
	}
	return out
}

// VideoStreams returns all video streams.
func (r *Result) VideoStreams() []Stream {
	var out []Stream
	for _, s := range r.Streams {
		if s.CodecType == "video" {
			out = append(out, s)
		}
	}
	return out
}

// Probe runs ffprobe against a media file and parses its JSON output.
// An empty ffprobePath resolves to "ffprobe" on PATH.
func Probe(ctx context.Context, ffprobePath, sourcePath string) (*Result, error) {
	if sourcePath == "" {
		return nil, fmt.Errorf("source path cannot be empty")
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}

	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		sourcePath,
	}

	cmd := exec.CommandContext(ctx, ffprobePath, args...)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("ffprobe failed: %w (stderr: %s)", err, exitErr.Stderr)
		}
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	return &result, nil
}
