package models

import (
	"strings"
	"testing"
)

func validSegment() Segment {
	return Segment{
		Part:         1,
		Start:        0,
		Duration:     150,
		VideoBitRate: 405333,
		SourcePath:   "/media/video.mkv",
		OutputPath:   "/media/video-1.mp4",
	}
}

func TestSegmentValidate(t *testing.T) {
	seg := validSegment()
	if err := seg.Validate(); err != nil {
		t.Fatalf("valid segment rejected: %v", err)
	}
}

func TestSegmentValidateRejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Segment)
		wantMsg string
	}{
		{"zero part", func(s *Segment) { s.Part = 0 }, "part"},
		{"negative start", func(s *Segment) { s.Start = -1 }, "start"},
		{"zero duration", func(s *Segment) { s.Duration = 0 }, "duration"},
		{"zero bitrate", func(s *Segment) { s.VideoBitRate = 0 }, "video_bit_rate"},
		{"empty source", func(s *Segment) { s.SourcePath = " " }, "source_path"},
		{"empty output", func(s *Segment) { s.OutputPath = "" }, "output_path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seg := validSegment()
			tt.mutate(&seg)
			err := seg.Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}
