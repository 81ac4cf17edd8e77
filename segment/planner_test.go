package segment

import (
	"errors"
	"math"
	"testing"
)

func TestNewPlan(t *testing.T) {
	// Worked example: 120s source, 10 MB ceiling, 128 kbps audio.
	plan, err := NewPlan(120, 128000, 10_000_000)
	if err != nil {
		t.Fatalf("NewPlan returned error: %v", err)
	}

	// budget = 10_000_000*8*0.8/120 ≈ 533333; video ≈ 405333.
	if plan.VideoBitRate < 405000 || plan.VideoBitRate > 405700 {
		t.Errorf("VideoBitRate = %d, want ≈405333", plan.VideoBitRate)
	}
	if plan.AudioBitRate != 128000 {
		t.Errorf("AudioBitRate = %d, want 128000", plan.AudioBitRate)
	}
	if math.Abs(plan.ChunkDuration-150.0) > 0.5 {
		t.Errorf("ChunkDuration = %v, want ≈150.0", plan.ChunkDuration)
	}
	if plan.Parts != 1 {
		t.Errorf("Parts = %d, want 1", plan.Parts)
	}
}

func TestNewPlanDefaultsAudioBitRate(t *testing.T) {
	plan, err := NewPlan(60, 0, 50_000_000)
	if err != nil {
		t.Fatalf("NewPlan returned error: %v", err)
	}
	if plan.AudioBitRate != DefaultAudioBitRate {
		t.Errorf("AudioBitRate = %d, want default %d", plan.AudioBitRate, DefaultAudioBitRate)
	}
}

func TestNewPlanInfeasible(t *testing.T) {
	// 1000 bytes over 10s cannot even fit the audio track.
	_, err := NewPlan(10, 128000, 1000)
	if !errors.Is(err, ErrInfeasibleBudget) {
		t.Fatalf("err = %v, want ErrInfeasibleBudget", err)
	}
}

func TestNewPlanInvalidInputs(t *testing.T) {
	tests := []struct {
		name      string
		duration  float64
		sizeLimit int64
	}{
		{"zero duration", 0, 1000000},
		{"negative duration", -5, 1000000},
		{"zero size limit", 120, 0},
		{"negative size limit", 120, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPlan(tt.duration, 128000, tt.sizeLimit); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestNewPlanPartsMatchesChunkDuration(t *testing.T) {
	for _, tc := range []struct {
		duration  float64
		sizeLimit int64
	}{
		{120, 10_000_000},
		{3600, 600_000_000},
		{30, 100_000_000},
	} {
		plan, err := NewPlan(tc.duration, 128000, tc.sizeLimit)
		if err != nil {
			t.Fatalf("NewPlan(%v, %d): %v", tc.duration, tc.sizeLimit, err)
		}
		want := int(math.Ceil(tc.duration / plan.ChunkDuration))
		if plan.Parts != want {
			t.Errorf("Parts = %d, want ceil(%v/%v) = %d",
				plan.Parts, tc.duration, plan.ChunkDuration, want)
		}
	}
}
