package probe

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

// wavProbeJSON is representative ffprobe output for an AudioMoth WAV file.
const wavProbeJSON = `{
  "streams": [
    {
      "index": 0,
      "codec_name": "pcm_s16le",
      "codec_type": "audio",
      "sample_rate": "48000",
      "channels": 1,
      "duration": "55.000000"
    }
  ],
  "format": {
    "filename": "20200101_190000.WAV",
    "format_name": "wav",
    "duration": "55.000000",
    "size": "5280044",
    "bit_rate": "768006",
    "tags": {
      "comment": "Recorded at 19:00:00 01/01/2020 (UTC) by AudioMoth 24F3190361DA6A35 at medium gain setting while battery state was 4.5V."
    }
  }
}`

// videoProbeJSON is representative output for a video file with both streams.
const videoProbeJSON = `{
  "streams": [
    {
      "index": 0,
      "codec_name": "h264",
      "codec_type": "video",
      "width": 1920,
      "height": 1080
    },
    {
      "index": 1,
      "codec_name": "aac",
      "codec_type": "audio",
      "sample_rate": "44100",
      "channels": 2,
      "bit_rate": "129283"
    }
  ],
  "format": {
    "filename": "video.mkv",
    "format_name": "matroska,webm",
    "duration": "120.480000",
    "size": "98231234",
    "bit_rate": "6523123"
  }
}`

func mustParse(t *testing.T, raw string) *Result {
	t.Helper()
	var r Result
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("unmarshal probe JSON: %v", err)
	}
	return &r
}

func TestDuration(t *testing.T) {
	r := mustParse(t, videoProbeJSON)
	d, err := r.Duration()
	if err != nil {
		t.Fatalf("Duration returned error: %v", err)
	}
	if math.Abs(d-120.48) > 0.001 {
		t.Errorf("Duration = %v, want 120.48", d)
	}
}

func TestDurationUnavailable(t *testing.T) {
	for _, raw := range []string{
		`{"format": {}}`,
		`{"format": {"duration": "N/A"}}`,
		`{"format": {"duration": "0.0"}}`,
	} {
		r := mustParse(t, raw)
		if _, err := r.Duration(); !errors.Is(err, ErrDurationUnavailable) {
			t.Errorf("Duration for %s: err = %v, want ErrDurationUnavailable", raw, err)
		}
	}
}

func TestAudioBitRateFromStream(t *testing.T) {
	r := mustParse(t, videoProbeJSON)
	br, ok := r.AudioBitRate()
	if !ok {
		t.Fatal("AudioBitRate reported unavailable")
	}
	if br != 129283 {
		t.Errorf("AudioBitRate = %d, want 129283", br)
	}
}

func TestAudioBitRateContainerFallback(t *testing.T) {
	// PCM WAV streams often carry no per-stream bit_rate; for audio-only
	// files the container rate is the audio rate.
	r := mustParse(t, wavProbeJSON)
	br, ok := r.AudioBitRate()
	if !ok {
		t.Fatal("AudioBitRate reported unavailable")
	}
	if br != 768006 {
		t.Errorf("AudioBitRate = %d, want 768006", br)
	}
}

func TestAudioBitRateUnavailable(t *testing.T) {
	r := mustParse(t, `{"streams": [{"codec_type": "video"}], "format": {"bit_rate": "5000"}}`)
	if br, ok := r.AudioBitRate(); ok {
		t.Errorf("AudioBitRate = %d, want unavailable (container rate covers video too)", br)
	}
}

func TestComment(t *testing.T) {
	r := mustParse(t, wavProbeJSON)
	want := "Recorded at 19:00:00 01/01/2020 (UTC) by AudioMoth 24F3190361DA6A35 at medium gain setting while battery state was 4.5V."
	if got := r.Comment(); got != want {
		t.Errorf("Comment = %q, want %q", got, want)
	}

	r = mustParse(t, `{"format": {"tags": {"ICMT": "riff comment"}}}`)
	if got := r.Comment(); got != "riff comment" {
		t.Errorf("ICMT fallback = %q, want %q", got, "riff comment")
	}

	r = mustParse(t, `{"format": {}}`)
	if got := r.Comment(); got != "" {
		t.Errorf("Comment on tagless file = %q, want empty", got)
	}
}

func TestStreamSelectors(t *testing.T) {
	r := mustParse(t, videoProbeJSON)
	if n := len(r.AudioStreams()); n != 1 {
		t.Errorf("AudioStreams = %d, want 1", n)
	}
	if n := len(r.VideoStreams()); n != 1 {
		t.Errorf("VideoStreams = %d, want 1", n)
	}
	if sr := r.SampleRate(); sr != 44100 {
		t.Errorf("SampleRate = %d, want 44100", sr)
	}
}
