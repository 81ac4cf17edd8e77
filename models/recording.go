package models

import "time"

// Recording ties a source WAV file to its parsed AudioMoth metadata and the
// assets generated for it. Asset paths are empty until the corresponding
// step has produced the file.
type Recording struct {
	WAVPath  string `json:"wav_path"`
	Bytes    int64  `json:"bytes"`
	Duration float64 `json:"duration"`

	// From the AudioMoth header comment, zero values when absent.
	DeviceID   string    `json:"device_id,omitempty"`
	RecordedAt time.Time `json:"recorded_at,omitempty"`
	GainSetting string   `json:"gain_setting,omitempty"`
	BatteryVolts float64 `json:"battery_volts,omitempty"`

	// Generated assets.
	SpectrogramPNG string `json:"spectrogram_png,omitempty"`
	SpectrogramMP4 string `json:"spectrogram_mp4,omitempty"`
	SpectrogramGIF string `json:"spectrogram_gif,omitempty"`
}

// HasMetadata reports whether the AudioMoth header comment was parsed.
func (r *Recording) HasMetadata() bool {
	return r.DeviceID != "" || !r.RecordedAt.IsZero()
}
