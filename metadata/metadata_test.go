package metadata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseComment(t *testing.T) {
	comment := "Recorded at 19:00:00 01/01/2020 (UTC) by AudioMoth 24F3190361DA6A35 at medium gain setting while battery state was 4.5V."

	info, err := ParseComment(comment)
	require.NoError(t, err)

	assert.Equal(t, "24F3190361DA6A35", info.DeviceID)
	assert.Equal(t, time.Date(2020, 1, 1, 19, 0, 0, 0, time.UTC), info.RecordedAt)
	assert.Equal(t, "medium", info.GainSetting)
	assert.InDelta(t, 4.5, info.BatteryVolts, 0.001)
	assert.Zero(t, info.Temperature)
}

func TestParseCommentNewerFirmware(t *testing.T) {
	comment := "Recorded at 04:30:00 15/06/2023 (UTC) by AudioMoth 247AA5015C02F30A at low-medium gain while battery was greater than 4.9V and temperature was 25.1C."

	info, err := ParseComment(comment)
	require.NoError(t, err)

	assert.Equal(t, "247AA5015C02F30A", info.DeviceID)
	assert.Equal(t, "low-medium", info.GainSetting)
	assert.InDelta(t, 4.9, info.BatteryVolts, 0.001)
	assert.InDelta(t, 25.1, info.Temperature, 0.001)
}

func TestParseCommentLowBattery(t *testing.T) {
	comment := "Recorded at 23:59:59 31/12/2021 (UTC) by AudioMoth 0123456789abcdef at high gain setting while battery state was less than 2.5V."

	info, err := ParseComment(comment)
	require.NoError(t, err)

	// Device IDs are normalized to upper case.
	assert.Equal(t, "0123456789ABCDEF", info.DeviceID)
	assert.InDelta(t, 2.5, info.BatteryVolts, 0.001)
}

func TestParseCommentNotAudioMoth(t *testing.T) {
	for _, comment := range []string{
		"",
		"Lavf58.29.100",
		"Recorded at the studio by someone",
		"by AudioMoth 24F3190361DA6A35", // device but no timestamp
	} {
		_, err := ParseComment(comment)
		assert.ErrorIs(t, err, ErrNoAudioMothComment, "comment %q", comment)
	}
}

func TestParseFilename(t *testing.T) {
	tests := []struct {
		path string
		want time.Time
		ok   bool
	}{
		{"20200101_190000.WAV", time.Date(2020, 1, 1, 19, 0, 0, 0, time.UTC), true},
		{"/recordings/20230615_043000.wav", time.Date(2023, 6, 15, 4, 30, 0, 0, time.UTC), true},
		{"notes.wav", time.Time{}, false},
		{"2020_0101.WAV", time.Time{}, false},
		{"20200101-190000.WAV", time.Time{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseFilename(tt.path)
		assert.Equal(t, tt.ok, ok, "path %q", tt.path)
		if tt.ok {
			assert.Equal(t, tt.want, got, "path %q", tt.path)
		}
	}
}
