// Package metadata parses the recording description AudioMoth firmware
// writes into the WAV header comment, plus the timestamped filenames the
// device produces.
package metadata

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrNoAudioMothComment is returned when a comment string does not look
// like an AudioMoth header.
var ErrNoAudioMothComment = errors.New("not an AudioMoth header comment")

// Info holds the fields recovered from an AudioMoth recording.
type Info struct {
	DeviceID     string
	RecordedAt   time.Time
	GainSetting  string
	BatteryVolts float64
	Temperature  float64 // Celsius, 0 when the firmware did not report it
}

// The comment format across firmware versions, e.g.:
//
//	Recorded at 19:00:00 01/01/2020 (UTC) by AudioMoth 24F3190361DA6A35
//	at medium gain setting while battery state was 4.5V.
//
// Newer firmware appends "and temperature was 25.1C" and may say "gain"
// instead of "gain setting", or report "less than 2.5V"/"greater than 4.9V"
// for the battery.
var (
	reRecordedAt = regexp.MustCompile(`Recorded at (\d{2}:\d{2}:\d{2}) (\d{2}/\d{2}/\d{4}) \(UTC([+-][\d:]+)?\)`)
	reDevice     = regexp.MustCompile(`by AudioMoth ([0-9A-Fa-f]{16})`)
	reGain       = regexp.MustCompile(`at (low-medium|medium-high|low|medium|high) gain`)
	reBattery    = regexp.MustCompile(`battery (?:state )?was (?:less than |greater than )?(\d+\.\d)V`)
	reTemp       = regexp.MustCompile(`temperature was (-?\d+\.\d)C`)
)

// ParseComment extracts recording metadata from an AudioMoth header
// comment. Fields missing from older firmware are left at zero values; a
// comment without the "Recorded at ... by AudioMoth" core fails with
// ErrNoAudioMothComment.
func ParseComment(comment string) (*Info, error) {
	timeMatch := reRecordedAt.FindStringSubmatch(comment)
	deviceMatch := reDevice.FindStringSubmatch(comment)
	if timeMatch == nil || deviceMatch == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoAudioMothComment, truncate(comment, 80))
	}

	recordedAt, err := time.Parse("15:04:05 02/01/2006", timeMatch[1]+" "+timeMatch[2])
	if err != nil {
		return nil, fmt.Errorf("parse recording time: %w", err)
	}

	info := &Info{
		DeviceID:   strings.ToUpper(deviceMatch[1]),
		RecordedAt: recordedAt.UTC(),
	}

	if m := reGain.FindStringSubmatch(comment); m != nil {
		info.GainSetting = m[1]
	}
	if m := reBattery.FindStringSubmatch(comment); m != nil {
		info.BatteryVolts, _ = strconv.ParseFloat(m[1], 64)
	}
	if m := reTemp.FindStringSubmatch(comment); m != nil {
		info.Temperature, _ = strconv.ParseFloat(m[1], 64)
	}

	return info, nil
}

// AudioMoth names files YYYYMMDD_HHMMSS.WAV in device-local time.
var reFilename = regexp.MustCompile(`^(\d{8})_(\d{6})$`)

// ParseFilename recovers the recording start time from an AudioMoth
// filename. The boolean is false for names that do not match the scheme.
func ParseFilename(path string) (time.Time, bool) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	m := reFilename.FindStringSubmatch(base)
	if m == nil {
		return time.Time{}, false
	}
	t, err := time.Parse("20060102 150405", m[1]+" "+m[2])
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
