// Package timeutil converts between seconds and the clock formats FFmpeg
// uses for seek offsets and progress reporting.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatSeconds converts seconds to HH:MM:SS.CC for -ss/-t arguments.
// Fractional seconds are preserved to centisecond precision.
//
// Example:
//
//	FormatSeconds(90)    // "00:01:30.00"
//	FormatSeconds(30.53) // "00:00:30.53"
func FormatSeconds(seconds float64) string {
	hours := int(seconds) / 3600
	minutes := (int(seconds) % 3600) / 60
	secs := seconds - float64(hours*3600) - float64(minutes*60)
	return fmt.Sprintf("%02d:%02d:%05.2f", hours, minutes, secs)
}

// ParseClock converts an FFmpeg clock string (HH:MM:SS.ms) back to seconds.
// Returns 0 when the string is not a three-part clock value.
func ParseClock(clock string) float64 {
	parts := strings.Split(clock, ":")
	if len(parts) != 3 {
		return 0
	}

	hours, err1 := strconv.ParseFloat(parts[0], 64)
	minutes, err2 := strconv.ParseFloat(parts[1], 64)
	seconds, err3 := strconv.ParseFloat(parts[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0
	}

	return hours*3600 + minutes*60 + seconds
}

// FormatDuration renders seconds for human-facing summaries, dropping the
// hour field for short recordings.
func FormatDuration(seconds float64) string {
	if seconds < 3600 {
		minutes := int(seconds) / 60
		secs := seconds - float64(minutes*60)
		return fmt.Sprintf("%02d:%04.1f", minutes, secs)
	}
	return FormatSeconds(seconds)
}
