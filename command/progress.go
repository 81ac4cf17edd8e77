package command

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"mothgrams/internal/timeutil"
)

// Progress holds the fields parsed from an ffmpeg -stats line.
type Progress struct {
	Seconds float64 // position in the output timeline
	Speed   float64 // realtime multiplier
	SizeKB  int64   // bytes written so far, in kB as ffmpeg reports it
}

var (
	reTime  = regexp.MustCompile(`time=\s*([0-9:.]+)`)
	reSpeed = regexp.MustCompile(`speed=\s*([0-9.]+)x`)
	reSize  = regexp.MustCompile(`size=\s*([0-9]+)`)
)

// parseStatsLine extracts progress fields from a single stderr line.
// Returns false for lines without any recognizable field.
func parseStatsLine(line string, p *Progress) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	updated := false
	if m := reTime.FindStringSubmatch(line); len(m) > 1 {
		if secs := timeutil.ParseClock(m[1]); secs > 0 {
			p.Seconds = secs
			updated = true
		}
	}
	if m := reSpeed.FindStringSubmatch(line); len(m) > 1 {
		if speed, err := strconv.ParseFloat(m[1], 64); err == nil {
			p.Speed = speed
			updated = true
		}
	}
	if m := reSize.FindStringSubmatch(line); len(m) > 1 {
		if size, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			p.SizeKB = size
			updated = true
		}
	}
	return updated
}

// StreamProgress reads ffmpeg stderr line by line and invokes callback for
// every stats update. ffmpeg overwrites its stats line with \r, so the
// scanner splits on both \r and \n.
func StreamProgress(reader io.Reader, callback func(Progress)) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(scanCRLines)

	var progress Progress
	for scanner.Scan() {
		if parseStatsLine(scanner.Text(), &progress) && callback != nil {
			callback(progress)
		}
	}
}

// scanCRLines is a bufio.SplitFunc that treats both \r and \n as line
// terminators.
func scanCRLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	for i, b := range data {
		if b == '\n' || b == '\r' {
			return i + 1, data[:i], nil
		}
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
