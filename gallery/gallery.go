// Package gallery renders a static HTML index of AudioMoth recordings and
// their spectrogram assets.
package gallery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"mothgrams/internal/timeutil"
	"mothgrams/models"
)

// ScanWAVs returns the WAV files directly under dir, sorted by name.
func ScanWAVs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var wavs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".wav") {
			wavs = append(wavs, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(wavs)
	return wavs, nil
}

// entry is one recording row in the rendered page. Paths are relative to
// the gallery file so the page works when the directory moves.
type entry struct {
	Name       string
	WAV        string
	PNG        string
	MP4        string
	GIF        string
	Size       string
	Duration   string
	DeviceID   string
	RecordedAt string
	Gain       string
	Battery    string
}

type page struct {
	Title     string
	Generated string
	Count     int
	Entries   []entry
}

// Write renders the gallery for the given recordings into
// dir/<filename>. Recordings are ordered by recording time where known,
// by filename otherwise.
func Write(dir, filename, title string, recordings []*models.Recording) (string, error) {
	sorted := make([]*models.Recording, len(recordings))
	copy(sorted, recordings)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.RecordedAt.IsZero() && !b.RecordedAt.IsZero() && !a.RecordedAt.Equal(b.RecordedAt) {
			return a.RecordedAt.Before(b.RecordedAt)
		}
		return a.WAVPath < b.WAVPath
	})

	p := page{
		Title:     title,
		Generated: time.Now().UTC().Format("2006-01-02 15:04 UTC"),
		Count:     len(sorted),
	}
	for _, rec := range sorted {
		p.Entries = append(p.Entries, toEntry(dir, rec))
	}

	outPath := filepath.Join(dir, filename)
	f, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("create gallery: %w", err)
	}
	defer f.Close()

	if err := pageTemplate.Execute(f, p); err != nil {
		return "", fmt.Errorf("render gallery: %w", err)
	}
	return outPath, nil
}

func toEntry(dir string, rec *models.Recording) entry {
	e := entry{
		Name: filepath.Base(rec.WAVPath),
		WAV:  relTo(dir, rec.WAVPath),
		PNG:  relTo(dir, rec.SpectrogramPNG),
		MP4:  relTo(dir, rec.SpectrogramMP4),
		GIF:  relTo(dir, rec.SpectrogramGIF),
		Size: humanize.IBytes(uint64(rec.Bytes)),
	}
	if rec.Duration > 0 {
		e.Duration = timeutil.FormatDuration(rec.Duration)
	}
	if rec.DeviceID != "" {
		e.DeviceID = rec.DeviceID
	}
	if !rec.RecordedAt.IsZero() {
		e.RecordedAt = rec.RecordedAt.Format("2006-01-02 15:04:05 UTC")
	}
	if rec.GainSetting != "" {
		e.Gain = rec.GainSetting
	}
	if rec.BatteryVolts > 0 {
		e.Battery = fmt.Sprintf("%.1fV", rec.BatteryVolts)
	}
	return e
}

func relTo(dir, path string) string {
	if path == "" {
		return ""
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return filepath.Base(path)
	}
	return rel
}
