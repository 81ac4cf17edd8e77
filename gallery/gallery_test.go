package gallery

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mothgrams/models"
)

func TestScanWAVs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.wav", "a.WAV", "notes.txt", "c.mp3"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.wav"), 0o755))

	wavs, err := ScanWAVs(dir)
	require.NoError(t, err)

	require.Len(t, wavs, 2)
	// Sorted by name, directories and other extensions excluded.
	assert.Equal(t, filepath.Join(dir, "a.WAV"), wavs[0])
	assert.Equal(t, filepath.Join(dir, "b.wav"), wavs[1])
}

func TestScanWAVsMissingDir(t *testing.T) {
	_, err := ScanWAVs("/nonexistent")
	assert.Error(t, err)
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	recordings := []*models.Recording{
		{
			WAVPath:        filepath.Join(dir, "20200102_060000.WAV"),
			Bytes:          5280044,
			Duration:       55,
			DeviceID:       "24F3190361DA6A35",
			RecordedAt:     time.Date(2020, 1, 2, 6, 0, 0, 0, time.UTC),
			GainSetting:    "medium",
			BatteryVolts:   4.5,
			SpectrogramPNG: filepath.Join(dir, "20200102_060000.png"),
		},
		{
			WAVPath:        filepath.Join(dir, "20200101_190000.WAV"),
			Bytes:          1024,
			RecordedAt:     time.Date(2020, 1, 1, 19, 0, 0, 0, time.UTC),
			SpectrogramPNG: filepath.Join(dir, "20200101_190000.png"),
			SpectrogramMP4: filepath.Join(dir, "20200101_190000.mp4"),
			SpectrogramGIF: filepath.Join(dir, "20200101_190000.gif"),
		},
	}

	outPath, err := Write(dir, "index.html", "Test gallery", recordings)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "index.html"), outPath)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	html := string(data)

	assert.Contains(t, html, "<title>Test gallery</title>")
	assert.Contains(t, html, "2 recordings")
	assert.Contains(t, html, "24F3190361DA6A35")
	assert.Contains(t, html, "4.5V")

	// Asset links are relative to the gallery file.
	assert.Contains(t, html, `src="20200102_060000.png"`)
	assert.Contains(t, html, `href="20200101_190000.mp4"`)
	assert.NotContains(t, html, dir)

	// Ordered by recording time: the Jan 1 recording renders first.
	first := strings.Index(html, "20200101_190000.WAV")
	second := strings.Index(html, "20200102_060000.WAV")
	require.Greater(t, first, 0)
	require.Greater(t, second, 0)
	assert.Less(t, first, second)
}

func TestWriteSortsUndatedByPath(t *testing.T) {
	dir := t.TempDir()
	recordings := []*models.Recording{
		{WAVPath: filepath.Join(dir, "zebra.wav"), Bytes: 1},
		{WAVPath: filepath.Join(dir, "alpha.wav"), Bytes: 1},
	}

	outPath, err := Write(dir, "index.html", "g", recordings)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	html := string(data)
	assert.Less(t, strings.Index(html, "alpha.wav"), strings.Index(html, "zebra.wav"))
}
