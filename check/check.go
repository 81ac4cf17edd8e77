// Package check validates that the external tools the toolkit shells out
// to are present and capable before any work starts.
package check

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Sentinel errors for the pre-flight path.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found on PATH")
	ErrFfprobeNotFound = errors.New("ffprobe not found on PATH")
	ErrSpectrumMissing = errors.New("ffmpeg build lacks the showspectrumpic filter")
	ErrX264Missing     = errors.New("ffmpeg build lacks libx264")
)

// Deps verifies ffmpeg and ffprobe are on PATH. Used by every subcommand
// before touching files.
func Deps() error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return ErrFfmpegNotFound
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return ErrFfprobeNotFound
	}
	return nil
}

// Run performs the full diagnostic flow for the check subcommand,
// printing each result. It reports the first hard failure but keeps
// probing the rest.
func Run() error {
	var firstErr error
	report := func(name string, err error) {
		if err != nil {
			fmt.Printf("  ✗ %s: %v\n", name, err)
			if firstErr == nil {
				firstErr = err
			}
			return
		}
		fmt.Printf("  ✓ %s\n", name)
	}

	report("ffmpeg on PATH", lookPathErr("ffmpeg", ErrFfmpegNotFound))
	report("ffprobe on PATH", lookPathErr("ffprobe", ErrFfprobeNotFound))

	if firstErr == nil {
		fmt.Printf("  · %s\n", versionLine())
		report("spectrogram filter", testSpectrum())
		report("libx264 encoder", testX264())
	}

	return firstErr
}

func lookPathErr(bin string, sentinel error) error {
	if _, err := exec.LookPath(bin); err != nil {
		return sentinel
	}
	return nil
}

// versionLine returns the first line of ffmpeg -version.
func versionLine() string {
	out, err := exec.Command("ffmpeg", "-version").Output()
	if err != nil {
		return "ffmpeg -version failed"
	}
	line := strings.TrimSpace(string(out))
	if idx := strings.Index(line, "\n"); idx > 0 {
		line = line[:idx]
	}
	return line
}

// testSpectrum renders a tiny spectrogram from a generated sine tone.
func testSpectrum() error {
	if runSilent("ffmpeg",
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.1",
		"-lavfi", "showspectrumpic=s=64x64",
		"-frames:v", "1", "-f", "null", "-",
	) {
		return nil
	}
	return ErrSpectrumMissing
}

// testX264 runs a minimal libx264 encode.
func testX264() error {
	if runSilent("ffmpeg",
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=256x256:d=0.1",
		"-c:v", "libx264", "-f", "null", "-",
	) {
		return nil
	}
	return ErrX264Missing
}

// runSilent runs a command and reports whether it exited zero.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	return cmd.Run() == nil
}
