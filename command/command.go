// Package command provides the Command interface implemented by the FFmpeg
// builders and a shared runner that executes them.
//
// The runner puts ffmpeg into its own process group and forwards
// termination to the whole group on cancellation, so a partially written
// output never belongs to anything but the segment being encoded when the
// signal arrived.
package command

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"mothgrams/internal/logging"
)

// Command represents an FFmpeg invocation that can be built, executed, or
// previewed without running.
type Command interface {
	// BuildArgs returns the argument slice for exec.Command("ffmpeg", ...).
	BuildArgs() []string

	// Run executes the command and blocks until it completes.
	Run(ctx context.Context) error

	// DryRun returns the full command line without executing it.
	DryRun() string
}

// Runner executes ffmpeg argument slices with stderr capture and optional
// progress streaming.
type Runner struct {
	ffmpegPath string
	log        *logging.Logger
}

// NewRunner creates a Runner. An empty ffmpegPath resolves to "ffmpeg" on
// PATH at execution time.
func NewRunner(ffmpegPath string, log *logging.Logger) *Runner {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Runner{ffmpegPath: ffmpegPath, log: log}
}

// Run executes ffmpeg with args. When onProgress is non-nil, stderr is
// streamed through the stats parser and each update is reported; otherwise
// stderr is captured silently for error context.
func (r *Runner) Run(ctx context.Context, args []string, onProgress func(Progress)) error {
	cmd := exec.CommandContext(ctx, r.ffmpegPath, args...)

	// Run ffmpeg in its own process group and terminate the whole group on
	// cancel, so in-flight children are signalled promptly.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGTERM)
	}

	r.log.Debug("executing ffmpeg", zap.Strings("args", args))

	var stderrBuf bytes.Buffer
	if onProgress == nil {
		cmd.Stderr = &stderrBuf
		if err := cmd.Run(); err != nil {
			return wrapExecError(err, args, stderrBuf.String())
		}
		return nil
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	StreamProgress(io.TeeReader(stderr, &stderrBuf), onProgress)

	if err := cmd.Wait(); err != nil {
		return wrapExecError(err, args, stderrBuf.String())
	}
	return nil
}

// wrapExecError attaches the exit code and the tail of stderr to an ffmpeg
// execution error.
func wrapExecError(err error, args []string, stderr string) error {
	exitCode := -1
	if exitErr, ok := err.(*exec.ExitError); ok {
		exitCode = exitErr.ExitCode()
	}
	return fmt.Errorf("ffmpeg exited with code %d: %w (stderr: %s)",
		exitCode, err, tail(stderr, 400))
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}

// Preview renders an args slice as a ffmpeg command line for dry runs.
func Preview(args []string) string {
	return "ffmpeg " + strings.Join(args, " ")
}
