// Package pipeline processes AudioMoth recordings into gallery assets:
// probe, metadata extraction, spectrogram image, and optional spectrogram
// video and GIF preview.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"mothgrams/command"
	"mothgrams/command/gif"
	"mothgrams/command/spectro"
	"mothgrams/config"
	"mothgrams/internal/logging"
	"mothgrams/metadata"
	"mothgrams/models"
	"mothgrams/probe"
)

// Pipeline turns one WAV file into a Recording with generated assets.
type Pipeline struct {
	cfg    *config.Config
	runner *command.Runner
	log    *logging.Logger
}

// New creates a Pipeline.
func New(cfg *config.Config, runner *command.Runner, log *logging.Logger) *Pipeline {
	if log == nil {
		log = logging.Nop()
	}
	return &Pipeline{cfg: cfg, runner: runner, log: log}
}

// Process probes the recording, parses its AudioMoth header, and renders
// the configured spectrogram assets next to the source file. Assets that
// already exist are not re-rendered, so re-running over a directory only
// does the missing work.
func (p *Pipeline) Process(ctx context.Context, wavPath string) (*models.Recording, error) {
	info, err := os.Stat(wavPath)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", wavPath, err)
	}

	rec := &models.Recording{
		WAVPath: wavPath,
		Bytes:   info.Size(),
	}

	result, err := probe.Probe(ctx, p.cfg.FFprobePath, wavPath)
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", wavPath, err)
	}
	if d, err := result.Duration(); err == nil {
		rec.Duration = d
	}

	p.fillMetadata(rec, result)

	base := strings.TrimSuffix(wavPath, filepath.Ext(wavPath))

	pngPath := base + ".png"
	if err := p.renderMissing(ctx, pngPath, p.imageCommand(wavPath, pngPath)); err != nil {
		return nil, fmt.Errorf("spectrogram image for %s: %w", wavPath, err)
	}
	rec.SpectrogramPNG = pngPath

	if p.cfg.Spectro.Video || p.cfg.Spectro.GIF {
		mp4Path := base + ".mp4"
		if err := p.renderMissing(ctx, mp4Path, spectro.NewVideoBuilder(wavPath, mp4Path, p.runner)); err != nil {
			return nil, fmt.Errorf("spectrogram video for %s: %w", wavPath, err)
		}
		rec.SpectrogramMP4 = mp4Path

		if p.cfg.Spectro.GIF {
			gifPath := base + ".gif"
			if err := p.renderMissing(ctx, gifPath, gif.NewBuilder(mp4Path, gifPath, p.runner)); err != nil {
				return nil, fmt.Errorf("gif preview for %s: %w", wavPath, err)
			}
			rec.SpectrogramGIF = gifPath
		}
	}

	return rec, nil
}

func (p *Pipeline) imageCommand(wavPath, pngPath string) command.Command {
	return spectro.NewImageBuilder(wavPath, pngPath, p.runner).
		SetSize(p.cfg.Spectro.Width, p.cfg.Spectro.Height).
		SetGain(p.cfg.Spectro.Gain).
		SetColor(p.cfg.Spectro.Color)
}

func (p *Pipeline) renderMissing(ctx context.Context, outputPath string, cmd command.Command) error {
	if _, err := os.Stat(outputPath); err == nil {
		p.log.Debug("asset exists, skipping", zap.String("path", outputPath))
		return nil
	}
	return cmd.Run(ctx)
}

// fillMetadata parses the AudioMoth comment, falling back to the
// timestamped filename for the recording time.
func (p *Pipeline) fillMetadata(rec *models.Recording, result *probe.Result) {
	if comment := result.Comment(); comment != "" {
		if info, err := metadata.ParseComment(comment); err == nil {
			rec.DeviceID = info.DeviceID
			rec.RecordedAt = info.RecordedAt
			rec.GainSetting = info.GainSetting
			rec.BatteryVolts = info.BatteryVolts
			return
		}
		p.log.Debug("header comment is not an AudioMoth header",
			zap.String("path", rec.WAVPath))
	}
	if t, ok := metadata.ParseFilename(rec.WAVPath); ok {
		rec.RecordedAt = t
	}
}
