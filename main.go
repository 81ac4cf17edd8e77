package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"mothgrams/check"
	"mothgrams/command"
	"mothgrams/command/encode"
	"mothgrams/config"
	"mothgrams/gallery"
	"mothgrams/internal/logging"
	"mothgrams/internal/timeutil"
	"mothgrams/internal/units"
	"mothgrams/metadata"
	"mothgrams/models"
	"mothgrams/pipeline"
	"mothgrams/probe"
	"mothgrams/segment"
	"mothgrams/server"
	"mothgrams/watch"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\ninterrupt received, stopping...")
		cancel()
	}()

	var err error
	switch os.Args[1] {
	case "segment":
		err = runSegment(ctx, os.Args[2:])
	case "spectro":
		err = runSpectro(ctx, os.Args[2:])
	case "gallery":
		err = runGallery(ctx, os.Args[2:])
	case "serve":
		err = runServe(ctx, os.Args[2:])
	case "watch":
		err = runWatch(ctx, os.Args[2:])
	case "check":
		err = check.Run()
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "cancelled")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads config plus the shared logger and ffmpeg runner.
func setup(ctx context.Context, configPath string, verbose bool) (*config.Config, *logging.Logger, *command.Runner, error) {
	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	if verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}

	log, err := logging.New(cfg.Verbose)
	if err != nil {
		return nil, nil, nil, err
	}

	runner := command.NewRunner(cfg.FFmpegPath, log)
	return cfg, log, runner, nil
}

// runSegment implements: segment <source-file> <size-limit> [<scale-filter>]
func runSegment(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("segment", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	verbose := fs.Bool("verbose", false, "enable debug logging")
	outputDir := fs.String("output-dir", "", "directory for segment files (default: next to source)")
	dryRun := fs.Bool("dry-run", false, "print the plan and the first ffmpeg command without encoding")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) < 2 || len(rest) > 3 {
		return fmt.Errorf("usage: mothgrams segment <source-file> <size-limit> [<scale-filter>]")
	}
	sourcePath, sizeArg := rest[0], rest[1]

	if _, err := os.Stat(sourcePath); err != nil {
		return fmt.Errorf("source file: %w", err)
	}

	sizeLimit, err := units.ParseSize(sizeArg)
	if err != nil {
		return err
	}

	cfg, log, runner, err := setup(ctx, *configPath, *verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	scaleFilter := cfg.ScaleFilter
	if len(rest) == 3 {
		scaleFilter = rest[2]
	}
	if *outputDir == "" {
		*outputDir = cfg.OutputDir
	}

	if err := check.Deps(); err != nil {
		return err
	}

	result, err := probe.Probe(ctx, cfg.FFprobePath, sourcePath)
	if err != nil {
		return err
	}
	duration, err := result.Duration()
	if err != nil {
		return err
	}
	audioBitRate, ok := result.AudioBitRate()
	if !ok {
		fmt.Printf("audio bitrate unknown, assuming %d kbps\n", segment.DefaultAudioBitRate/1000)
	}

	plan, err := segment.NewPlan(duration, audioBitRate, sizeLimit)
	if err != nil {
		return err
	}

	fmt.Printf("Source:    %s (%s)\n", sourcePath, timeutil.FormatDuration(duration))
	fmt.Printf("Limit:     %s per segment\n", humanize.IBytes(uint64(sizeLimit)))
	fmt.Printf("Plan:      %d kbps video + %d kbps audio, %.1fs chunks, %d part(s)\n",
		plan.VideoBitRate/1000, plan.AudioBitRate/1000, plan.ChunkDuration, plan.Parts)

	encoder := segment.EncoderFunc(func(ctx context.Context, seg *models.Segment) error {
		builder := encode.NewBuilder(seg, runner).
			SetScaleFilter(scaleFilter).
			SetProgressCallback(func(p command.Progress) {
				fmt.Printf("\r  part %d/%d  time=%s  speed=%.2fx   ",
					seg.Part, plan.Parts, timeutil.FormatDuration(p.Seconds), p.Speed)
			})
		if *dryRun {
			fmt.Printf("  %s\n", builder.DryRun())
			return nil
		}
		return builder.Run(ctx)
	})

	if *dryRun {
		seg := &models.Segment{
			Part: 1, Start: 0, Duration: plan.ChunkDuration,
			VideoBitRate: plan.VideoBitRate, SourcePath: sourcePath,
			OutputPath: segment.NewRunner(plan, sourcePath, *outputDir, nil).OutputPath(1),
		}
		_ = encoder.Encode(ctx, seg)
		return nil
	}

	runState := segment.NewRunner(plan, sourcePath, *outputDir, encoder).
		SetSegmentCallback(func(r models.SegmentResult) {
			fmt.Printf("\r  ✓ part %d: %s (%s)            \n",
				r.Part, r.OutputPath, humanize.IBytes(uint64(r.Bytes)))
		})

	summary, err := runState.Run(ctx)
	if summary != nil && summary.Parts() > 0 {
		fmt.Printf("Created %d segment(s), %s total\n",
			summary.Parts(), humanize.IBytes(uint64(summary.TotalBytes)))
	}
	return err
}

// runSpectro implements: spectro [flags] <wav-file>
func runSpectro(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("spectro", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	verbose := fs.Bool("verbose", false, "enable debug logging")
	video := fs.Bool("video", false, "also render a scrolling spectrogram video")
	gifFlag := fs.Bool("gif", false, "also render a GIF preview (implies -video)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: mothgrams spectro [flags] <wav-file>")
	}
	wavPath := fs.Arg(0)

	cfg, log, runner, err := setup(ctx, *configPath, *verbose)
	if err != nil {
		return err
	}
	defer log.Sync()
	if *video {
		cfg.Spectro.Video = true
	}
	if *gifFlag {
		cfg.Spectro.GIF = true
	}

	if err := check.Deps(); err != nil {
		return err
	}

	rec, err := pipeline.New(cfg, runner, log).Process(ctx, wavPath)
	if err != nil {
		return err
	}

	fmt.Printf("✓ %s\n", rec.SpectrogramPNG)
	if rec.SpectrogramMP4 != "" {
		fmt.Printf("✓ %s\n", rec.SpectrogramMP4)
	}
	if rec.SpectrogramGIF != "" {
		fmt.Printf("✓ %s\n", rec.SpectrogramGIF)
	}
	if rec.HasMetadata() {
		fmt.Printf("  device %s, recorded %s\n",
			rec.DeviceID, rec.RecordedAt.Format("2006-01-02 15:04:05 UTC"))
	}
	return nil
}

// runGallery implements: gallery [flags] <recordings-dir>
func runGallery(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("gallery", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	verbose := fs.Bool("verbose", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: mothgrams gallery [flags] <recordings-dir>")
	}
	dir := fs.Arg(0)

	cfg, log, runner, err := setup(ctx, *configPath, *verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := check.Deps(); err != nil {
		return err
	}

	wavs, err := gallery.ScanWAVs(dir)
	if err != nil {
		return err
	}
	if len(wavs) == 0 {
		return fmt.Errorf("no WAV files in %s", dir)
	}
	fmt.Printf("Processing %d recording(s) with %d worker(s)\n", len(wavs), cfg.EffectiveWorkers())

	pool := pipeline.NewWorkerPool(pipeline.New(cfg, runner, log), cfg.EffectiveWorkers())

	var recordings []*models.Recording
	failed := 0
	done := 0
	for res := range pool.Run(ctx, wavs) {
		done++
		if res.Err != nil {
			failed++
			fmt.Printf("\r  ✗ %s: %v\n", res.WAVPath, res.Err)
			continue
		}
		recordings = append(recordings, res.Recording)
		fmt.Printf("\r  %d/%d processed", done, len(wavs))
	}
	fmt.Println()

	if err := ctx.Err(); err != nil {
		return err
	}
	if len(recordings) == 0 {
		return fmt.Errorf("all %d recording(s) failed", failed)
	}

	outPath, err := gallery.Write(dir, cfg.Gallery.Filename, cfg.Gallery.Title, recordings)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Gallery: %s (%d recordings, %d failed)\n", outPath, len(recordings), failed)
	return nil
}

// runServe implements: serve [flags] [<recordings-dir>]
func runServe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	verbose := fs.Bool("verbose", false, "enable debug logging")
	port := fs.Int("port", 0, "listen port (default: from config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dir := "."
	if fs.NArg() > 0 {
		dir = fs.Arg(0)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("%q is not a directory", dir)
	}

	cfg, log, _, err := setup(ctx, *configPath, *verbose)
	if err != nil {
		return err
	}
	defer log.Sync()
	if *port > 0 {
		cfg.Serve.Port = *port
	}

	fmt.Printf("Recordings: %d WAV file(s)\n", server.CountWAVs(dir))
	if page := server.FindGallery(dir); page != "" {
		fmt.Printf("Gallery:    http://localhost:%d/%s\n", cfg.Serve.Port, page)
	} else {
		fmt.Println("No gallery page found; generate one with: mothgrams gallery", dir)
	}
	fmt.Printf("Serving on  http://localhost:%d/  (Ctrl+C to stop)\n", cfg.Serve.Port)

	return server.New(dir, cfg.Serve.Port, log).ListenAndServe(ctx)
}

// runWatch implements: watch [flags] <recordings-dir>
func runWatch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	verbose := fs.Bool("verbose", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: mothgrams watch [flags] <recordings-dir>")
	}
	dir := fs.Arg(0)

	cfg, log, runner, err := setup(ctx, *configPath, *verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := check.Deps(); err != nil {
		return err
	}

	proc := pipeline.New(cfg, runner, log)
	handler := func(ctx context.Context, wavPath string) {
		rec, err := proc.Process(ctx, wavPath)
		if err != nil {
			fmt.Printf("  ✗ %s: %v\n", wavPath, err)
			return
		}
		fmt.Printf("  ✓ %s\n", rec.SpectrogramPNG)
		refreshGallery(dir, cfg)
	}

	fmt.Printf("Watching %s (Ctrl+C to stop)\n", dir)
	w := watch.New(dir, time.Duration(cfg.Watch.DebounceSeconds)*time.Second, handler, log)
	return w.Run(ctx)
}

// refreshGallery re-renders the gallery from whatever metadata can be
// gathered quickly (no asset rendering; that already happened).
func refreshGallery(dir string, cfg *config.Config) {
	wavs, err := gallery.ScanWAVs(dir)
	if err != nil {
		return
	}

	var recordings []*models.Recording
	for _, wavPath := range wavs {
		info, err := os.Stat(wavPath)
		if err != nil {
			continue
		}
		rec := &models.Recording{WAVPath: wavPath, Bytes: info.Size()}
		if t, ok := metadata.ParseFilename(wavPath); ok {
			rec.RecordedAt = t
		}
		base := strings.TrimSuffix(wavPath, filepath.Ext(wavPath))
		if _, err := os.Stat(base + ".png"); err == nil {
			rec.SpectrogramPNG = base + ".png"
		}
		recordings = append(recordings, rec)
	}
	if len(recordings) > 0 {
		_, _ = gallery.Write(dir, cfg.Gallery.Filename, cfg.Gallery.Title, recordings)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `mothgrams - AudioMoth recording toolkit

USAGE:
  mothgrams <command> [flags] [args]

COMMANDS:
  segment <file> <size-limit> [<scale-filter>]
        Split a video into parts bounded by a per-file size ceiling.
        Size limit accepts K/M/G suffixes (base 1024), e.g. 60M.
  spectro <wav-file>
        Render a spectrogram image (-video, -gif for more formats).
  gallery <dir>
        Process every WAV in a directory and write an HTML gallery.
  serve [<dir>]
        Serve a recordings directory over HTTP (gallery, playback, /metrics).
  watch <dir>
        Process new recordings as they appear and keep the gallery fresh.
  check
        Verify ffmpeg/ffprobe availability and capabilities.

COMMON FLAGS:
  -config string   path to YAML config file
  -verbose         enable debug logging

Configuration precedence: flags > environment (MOTHGRAMS_*) > config file > defaults.
Config file locations: ./mothgrams.yaml, ~/.mothgrams/config.yaml, /etc/mothgrams/config.yaml

EXIT CODES:
  0  success
  1  usage, configuration, or processing error
  130  interrupted
`)
}
