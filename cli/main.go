package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"
	"time"

	"ytscribe/config"
	"ytscribe/retry"
	"ytscribe/staging"
	"ytscribe/storage"
	"ytscribe/transcript"
	"ytscribe/youtube"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "channel":
		cmdChannel(args)
	case "video":
		cmdVideo(args)
	case "combine":
		cmdCombine(args)
	case "channels":
		cmdChannels(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		// Assume it's a channel name for backward compatibility
		cmdChannel(os.Args[1:])
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `ytscribe - YouTube channel transcript acquisition

Usage:
  ytscribe channel [flags] <channel>    Acquire transcripts for a channel's uploads
  ytscribe video [flags] <video-id>     Acquire the transcript of a single video
  ytscribe combine [flags]              Rebuild the combined log from local files
  ytscribe channels                     List configured channel aliases
  ytscribe help                         Show this help message

Examples:
  ytscribe channel botbs                          # Process a configured channel alias
  ytscribe channel UCxxxxx --method captions      # Process a raw channel ID
  ytscribe video dQw4w9WgXcQ --method whisper     # Single video, offline transcription
  ytscribe combine --output all.txt               # Rebuild from existing transcripts

For help on specific command: ytscribe <command> -h
`)
}

// runContext is canceled on interrupt so subprocesses and long-running
// cloud operations are torn down cleanly.
func runContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func cmdChannel(args []string) {
	fs := flag.NewFlagSet("channel", flag.ExitOnError)
	method := fs.String("method", "cloud", "Acquisition method: cloud, captions, or whisper")
	output := fs.String("output", "", "Combined transcript file (default from config)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ytscribe channel [flags] <channel>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	argv := fs.Args()
	if len(argv) == 0 {
		fmt.Fprintf(os.Stderr, "Error: missing channel\n")
		fs.Usage()
		os.Exit(1)
	}

	cfg, strategy := loadConfig(*method)
	if *output != "" {
		cfg.OutputFile = *output
	}
	channelID := cfg.ChannelID(argv[0])

	ctx, cancel := runContext()
	defer cancel()

	lister := newLister(ctx, cfg)

	fmt.Fprintf(os.Stderr, "Fetching uploads for channel %s...\n", channelID)
	videos, err := lister.ListUploads(ctx, channelID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching uploads: %v\n", err)
		os.Exit(1)
	}
	if len(videos) == 0 {
		fmt.Println("No videos found.")
		return
	}
	fmt.Fprintf(os.Stderr, "Found %d videos\n", len(videos))

	runBatch(ctx, cfg, strategy, channelID, videos)
}

func cmdVideo(args []string) {
	fs := flag.NewFlagSet("video", flag.ExitOnError)
	method := fs.String("method", "cloud", "Acquisition method: cloud, captions, or whisper")
	output := fs.String("output", "", "Combined transcript file (default from config)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ytscribe video [flags] <video-id>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	argv := fs.Args()
	if len(argv) == 0 {
		fmt.Fprintf(os.Stderr, "Error: missing video-id\n")
		fs.Usage()
		os.Exit(1)
	}

	cfg, strategy := loadConfig(*method)
	if *output != "" {
		cfg.OutputFile = *output
	}
	videoID := argv[0]

	ctx, cancel := runContext()
	defer cancel()

	lister := newLister(ctx, cfg)

	video, err := lister.FetchVideo(ctx, videoID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching video %s: %v\n", videoID, err)
		os.Exit(1)
	}

	runBatch(ctx, cfg, strategy, videoID, []youtube.VideoInfo{video})
}

func cmdCombine(args []string) {
	fs := flag.NewFlagSet("combine", flag.ExitOnError)
	output := fs.String("output", "", "Combined transcript file (default from config)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ytscribe combine [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	outPath := cfg.OutputFile
	if *output != "" {
		outPath = *output
	}

	n, err := transcript.Recombine(cfg.WorkDir, outPath)
	if err != nil {
		if errors.Is(err, transcript.ErrNoTranscripts) {
			fmt.Println("No transcript files found to combine.")
			return
		}
		fmt.Fprintf(os.Stderr, "Error combining transcripts: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Combined %d transcripts into %s\n", n, outPath)
}

func cmdChannels(args []string) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	aliases := make([]string, 0, len(cfg.Channels))
	for alias := range cfg.Channels {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ALIAS\tCHANNEL ID")
	for _, alias := range aliases {
		fmt.Fprintf(w, "%s\t%s\n", alias, cfg.Channels[alias])
	}
	w.Flush()
}

// loadConfig loads configuration and parses the strategy flag value.
func loadConfig(method string) (*config.Config, transcript.Strategy) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	strategy, err := transcript.ParseStrategy(method)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	return cfg, strategy
}

// newLister builds the Data API lister with the configured retry policy.
func newLister(ctx context.Context, cfg *config.Config) *youtube.APILister {
	if cfg.APIKey == "" {
		fmt.Fprintf(os.Stderr, "Error: YOUTUBE_API_KEY is not set\n")
		os.Exit(1)
	}

	lister, err := youtube.NewAPILister(ctx, cfg.APIKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating YouTube client: %v\n", err)
		os.Exit(1)
	}

	rc := retry.DefaultConfig()
	rc.MaxRetries = cfg.MaxRetries
	rc.InitialBackoff = cfg.InitialBackoff
	rc.MaxBackoff = cfg.MaxBackoff
	rc.Multiplier = cfg.BackoffMultiplier
	lister.RetryConfig = &rc

	return lister
}

// newExecutor wires the collaborators the selected strategy needs.
func newExecutor(ctx context.Context, cfg *config.Config, strategy transcript.Strategy) (*transcript.Executor, func()) {
	exec := &transcript.Executor{
		Strategy: strategy,
		WorkDir:  cfg.WorkDir,
	}
	cleanup := func() {}

	switch strategy {
	case transcript.StrategyCaptions:
		captions := youtube.NewCaptionClient()
		captions.Language = cfg.CaptionLanguage
		exec.Captions = captions
		cleanup = func() { captions.Close() }

	case transcript.StrategyWhisper:
		extractor := transcript.NewYtdlpExtractor(cfg.WorkDir)
		extractor.Path = cfg.YtdlpPath
		extractor.Timeout = cfg.YtdlpTimeout
		exec.Extractor = extractor

		whisper := transcript.NewWhisperTranscriber(cfg.WorkDir)
		whisper.Path = cfg.WhisperPath
		whisper.Model = cfg.WhisperModel
		whisper.Timeout = cfg.WhisperTimeout
		exec.Offline = whisper

	case transcript.StrategyCloud:
		extractor := transcript.NewYtdlpExtractor(cfg.WorkDir)
		extractor.Path = cfg.YtdlpPath
		extractor.Timeout = cfg.YtdlpTimeout
		exec.Extractor = extractor

		store, err := staging.NewGCSStore(ctx, cfg.GCSBucket)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating storage client: %v\n", err)
			os.Exit(1)
		}
		recognizer, err := staging.NewSpeechRecognizer(ctx)
		if err != nil {
			store.Close()
			fmt.Fprintf(os.Stderr, "Error creating speech client: %v\n", err)
			os.Exit(1)
		}
		exec.Speech = staging.NewStager(store, recognizer)
		cleanup = func() {
			recognizer.Close()
			store.Close()
		}
	}

	return exec, cleanup
}

// runBatch processes the resolved videos, appends the run to the
// manifest, and prints the final summary.
func runBatch(ctx context.Context, cfg *config.Config, strategy transcript.Strategy, channelID string, videos []youtube.VideoInfo) {
	executor, cleanup := newExecutor(ctx, cfg, strategy)
	defer cleanup()

	combined, err := transcript.OpenCombinedLog(cfg.OutputFile, channelID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening combined log: %v\n", err)
		os.Exit(1)
	}
	defer combined.Close()

	orch := &transcript.Orchestrator{Executor: executor, Log: combined}

	started := time.Now()
	stats, results, runErr := orch.Run(ctx, videos)
	finished := time.Now()

	recordRun(cfg, strategy, channelID, started, finished, stats, results)

	fmt.Printf("\nProcessing complete: %d new, %d skipped, %d errors\n",
		stats.New, stats.Skipped, stats.Errors)

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Run interrupted: %v\n", runErr)
		os.Exit(1)
	}
	if stats.Errors > 0 {
		os.Exit(1)
	}
}

// recordRun appends the run to the manifest. Manifest failures are
// reported but never fail a run whose transcripts are already on disk.
func recordRun(cfg *config.Config, strategy transcript.Strategy, channelID string, started, finished time.Time, stats transcript.Stats, results []transcript.Result) {
	store := storage.NewManifestStore(cfg.ManifestFile)

	records := make([]storage.RunRecord, 0, len(results))
	for _, r := range results {
		records = append(records, storage.RunRecord{
			VideoID:     r.VideoID,
			Title:       r.Title,
			File:        r.File,
			Status:      string(r.Status),
			Detail:      r.Detail,
			RetrievedAt: r.Retrieved,
		})
	}

	summary := storage.RunSummary{
		ChannelID:  channelID,
		Strategy:   strategy.String(),
		StartedAt:  started,
		FinishedAt: finished,
		New:        stats.New,
		Skipped:    stats.Skipped,
		Errors:     stats.Errors,
	}

	if _, err := store.AppendRun(summary, records); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not record run manifest: %v\n", err)
	}
}
