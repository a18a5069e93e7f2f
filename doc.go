// Package ytscribe acquires transcripts for YouTube channel uploads.
//
// It enumerates a channel's uploads, produces one transcript file per
// video, and maintains an append-only combined transcript log.
//
// Overview
//
// A run resolves the channel's videos, then processes them strictly in
// order with exactly one acquisition strategy:
//
//   - cloud: extract audio with yt-dlp, stage it to Cloud Storage, and
//     transcribe with the Cloud Speech-to-Text long-running API (default)
//   - captions: fetch the video's existing caption track
//   - whisper: extract audio with yt-dlp and transcribe offline with whisper
//
// Videos whose transcript file already exists are skipped before any
// network or subprocess cost. A single video's failure never aborts the
// batch.
//
// Configuration
//
// ytscribe loads settings from multiple sources:
//
//   1. Environment variables (highest priority)
//   2. Config file (ytscribe.json or ~/.config/ytscribe/ytscribe.json)
//   3. Default values (lowest priority)
//
// Environment variables:
//
//   - YOUTUBE_API_KEY: YouTube Data API key (required)
//   - YTSCRIBE_GCS_BUCKET: Cloud Storage bucket for audio staging
//   - YTSCRIBE_WORK_DIR: Directory for per-video artifacts
//   - YTSCRIBE_OUTPUT_FILE: Combined transcript log path
//   - YTSCRIBE_YTDLP_PATH: Path to yt-dlp executable
//   - YTSCRIBE_WHISPER_PATH: Path to whisper executable
//   - YTSCRIBE_WHISPER_MODEL: Whisper model size
//   - YTSCRIBE_MAX_RETRIES: Maximum retry attempts
//
// Error Handling
//
// All operations return errors that implement standard Go error handling.
//
// Checking for sentinel errors:
//
//	if errors.Is(err, ytscribe.ErrNoCaptions) {
//		fmt.Println("Video has no caption track")
//	}
//
// Extracting wrapped error details:
//
//	var stratErr *ytscribe.StrategyError
//	if errors.As(err, &stratErr) {
//		fmt.Printf("%s failed for %s: %v\n", stratErr.Strategy, stratErr.VideoID, stratErr.Err)
//	}
//
// Advanced Usage
//
// For more control, use the sub-packages directly:
//
//   - youtube: Upload enumeration and caption fetching
//   - transcript: Strategy execution, combined log, batch orchestration
//   - staging: Audio staging and cloud transcription
//   - config: Configuration management
//   - storage: Run manifest persistence
//   - retry: Exponential backoff retry logic
//
// Example processing a channel directly:
//
//	lister, err := youtube.NewAPILister(ctx, apiKey)
//	if err != nil {
//		log.Fatal(err)
//	}
//	videos, err := lister.ListUploads(ctx, channelID)
//
// Dependencies
//
// The audio-based strategies require yt-dlp to be installed and available
// in PATH or specified via YTSCRIBE_YTDLP_PATH; the whisper strategy
// additionally requires the whisper CLI; the cloud strategy requires
// Google application default credentials.
//
// Install yt-dlp: https://github.com/yt-dlp/yt-dlp
//
package ytscribe
