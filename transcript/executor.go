package transcript

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ytscribe/youtube"
)

// siblingExtensions are the byproducts the extraction and offline
// transcription tools may leave next to the renamed transcript.
var siblingExtensions = []string{"mp3", "json", "srt", "tsv", "vtt"}

// Executor runs one acquisition strategy for one video at a time.
//
// Per video it walks a small state machine: compute the derived
// filename, skip if the artifact already exists (before any network or
// subprocess cost), otherwise run the configured strategy and classify
// the result. Failures never escape Process; they come back as a
// StatusFailed outcome so a batch can keep going.
type Executor struct {
	// Strategy is the single acquisition method to use.
	Strategy Strategy

	// WorkDir is where per-video artifacts are read and written.
	WorkDir string

	// Captions serves StrategyCaptions.
	Captions CaptionSource
	// Extractor serves the audio-based strategies.
	Extractor AudioExtractor
	// Offline serves StrategyWhisper.
	Offline AudioTranscriber
	// Speech serves StrategyCloud.
	Speech SpeechTranscriber
}

// Process acquires the transcript for one video and classifies the outcome.
func (e *Executor) Process(ctx context.Context, video youtube.VideoInfo) Outcome {
	filename := Filename(video.Title, video.ID)
	path := filepath.Join(e.WorkDir, filename)

	if _, err := os.Stat(path); err == nil {
		return Outcome{Status: StatusSkipped, File: filename}
	}

	text, err := e.acquire(ctx, video.ID, path)
	if err != nil {
		return Outcome{
			Status: StatusFailed,
			File:   filename,
			Err:    &StrategyError{Strategy: e.Strategy, VideoID: video.ID, Err: err},
		}
	}

	return Outcome{Status: StatusSaved, File: filename, Text: text}
}

// acquire dispatches to exactly one strategy and leaves the transcript
// at path on success.
func (e *Executor) acquire(ctx context.Context, videoID, path string) (string, error) {
	switch e.Strategy {
	case StrategyCaptions:
		return e.acquireCaptions(ctx, videoID, path)
	case StrategyWhisper:
		return e.acquireWhisper(ctx, videoID, path)
	case StrategyCloud:
		return e.acquireCloud(ctx, videoID, path)
	default:
		return "", fmt.Errorf("unknown strategy %v", e.Strategy)
	}
}

// acquireCaptions joins the video's caption fragments with single
// spaces, in the order the caption source supplies them.
func (e *Executor) acquireCaptions(ctx context.Context, videoID, path string) (string, error) {
	if e.Captions == nil {
		return "", errors.New("captions strategy not configured")
	}

	fragments, err := e.Captions.FetchCaptions(ctx, videoID)
	if err != nil {
		return "", fmt.Errorf("fetch captions: %w", err)
	}

	text := strings.Join(fragments, " ")
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}
	return text, nil
}

// acquireWhisper extracts audio, transcribes it offline, renames the
// tool's output to the derived filename, and removes the byproducts.
func (e *Executor) acquireWhisper(ctx context.Context, videoID, path string) (string, error) {
	if e.Extractor == nil || e.Offline == nil {
		return "", errors.New("whisper strategy not configured")
	}

	audioPath, err := e.Extractor.ExtractAudio(ctx, videoID)
	if err != nil {
		return "", fmt.Errorf("extract audio: %w", err)
	}

	outPath, err := e.Offline.TranscribeAudio(ctx, audioPath)
	if err != nil {
		e.removeSiblings(videoID)
		return "", fmt.Errorf("offline transcription: %w", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		e.removeSiblings(videoID)
		return "", fmt.Errorf("read transcription output: %w", err)
	}

	if err := os.Rename(outPath, path); err != nil {
		e.removeSiblings(videoID)
		return "", fmt.Errorf("rename transcription output: %w", err)
	}

	e.removeSiblings(videoID)
	return string(data), nil
}

// acquireCloud extracts audio, delegates to the staging adapter, and
// removes the local audio artifact.
func (e *Executor) acquireCloud(ctx context.Context, videoID, path string) (string, error) {
	if e.Extractor == nil || e.Speech == nil {
		return "", errors.New("cloud strategy not configured")
	}

	audioPath, err := e.Extractor.ExtractAudio(ctx, videoID)
	if err != nil {
		return "", fmt.Errorf("extract audio: %w", err)
	}
	defer os.Remove(audioPath)

	text, err := e.Speech.StageAndTranscribe(ctx, audioPath)
	if err != nil {
		return "", fmt.Errorf("cloud transcription: %w", err)
	}

	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}
	return text, nil
}

// removeSiblings removes the tool byproducts for a video. A missing
// file is not an error here.
func (e *Executor) removeSiblings(videoID string) {
	for _, ext := range siblingExtensions {
		os.Remove(filepath.Join(e.WorkDir, videoID+"."+ext))
	}
}
