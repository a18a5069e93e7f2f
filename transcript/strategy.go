package transcript

import (
	"context"
	"fmt"
)

// Strategy selects one self-contained method of turning a video ID into
// transcript text. Exactly one strategy runs per video; they are never
// chained or combined.
type Strategy int

const (
	// StrategyCloud extracts audio locally and transcribes it via the
	// cloud speech service. This is the default.
	StrategyCloud Strategy = iota
	// StrategyCaptions fetches the video's existing caption track.
	StrategyCaptions
	// StrategyWhisper extracts audio locally and transcribes it with
	// the offline whisper tool.
	StrategyWhisper
)

// String returns the strategy's CLI name.
func (s Strategy) String() string {
	switch s {
	case StrategyCloud:
		return "cloud"
	case StrategyCaptions:
		return "captions"
	case StrategyWhisper:
		return "whisper"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy parses a CLI strategy name.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "cloud":
		return StrategyCloud, nil
	case "captions":
		return StrategyCaptions, nil
	case "whisper":
		return StrategyWhisper, nil
	default:
		return 0, fmt.Errorf("unknown strategy %q (use cloud, captions, or whisper)", name)
	}
}

// Status classifies the outcome of processing one video.
type Status string

const (
	// StatusSaved means a new transcript was written.
	StatusSaved Status = "saved"
	// StatusSkipped means the derived artifact already existed on disk.
	StatusSkipped Status = "skipped"
	// StatusFailed means the strategy failed; the failure is isolated
	// to this video.
	StatusFailed Status = "failed"
)

// Outcome is the classified result of processing one video. Exactly one
// status is produced per video per run; failed videos are not retried
// within a run.
type Outcome struct {
	// Status classifies the result.
	Status Status
	// File is the derived artifact filename.
	File string
	// Text is the acquired transcript (StatusSaved only).
	Text string
	// Err is the typed failure reason (StatusFailed only).
	Err error
}

// CaptionSource retrieves the ordered caption fragments of a video.
type CaptionSource interface {
	FetchCaptions(ctx context.Context, videoID string) ([]string, error)
}

// AudioExtractor produces a local audio artifact for a video and
// returns its path. The path is deterministic in the video ID.
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, videoID string) (string, error)
}

// AudioTranscriber runs offline transcription against a local audio
// file and returns the path of the text file it produced.
type AudioTranscriber interface {
	TranscribeAudio(ctx context.Context, audioPath string) (string, error)
}

// SpeechTranscriber stages a local audio file to remote storage,
// transcribes it there, and returns the transcript text. Cleanup of
// the remote copy is the implementation's responsibility.
type SpeechTranscriber interface {
	StageAndTranscribe(ctx context.Context, audioPath string) (string, error)
}

// StrategyError wraps a strategy failure with the video it belongs to.
type StrategyError struct {
	// Strategy is the strategy that failed.
	Strategy Strategy
	// VideoID is the video being processed.
	VideoID string
	// Err is the underlying failure.
	Err error
}

// Error returns a string representation of the strategy failure.
func (e *StrategyError) Error() string {
	return "transcript: " + e.Strategy.String() + " strategy for " + e.VideoID + ": " + e.Err.Error()
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *StrategyError) Unwrap() error { return e.Err }
