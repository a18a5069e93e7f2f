package ytscribe

import (
	"ytscribe/retry"
	"ytscribe/staging"
	"ytscribe/storage"
	"ytscribe/transcript"
	"ytscribe/youtube"
)

// Error handling types exported for library users.
//
// All error types support the standard error handling patterns:
//
// Using errors.Is() for sentinel errors:
//
//	if errors.Is(err, youtube.ErrChannelNotFound) {
//		fmt.Println("Channel not found")
//	}
//
// Using errors.As() for wrapped errors:
//
//	var listerErr *youtube.ListerError
//	if errors.As(err, &listerErr) {
//		fmt.Printf("Listing failed for %s: %v\n", listerErr.Channel, listerErr.Err)
//	}

// Exported error types from sub-packages:
//
// From youtube package:
//   - youtube.ErrChannelNotFound: Channel does not exist
//   - youtube.ErrVideoNotFound: Video does not exist
//   - youtube.ErrRateLimited: Rate limit exceeded
//   - youtube.ErrNetworkTimeout: Network timeout occurred
//   - youtube.ErrNoCaptions: Video has no usable caption track
//   - youtube.VideoLister: Interface for upload enumeration
//   - youtube.ListerError: Error during upload enumeration
//
// From transcript package:
//   - transcript.ErrYtdlpNotInstalled: yt-dlp binary not found
//   - transcript.ErrWhisperNotInstalled: whisper binary not found
//   - transcript.ErrNoTranscripts: No local transcript files to combine
//   - transcript.StrategyError: Per-video strategy failure
//
// From staging package:
//   - staging.StagingError: Failure staging or transcribing audio
//
// From storage package:
//   - storage.ErrNotFound: Entity not found in storage
//   - storage.ErrStorageCorrupt: Data corruption detected
//   - storage.ErrLockTimeout: File lock timeout
//   - storage.StorageError: General storage operation error

// Type aliases for convenient error handling.
type (
	// ListerError wraps errors during upload enumeration.
	ListerError = youtube.ListerError
	// StrategyError wraps a per-video acquisition failure.
	StrategyError = transcript.StrategyError
	// StagingError wraps errors staging audio for cloud transcription.
	StagingError = staging.StagingError
	// StorageError wraps errors during storage operations.
	StorageError = storage.StorageError
)

// Sentinel errors exported from sub-packages.
var (
	// ErrChannelNotFound indicates the YouTube channel does not exist.
	ErrChannelNotFound = youtube.ErrChannelNotFound
	// ErrVideoNotFound indicates the YouTube video does not exist.
	ErrVideoNotFound = youtube.ErrVideoNotFound
	// ErrRateLimited indicates the operation was rate limited.
	ErrRateLimited = youtube.ErrRateLimited
	// ErrNetworkTimeout indicates a network timeout occurred.
	ErrNetworkTimeout = youtube.ErrNetworkTimeout
	// ErrNoCaptions indicates the video has no usable caption track.
	ErrNoCaptions = youtube.ErrNoCaptions

	// Tool errors
	// ErrYtdlpNotInstalled indicates yt-dlp binary was not found.
	ErrYtdlpNotInstalled = transcript.ErrYtdlpNotInstalled
	// ErrWhisperNotInstalled indicates whisper binary was not found.
	ErrWhisperNotInstalled = transcript.ErrWhisperNotInstalled
	// ErrNoTranscripts indicates no local transcript files were found.
	ErrNoTranscripts = transcript.ErrNoTranscripts

	// Storage errors
	// ErrNotFound indicates an entity was not found in storage.
	ErrNotFound = storage.ErrNotFound
	// ErrStorageCorrupt indicates data corruption was detected.
	ErrStorageCorrupt = storage.ErrStorageCorrupt
	// ErrLockTimeout indicates a timeout acquiring a file lock.
	ErrLockTimeout = storage.ErrLockTimeout
)

// IsRetryable determines if an error should be retried.
// It returns false for permanent errors like context cancellation.
func IsRetryable(err error) bool {
	return retry.IsRetryable(err)
}
