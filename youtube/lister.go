// Package youtube provides channel upload enumeration and caption retrieval.
package youtube

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for listing and caption operations.
var (
	ErrChannelNotFound = errors.New("youtube: channel not found")
	ErrVideoNotFound   = errors.New("youtube: video not found")
	ErrRateLimited     = errors.New("youtube: rate limited")
	ErrNetworkTimeout  = errors.New("youtube: network timeout")
	ErrNoCaptions      = errors.New("youtube: no captions available")
)

// VideoLister enumerates a channel's uploads in upload order.
type VideoLister interface {
	// ListUploads returns every video in the channel's uploads playlist,
	// in the order the playlist reports them. Enumeration is best-effort:
	// an unknown channel yields an empty list rather than an error, and a
	// failure partway through pagination yields the videos accumulated so
	// far. Callers must treat an empty result as "nothing to do".
	ListUploads(ctx context.Context, channelID string) ([]VideoInfo, error)
}

// VideoInfo identifies one video in a channel's upload list.
type VideoInfo struct {
	// ID is the YouTube video ID (e.g., "dQw4w9WgXcQ").
	ID string `json:"id"`

	// Title is the video title.
	Title string `json:"title"`

	// Published is when the video was published.
	Published time.Time `json:"published,omitempty"`
}

// VideoURL returns the full YouTube URL for this video.
func (v VideoInfo) VideoURL() string {
	return "https://www.youtube.com/watch?v=" + v.ID
}

// ListerError wraps listing errors with context about what failed.
// Use errors.As() to extract this error type and get operation details.
type ListerError struct {
	// Source indicates which lister produced the error ("api", "timedtext").
	Source string
	// Channel is the channel ID that was being listed.
	Channel string
	// Err is the underlying error that occurred.
	Err error
}

// Error returns a string representation of the listing error.
func (e *ListerError) Error() string {
	return "youtube: " + e.Source + " listing " + e.Channel + ": " + e.Err.Error()
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *ListerError) Unwrap() error { return e.Err }
