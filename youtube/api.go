package youtube

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"google.golang.org/api/option"
	youtubeapi "google.golang.org/api/youtube/v3"

	"ytscribe/retry"
)

const uploadsPageSize = 50

// playlistPage is one page of an uploads playlist.
type playlistPage struct {
	videos    []VideoInfo
	nextToken string
}

// pageFetcher fetches a single page of an uploads playlist. The empty
// next token is the sole termination signal for pagination.
type pageFetcher func(ctx context.Context, playlistID, pageToken string) (*playlistPage, error)

// APILister implements VideoLister using YouTube Data API v3.
//
// Enumeration is deliberately best-effort: a channel that cannot be
// resolved yields an empty list, and a page fetch failure mid-way yields
// the videos discovered so far. A transient failure should not discard
// already-discovered uploads.
type APILister struct {
	service     *youtubeapi.Service
	RetryConfig *retry.Config

	// fetchPage is replaceable for tests; defaults to the Data API.
	fetchPage pageFetcher
}

// NewAPILister creates a new YouTube Data API v3-based video lister.
func NewAPILister(ctx context.Context, apiKey string) (*APILister, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}

	service, err := youtubeapi.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	cfg := retry.DefaultConfig()
	lister := &APILister{
		service:     service,
		RetryConfig: &cfg,
	}
	lister.fetchPage = lister.apiFetchPage
	return lister, nil
}

// ListUploads fetches all videos from the channel's uploads playlist.
func (a *APILister) ListUploads(ctx context.Context, channelID string) ([]VideoInfo, error) {
	playlistID, err := a.uploadsPlaylistID(ctx, channelID)
	if err != nil {
		// Unknown or unresolvable channel is "nothing to do", not a failure.
		log.Printf("youtube: resolve channel %s: %v", channelID, err)
		return nil, nil
	}

	return a.listAllPages(ctx, channelID, playlistID), nil
}

// uploadsPlaylistID resolves the uploads playlist for a channel.
func (a *APILister) uploadsPlaylistID(ctx context.Context, channelID string) (string, error) {
	var playlistID string

	err := retry.Do(ctx, a.retryConfig(), apiErrorClassifier, func(ctx context.Context) error {
		call := a.service.Channels.List([]string{"contentDetails"}).
			Id(channelID).
			Context(ctx)

		resp, err := call.Do()
		if err != nil {
			if ctx.Err() != nil {
				return ErrNetworkTimeout
			}
			return err
		}

		if len(resp.Items) == 0 {
			return ErrChannelNotFound
		}

		playlistID = resp.Items[0].ContentDetails.RelatedPlaylists.Uploads
		return nil
	})

	if err != nil {
		return "", &ListerError{Source: "api", Channel: channelID, Err: err}
	}
	return playlistID, nil
}

// listAllPages walks the uploads playlist until the API stops returning a
// continuation token. A page failure logs and returns what has been
// accumulated so far.
func (a *APILister) listAllPages(ctx context.Context, channelID, playlistID string) []VideoInfo {
	var videos []VideoInfo

	pageToken := ""
	pageNum := 1
	for {
		var page *playlistPage
		err := retry.Do(ctx, a.retryConfig(), apiErrorClassifier, func(ctx context.Context) error {
			p, err := a.fetchPage(ctx, playlistID, pageToken)
			if err != nil {
				return err
			}
			page = p
			return nil
		})
		if err != nil {
			log.Printf("youtube: page %d of %s failed, keeping %d videos: %v",
				pageNum, channelID, len(videos), err)
			return videos
		}

		videos = append(videos, page.videos...)
		log.Printf("youtube: page %d: %d videos (total %d)", pageNum, len(page.videos), len(videos))

		pageToken = page.nextToken
		if pageToken == "" {
			return videos
		}
		pageNum++
	}
}

// apiFetchPage fetches one playlistItems page from the Data API.
func (a *APILister) apiFetchPage(ctx context.Context, playlistID, pageToken string) (*playlistPage, error) {
	call := a.service.PlaylistItems.List([]string{"snippet", "contentDetails"}).
		PlaylistId(playlistID).
		MaxResults(uploadsPageSize).
		PageToken(pageToken).
		Context(ctx)

	resp, err := call.Do()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ErrNetworkTimeout
		}
		return nil, err
	}

	page := &playlistPage{nextToken: resp.NextPageToken}
	for _, item := range resp.Items {
		video := VideoInfo{ID: item.ContentDetails.VideoId}
		if item.Snippet != nil {
			video.Title = item.Snippet.Title
			if t, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
				video.Published = t
			}
		}
		page.videos = append(page.videos, video)
	}
	return page, nil
}

func (a *APILister) retryConfig() retry.Config {
	if a.RetryConfig != nil {
		return *a.RetryConfig
	}
	return retry.DefaultConfig()
}

// apiErrorClassifier determines if a Data API error is retryable.
func apiErrorClassifier(err error) bool {
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, ErrChannelNotFound), errors.Is(err, ErrVideoNotFound):
		return false
	case errors.Is(err, context.Canceled):
		return false
	}

	// Rate limit and timeout errors are retryable
	if strings.Contains(err.Error(), "quotaExceeded") {
		return true
	}
	if strings.Contains(err.Error(), "rateLimitExceeded") {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	// Default to retryable for unknown errors
	return true
}
