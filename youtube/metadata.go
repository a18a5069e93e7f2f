package youtube

import (
	"context"

	"ytscribe/retry"
)

// FetchVideo looks up the metadata of a single video by ID.
// Used for single-video processing where no playlist snippet is available.
func (a *APILister) FetchVideo(ctx context.Context, videoID string) (VideoInfo, error) {
	var video VideoInfo

	err := retry.Do(ctx, a.retryConfig(), apiErrorClassifier, func(ctx context.Context) error {
		call := a.service.Videos.List([]string{"snippet"}).
			Id(videoID).
			Context(ctx)

		resp, err := call.Do()
		if err != nil {
			if ctx.Err() != nil {
				return ErrNetworkTimeout
			}
			return err
		}

		if len(resp.Items) == 0 {
			return ErrVideoNotFound
		}

		video = VideoInfo{ID: videoID}
		if resp.Items[0].Snippet != nil {
			video.Title = resp.Items[0].Snippet.Title
		}
		return nil
	})

	if err != nil {
		return VideoInfo{}, &ListerError{Source: "api", Channel: videoID, Err: err}
	}
	return video, nil
}
