package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	httpclient "ytscribe/http"
)

// CaptionClient fetches caption fragments from YouTube's timedtext API.
type CaptionClient struct {
	httpClient *httpclient.Client
	baseURL    string

	// Language is the caption track language code. Defaults to "en".
	Language string
}

// NewCaptionClient creates a new timedtext caption client.
func NewCaptionClient() *CaptionClient {
	return &CaptionClient{
		httpClient: httpclient.New(&httpclient.Config{
			Timeout:     30 * time.Second,
			UserAgent:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
			RateLimiter: httpclient.DefaultRateLimiterConfig(),
		}),
		baseURL:  "https://www.youtube.com/api/timedtext",
		Language: "en",
	}
}

// NewCaptionClientWithHTTP creates a caption client using the given HTTP client.
func NewCaptionClientWithHTTP(client *httpclient.Client) *CaptionClient {
	return &CaptionClient{
		httpClient: client,
		baseURL:    "https://www.youtube.com/api/timedtext",
		Language:   "en",
	}
}

// timedtextResponse is the raw timedtext API response.
type timedtextResponse struct {
	Events []timedtextEvent `json:"events"`
}

// timedtextEvent is a single timed event in the timedtext response.
type timedtextEvent struct {
	TStartMs    int64              `json:"tStartMs"`
	DDurationMs int64              `json:"dDurationMs"`
	Segs        []timedtextSegment `json:"segs,omitempty"`
}

// timedtextSegment is one text run within an event.
type timedtextSegment struct {
	UTF8 string `json:"utf8"`
}

// FetchCaptions fetches the ordered caption fragments for a video.
// Unavailable or empty captions are reported as ErrNoCaptions.
func (cc *CaptionClient) FetchCaptions(ctx context.Context, videoID string) ([]string, error) {
	if videoID == "" {
		return nil, fmt.Errorf("video ID is required")
	}

	lang := cc.Language
	if lang == "" {
		lang = "en"
	}

	params := url.Values{}
	params.Set("v", videoID)
	params.Set("lang", lang)
	params.Set("fmt", "json3")

	apiURL := fmt.Sprintf("%s?%s", cc.baseURL, params.Encode())

	response, err := cc.httpClient.Get(ctx, apiURL)
	if err != nil {
		return nil, fmt.Errorf("timedtext request failed: %w", err)
	}

	switch response.StatusCode {
	case 200:
	case 404:
		return nil, fmt.Errorf("video %s lang %s: %w", videoID, lang, ErrNoCaptions)
	case 403:
		return nil, fmt.Errorf("video %s: captions disabled or region restricted: %w", videoID, ErrNoCaptions)
	case 429:
		return nil, ErrRateLimited
	default:
		return nil, fmt.Errorf("timedtext API returned status %d", response.StatusCode)
	}

	fragments, err := parseTimedtext(response.Body)
	if err != nil {
		return nil, fmt.Errorf("parse timedtext response: %w", err)
	}
	if len(fragments) == 0 {
		return nil, fmt.Errorf("video %s: empty caption track: %w", videoID, ErrNoCaptions)
	}

	return fragments, nil
}

// parseTimedtext extracts caption fragment texts in event order.
func parseTimedtext(data []byte) ([]string, error) {
	var resp timedtextResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal timedtext JSON: %w", err)
	}

	var fragments []string
	for _, event := range resp.Events {
		// Events without segments carry window metadata, not text.
		if len(event.Segs) == 0 {
			continue
		}

		var text strings.Builder
		for _, seg := range event.Segs {
			text.WriteString(seg.UTF8)
		}
		fragments = append(fragments, text.String())
	}

	return fragments, nil
}

// Close closes the caption client and releases resources.
func (cc *CaptionClient) Close() error {
	if cc.httpClient != nil {
		return cc.httpClient.Close()
	}
	return nil
}
