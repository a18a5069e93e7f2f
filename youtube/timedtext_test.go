package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpclient "ytscribe/http"
	"ytscribe/retry"
)

const sampleTimedtext = `{
  "events": [
    {"tStartMs": 0, "dDurationMs": 0, "wpWinId": 1},
    {"tStartMs": 0, "dDurationMs": 1500, "segs": [{"utf8": "Hello "}]},
    {"tStartMs": 1500, "dDurationMs": 2000, "segs": [{"utf8": "wor"}, {"utf8": "ld"}]}
  ]
}`

func testCaptionClient(serverURL string) *CaptionClient {
	cc := NewCaptionClientWithHTTP(httpclient.New(&httpclient.Config{
		Timeout:     5 * time.Second,
		Retry:       retry.Config{MaxRetries: 0, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond, Multiplier: 2},
		UserAgent:   "ytscribe-test",
		RateLimiter: httpclient.RateLimiterConfig{DefaultRPS: 0},
	}))
	cc.baseURL = serverURL
	return cc
}

func TestFetchCaptions_OrderedFragments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("v"); got != "abc123" {
			t.Errorf("query v = %q, want abc123", got)
		}
		if got := r.URL.Query().Get("lang"); got != "en" {
			t.Errorf("query lang = %q, want en", got)
		}
		w.Write([]byte(sampleTimedtext))
	}))
	defer server.Close()

	cc := testCaptionClient(server.URL)
	defer cc.Close()

	fragments, err := cc.FetchCaptions(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("FetchCaptions() error = %v", err)
	}

	want := []string{"Hello ", "world"}
	if len(fragments) != len(want) {
		t.Fatalf("got %d fragments, want %d", len(fragments), len(want))
	}
	for i := range want {
		if fragments[i] != want[i] {
			t.Errorf("fragments[%d] = %q, want %q", i, fragments[i], want[i])
		}
	}
}

func TestFetchCaptions_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	cc := testCaptionClient(server.URL)
	defer cc.Close()

	_, err := cc.FetchCaptions(context.Background(), "missing")
	if !errors.Is(err, ErrNoCaptions) {
		t.Errorf("FetchCaptions() error = %v, want ErrNoCaptions", err)
	}
}

func TestFetchCaptions_EmptyTrack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"events": []}`))
	}))
	defer server.Close()

	cc := testCaptionClient(server.URL)
	defer cc.Close()

	_, err := cc.FetchCaptions(context.Background(), "silent")
	if !errors.Is(err, ErrNoCaptions) {
		t.Errorf("FetchCaptions() error = %v, want ErrNoCaptions", err)
	}
}

func TestFetchCaptions_EmptyVideoID(t *testing.T) {
	cc := testCaptionClient("http://unused")
	defer cc.Close()

	if _, err := cc.FetchCaptions(context.Background(), ""); err == nil {
		t.Error("FetchCaptions(\"\") error = nil, want error")
	}
}

func TestParseTimedtext_SkipsWindowEvents(t *testing.T) {
	fragments, err := parseTimedtext([]byte(sampleTimedtext))
	if err != nil {
		t.Fatalf("parseTimedtext() error = %v", err)
	}
	if len(fragments) != 2 {
		t.Errorf("got %d fragments, want 2 (window event skipped)", len(fragments))
	}
}

func TestParseTimedtext_Invalid(t *testing.T) {
	if _, err := parseTimedtext([]byte("not json")); err == nil {
		t.Error("parseTimedtext(invalid) error = nil, want error")
	}
}
