package transcript

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ytscribe/youtube"
)

// flakyCaptions fails for the video IDs in fail, succeeds otherwise.
type flakyCaptions struct {
	fail map[string]bool
}

func (f *flakyCaptions) FetchCaptions(ctx context.Context, videoID string) ([]string, error) {
	if f.fail[videoID] {
		return nil, errors.New("captions backend down")
	}
	return []string{"transcript of", videoID}, nil
}

func newTestOrchestrator(t *testing.T, dir string, captions CaptionSource) (*Orchestrator, string) {
	t.Helper()
	logPath := filepath.Join(dir, "master.txt")
	clog, err := OpenCombinedLog(logPath, "UCtest")
	if err != nil {
		t.Fatalf("OpenCombinedLog() error = %v", err)
	}
	t.Cleanup(func() { clog.Close() })

	return &Orchestrator{
		Executor: &Executor{Strategy: StrategyCaptions, WorkDir: dir, Captions: captions},
		Log:      clog,
	}, logPath
}

func videoSeq(ids ...string) []youtube.VideoInfo {
	videos := make([]youtube.VideoInfo, 0, len(ids))
	for _, id := range ids {
		videos = append(videos, youtube.VideoInfo{ID: id, Title: "Video " + id})
	}
	return videos
}

func TestRun_AllSaved(t *testing.T) {
	dir := t.TempDir()
	orch, logPath := newTestOrchestrator(t, dir, &flakyCaptions{})

	stats, results, err := orch.Run(context.Background(), videoSeq("aaa", "bbb", "ccc"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if stats != (Stats{New: 3}) {
		t.Errorf("stats = %+v, want {New:3}", stats)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	// Combined entries appear in resolution order.
	data, _ := os.ReadFile(logPath)
	content := string(data)
	prev := -1
	for _, id := range []string{"aaa", "bbb", "ccc"} {
		idx := strings.Index(content, "## Video ID: "+id)
		if idx == -1 {
			t.Fatalf("combined log missing entry for %s", id)
		}
		if idx < prev {
			t.Errorf("entry for %s out of order", id)
		}
		prev = idx
	}
}

func TestRun_FailureIsolation(t *testing.T) {
	dir := t.TempDir()
	orch, logPath := newTestOrchestrator(t, dir, &flakyCaptions{fail: map[string]bool{"bbb": true}})

	stats, results, err := orch.Run(context.Background(), videoSeq("aaa", "bbb", "ccc"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if stats != (Stats{New: 2, Errors: 1}) {
		t.Errorf("stats = %+v, want {New:2 Errors:1}", stats)
	}

	// Neighbors of the failing video are unaffected.
	for _, id := range []string{"aaa", "ccc"} {
		if _, err := os.Stat(filepath.Join(dir, Filename("Video "+id, id))); err != nil {
			t.Errorf("artifact for %s missing: %v", id, err)
		}
	}
	if results[1].Status != StatusFailed || results[1].Detail == "" {
		t.Errorf("results[1] = %+v, want failed with detail", results[1])
	}

	// The failed video writes nothing to the aggregate.
	data, _ := os.ReadFile(logPath)
	if strings.Contains(string(data), "## Video ID: bbb") {
		t.Error("failed video appeared in combined log")
	}
}

func TestRun_SkipScenario(t *testing.T) {
	dir := t.TempDir()

	// abc123's artifact already exists on disk.
	existing := filepath.Join(dir, Filename("Video abc123", "abc123"))
	if err := os.WriteFile(existing, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	captions := &fakeCaptions{fragments: []string{"Hello ", "world"}}
	orch, logPath := newTestOrchestrator(t, dir, captions)

	stats, _, err := orch.Run(context.Background(), videoSeq("abc123", "def456"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if stats != (Stats{New: 1, Skipped: 1}) {
		t.Errorf("stats = %+v, want {New:1 Skipped:1}", stats)
	}

	saved, err := os.ReadFile(filepath.Join(dir, Filename("Video def456", "def456")))
	if err != nil {
		t.Fatal(err)
	}
	if string(saved) != "Hello  world" {
		t.Errorf("saved text = %q, want %q", saved, "Hello  world")
	}

	// Skipped videos write nothing to the aggregate.
	data, _ := os.ReadFile(logPath)
	if strings.Contains(string(data), "## Video ID: abc123") {
		t.Error("skipped video appeared in combined log")
	}
}

func TestRun_SecondRunIdempotent(t *testing.T) {
	dir := t.TempDir()
	videos := videoSeq("aaa", "bbb")

	orch, _ := newTestOrchestrator(t, dir, &flakyCaptions{})
	stats, _, err := orch.Run(context.Background(), videos)
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	if stats != (Stats{New: 2}) {
		t.Fatalf("first run stats = %+v, want {New:2}", stats)
	}

	orch2, _ := newTestOrchestrator(t, dir, &flakyCaptions{})
	stats2, _, err := orch2.Run(context.Background(), videos)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if stats2 != (Stats{Skipped: 2}) {
		t.Errorf("second run stats = %+v, want {Skipped:2}", stats2)
	}
}

func TestRun_ContextCanceled(t *testing.T) {
	dir := t.TempDir()
	orch, _ := newTestOrchestrator(t, dir, &flakyCaptions{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, _, err := orch.Run(ctx, videoSeq("aaa"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if stats != (Stats{}) {
		t.Errorf("stats = %+v, want zero", stats)
	}
}

func TestRun_NilLog(t *testing.T) {
	dir := t.TempDir()
	orch := &Orchestrator{
		Executor: &Executor{Strategy: StrategyCaptions, WorkDir: dir, Captions: &flakyCaptions{}},
	}

	stats, _, err := orch.Run(context.Background(), videoSeq("aaa"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stats != (Stats{New: 1}) {
		t.Errorf("stats = %+v, want {New:1}", stats)
	}
}
