package transcript

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	sessionRule     = "========================================"
	entrySeparator  = "----------------------------------------"
)

// ErrNoTranscripts is returned by Recombine when the working directory
// holds no matching artifacts. The output file is left untouched.
var ErrNoTranscripts = errors.New("transcript: no transcript files found")

// Entry is one framed record in the combined log.
type Entry struct {
	// Filename is the per-video artifact name.
	Filename string
	// Title is the original (unslugged) video title.
	Title string
	// VideoID is the video the transcript belongs to.
	VideoID string
	// Retrieved is when the transcript was acquired.
	Retrieved time.Time
	// Text is the transcript body.
	Text string
}

// CombinedLog is the append-only master transcript file. Entries are
// framed with metadata headers and never rewritten or reordered; the
// file accumulates entries across independent runs, with each run
// delimited by a session banner.
type CombinedLog struct {
	f *os.File
}

// OpenCombinedLog opens (or creates) the combined log for appending and
// writes the session banner for this run.
func OpenCombinedLog(path, channelID string) (*CombinedLog, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open combined log: %w", err)
	}

	banner := fmt.Sprintf("\n\n%s\nProcessing Session: %s\nChannel ID: %s\n%s\n\n",
		sessionRule, time.Now().Format(timestampLayout), channelID, sessionRule)
	if _, err := f.WriteString(banner); err != nil {
		f.Close()
		return nil, fmt.Errorf("write session banner: %w", err)
	}

	return &CombinedLog{f: f}, nil
}

// Append writes one framed entry. Entries appear in the order Append
// is called, which the orchestrator guarantees matches resolution order.
func (l *CombinedLog) Append(e Entry) error {
	var b strings.Builder
	fmt.Fprintf(&b, "## Transcript File: %s\n", e.Filename)
	fmt.Fprintf(&b, "## Video Title: %s\n", e.Title)
	fmt.Fprintf(&b, "## Video ID: %s\n", e.VideoID)
	fmt.Fprintf(&b, "## Retrieved: %s\n", e.Retrieved.Format(timestampLayout))
	b.WriteString(entrySeparator + "\n")
	b.WriteString(e.Text + "\n\n")

	if _, err := l.f.WriteString(b.String()); err != nil {
		return fmt.Errorf("append combined entry: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (l *CombinedLog) Close() error {
	return l.f.Close()
}

// Recombine rebuilds the combined log at outPath from the per-video
// artifacts already present in dir, sorted lexicographically. It makes
// no network or subprocess calls; it exists to restore a lost aggregate
// from local files. Returns the number of artifacts combined, or
// ErrNoTranscripts (without touching outPath) when none match.
func Recombine(dir, outPath string) (int, error) {
	names, err := listTranscripts(dir, filepath.Base(outPath))
	if err != nil {
		return 0, err
	}
	if len(names) == 0 {
		return 0, ErrNoTranscripts
	}

	f, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("create combined log: %w", err)
	}
	defer f.Close()

	header := fmt.Sprintf("Combined Transcripts (from local files)\nGenerated on: %s\n%s\n\n",
		time.Now().Format(timestampLayout), sessionRule)
	if _, err := f.WriteString(header); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	combined := 0
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Printf("transcript: recombine skipping %s: %v", name, err)
			continue
		}
		if _, err := fmt.Fprintf(f, "## Episode Transcript: %s\n%s\n\n", name, data); err != nil {
			return combined, fmt.Errorf("write entry for %s: %w", name, err)
		}
		combined++
	}

	return combined, nil
}

// listTranscripts returns the artifact names in dir, sorted. exclude
// keeps the combined output itself out of the scan when its name also
// carries the transcript suffix.
func listTranscripts(dir, exclude string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == exclude {
			continue
		}
		if strings.HasSuffix(entry.Name(), TranscriptSuffix) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
