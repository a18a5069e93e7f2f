package transcript

import (
	"path/filepath"
	"testing"
)

func TestWhisperOutputPath(t *testing.T) {
	w := NewWhisperTranscriber("/work")

	got := w.outputPath("/work/abc123.mp3")
	want := filepath.Join("/work", "abc123.txt")
	if got != want {
		t.Errorf("outputPath() = %q, want %q", got, want)
	}
}

func TestDriverDefaults(t *testing.T) {
	y := &YtdlpExtractor{}
	if y.path() != "yt-dlp" {
		t.Errorf("ytdlp path() = %q, want yt-dlp", y.path())
	}

	w := &WhisperTranscriber{}
	if w.path() != "whisper" {
		t.Errorf("whisper path() = %q, want whisper", w.path())
	}
}
