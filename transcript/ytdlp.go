package transcript

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultYtdlpPath    = "yt-dlp"
	defaultYtdlpTimeout = 10 * time.Minute
)

// ErrYtdlpNotInstalled indicates the yt-dlp binary is missing.
var ErrYtdlpNotInstalled = errors.New("transcript: yt-dlp not installed")

// YtdlpExtractor implements AudioExtractor by invoking yt-dlp as a
// subprocess to produce an MP3 named after the video ID.
type YtdlpExtractor struct {
	// Path is the path to the yt-dlp executable. Defaults to "yt-dlp".
	Path string

	// WorkDir is where the audio artifact is written.
	WorkDir string

	// Timeout is the maximum time to wait for yt-dlp. Defaults to 10 minutes.
	Timeout time.Duration

	// ExtraArgs are additional arguments to pass to yt-dlp.
	ExtraArgs []string
}

// NewYtdlpExtractor creates an extractor writing into workDir.
func NewYtdlpExtractor(workDir string) *YtdlpExtractor {
	return &YtdlpExtractor{
		Path:    defaultYtdlpPath,
		WorkDir: workDir,
		Timeout: defaultYtdlpTimeout,
	}
}

// ExtractAudio downloads the video's audio track as <id>.mp3 and
// returns its path.
func (y *YtdlpExtractor) ExtractAudio(ctx context.Context, videoID string) (string, error) {
	if err := y.checkInstalled(ctx); err != nil {
		return "", err
	}

	audioPath := filepath.Join(y.WorkDir, videoID+".mp3")

	args := []string{
		"-x",
		"--audio-format", "mp3",
		"-o", filepath.Join(y.WorkDir, videoID+".%(ext)s"),
		"--no-warnings",
	}
	args = append(args, y.ExtraArgs...)
	args = append(args, "https://www.youtube.com/watch?v="+videoID)

	timeout := y.Timeout
	if timeout == 0 {
		timeout = defaultYtdlpTimeout
	}
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, y.path(), args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if cmdCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("yt-dlp timed out after %s", timeout)
		}
		if cmdCtx.Err() == context.Canceled {
			return "", context.Canceled
		}
		return "", fmt.Errorf("yt-dlp failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	if _, err := os.Stat(audioPath); err != nil {
		return "", fmt.Errorf("yt-dlp produced no audio at %s: %w", audioPath, err)
	}

	return audioPath, nil
}

// checkInstalled verifies that yt-dlp is available.
func (y *YtdlpExtractor) checkInstalled(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, y.path(), "--version")
	if err := cmd.Run(); err != nil {
		return ErrYtdlpNotInstalled
	}
	return nil
}

func (y *YtdlpExtractor) path() string {
	if y.Path != "" {
		return y.Path
	}
	return defaultYtdlpPath
}
