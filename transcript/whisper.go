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
	defaultWhisperPath    = "whisper"
	defaultWhisperModel   = "base"
	defaultWhisperTimeout = 60 * time.Minute
)

// ErrWhisperNotInstalled indicates the whisper binary is missing.
var ErrWhisperNotInstalled = errors.New("transcript: whisper not installed")

// WhisperTranscriber implements AudioTranscriber by invoking the
// whisper CLI against a local audio file. The tool writes its text
// output next to the audio as <basename>.txt.
type WhisperTranscriber struct {
	// Path is the path to the whisper executable. Defaults to "whisper".
	Path string

	// Model is the whisper model parameter. Defaults to "base".
	Model string

	// WorkDir is where the tool writes its output files.
	WorkDir string

	// Timeout is the maximum time to wait for whisper. Transcription of
	// long audio is slow; defaults to 60 minutes.
	Timeout time.Duration
}

// NewWhisperTranscriber creates a transcriber writing into workDir.
func NewWhisperTranscriber(workDir string) *WhisperTranscriber {
	return &WhisperTranscriber{
		Path:    defaultWhisperPath,
		Model:   defaultWhisperModel,
		WorkDir: workDir,
		Timeout: defaultWhisperTimeout,
	}
}

// TranscribeAudio runs whisper on audioPath and returns the path of
// the text output it produced.
func (w *WhisperTranscriber) TranscribeAudio(ctx context.Context, audioPath string) (string, error) {
	if err := w.checkInstalled(ctx); err != nil {
		return "", err
	}

	model := w.Model
	if model == "" {
		model = defaultWhisperModel
	}

	args := []string{
		audioPath,
		"--model", model,
		"--output_format", "txt",
		"--output_dir", w.WorkDir,
	}

	timeout := w.Timeout
	if timeout == 0 {
		timeout = defaultWhisperTimeout
	}
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, w.path(), args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if cmdCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("whisper timed out after %s", timeout)
		}
		if cmdCtx.Err() == context.Canceled {
			return "", context.Canceled
		}
		return "", fmt.Errorf("whisper failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	outPath := w.outputPath(audioPath)
	if _, err := os.Stat(outPath); err != nil {
		return "", fmt.Errorf("whisper produced no output at %s: %w", outPath, err)
	}

	return outPath, nil
}

// outputPath is where whisper writes the text output for audioPath.
func (w *WhisperTranscriber) outputPath(audioPath string) string {
	base := filepath.Base(audioPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(w.WorkDir, base+".txt")
}

// checkInstalled verifies that whisper is available.
func (w *WhisperTranscriber) checkInstalled(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, w.path(), "--help")
	if err := cmd.Run(); err != nil {
		return ErrWhisperNotInstalled
	}
	return nil
}

func (w *WhisperTranscriber) path() string {
	if w.Path != "" {
		return w.Path
	}
	return defaultWhisperPath
}
