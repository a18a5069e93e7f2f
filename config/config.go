// Package config manages application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all application configuration for transcript acquisition.
type Config struct {
	// APIKey authenticates YouTube Data API requests.
	APIKey string `json:"api_key"`

	// Channels maps short aliases to channel IDs.
	Channels map[string]string `json:"channels"`

	// GCSBucket is the Cloud Storage bucket used to stage audio for
	// cloud transcription.
	GCSBucket string `json:"gcs_bucket"`

	// WorkDir is where audio and per-video transcript files are written.
	WorkDir string `json:"work_dir"`
	// OutputFile is the combined transcript log path.
	OutputFile string `json:"output_file"`
	// ManifestFile is the run manifest path.
	ManifestFile string `json:"manifest_file"`

	// YtdlpPath is the path to the yt-dlp executable (default: "yt-dlp")
	YtdlpPath string `json:"ytdlp_path"`
	// YtdlpTimeout is the maximum time to wait for yt-dlp operations
	YtdlpTimeout time.Duration `json:"ytdlp_timeout"`
	// WhisperPath is the path to the whisper executable (default: "whisper")
	WhisperPath string `json:"whisper_path"`
	// WhisperModel selects the whisper model size
	WhisperModel string `json:"whisper_model"`
	// WhisperTimeout is the maximum time to wait for whisper operations
	WhisperTimeout time.Duration `json:"whisper_timeout"`

	// CaptionLanguage is the caption track language to request
	CaptionLanguage string `json:"caption_language"`

	// MaxRetries is the maximum number of retries for failed operations
	MaxRetries int `json:"max_retries"`
	// InitialBackoff is the initial backoff duration for retries
	InitialBackoff time.Duration `json:"initial_backoff"`
	// MaxBackoff is the maximum backoff duration for retries
	MaxBackoff time.Duration `json:"max_backoff"`
	// BackoffMultiplier is the multiplier for exponential backoff (must be > 1)
	BackoffMultiplier float64 `json:"backoff_multiplier"`
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		Channels: map[string]string{
			"botbs": "UCpwXkp5XwIw_WVswz9bzBUw",
			"swh":   "UCyUA6TXPI48F6JLXc6I41xw",
		},
		GCSBucket:         "chuck-transcription-bucket-20251118",
		WorkDir:           ".",
		OutputFile:        "master-transcript.txt",
		ManifestFile:      "runs.json",
		YtdlpPath:         "yt-dlp",
		YtdlpTimeout:      10 * time.Minute,
		WhisperPath:       "whisper",
		WhisperModel:      "base",
		WhisperTimeout:    60 * time.Minute,
		CaptionLanguage:   "en",
		MaxRetries:        3,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// Load loads configuration from environment variables, config file, and applies defaults.
// Priority: env vars > config file > defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// Try to load from config file
	if err := cfg.loadFromFile(); err != nil {
		// Config file is optional
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	// Override with environment variables
	cfg.loadFromEnv()

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile attempts to load config from ytscribe.json in current directory or home directory.
func (c *Config) loadFromFile() error {
	paths := []string{
		"ytscribe.json",
		filepath.Join(os.Getenv("HOME"), ".config", "ytscribe", "ytscribe.json"),
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}

		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}

	return os.ErrNotExist
}

// loadFromEnv overrides config with environment variables.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("YTSCRIBE_GCS_BUCKET"); v != "" {
		c.GCSBucket = v
	}
	if v := os.Getenv("YTSCRIBE_WORK_DIR"); v != "" {
		c.WorkDir = v
	}
	if v := os.Getenv("YTSCRIBE_OUTPUT_FILE"); v != "" {
		c.OutputFile = v
	}
	if v := os.Getenv("YTSCRIBE_MANIFEST_FILE"); v != "" {
		c.ManifestFile = v
	}
	if v := os.Getenv("YTSCRIBE_YTDLP_PATH"); v != "" {
		c.YtdlpPath = v
	}
	if v := os.Getenv("YTSCRIBE_YTDLP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.YtdlpTimeout = d
		}
	}
	if v := os.Getenv("YTSCRIBE_WHISPER_PATH"); v != "" {
		c.WhisperPath = v
	}
	if v := os.Getenv("YTSCRIBE_WHISPER_MODEL"); v != "" {
		c.WhisperModel = v
	}
	if v := os.Getenv("YTSCRIBE_WHISPER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.WhisperTimeout = d
		}
	}
	if v := os.Getenv("YTSCRIBE_CAPTION_LANGUAGE"); v != "" {
		c.CaptionLanguage = v
	}
	if v := os.Getenv("YTSCRIBE_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRetries = n
		}
	}
	if v := os.Getenv("YTSCRIBE_INITIAL_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.InitialBackoff = d
		}
	}
	if v := os.Getenv("YTSCRIBE_MAX_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.MaxBackoff = d
		}
	}
}

// ChannelID resolves a channel alias or returns the argument unchanged
// when it is not a known alias.
func (c *Config) ChannelID(name string) string {
	if id, ok := c.Channels[name]; ok {
		return id
	}
	return name
}

// Validate checks that configuration values are valid and consistent.
// It returns an error if any configuration value is invalid.
func (c *Config) Validate() error {
	if c.GCSBucket == "" {
		return fmt.Errorf("gcs_bucket must not be empty")
	}
	if c.WorkDir == "" {
		return fmt.Errorf("work_dir must not be empty")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("output_file must not be empty")
	}
	if c.YtdlpTimeout <= 0 {
		return fmt.Errorf("ytdlp_timeout must be positive")
	}
	if c.WhisperTimeout <= 0 {
		return fmt.Errorf("whisper_timeout must be positive")
	}
	if c.WhisperModel == "" {
		return fmt.Errorf("whisper_model must not be empty")
	}
	if c.CaptionLanguage == "" {
		return fmt.Errorf("caption_language must not be empty")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative")
	}
	if c.InitialBackoff <= 0 {
		return fmt.Errorf("initial_backoff must be positive")
	}
	if c.MaxBackoff <= 0 {
		return fmt.Errorf("max_backoff must be positive")
	}
	if c.MaxBackoff < c.InitialBackoff {
		return fmt.Errorf("max_backoff must be >= initial_backoff")
	}
	if c.BackoffMultiplier <= 1 {
		return fmt.Errorf("backoff_multiplier must be > 1")
	}
	return nil
}
