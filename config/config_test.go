package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.OutputFile != "master-transcript.txt" {
		t.Errorf("OutputFile = %q, want master-transcript.txt", cfg.OutputFile)
	}
	if cfg.WhisperModel != "base" {
		t.Errorf("WhisperModel = %q, want base", cfg.WhisperModel)
	}
	if cfg.CaptionLanguage != "en" {
		t.Errorf("CaptionLanguage = %q, want en", cfg.CaptionLanguage)
	}
	if len(cfg.Channels) == 0 {
		t.Error("Channels should have built-in aliases")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestChannelID(t *testing.T) {
	cfg := DefaultConfig()

	if id := cfg.ChannelID("botbs"); !strings.HasPrefix(id, "UC") {
		t.Errorf("ChannelID(botbs) = %q, want a channel ID", id)
	}
	// Unknown names pass through so raw IDs work directly.
	if id := cfg.ChannelID("UCxyz"); id != "UCxyz" {
		t.Errorf("ChannelID(UCxyz) = %q, want UCxyz", id)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("YOUTUBE_API_KEY", "test-key")
	t.Setenv("YTSCRIBE_GCS_BUCKET", "my-bucket")
	t.Setenv("YTSCRIBE_WHISPER_MODEL", "small")
	t.Setenv("YTSCRIBE_YTDLP_TIMEOUT", "3m")
	t.Setenv("YTSCRIBE_MAX_RETRIES", "7")

	cfg := DefaultConfig()
	cfg.loadFromEnv()

	if cfg.APIKey != "test-key" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.GCSBucket != "my-bucket" {
		t.Errorf("GCSBucket = %q", cfg.GCSBucket)
	}
	if cfg.WhisperModel != "small" {
		t.Errorf("WhisperModel = %q", cfg.WhisperModel)
	}
	if cfg.YtdlpTimeout != 3*time.Minute {
		t.Errorf("YtdlpTimeout = %v", cfg.YtdlpTimeout)
	}
	if cfg.MaxRetries != 7 {
		t.Errorf("MaxRetries = %d", cfg.MaxRetries)
	}
}

func TestLoadFromEnv_InvalidValuesIgnored(t *testing.T) {
	t.Setenv("YTSCRIBE_YTDLP_TIMEOUT", "not-a-duration")
	t.Setenv("YTSCRIBE_MAX_RETRIES", "many")

	cfg := DefaultConfig()
	cfg.loadFromEnv()

	if cfg.YtdlpTimeout != 10*time.Minute {
		t.Errorf("YtdlpTimeout = %v, want default", cfg.YtdlpTimeout)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want default", cfg.MaxRetries)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty bucket", func(c *Config) { c.GCSBucket = "" }},
		{"empty output", func(c *Config) { c.OutputFile = "" }},
		{"empty work dir", func(c *Config) { c.WorkDir = "" }},
		{"zero ytdlp timeout", func(c *Config) { c.YtdlpTimeout = 0 }},
		{"zero whisper timeout", func(c *Config) { c.WhisperTimeout = 0 }},
		{"empty whisper model", func(c *Config) { c.WhisperModel = "" }},
		{"empty caption language", func(c *Config) { c.CaptionLanguage = "" }},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }},
		{"backoff inversion", func(c *Config) { c.MaxBackoff = c.InitialBackoff / 2 }},
		{"multiplier too small", func(c *Config) { c.BackoffMultiplier = 1.0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}
