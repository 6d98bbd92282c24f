package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

func Load() (*Config, error) {
	botConfig, err := loadBotConfig()
	if err != nil {
		return nil, err
	}

	baseURL := os.Getenv("TRANSLATION_API_BASE_URL")
	if baseURL == "" {
		return nil, fmt.Errorf("TRANSLATION_API_BASE_URL is required")
	}

	scratchDir := os.Getenv("TRANSLATOR_SCRATCH_DIR")
	if scratchDir == "" {
		scratchDir = filepath.Join(os.TempDir(), "translator-scratch")
	}

	limits, err := loadLimits(os.Getenv("TRANSLATOR_LIMITS"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Bot:         botConfig,
		Translation: TranslationConfig{BaseURL: baseURL},
		Storage:     loadStorageConfig(),
		Limits:      limits,
		ScratchDir:  scratchDir,
	}, nil
}

func loadBotConfig() (BotConfig, error) {
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		return BotConfig{Provider: "telegram", Token: token}, nil
	}

	if token := os.Getenv("DISCORD_BOT_TOKEN"); token != "" {
		return BotConfig{Provider: "discord", Token: token}, nil
	}

	return BotConfig{}, fmt.Errorf("transport credential is required, set TELEGRAM_BOT_TOKEN or DISCORD_BOT_TOKEN")
}

func loadStorageConfig() StorageConfig {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = "minio:9000"
	}

	accessKey := os.Getenv("MINIO_ACCESS_KEY")
	secretKey := os.Getenv("MINIO_SECRET_KEY")

	return StorageConfig{
		Enabled:   accessKey != "" && secretKey != "",
		Endpoint:  endpoint,
		AccessKey: accessKey,
		SecretKey: secretKey,
		UseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
	}
}

func DefaultLimits() Limits {
	return Limits{
		Capacity:           10,
		MaxAudioBytes:      10_200_000,
		MinRequestInterval: 30 * time.Second,
		IdleTimeout:        10 * time.Minute,
		SweepInterval:      10 * time.Second,
		ReaperPacing:       100 * time.Millisecond,
		DrainGrace:         15 * time.Second,
		DrainPacing:        300 * time.Millisecond,
	}
}

// limitsFile is the YAML shape of the optional limits override. Intervals
// are seconds so the sub-second pacing values stay readable.
type limitsFile struct {
	Capacity                  *int     `yaml:"capacity"`
	MaxAudioBytes             *int64   `yaml:"max_audio_bytes"`
	MinRequestIntervalSeconds *float64 `yaml:"min_request_interval_seconds"`
	IdleTimeoutSeconds        *float64 `yaml:"idle_timeout_seconds"`
	SweepIntervalSeconds      *float64 `yaml:"sweep_interval_seconds"`
	ReaperPacingSeconds       *float64 `yaml:"reaper_pacing_seconds"`
	DrainGraceSeconds         *float64 `yaml:"drain_grace_seconds"`
	DrainPacingSeconds        *float64 `yaml:"drain_pacing_seconds"`
}

func loadLimits(path string) (Limits, error) {
	limits := DefaultLimits()

	if path == "" {
		return limits, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return limits, fmt.Errorf("read limits file: %w", err)
	}

	var file limitsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return limits, fmt.Errorf("parse limits file %s: %w", path, err)
	}

	if file.Capacity != nil {
		limits.Capacity = *file.Capacity
	}
	if file.MaxAudioBytes != nil {
		limits.MaxAudioBytes = *file.MaxAudioBytes
	}
	if file.MinRequestIntervalSeconds != nil {
		limits.MinRequestInterval = seconds(*file.MinRequestIntervalSeconds)
	}
	if file.IdleTimeoutSeconds != nil {
		limits.IdleTimeout = seconds(*file.IdleTimeoutSeconds)
	}
	if file.SweepIntervalSeconds != nil {
		limits.SweepInterval = seconds(*file.SweepIntervalSeconds)
	}
	if file.ReaperPacingSeconds != nil {
		limits.ReaperPacing = seconds(*file.ReaperPacingSeconds)
	}
	if file.DrainGraceSeconds != nil {
		limits.DrainGrace = seconds(*file.DrainGraceSeconds)
	}
	if file.DrainPacingSeconds != nil {
		limits.DrainPacing = seconds(*file.DrainPacingSeconds)
	}

	return limits, nil
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
