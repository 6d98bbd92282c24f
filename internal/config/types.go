package config

import "time"

type Config struct {
	Bot         BotConfig
	Translation TranslationConfig
	Storage     StorageConfig
	Limits      Limits
	ScratchDir  string
}

type BotConfig struct {
	Provider string
	Token    string
}

type TranslationConfig struct {
	BaseURL string
}

type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// Limits are the admission and lifecycle tunables. Defaults match the
// constants the bot has always run with; a YAML file can override them.
type Limits struct {
	Capacity           int
	MaxAudioBytes      int64
	MinRequestInterval time.Duration
	IdleTimeout        time.Duration
	SweepInterval      time.Duration
	ReaperPacing       time.Duration
	DrainGrace         time.Duration
	DrainPacing        time.Duration
}
