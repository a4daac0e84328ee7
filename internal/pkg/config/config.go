package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Sources  SourcesConfig  `yaml:"sources"`
	Telegram TelegramConfig `yaml:"telegram"`
	Logging  LoggingConfig  `yaml:"logging"`
	Health   HealthConfig   `yaml:"health"`
}

type HealthConfig struct {
	Port              int           `yaml:"port"` // 0 disables the health server
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`     // debug, info, warn, error
	JSONFile string `yaml:"json_file"` // optional structured log sink
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	IDTTL    time.Duration `yaml:"id_ttl"` // lifetime of source-id -> match_id entries
}

type PipelineConfig struct {
	BatchSizePrematch int           `yaml:"batch_size_prematch"`
	BatchSizeLive     int           `yaml:"batch_size_live"`
	MaxConcurrent     int           `yaml:"max_concurrent"` // in-flight fetches per source
	FetchTimeout      time.Duration `yaml:"fetch_timeout"`
	LookaheadDays     int           `yaml:"lookahead_days"` // reference-feed ingest window
}

type SourcesConfig struct {
	Flashscore FlashscoreConfig `yaml:"flashscore"`
	Bovada     SourceConfig     `yaml:"bovada"`
	Tipico     TipicoConfig     `yaml:"tipico"`
	Unibet     SourceConfig     `yaml:"unibet"`
}

// SourceConfig is the shared shape of one bookmaker source. SportSynonyms is
// per-source on purpose: the same raw sport word means different things on
// different sites.
type SourceConfig struct {
	BaseURL       string            `yaml:"base_url"`
	Sports        []string          `yaml:"sports"`
	UserAgent     string            `yaml:"user_agent"`
	Headers       map[string]string `yaml:"headers"`
	SportSynonyms map[string]string `yaml:"sport_synonyms"`
	Live          bool              `yaml:"live"`
}

type FlashscoreConfig struct {
	BaseURL   string            `yaml:"base_url"`
	FeedURL   string            `yaml:"feed_url"`
	Sports    []string          `yaml:"sports"`
	UserAgent string            `yaml:"user_agent"`
	Headers   map[string]string `yaml:"headers"`
}

type TipicoConfig struct {
	SourceConfig `yaml:",inline"`
	MirrorURL    string `yaml:"mirror_url"` // resolved through a headless browser when set
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	config.applyDefaults()

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Pipeline.BatchSizePrematch <= 0 {
		c.Pipeline.BatchSizePrematch = 100
	}
	if c.Pipeline.BatchSizeLive <= 0 {
		c.Pipeline.BatchSizeLive = 50
	}
	if c.Pipeline.MaxConcurrent <= 0 {
		c.Pipeline.MaxConcurrent = 5
	}
	if c.Pipeline.FetchTimeout <= 0 {
		c.Pipeline.FetchTimeout = 30 * time.Second
	}
	if c.Pipeline.LookaheadDays <= 0 {
		c.Pipeline.LookaheadDays = 8
	}
	if c.Redis.IDTTL <= 0 {
		c.Redis.IDTTL = 12 * time.Hour
	}
}
