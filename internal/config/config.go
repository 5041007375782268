package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"NewsPublisher/internal/domain"
)

const (
	defaultTimezone      = "UTC"
	configPathEnv        = "NEWS_PUBLISHER_CONFIG"
	logLevelEnv          = "LOG_LEVEL"
	scheduleCronEnv      = "SCHEDULE_CRON"
	scheduleTimezoneEnv  = "SCHEDULE_TIMEZONE"
	wordpressURLEnv      = "WORDPRESS_URL"
	wordpressUserEnv     = "WORDPRESS_USERNAME"
	wordpressPasswordEnv = "WORDPRESS_APPLICATION_PASSWORD"
	telegramTokenEnv     = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv    = "TELEGRAM_CHAT_ID"
	openAIKeyEnv         = "OPENAI_API_KEY"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Feeds      FeedsConfig      `yaml:"feeds"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	WordPress  WordPressConfig  `yaml:"wordpress"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
}

// LoggingConfig selects the slog level and handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SchedulerConfig defines when the pipeline should run.
type SchedulerConfig struct {
	CronExpression  string         `yaml:"cronExpression"`
	Timezone        string         `yaml:"timezone"`
	RunOnStart      bool           `yaml:"runOnStart"`
	ShutdownTimeout time.Duration  `yaml:"shutdownTimeout"`
	location        *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// FeedsConfig lists the syndication feeds polled each tick.
type FeedsConfig struct {
	URLs      []string      `yaml:"urls"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"userAgent"`
}

// PipelineConfig bounds how much a single tick publishes.
type PipelineConfig struct {
	MaxPerTick int    `yaml:"maxPerTick"`
	Category   string `yaml:"category"`
}

// WordPressConfig describes the REST endpoint and credentials.
type WordPressConfig struct {
	Endpoint            string             `yaml:"endpoint"`
	Username            string             `yaml:"username"`
	ApplicationPassword string             `yaml:"applicationPassword"`
	Status              string             `yaml:"status"`
	Timeout             time.Duration      `yaml:"timeout"`
	Categories          domain.CategoryMap `yaml:"categories"`
	Retry               RetryConfig        `yaml:"retry"`
}

// RetryConfig shapes the retry policy wrapped around publish calls.
type RetryConfig struct {
	MaxAttempts    int           `yaml:"maxAttempts"`
	InitialBackoff time.Duration `yaml:"initialBackoff"`
	MaxBackoff     time.Duration `yaml:"maxBackoff"`
	Statuses       []int         `yaml:"statuses"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken      string        `yaml:"botToken"`
	ChatID        string        `yaml:"chatId"`
	APIEndpoint   string        `yaml:"apiEndpoint"`
	Timeout       time.Duration `yaml:"timeout"`
	ExcerptLength int           `yaml:"excerptLength"`
}

// SummarizerConfig keeps the summarization provider key. Nothing consumes it:
// content is published unchanged.
type SummarizerConfig struct {
	APIKey string `yaml:"apiKey"`
}

// HasCredentials reports whether Basic auth can be attempted.
func (w WordPressConfig) HasCredentials() bool {
	return w.Username != "" && w.ApplicationPassword != ""
}

// Enabled reports whether announcements can be sent at all.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// Load reads an optional .env and YAML file, applies environment overrides and validates the result.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: cannot read .env: %v", err)
	}

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		// yaml.v3 merges into existing maps; a file table must replace the defaults.
		cfg.WordPress.Categories = nil
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(scheduleCronEnv); v != "" {
		c.Scheduler.CronExpression = v
	}
	if v := os.Getenv(scheduleTimezoneEnv); v != "" {
		c.Scheduler.Timezone = v
	}

	if v := os.Getenv(wordpressURLEnv); v != "" {
		c.WordPress.Endpoint = v
	}
	if v := os.Getenv(wordpressUserEnv); v != "" {
		c.WordPress.Username = v
	}
	if v := os.Getenv(wordpressPasswordEnv); v != "" {
		c.WordPress.ApplicationPassword = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Telegram.ChatID = v
	}

	if v := os.Getenv(openAIKeyEnv); v != "" {
		c.Summarizer.APIKey = v
	}
}

// applyDefaults restores values a config file may have blanked out.
func (c *Config) applyDefaults() {
	def := defaultConfig()

	if c.Scheduler.CronExpression == "" {
		c.Scheduler.CronExpression = def.Scheduler.CronExpression
	}
	if c.Scheduler.Timezone == "" {
		c.Scheduler.Timezone = defaultTimezone
	}
	if c.Scheduler.ShutdownTimeout <= 0 {
		c.Scheduler.ShutdownTimeout = def.Scheduler.ShutdownTimeout
	}
	if len(c.Feeds.URLs) == 0 {
		c.Feeds.URLs = def.Feeds.URLs
	}
	if c.Feeds.Timeout <= 0 {
		c.Feeds.Timeout = def.Feeds.Timeout
	}
	if c.Feeds.UserAgent == "" {
		c.Feeds.UserAgent = def.Feeds.UserAgent
	}
	if c.Pipeline.Category == "" {
		c.Pipeline.Category = def.Pipeline.Category
	}
	if c.WordPress.Status == "" {
		c.WordPress.Status = def.WordPress.Status
	}
	if c.WordPress.Timeout <= 0 {
		c.WordPress.Timeout = def.WordPress.Timeout
	}
	if len(c.WordPress.Categories) == 0 {
		c.WordPress.Categories = def.WordPress.Categories
	}
	c.WordPress.Categories = c.WordPress.Categories.WithFallback()
	if c.WordPress.Retry.MaxAttempts <= 0 {
		c.WordPress.Retry.MaxAttempts = def.WordPress.Retry.MaxAttempts
	}
	if c.WordPress.Retry.InitialBackoff <= 0 {
		c.WordPress.Retry.InitialBackoff = def.WordPress.Retry.InitialBackoff
	}
	if c.WordPress.Retry.MaxBackoff <= 0 {
		c.WordPress.Retry.MaxBackoff = def.WordPress.Retry.MaxBackoff
	}
	if len(c.WordPress.Retry.Statuses) == 0 {
		c.WordPress.Retry.Statuses = def.WordPress.Retry.Statuses
	}
	if c.Telegram.APIEndpoint == "" {
		c.Telegram.APIEndpoint = def.Telegram.APIEndpoint
	}
	if c.Telegram.Timeout <= 0 {
		c.Telegram.Timeout = def.Telegram.Timeout
	}
	if c.Telegram.ExcerptLength <= 0 {
		c.Telegram.ExcerptLength = def.Telegram.ExcerptLength
	}
}

func (c *Config) validate() error {
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return fmt.Errorf("scheduler timezone %q: %w", c.Scheduler.Timezone, err)
	}
	c.Scheduler.location = loc

	if _, err := cron.ParseStandard(c.Scheduler.CronExpression); err != nil {
		return fmt.Errorf("scheduler cron expression %q: %w", c.Scheduler.CronExpression, err)
	}
	if c.Pipeline.MaxPerTick <= 0 {
		return fmt.Errorf("pipeline maxPerTick must be positive, got %d", c.Pipeline.MaxPerTick)
	}
	if c.WordPress.Endpoint == "" {
		return fmt.Errorf("wordpress endpoint is required")
	}
	return nil
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Scheduler: SchedulerConfig{
			CronExpression:  "*/10 * * * *",
			Timezone:        defaultTimezone,
			ShutdownTimeout: 30 * time.Second,
			location:        tz,
		},
		Feeds: FeedsConfig{
			URLs: []string{
				"https://www.sciencedaily.com/rss/top/science.xml",
				"https://rss.nytimes.com/services/xml/rss/nyt/Technology.xml",
				"https://feeds.bbci.co.uk/news/technology/rss.xml",
				"https://www.theverge.com/rss/index.xml",
				"https://feeds.arstechnica.com/arstechnica/index",
				"https://phys.org/rss-feed/breaking/",
			},
			Timeout:   20 * time.Second,
			UserAgent: "NewsPublisher/1.0",
		},
		Pipeline: PipelineConfig{MaxPerTick: 4, Category: "Technology"},
		WordPress: WordPressConfig{
			Endpoint:   "https://technews.redsaxon.com/wp-json/wp/v2/posts",
			Status:     "publish",
			Timeout:    2 * time.Minute,
			Categories: domain.DefaultCategories(),
			Retry: RetryConfig{
				MaxAttempts:    5,
				InitialBackoff: time.Second,
				MaxBackoff:     30 * time.Second,
				Statuses:       []int{429, 500, 502, 503, 504},
			},
		},
		Telegram: TelegramConfig{
			APIEndpoint:   "https://api.telegram.org/bot%s/%s",
			Timeout:       15 * time.Second,
			ExcerptLength: 3000,
		},
	}
}
