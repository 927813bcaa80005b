// Package config loads agent configuration from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultListingURL is the news listing page scraped for candidates.
	DefaultListingURL = "https://thehackernews.com/"
	// DefaultSourceHost is the only host article ids may resolve to.
	DefaultSourceHost = "thehackernews.com"

	defaultAIBaseURL  = "https://ai.hackclub.com/proxy/v1/chat/completions"
	defaultBlogModel  = "qwen/qwen3-32b"
	defaultImageModel = "google/gemini-2.5-flash-image-preview"

	defaultServerAddress = ":8090"
	defaultReadTimeout   = 10 * time.Second
	defaultWriteTimeout  = 30 * time.Second

	defaultMaxItems  = 5
	defaultOutputDir = "agent_output"

	defaultListingFreshTTL = 10 * time.Second
	defaultListingMaxStale = 300 * time.Second
	defaultContentFreshTTL = 60 * time.Second
)

// Config holds all settings for both the agent and the read API server.
type Config struct {
	Debug    bool           `yaml:"debug"`
	Database DatabaseConfig `yaml:"database"`
	AI       AIConfig       `yaml:"ai"`
	S3       S3Config       `yaml:"s3"`
	Source   SourceConfig   `yaml:"source"`
	Agent    AgentConfig    `yaml:"agent"`
	BlogSite BlogSiteConfig `yaml:"blog_site"`
	Social   SocialConfig   `yaml:"social"`
	Server   ServerConfig   `yaml:"server"`
	Cache    CacheConfig    `yaml:"cache"`
}

// DatabaseConfig describes the Postgres connection for the job state store.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// AIConfig describes the chat-completions endpoint and the models per stage.
type AIConfig struct {
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"api_key"`
	BlogModel   string        `yaml:"blog_model"`
	DarijaModel string        `yaml:"darija_model"`
	PromptModel string        `yaml:"prompt_model"`
	ImageModel  string        `yaml:"image_model"`
	SocialModel string        `yaml:"social_model"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxRetries  int           `yaml:"max_retries"`
}

// S3Config describes the durable artifact sink.
type S3Config struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
	Region string `yaml:"region"`
}

// SourceConfig describes the upstream news source.
type SourceConfig struct {
	ListingURL string        `yaml:"listing_url"`
	Host       string        `yaml:"host"`
	Timeout    time.Duration `yaml:"timeout"`
}

// AgentConfig holds per-run pipeline settings.
type AgentConfig struct {
	MaxItems  int    `yaml:"max_items"`
	OutputDir string `yaml:"output_dir"`
	// Schedule is an optional cron expression; when set the agent runs as a
	// daemon instead of a one-shot process.
	Schedule string `yaml:"schedule"`
}

// BlogSiteConfig builds public post URLs for the social draft.
type BlogSiteConfig struct {
	BaseURL         string `yaml:"base_url"`
	PostURLTemplate string `yaml:"post_url_template"`
}

// SocialConfig controls the batch-level social draft stage.
type SocialConfig struct {
	Enabled bool   `yaml:"enabled"`
	DryRun  bool   `yaml:"dry_run"`
	Brand   string `yaml:"brand"`
}

// ServerConfig holds the read API server settings.
type ServerConfig struct {
	Address      string        `yaml:"address"`
	APIKey       string        `yaml:"api_key"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	CORSOrigins  []string      `yaml:"cors_origins"`
}

// CacheConfig tunes the read-through caches behind the API.
type CacheConfig struct {
	ListingFreshTTL time.Duration `yaml:"listing_fresh_ttl"`
	ListingMaxStale time.Duration `yaml:"listing_max_stale"`
	ContentFreshTTL time.Duration `yaml:"content_fresh_ttl"`
}

// Load reads the YAML file at path (if it exists), applies defaults and
// environment overrides. A missing file is not an error; env-only setups
// are supported. A .env file next to the process is honored when present.
func Load(path string) (*Config, error) {
	// Ignore a missing .env; real environments set variables directly.
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if unmarshalErr := yaml.Unmarshal(data, &cfg); unmarshalErr != nil {
				return nil, fmt.Errorf("parse config: %w", unmarshalErr)
			}
		case os.IsNotExist(err):
			// fall through to defaults + env
		default:
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	setDefaults(&cfg)
	overrideWithEnvVars(&cfg)

	return &cfg, nil
}

// ValidateAgent checks everything the pipeline run needs up front, so a
// misconfigured deployment fails before any item is touched.
func (c *Config) ValidateAgent() error {
	if c.AI.APIKey == "" {
		return errors.New("ai.api_key is required (env AI_API_KEY)")
	}
	if c.S3.Bucket == "" {
		return errors.New("s3.bucket is required (env S3_BUCKET)")
	}
	if c.Database.DSN == "" {
		return errors.New("database.dsn is required (env DATABASE_URL)")
	}
	if c.Agent.MaxItems <= 0 {
		return fmt.Errorf("agent.max_items must be positive, got %d", c.Agent.MaxItems)
	}
	return nil
}

// ValidateServer checks the read API requirements.
func (c *Config) ValidateServer() error {
	if c.Server.APIKey == "" {
		return errors.New("server.api_key is required (env API_KEY)")
	}
	if c.Server.Address == "" {
		return errors.New("server.address is required")
	}
	return nil
}

func setDefaults(cfg *Config) {
	if cfg.AI.BaseURL == "" {
		cfg.AI.BaseURL = defaultAIBaseURL
	}
	if cfg.AI.BlogModel == "" {
		cfg.AI.BlogModel = defaultBlogModel
	}
	if cfg.AI.DarijaModel == "" {
		cfg.AI.DarijaModel = cfg.AI.BlogModel
	}
	if cfg.AI.PromptModel == "" {
		cfg.AI.PromptModel = cfg.AI.DarijaModel
	}
	if cfg.AI.ImageModel == "" {
		cfg.AI.ImageModel = defaultImageModel
	}
	if cfg.AI.SocialModel == "" {
		cfg.AI.SocialModel = cfg.AI.DarijaModel
	}
	if cfg.AI.Timeout <= 0 {
		cfg.AI.Timeout = 240 * time.Second
	}
	if cfg.AI.MaxRetries <= 0 {
		cfg.AI.MaxRetries = 3
	}

	if cfg.S3.Prefix == "" {
		cfg.S3.Prefix = "hn-generated"
	}
	cfg.S3.Prefix = strings.Trim(cfg.S3.Prefix, "/")

	if cfg.Source.ListingURL == "" {
		cfg.Source.ListingURL = DefaultListingURL
	}
	if cfg.Source.Host == "" {
		cfg.Source.Host = DefaultSourceHost
	}
	if cfg.Source.Timeout <= 0 {
		cfg.Source.Timeout = 20 * time.Second
	}

	if cfg.Agent.MaxItems == 0 {
		cfg.Agent.MaxItems = defaultMaxItems
	}
	if cfg.Agent.OutputDir == "" {
		cfg.Agent.OutputDir = defaultOutputDir
	}

	if cfg.BlogSite.PostURLTemplate == "" {
		cfg.BlogSite.PostURLTemplate = "/posts/{slug}"
	}
	cfg.BlogSite.BaseURL = strings.TrimRight(cfg.BlogSite.BaseURL, "/")

	if cfg.Social.Brand == "" {
		cfg.Social.Brand = "The Hacker News B'Darija"
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = defaultServerAddress
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = defaultReadTimeout
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = defaultWriteTimeout
	}

	if cfg.Cache.ListingFreshTTL <= 0 {
		cfg.Cache.ListingFreshTTL = defaultListingFreshTTL
	}
	if cfg.Cache.ListingMaxStale <= 0 {
		cfg.Cache.ListingMaxStale = defaultListingMaxStale
	}
	if cfg.Cache.ContentFreshTTL <= 0 {
		cfg.Cache.ContentFreshTTL = defaultContentFreshTTL
	}
}

func overrideWithEnvVars(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("AI_BASE_URL"); v != "" {
		cfg.AI.BaseURL = v
	}
	if v := os.Getenv("AI_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("BLOG_MODEL"); v != "" {
		cfg.AI.BlogModel = v
	}
	if v := os.Getenv("DARIJA_MODEL"); v != "" {
		cfg.AI.DarijaModel = v
	}
	if v := os.Getenv("PROMPT_MODEL"); v != "" {
		cfg.AI.PromptModel = v
	}
	if v := os.Getenv("IMAGE_MODEL"); v != "" {
		cfg.AI.ImageModel = v
	}
	if v := os.Getenv("S3_BUCKET"); v != "" {
		cfg.S3.Bucket = v
	}
	if v := os.Getenv("S3_PREFIX"); v != "" {
		cfg.S3.Prefix = strings.Trim(v, "/")
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.S3.Region = v
	}
	if v := os.Getenv("API_KEY"); v != "" {
		cfg.Server.APIKey = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		cfg.Server.Address = ":" + v
	}
	if v := os.Getenv("MAX_ITEMS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Agent.MaxItems = n
		}
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.Agent.OutputDir = v
	}
	if v := os.Getenv("SOCIAL_ENABLE"); v != "" {
		cfg.Social.Enabled = parseBool(v)
	}
	if v := os.Getenv("SOCIAL_DRY_RUN"); v != "" {
		cfg.Social.DryRun = parseBool(v)
	}
	if v := os.Getenv("APP_DEBUG"); v != "" {
		cfg.Debug = parseBool(v)
	}
}

// parseBool accepts the usual truthy spellings: "true", "1", "yes".
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes"
}
