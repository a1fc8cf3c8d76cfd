package config

import (
	"fmt"
	"os"

	"socialforge/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AI         AIConfig         `yaml:"ai"`
	Research   ResearchConfig   `yaml:"research"`
	Email      EmailConfig      `yaml:"email"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Storage    StorageConfig    `yaml:"storage"`
	Products   []models.Product `yaml:"products"`
	PlanTier   string           `yaml:"plan_tier"`
	Schedule   string           `yaml:"schedule"`
}

type AIConfig struct {
	GeminiAPIKey string `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	Model        string `yaml:"model"`
}

type ResearchConfig struct {
	YouTubeAPIKey string `yaml:"youtube_api_key" env:"YOUTUBE_API_KEY"`
	RedditEnabled bool   `yaml:"reddit_enabled"`
}

type EmailConfig struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username" env:"EMAIL_USERNAME"`
	Password   string `yaml:"password" env:"EMAIL_PASSWORD"`
	FromEmail  string `yaml:"from_email"`
	ToEmail    string `yaml:"to_email"`
}

type MonitoringConfig struct {
	HealthPort int `yaml:"health_port"`
}

type StorageConfig struct {
	DataDir string `yaml:"data_dir"`
}

// providerCredentialKeys are the environment variables holding process-wide
// media provider credentials. Per-run credential maps overlay these.
var providerCredentialKeys = []string{
	"HUGGINGFACE_TOKEN",
	"SILICONFLOW_API_KEY",
	"REPLICATE_API_TOKEN",
	"FAL_AI_KEY",
	"LEONARDO_API_KEY",
	"OPENAI_API_KEY",
	"RUNWAY_API_KEY",
	"HEYGEN_API_KEY",
	"ELEVENLABS_API_KEY",
	"COQUI_API_KEY",
	"PLAYHT_API_KEY",
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
	}

	if cfg.AI.GeminiAPIKey == "" {
		cfg.AI.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.Research.YouTubeAPIKey == "" {
		cfg.Research.YouTubeAPIKey = os.Getenv("YOUTUBE_API_KEY")
	}
	if cfg.Email.Username == "" {
		cfg.Email.Username = os.Getenv("EMAIL_USERNAME")
	}
	if cfg.Email.Password == "" {
		cfg.Email.Password = os.Getenv("EMAIL_PASSWORD")
	}

	if cfg.AI.Model == "" {
		cfg.AI.Model = "gemini-2.5-flash"
	}
	if cfg.PlanTier == "" {
		cfg.PlanTier = models.PlanFree
	}
	if cfg.Schedule == "" {
		cfg.Schedule = "0 0 2 * * *" // Nightly at 2 AM
	}
	if cfg.Monitoring.HealthPort == 0 {
		cfg.Monitoring.HealthPort = 8080
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "data"
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Products) == 0 {
		return fmt.Errorf("at least one product is required (set products in config)")
	}
	for i, product := range c.Products {
		if product.Name == "" {
			return fmt.Errorf("product %d is missing a name", i)
		}
		if len(product.Platforms) == 0 {
			return fmt.Errorf("product %s has no target platforms", product.Name)
		}
	}
	if c.PlanTier != models.PlanFree && c.PlanTier != models.PlanPro {
		return fmt.Errorf("unknown plan tier %q (use %q or %q)", c.PlanTier, models.PlanFree, models.PlanPro)
	}
	if c.Email.Username != "" && c.Email.SMTPServer == "" {
		return fmt.Errorf("email username set but smtp_server is missing")
	}
	return nil
}

// EmailConfigured reports whether the approval digest email can be sent.
func (c *Config) EmailConfigured() bool {
	return c.Email.SMTPServer != "" && c.Email.Username != "" && c.Email.Password != "" && c.Email.ToEmail != ""
}

// ProviderCredentials returns the process-wide media provider credentials
// found in the environment. The map contains only keys that are set.
func (c *Config) ProviderCredentials() map[string]string {
	creds := make(map[string]string)
	for _, key := range providerCredentialKeys {
		if value := os.Getenv(key); value != "" {
			creds[key] = value
		}
	}
	return creds
}
