package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Extractor ExtractorConfig `yaml:"extractor"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Promotion PromotionConfig `yaml:"promotion"`
	Matcher   MatcherConfig   `yaml:"matcher"`
	Users     []User          `yaml:"users"`
	// SeedCategories is loaded into the category registry on first boot only;
	// later additions go through the audited add operation.
	SeedCategories []string `yaml:"seed_categories"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type AuthConfig struct {
	JWTSecret        string `yaml:"jwt_secret"`
	TokenExpireHours int    `yaml:"token_expire_hours"`
}

// ExtractorConfig configures the external AI clause extraction service.
type ExtractorConfig struct {
	APIURL string `yaml:"api_url"`
	APIKey string `yaml:"api_key"`
	// Batching respects the collaborator's rate limits: BatchSize calls run
	// concurrently, then the worker sleeps BatchDelaySeconds before the next batch.
	BatchSize           int `yaml:"batch_size"`
	BatchDelaySeconds   int `yaml:"batch_delay_seconds"`
	BatchTimeoutSeconds int `yaml:"batch_timeout_seconds"`
}

// ArchiveConfig configures the object store that keeps rendered contract documents.
type ArchiveConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type PromotionConfig struct {
	Threshold    float64 `yaml:"threshold"`
	CronSchedule string  `yaml:"cron_schedule"`
}

type MatcherConfig struct {
	CategoryWeight   float64 `yaml:"category_weight"`
	IndustryWeight   float64 `yaml:"industry_weight"`
	ComplexityWeight float64 `yaml:"complexity_weight"`
}

type User struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

var GlobalConfig *Config

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	GlobalConfig = &cfg
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Auth.TokenExpireHours == 0 {
		cfg.Auth.TokenExpireHours = 24
	}
	if cfg.Extractor.BatchSize == 0 {
		cfg.Extractor.BatchSize = 3
	}
	if cfg.Extractor.BatchDelaySeconds == 0 {
		cfg.Extractor.BatchDelaySeconds = 2
	}
	if cfg.Extractor.BatchTimeoutSeconds == 0 {
		cfg.Extractor.BatchTimeoutSeconds = 60
	}
	if cfg.Promotion.Threshold == 0 {
		cfg.Promotion.Threshold = 0.85
	}
	if cfg.Promotion.CronSchedule == "" {
		cfg.Promotion.CronSchedule = "@hourly"
	}
	if cfg.Matcher.CategoryWeight == 0 {
		cfg.Matcher.CategoryWeight = 0.5
	}
	if cfg.Matcher.IndustryWeight == 0 {
		cfg.Matcher.IndustryWeight = 0.3
	}
	if cfg.Matcher.ComplexityWeight == 0 {
		cfg.Matcher.ComplexityWeight = 0.2
	}
}

// FindUser finds a user by username
func (c *Config) FindUser(username string) *User {
	for i := range c.Users {
		if c.Users[i].Username == username {
			return &c.Users[i]
		}
	}
	return nil
}
