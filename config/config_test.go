package config

import (
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	// Create a temporary config file
	configContent := `
server:
  port: 9090
log:
  level: "debug"
  format: "text"
database:
  dsn: "host=localhost user=aorit dbname=aorit port=5432"
auth:
  jwt_secret: "test-secret"
  token_expire_hours: 48
extractor:
  api_url: "https://extractor.test"
  api_key: "test-key"
  batch_size: 5
  batch_delay_seconds: 1
archive:
  enabled: true
  endpoint: "localhost:9000"
  access_key: "minioadmin"
  secret_key: "minioadmin"
  bucket: "contracts"
promotion:
  threshold: 0.9
  cron_schedule: "@every 30m"
matcher:
  category_weight: 0.6
  industry_weight: 0.25
  complexity_weight: 0.15
users:
  - username: "reviewer"
    password: "reviewpass"
    role: "admin"
seed_categories:
  - "대금 지급 조건"
  - "비밀 유지"
`
	tmpFile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.WriteString(configContent); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	tmpFile.Close()

	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected log level debug, got %s", cfg.Log.Level)
	}
	if cfg.Auth.TokenExpireHours != 48 {
		t.Errorf("Expected token_expire_hours 48, got %d", cfg.Auth.TokenExpireHours)
	}
	if cfg.Extractor.BatchSize != 5 {
		t.Errorf("Expected batch_size 5, got %d", cfg.Extractor.BatchSize)
	}
	if cfg.Promotion.Threshold != 0.9 {
		t.Errorf("Expected threshold 0.9, got %f", cfg.Promotion.Threshold)
	}
	if cfg.Matcher.CategoryWeight != 0.6 {
		t.Errorf("Expected category_weight 0.6, got %f", cfg.Matcher.CategoryWeight)
	}
	if len(cfg.Users) != 1 || cfg.Users[0].Username != "reviewer" {
		t.Errorf("Expected one user named reviewer, got %+v", cfg.Users)
	}
	if len(cfg.SeedCategories) != 2 {
		t.Errorf("Expected 2 seed categories, got %d", len(cfg.SeedCategories))
	}
}

func TestLoadDefaults(t *testing.T) {
	// Minimal config to exercise defaults
	configContent := `
database:
  dsn: "host=localhost user=aorit dbname=aorit port=5432"
`
	tmpFile, err := os.CreateTemp("", "config-defaults-*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.WriteString(configContent); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	tmpFile.Close()

	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Extractor.BatchSize != 3 {
		t.Errorf("Expected default batch_size 3, got %d", cfg.Extractor.BatchSize)
	}
	if cfg.Extractor.BatchDelaySeconds != 2 {
		t.Errorf("Expected default batch_delay_seconds 2, got %d", cfg.Extractor.BatchDelaySeconds)
	}
	if cfg.Promotion.Threshold != 0.85 {
		t.Errorf("Expected default threshold 0.85, got %f", cfg.Promotion.Threshold)
	}
	if cfg.Promotion.CronSchedule != "@hourly" {
		t.Errorf("Expected default cron schedule @hourly, got %s", cfg.Promotion.CronSchedule)
	}
	if cfg.Matcher.CategoryWeight != 0.5 || cfg.Matcher.IndustryWeight != 0.3 || cfg.Matcher.ComplexityWeight != 0.2 {
		t.Errorf("Expected default weights 0.5/0.3/0.2, got %f/%f/%f",
			cfg.Matcher.CategoryWeight, cfg.Matcher.IndustryWeight, cfg.Matcher.ComplexityWeight)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Expected default log format json, got %s", cfg.Log.Format)
	}
}

func TestLoadNonExistent(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "config-invalid-*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.WriteString("invalid: yaml: content:"); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	tmpFile.Close()

	_, err = Load(tmpFile.Name())
	if err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestFindUser(t *testing.T) {
	cfg := &Config{
		Users: []User{
			{Username: "user1", Password: "pass1", Role: "admin"},
			{Username: "user2", Password: "pass2", Role: "reviewer"},
		},
	}

	user := cfg.FindUser("user1")
	if user == nil {
		t.Fatal("Expected to find user1")
	}
	if user.Password != "pass1" {
		t.Errorf("Expected password pass1, got %s", user.Password)
	}

	user = cfg.FindUser("nonexistent")
	if user != nil {
		t.Error("Expected nil for non-existent user")
	}
}
