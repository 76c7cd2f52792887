package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigSuccess(t *testing.T) {
	original := AppConfig
	t.Cleanup(func() {
		AppConfig = original
	})
	AppConfig = Config{}

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")
	content := `{
		"database": {
			"driver": "postgres",
			"host": "localhost",
			"user": "test-user",
			"password": "test-pass",
			"dbname": "testdb",
			"port": 5433,
			"sslmode": "disable"
		},
		"telegram": {
			"token": "test-token"
		},
		"dictionary": {
			"base_url": "https://dict.example.com/api",
			"timeout_seconds": 5
		}
	}`

	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config fixture: %v", err)
	}

	if err := LoadConfig(configPath); err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if AppConfig.Database.Driver != "postgres" {
		t.Errorf("expected driver to be postgres, got %q", AppConfig.Database.Driver)
	}
	if AppConfig.Database.Port != 5433 {
		t.Errorf("expected port to be 5433, got %d", AppConfig.Database.Port)
	}
	if AppConfig.Telegram.Token != "test-token" {
		t.Errorf("expected token to be test-token, got %q", AppConfig.Telegram.Token)
	}
	if AppConfig.Dictionary.BaseURL != "https://dict.example.com/api" {
		t.Errorf("unexpected dictionary base URL: %q", AppConfig.Dictionary.BaseURL)
	}
	if AppConfig.Vocab.QuizThreshold != 10 {
		t.Errorf("expected default quiz threshold 10, got %d", AppConfig.Vocab.QuizThreshold)
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	original := AppConfig
	t.Cleanup(func() {
		AppConfig = original
	})
	AppConfig = Config{}

	if err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); err != nil {
		t.Fatalf("LoadConfig returned error for a missing file: %v", err)
	}

	if AppConfig.Database.Driver != "sqlite" {
		t.Errorf("expected default driver sqlite, got %q", AppConfig.Database.Driver)
	}
	if AppConfig.Database.Path != "vocabbank.db" {
		t.Errorf("expected default sqlite path, got %q", AppConfig.Database.Path)
	}
	if AppConfig.Dictionary.TimeoutSeconds != 10 {
		t.Errorf("expected default dictionary timeout, got %d", AppConfig.Dictionary.TimeoutSeconds)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	original := AppConfig
	t.Cleanup(func() {
		AppConfig = original
	})
	AppConfig = Config{}

	t.Setenv("VOCABBANK_TELEGRAM_TOKEN", "env-token")
	t.Setenv("VOCABBANK_QUIZ_THRESHOLD", "15")

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")
	content := `{"telegram": {"token": "file-token"}}`
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config fixture: %v", err)
	}

	if err := LoadConfig(configPath); err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if AppConfig.Telegram.Token != "env-token" {
		t.Errorf("expected environment token to win, got %q", AppConfig.Telegram.Token)
	}
	if AppConfig.Vocab.QuizThreshold != 15 {
		t.Errorf("expected quiz threshold 15 from environment, got %d", AppConfig.Vocab.QuizThreshold)
	}
}
