package config

import (
	"encoding/json"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/minhtq/tg-vocab-bank/pkg/logger"
)

type Config struct {
	Database   DatabaseConfig   `json:"database"`
	Telegram   TelegramConfig   `json:"telegram"`
	Dictionary DictionaryConfig `json:"dictionary"`
	Logging    LoggingConfig    `json:"logging"`
	Vocab      VocabConfig      `json:"vocab"`
	Watch      WatchConfig      `json:"watch"`
}

type DatabaseConfig struct {
	// Driver selects the gorm dialector: "sqlite" or "postgres".
	Driver   string `json:"driver" env:"VOCABBANK_DB_DRIVER"`
	Path     string `json:"path" env:"VOCABBANK_DB_PATH"` // sqlite file path
	Host     string `json:"host" env:"VOCABBANK_DB_HOST"`
	User     string `json:"user" env:"VOCABBANK_DB_USER"`
	Password string `json:"password" env:"VOCABBANK_DB_PASSWORD"`
	DBName   string `json:"dbname" env:"VOCABBANK_DB_NAME"`
	Port     int    `json:"port" env:"VOCABBANK_DB_PORT"`
	SSLMode  string `json:"sslmode" env:"VOCABBANK_DB_SSLMODE"`
}

type TelegramConfig struct {
	Token string `json:"token" env:"VOCABBANK_TELEGRAM_TOKEN"`
}

type DictionaryConfig struct {
	BaseURL        string `json:"base_url" env:"VOCABBANK_DICTIONARY_URL"`
	TimeoutSeconds int    `json:"timeout_seconds" env:"VOCABBANK_DICTIONARY_TIMEOUT"`
}

type LoggingConfig struct {
	Level     string `json:"level" env:"VOCABBANK_LOG_LEVEL"`
	File      string `json:"file" env:"VOCABBANK_LOG_FILE"`
	GormLevel string `json:"gorm_level" env:"VOCABBANK_GORM_LOG_LEVEL"`
}

type VocabConfig struct {
	QuizThreshold int `json:"quiz_threshold" env:"VOCABBANK_QUIZ_THRESHOLD"`
}

type WatchConfig struct {
	CatalogFile string `json:"catalog_file" env:"VOCABBANK_WATCH_CATALOG"`
}

var AppConfig Config

// LoadConfig reads the JSON config file and applies environment overrides.
// A missing file is not fatal when the environment carries enough settings.
func LoadConfig(filename string) error {
	file, err := os.Open(filename)
	if err == nil {
		defer file.Close()
		decoder := json.NewDecoder(file)
		if decodeErr := decoder.Decode(&AppConfig); decodeErr != nil {
			logger.Error("failed to decode config file", "file", filename, "error", decodeErr)
			return decodeErr
		}
	} else if !os.IsNotExist(err) {
		logger.Error("failed to open config file", "file", filename, "error", err)
		return err
	}

	if envErr := env.Parse(&AppConfig); envErr != nil {
		logger.Error("failed to parse environment overrides", "error", envErr)
		return envErr
	}

	applyDefaults(&AppConfig)
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.Driver == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = "vocabbank.db"
	}
	if cfg.Dictionary.BaseURL == "" {
		cfg.Dictionary.BaseURL = "https://api.dictionaryapi.dev/api/v2/entries/en"
	}
	if cfg.Dictionary.TimeoutSeconds <= 0 {
		cfg.Dictionary.TimeoutSeconds = 10
	}
	if cfg.Vocab.QuizThreshold <= 0 {
		cfg.Vocab.QuizThreshold = 10
	}
}
