package common

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	OCR       OCRConfig
	Translate TranslateConfig
	Pipeline  PipelineConfig
}

// DatabaseConfig holds database-related configuration.
// A non-empty DSN selects postgres; otherwise the sqlite file at Path is used.
type DatabaseConfig struct {
	DSN             string
	Path            string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	GRPCAddr string
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	PdftoppmBin  string
	TesseractBin string
	Lang         string
	DPI          int
	MaxPages     int
	TessdataDir  string
	Timeout      time.Duration
}

// TranslateConfig holds translation-related configuration
type TranslateConfig struct {
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
	Timeout  time.Duration
	Source   string
	Target   string
}

// PipelineConfig holds batch and engine configuration
type PipelineConfig struct {
	Workers    int
	TuningFile string
}

// Translation providers.
const (
	ProviderOpenAI = "openai"
	ProviderNone   = "none"
)

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:             getEnv("DB_URL", ""),
			Path:            getEnv("DB_PATH", "./actes.db"),
			MaxConns:        getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt32("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Server: ServerConfig{
			GRPCAddr: getEnv("GRPC_ADDR", ":8080"),
		},
		OCR: OCRConfig{
			PdftoppmBin:  getEnv("PDFTOPPM", "pdftoppm"),
			TesseractBin: getEnv("TESSERACT", "tesseract"),
			Lang:         getEnv("TESSERACT_LANG", "fra"),
			DPI:          getEnvAsInt("OCR_DPI", 400),
			MaxPages:     getEnvAsInt("OCR_MAX_PAGES", 1),
			TessdataDir:  getEnv("TESSDATA_PREFIX", ""),
			Timeout:      getEnvAsDuration("OCR_TIMEOUT", 2*time.Minute),
		},
		Translate: TranslateConfig{
			Provider: strings.ToLower(getEnv("TRANSLATE_PROVIDER", ProviderNone)),
			APIKey:   getEnv("OPENAI_API_KEY", ""),
			BaseURL:  getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			Timeout:  getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
			Source:   getEnv("TRANSLATE_SOURCE", "fr"),
			Target:   getEnv("TRANSLATE_TARGET", "en"),
		},
		Pipeline: PipelineConfig{
			Workers:    getEnvAsInt("WORKERS", 4),
			TuningFile: getEnv("TUNING_FILE", ""),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" && c.Database.Path == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL or DB_PATH is required", ErrInvalidInput)
	}
	if c.Server.GRPCAddr == "" {
		return NewAppError("CONFIG_ERROR", "GRPC_ADDR is required", ErrInvalidInput)
	}
	if c.OCR.DPI <= 0 || c.OCR.MaxPages <= 0 {
		return NewAppError("CONFIG_ERROR", "OCR_DPI and OCR_MAX_PAGES must be positive", ErrInvalidInput)
	}
	switch c.Translate.Provider {
	case ProviderNone:
	case ProviderOpenAI:
		if c.Translate.APIKey == "" {
			return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required when TRANSLATE_PROVIDER=openai", ErrInvalidInput)
		}
	default:
		return NewAppError("CONFIG_ERROR", "unknown TRANSLATE_PROVIDER "+c.Translate.Provider, ErrInvalidInput)
	}
	if c.Pipeline.Workers <= 0 {
		return NewAppError("CONFIG_ERROR", "WORKERS must be positive", ErrInvalidInput)
	}
	return nil
}
