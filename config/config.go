package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	OCR       OCRConfig
	AI        AIConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Matching  MatchingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// StoreConfig holds inventory store configuration
type StoreConfig struct {
	Driver string `mapstructure:"driver"` // "postgres" or "memory"
	DSN    string `mapstructure:"dsn"`
}

// OCRConfig holds OCR adapter configuration
type OCRConfig struct {
	Backend         string        `mapstructure:"backend"` // "vision" or "tesseract"
	CredentialsFile string        `mapstructure:"credentials_file"`
	Languages       []string      `mapstructure:"languages"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// AIConfig holds AI provider credentials and model overrides. Which provider
// runs is decided once at startup from which keys are present; Gemini wins
// when both are set.
type AIConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	OpenAIAPIKey string `mapstructure:"openai_api_key"`
	GeminiModel  string `mapstructure:"gemini_model"`
	OpenAIModel  string `mapstructure:"openai_model"`
}

// CacheConfig holds analysis cache configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration for the analyze endpoint
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// MatchingConfig holds matcher configuration
type MatchingConfig struct {
	EnableDebugLogging bool `mapstructure:"enable_debug_logging"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/medshelf/")

	// Environment variable settings
	v.SetEnvPrefix("MEDSHELF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The API keys and the Google credentials path are conventionally set
	// under their unprefixed names; accept both spellings.
	v.BindEnv("ai.gemini_api_key", "GEMINI_API_KEY", "MEDSHELF_AI_GEMINI_API_KEY")
	v.BindEnv("ai.openai_api_key", "OPENAI_API_KEY", "MEDSHELF_AI_OPENAI_API_KEY")
	v.BindEnv("ocr.credentials_file", "GOOGLE_APPLICATION_CREDENTIALS", "MEDSHELF_OCR_CREDENTIALS_FILE")
	v.BindEnv("store.dsn", "DATABASE_URL", "MEDSHELF_STORE_DSN")

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Store defaults
	v.SetDefault("store.driver", "memory")

	// OCR defaults
	v.SetDefault("ocr.backend", "tesseract")
	v.SetDefault("ocr.languages", []string{"eng"})
	v.SetDefault("ocr.timeout", "30s")

	// AI defaults
	v.SetDefault("ai.gemini_model", "gemini-2.5-flash")
	v.SetDefault("ai.openai_model", "gpt-4o-mini")

	// Cache defaults
	v.SetDefault("cache.ttl", "1h")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 30)

	// Matching defaults
	v.SetDefault("matching.enable_debug_logging", false)
}

// validate validates the configuration. A missing AI credential is not an
// error here: the server starts and the analyze endpoint reports the
// configuration problem instead.
func validate(config *Config) error {
	if config.Store.Driver != "postgres" && config.Store.Driver != "memory" {
		return fmt.Errorf("store driver must be 'postgres' or 'memory', got: %s", config.Store.Driver)
	}

	if config.Store.Driver == "postgres" && config.Store.DSN == "" {
		return fmt.Errorf("store DSN is required when store driver is 'postgres' (set DATABASE_URL)")
	}

	if config.OCR.Backend != "vision" && config.OCR.Backend != "tesseract" {
		return fmt.Errorf("OCR backend must be 'vision' or 'tesseract', got: %s", config.OCR.Backend)
	}

	if config.OCR.Timeout <= 0 {
		return fmt.Errorf("OCR timeout must be positive, got: %s", config.OCR.Timeout)
	}

	return nil
}
