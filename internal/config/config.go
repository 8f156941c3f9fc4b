package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Logging   LoggingConfig
	Server    ServerConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Sheets    SheetsConfig
	OpenAI    OpenAIConfig
	Refresh   RefreshConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        int
	Version     string
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	ReadTimeout    int
	WriteTimeout   int
	RequestTimeout int
}

// CORSConfig holds CORS configuration for the HTTP shell
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// RateLimitConfig holds inbound per-IP rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
	WhitelistPaths    []string
}

// SheetsConfig selects and configures the tabular data source
type SheetsConfig struct {
	// Source is "google" for the Sheets API or "xlsx" for a local workbook
	Source string
	// SpreadsheetID identifies the Google spreadsheet
	SpreadsheetID string
	// Range is the named range to load, header row included
	Range string
	// CredentialsJSON holds the service credentials inline (deployments)
	CredentialsJSON string
	// CredentialsFile points at a credentials file (local development)
	CredentialsFile string
	// XLSXPath and XLSXSheet configure the local workbook source
	XLSXPath  string
	XLSXSheet string
}

// OpenAIConfig configures the completion service client
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	// TimeoutSeconds bounds a single completion call
	TimeoutSeconds int
	// MaxRetries bounds the retry budget for transient failures
	MaxRetries int
	// RequestsPerMinute is the process-wide outbound call ceiling
	RequestsPerMinute int
}

// RefreshConfig controls the scheduled dataset refresh job
type RefreshConfig struct {
	Enabled bool
	// Cron is the schedule expression, robfig/cron format
	Cron string
}

// TimeoutDuration returns the completion timeout as a duration
func (o *OpenAIConfig) TimeoutDuration() time.Duration {
	return time.Duration(o.TimeoutSeconds) * time.Second
}

// ReadTimeoutDuration returns read timeout as duration
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns write timeout as duration
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// RequestTimeoutDuration returns request timeout as duration
func (s *ServerConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override config file
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Secrets come from the environment, never from the config file
	if cfg.OpenAI.APIKey == "" {
		cfg.OpenAI.APIKey = v.GetString("OPENAI_API_KEY")
	}
	if cfg.Sheets.CredentialsJSON == "" {
		cfg.Sheets.CredentialsJSON = v.GetString("GOOGLE_CREDENTIALS_JSON")
	}
	if cfg.Sheets.SpreadsheetID == "" {
		cfg.Sheets.SpreadsheetID = v.GetString("SPREADSHEET_ID")
	}

	return &cfg, nil
}

// Validate checks the parts of the configuration the application cannot
// start without.
func (c *Config) Validate() error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	switch c.Sheets.Source {
	case "google":
		if c.Sheets.SpreadsheetID == "" {
			return fmt.Errorf("SPREADSHEET_ID is required for the google source")
		}
		if c.Sheets.CredentialsJSON == "" && c.Sheets.CredentialsFile == "" {
			return fmt.Errorf("google source requires GOOGLE_CREDENTIALS_JSON or a credentials file")
		}
	case "xlsx":
		if c.Sheets.XLSXPath == "" {
			return fmt.Errorf("xlsx source requires sheets.xlsxPath")
		}
	default:
		return fmt.Errorf("unknown sheets source %q", c.Sheets.Source)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "Training Registration API")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.version", "1.0.0")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Server defaults
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 60)
	v.SetDefault("server.requestTimeout", 90)

	// CORS defaults
	v.SetDefault("cors.allowedOrigins", []string{"*"})
	v.SetDefault("cors.allowedMethods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowedHeaders", []string{"Accept", "Content-Type", "X-Request-ID"})
	v.SetDefault("cors.exposedHeaders", []string{"Content-Disposition", "X-Request-ID"})
	v.SetDefault("cors.allowCredentials", true)
	v.SetDefault("cors.maxAge", 300)

	// Inbound rate limiting defaults
	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.requestsPerMinute", 60)
	v.SetDefault("ratelimit.whitelistPaths", []string{"/health", "/"})

	// Sheets defaults
	v.SetDefault("sheets.source", "google")
	v.SetDefault("sheets.range", "'Inschrijvingen'!A1:Z50000")
	v.SetDefault("sheets.xlsxSheet", "Inschrijvingen")

	// Completion defaults
	v.SetDefault("openai.baseURL", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "gpt-4-turbo-preview")
	v.SetDefault("openai.temperature", 0.1)
	v.SetDefault("openai.maxTokens", 500)
	v.SetDefault("openai.timeoutSeconds", 30)
	v.SetDefault("openai.maxRetries", 3)
	v.SetDefault("openai.requestsPerMinute", 50)

	// Refresh defaults: hourly full reload
	v.SetDefault("refresh.enabled", true)
	v.SetDefault("refresh.cron", "@hourly")
}
