// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderTesseract = "tesseract"

	RendererFont   = "font"
	RendererChrome = "chrome"
)

var (
	providers = map[string]bool{
		"googleai": true, "openai": true, "anthropic": true,
		"ollama": true, "mistral": true, ProviderTesseract: true,
	}
	keylessProviders = map[string]bool{"ollama": true, ProviderTesseract: true}
)

// Config holds server configuration
type Config struct {
	Port string

	// Empty disables document persistence.
	DatabaseURL string

	// Layout extraction
	LLMProvider    string
	LLMModel       string
	LLMAPIKey      string
	LLMBaseURL     string
	LLMMaxTokens   int
	ExtractTimeout time.Duration

	// PDF rasterization
	PdftoppmPath string
	PdfinfoPath  string

	// Export
	ExportRenderer string
	ChromePath     string

	MaxUploadBytes int64

	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnvOrDefault("PORT", "3000"),
		DatabaseURL:    getEnvOrDefault("DOCUMENTS_DATABASE_URL", ""),
		LLMProvider:    strings.ToLower(getEnvOrDefault("LLM_PROVIDER", "googleai")),
		LLMModel:       getEnvOrDefault("LLM_MODEL", "gemini-2.5-flash"),
		LLMAPIKey:      getEnvOrDefault("LLM_API_KEY", ""),
		LLMBaseURL:     getEnvOrDefault("LLM_BASE_URL", ""),
		LLMMaxTokens:   getEnvAsIntOrDefault("LLM_MAX_TOKENS", 8192),
		ExtractTimeout: getEnvAsDurationOrDefault("EXTRACT_TIMEOUT", 120*time.Second),
		PdftoppmPath:   getEnvOrDefault("PDFTOPPM_PATH", "pdftoppm"),
		PdfinfoPath:    getEnvOrDefault("PDFINFO_PATH", "pdfinfo"),
		ExportRenderer: strings.ToLower(getEnvOrDefault("EXPORT_RENDERER", RendererFont)),
		ChromePath:     getEnvOrDefault("CHROME_PATH", ""),
		MaxUploadBytes: getEnvAsInt64OrDefault("MAX_UPLOAD_BYTES", 20<<20), // 20MB
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:      getEnvOrDefault("LOG_FORMAT", "text"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if !providers[c.LLMProvider] {
		return fmt.Errorf("LLM_PROVIDER must be one of googleai, openai, anthropic, ollama, mistral, tesseract, got %q", c.LLMProvider)
	}
	if !keylessProviders[c.LLMProvider] && c.LLMAPIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required for provider %s", c.LLMProvider)
	}
	if c.LLMMaxTokens < 1 {
		return fmt.Errorf("LLM_MAX_TOKENS must be positive, got %d", c.LLMMaxTokens)
	}
	if c.ExtractTimeout <= 0 {
		return fmt.Errorf("EXTRACT_TIMEOUT must be positive, got %s", c.ExtractTimeout)
	}
	if c.ExportRenderer != RendererFont && c.ExportRenderer != RendererChrome {
		return fmt.Errorf("EXPORT_RENDERER must be font or chrome, got %q", c.ExportRenderer)
	}
	if c.MaxUploadBytes < 1024 || c.MaxUploadBytes > 100<<20 { // 1KB to 100MB
		return fmt.Errorf("MAX_UPLOAD_BYTES must be between 1KB and 100MB, got %d", c.MaxUploadBytes)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsInt64OrDefault(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDurationOrDefault accepts Go durations ("90s") or plain seconds.
func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
