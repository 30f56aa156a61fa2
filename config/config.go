package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ngenohkevin/aura-explorer/internal/usage"
)

// DefaultCapacityBytes is the nominal storage capacity shown in usage reports
const DefaultCapacityBytes = usage.DefaultCapacity

// GenerateAPIKey generates a secure random API key
func GenerateAPIKey() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// Config holds all configuration for the explorer
type Config struct {
	// Server settings
	Port         int
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Authentication
	APIKey    string
	JWTSecret string

	// Security
	AllowedOrigins []string
	RateLimitRPS   int

	// Logging
	LogLevel  string
	LogFormat string

	// Import
	AllowedPaths   []string
	ImportMaxDepth int
	SeedMockData   bool

	// View
	DefaultLanguage string

	// Storage report
	TotalCapacityBytes int64
	CapacityFromDisk   bool

	// Assistant
	GeminiAPIKey     string
	GeminiModel      string
	AssistantTimeout time.Duration

	// S3 source, enabled when S3Bucket is set
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	EnvFile string
	// GeneratedAPIKey is set when Load created and stored a new key
	GeneratedAPIKey bool
}

// Load reads configuration from environment variables. A missing API key is
// generated and written back to the .env file.
func Load() (*Config, error) {
	envFile := getEnvFile()

	// Load .env file if it exists
	_ = godotenv.Load(envFile)

	cfg := &Config{
		Port:               getEnvInt("PORT", 8092),
		Host:               getEnv("HOST", "0.0.0.0"),
		ReadTimeout:        time.Duration(getEnvInt("READ_TIMEOUT_SECONDS", 30)) * time.Second,
		WriteTimeout:       time.Duration(getEnvInt("WRITE_TIMEOUT_SECONDS", 300)) * time.Second,
		APIKey:             getEnv("API_KEY", ""),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		AllowedOrigins:     getEnvSlice("ALLOWED_ORIGINS", []string{"*"}),
		RateLimitRPS:       getEnvInt("RATE_LIMIT_RPS", 100),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		AllowedPaths:       getEnvSlice("ALLOWED_PATHS", nil),
		ImportMaxDepth:     getEnvInt("IMPORT_MAX_DEPTH", 1),
		SeedMockData:       getEnvBool("SEED_MOCK_DATA", true),
		DefaultLanguage:    getEnv("DEFAULT_LANGUAGE", "pt"),
		TotalCapacityBytes: getEnvInt64("TOTAL_CAPACITY_BYTES", DefaultCapacityBytes),
		CapacityFromDisk:   getEnvBool("CAPACITY_FROM_DISK", false),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GeminiModel:        getEnv("GEMINI_MODEL", ""),
		AssistantTimeout:   time.Duration(getEnvInt("ASSISTANT_TIMEOUT_SECONDS", 60)) * time.Second,
		S3Bucket:           getEnv("S3_BUCKET", ""),
		S3Region:           getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:         getEnv("S3_ENDPOINT", ""),
		S3AccessKey:        getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:        getEnv("S3_SECRET_KEY", ""),
		EnvFile:            envFile,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.APIKey == "" {
		apiKey, err := GenerateAPIKey()
		if err != nil {
			return nil, err
		}
		if err := cfg.SaveAPIKey(apiKey); err != nil {
			return nil, err
		}
		cfg.GeneratedAPIKey = true
	}

	if cfg.JWTSecret == "" {
		// Use API key as fallback for JWT secret
		cfg.JWTSecret = cfg.APIKey
	}

	return cfg, nil
}

// Validate rejects settings the explorer cannot run with
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.ImportMaxDepth < 0 {
		return fmt.Errorf("IMPORT_MAX_DEPTH must not be negative, got %d", c.ImportMaxDepth)
	}
	if c.TotalCapacityBytes <= 0 {
		return fmt.Errorf("TOTAL_CAPACITY_BYTES must be positive, got %d", c.TotalCapacityBytes)
	}
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be positive, got %d", c.RateLimitRPS)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.LogFormat)
	}
	return nil
}

// getEnvFile returns the path to the .env file
func getEnvFile() string {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		return envFile
	}

	if _, err := os.Stat(".env"); err == nil {
		return ".env"
	}

	// Fall back to the executable's directory
	exe, err := os.Executable()
	if err == nil {
		envPath := filepath.Join(filepath.Dir(exe), ".env")
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	return ".env"
}

// SaveAPIKey saves the API key to the .env file
func (c *Config) SaveAPIKey(apiKey string) error {
	updates := map[string]string{"API_KEY": apiKey}
	if err := UpdateEnvFile(c.EnvFile, updates); err != nil {
		return err
	}

	c.APIKey = apiKey
	return nil
}

// UpdateEnvFile updates or adds environment variables in a .env file
func UpdateEnvFile(envFile string, updates map[string]string) error {
	existingContent := ""
	if data, err := os.ReadFile(envFile); err == nil {
		existingContent = string(data)
	}

	lines := strings.Split(existingContent, "\n")
	found := make(map[string]bool)

	// Update existing keys
	for i, line := range lines {
		for key, value := range updates {
			if strings.HasPrefix(line, key+"=") {
				lines[i] = key + "=" + value
				found[key] = true
				break
			}
		}
	}

	// Add missing keys at the beginning
	var newLines []string
	for key, value := range updates {
		if !found[key] {
			newLines = append(newLines, key+"="+value)
		}
	}
	if len(newLines) > 0 {
		lines = append(newLines, lines...)
	}

	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(envFile, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write .env file: %w", err)
	}

	return nil
}

// LoadWithDefaults loads config with defaults for testing
func LoadWithDefaults() *Config {
	return &Config{
		Port:               8092,
		Host:               "0.0.0.0",
		ReadTimeout:        30 * time.Second,
		WriteTimeout:       300 * time.Second,
		APIKey:             "test-api-key",
		JWTSecret:          "test-jwt-secret",
		AllowedOrigins:     []string{"*"},
		RateLimitRPS:       100,
		LogLevel:           "info",
		LogFormat:          "json",
		AllowedPaths:       []string{"/tmp"},
		ImportMaxDepth:     1,
		SeedMockData:       true,
		DefaultLanguage:    "pt",
		TotalCapacityBytes: DefaultCapacityBytes,
		AssistantTimeout:   60 * time.Second,
		S3Region:           "us-east-1",
	}
}

// Addr returns the server address string
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// S3Enabled reports whether a bucket source is configured
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != ""
}

// AssistantEnabled reports whether a Gemini key is configured
func (c *Config) AssistantEnabled() bool {
	return c.GeminiAPIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
