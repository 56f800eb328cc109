package internal

import (
	"os"
	"strings"
)

// DefaultDBPath is the conversation database location when DB_PATH is unset.
const DefaultDBPath = "conversations.db"

// Config holds application configuration loaded from the environment. It is
// built once at startup and passed explicitly to the components that need
// it; nothing reads the environment after LoadConfig returns.
type Config struct {
	APIKey         string
	ConfigID       string
	AllowInterrupt bool
	DBPath         string
	SSLCertFile    string
}

// LoadConfig loads and validates configuration from the environment,
// optionally merging a dotenv file first. Required keys fail fast with a
// hint on where to obtain them.
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if err := LoadEnvFile(envFile); err != nil {
			return nil, err
		}
	} else {
		// Default lookup: .env in the working directory.
		if err := LoadEnvFile(".env"); err != nil {
			return nil, err
		}
	}

	apiKey, err := requiredEnv("HUME_API_KEY",
		"Get it from https://platform.hume.ai -> Settings -> API Keys.")
	if err != nil {
		return nil, err
	}

	configID, err := requiredEnv("HUME_CONFIG_ID",
		"Create an EVI config at https://platform.hume.ai -> EVI -> Create Configuration.")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIKey:         apiKey,
		ConfigID:       configID,
		AllowInterrupt: strings.EqualFold(os.Getenv("ALLOW_INTERRUPT"), "true"),
		DBPath:         os.Getenv("DB_PATH"),
		SSLCertFile:    os.Getenv("SSL_CERT_FILE"),
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath
	}

	return cfg, nil
}

// requiredEnv returns the value of key or a ConfigError. Placeholder values
// left over from a sample .env count as missing.
func requiredEnv(key, hint string) (string, error) {
	value := os.Getenv(key)
	if value == "" || value == "your_"+strings.ToLower(key)+"_here" {
		return "", &ConfigError{Key: key, Hint: hint}
	}
	return value, nil
}
