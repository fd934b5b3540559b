package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/Project-Sylos/Courier/internal/types"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
)

// Defaults for the remote service and local files
const (
	DefaultBaseURL    = "https://api.gofile.io/"
	DefaultUploadURL  = "https://{server}.gofile.io/uploadFile"
	DefaultConfigPath = "~/.config/courier/config.json"
	DefaultEnvFile    = ".env"

	// ServerPlaceholder is replaced by the upload server name in APIConfig.UploadURL
	ServerPlaceholder = "{server}"

	// EnvTokenKey is the key holding the credential in the .env file
	EnvTokenKey = "token"
)

// Environment variables overriding the configuration
const (
	EnvToken    = "GOFILE_TOKEN"
	EnvBaseURL  = "COURIER_BASE_URL"
	EnvLogLevel = "COURIER_LOG_LEVEL"
)

// DefaultConfig returns a configuration pointing at the public gofile API
func DefaultConfig() types.Config {
	return types.Config{
		API: types.APIConfig{
			BaseURL:   DefaultBaseURL,
			UploadURL: DefaultUploadURL,
		},
		Account: types.AccountConfig{
			EnvFile: DefaultEnvFile,
		},
		Logging: types.LogConfig{
			Level:  "warn",
			Format: "console",
			Output: "stderr",
		},
		Sandbox: types.SandboxConfig{
			Host:   "localhost",
			Port:   8086,
			DBPath: "./sandbox.db",
			Token:  "sandbox-token",
			Email:  "sandbox@localhost",
			Server: "sandbox1",
			Seed: types.SeedConfig{
				MinFolders: 1,
				MaxFolders: 3,
				MinFiles:   1,
				MaxFiles:   4,
				Seed:       42,
			},
		},
	}
}

// ExpandPath resolves a leading ~ to the user's home directory
func ExpandPath(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("failed to expand path %s: %w", path, err)
	}
	return expanded, nil
}

// LoadFromFile loads configuration from a JSON file on top of DefaultConfig
func LoadFromFile(configPath string) (*types.Config, error) {
	configPath, err := ExpandPath(configPath)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Keep the sandbox database next to the config file when relative
	if cfg.Sandbox.DBPath != "" && !filepath.IsAbs(cfg.Sandbox.DBPath) {
		cfg.Sandbox.DBPath = filepath.Join(filepath.Dir(configPath), cfg.Sandbox.DBPath)
	}

	return &cfg, nil
}

// Load reads the config file when present. A missing file is only an
// error when required is set; otherwise DefaultConfig is returned.
func Load(configPath string, required bool) (*types.Config, error) {
	expanded, err := ExpandPath(configPath)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(expanded); os.IsNotExist(err) && !required {
		cfg := DefaultConfig()
		return &cfg, nil
	}
	return LoadFromFile(expanded)
}

// ApplyEnv applies the .env file and process environment on top of cfg.
// A missing .env file is ignored. Precedence, highest first: process
// environment, .env file, config file.
func ApplyEnv(cfg *types.Config) error {
	if cfg.Account.EnvFile != "" {
		token, err := ReadEnvToken(cfg.Account.EnvFile)
		if err != nil {
			return err
		}
		if token != "" {
			cfg.Account.Token = token
		}
	}

	if token := os.Getenv(EnvToken); token != "" {
		cfg.Account.Token = token
	}
	if base := os.Getenv(EnvBaseURL); base != "" {
		cfg.API.BaseURL = base
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.Logging.Level = level
	}

	return Validate(cfg)
}

// ReadEnvToken returns the token key of a .env style file, or "" when the
// file does not exist
func ReadEnvToken(envFile string) (string, error) {
	path, err := ExpandPath(envFile)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", nil
	}

	values, err := godotenv.Read(path)
	if err != nil {
		return "", fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return strings.TrimSpace(values[EnvTokenKey]), nil
}

// Validate checks that the configuration parameters are valid
func Validate(cfg *types.Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if err := validateURL("base_url", cfg.API.BaseURL, cfg.API.Insecure); err != nil {
		return err
	}

	if !strings.Contains(cfg.API.UploadURL, ServerPlaceholder) {
		return fmt.Errorf("upload_url must contain the %s placeholder, got %q", ServerPlaceholder, cfg.API.UploadURL)
	}
	if err := validateURL("upload_url", strings.ReplaceAll(cfg.API.UploadURL, ServerPlaceholder, "server"), cfg.API.Insecure); err != nil {
		return err
	}

	if cfg.API.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must be non-negative, got %d", cfg.API.TimeoutSeconds)
	}

	switch strings.ToLower(cfg.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging level %q", cfg.Logging.Level)
	}

	switch cfg.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("unknown logging format %q", cfg.Logging.Format)
	}

	if cfg.Sandbox.Port < 1 || cfg.Sandbox.Port > 65535 {
		return fmt.Errorf("sandbox port must be between 1 and 65535, got %d", cfg.Sandbox.Port)
	}

	seed := cfg.Sandbox.Seed
	if seed.MaxDepth < 0 {
		return fmt.Errorf("max_depth must be non-negative, got %d", seed.MaxDepth)
	}
	if seed.MinFolders < 0 || seed.MaxFolders < seed.MinFolders {
		return fmt.Errorf("max_folders (%d) must be >= min_folders (%d) >= 0", seed.MaxFolders, seed.MinFolders)
	}
	if seed.MinFiles < 0 || seed.MaxFiles < seed.MinFiles {
		return fmt.Errorf("max_files (%d) must be >= min_files (%d) >= 0", seed.MaxFiles, seed.MinFiles)
	}

	return nil
}

func validateURL(field, raw string, insecure bool) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", field, err)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", field, raw)
	}
	switch u.Scheme {
	case "https":
	case "http":
		if !insecure {
			return fmt.Errorf("%s must use https, got %q (set insecure for a local sandbox)", field, raw)
		}
	default:
		return fmt.Errorf("%s has unsupported scheme %q", field, u.Scheme)
	}
	return nil
}

// SaveToFile saves configuration to a JSON file
func SaveToFile(cfg *types.Config, configPath string) error {
	configPath, err := ExpandPath(configPath)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config to JSON: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
