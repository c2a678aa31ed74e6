// Package config provides application configuration management with support for
// environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Service describes the per-binary defaults used when loading configuration.
// The loan and profile services share one config layout but differ in port
// and database file.
type Service struct {
	Name          string // e.g. "loan-api"
	DefaultPort   string // e.g. "8000"
	DefaultDBFile string // e.g. "loans.db"
}

// The two Shelfline services. The inventory service conventionally sits on
// 8001, so the defaults skip over it.
var (
	LoanAPI    = Service{Name: "loan-api", DefaultPort: "8000", DefaultDBFile: "loans.db"}
	ProfileAPI = Service{Name: "profile-api", DefaultPort: "8002", DefaultDBFile: "profiles.db"}
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Server    ServerConfig
	Store     StoreConfig
	Auth      AuthConfig
	Inventory InventoryConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Name         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// StoreConfig holds persistence configuration.
type StoreConfig struct {
	// DataPath is the directory holding the service database and auth key.
	DataPath string
	// DBPath is the full path to the sqlite database file.
	DBPath string
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	// PASETO v4 symmetric key for access tokens (32 bytes).
	// Set by auth.LoadOrGenerateKey in the DI layer, not parsed from config.
	AccessTokenKey []byte
	// AccessTokenDuration is the bearer token lifetime (default: 1h).
	AccessTokenDuration time.Duration
	// LoginRPS and LoginBurst throttle login attempts per client IP.
	LoginRPS   float64
	LoginBurst int
}

// InventoryConfig holds the external book/inventory service configuration.
type InventoryConfig struct {
	// BaseURL is the inventory service base address, including any path prefix.
	BaseURL string
	// Timeout bounds each outbound call. There are no retries; a timed-out
	// call is treated the same as any other failed call.
	Timeout time.Duration
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Service defaults (lowest priority).
func LoadConfig(svc Service) (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	serverName := flag.String("server-name", "", "Name for the server")
	serverPort := flag.String("port", "", "Server port")
	dataPath := flag.String("data-path", "", "Directory for database and key files")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	accessTokenDuration := flag.String("access-token-duration", "", "Access token lifetime (default: 1h)")
	inventoryURL := flag.String("inventory-url", "", "Base URL of the book/inventory service")
	inventoryTimeout := flag.String("inventory-timeout", "", "Timeout for inventory service calls (default: 10s)")
	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg, err := buildConfig(svc, values{
		env:                 *env,
		logLevel:            *logLevel,
		serverName:          *serverName,
		serverPort:          *serverPort,
		dataPath:            *dataPath,
		readTimeout:         *readTimeout,
		writeTimeout:        *writeTimeout,
		idleTimeout:         *idleTimeout,
		accessTokenDuration: *accessTokenDuration,
		inventoryURL:        *inventoryURL,
		inventoryTimeout:    *inventoryTimeout,
	})
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// values carries flag values into buildConfig so tests can bypass flag parsing.
type values struct {
	env                 string
	logLevel            string
	serverName          string
	serverPort          string
	dataPath            string
	readTimeout         string
	writeTimeout        string
	idleTimeout         string
	accessTokenDuration string
	inventoryURL        string
	inventoryTimeout    string
}

func buildConfig(svc Service, v values) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(v.env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(v.logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Name: getConfigValue(v.serverName, "SERVER_NAME", svc.Name),
			Port: getConfigValue(v.serverPort, "SERVER_PORT", svc.DefaultPort),
		},
		Store: StoreConfig{
			DataPath: getConfigValue(v.dataPath, "DATA_PATH", ""),
		},
		Auth: AuthConfig{
			LoginRPS:   getFloatConfigValue("", "LOGIN_RPS", 1),
			LoginBurst: getIntConfigValue("", "LOGIN_BURST", 5),
		},
		Inventory: InventoryConfig{
			BaseURL: getConfigValue(v.inventoryURL, "INVENTORY_URL", "http://localhost:8001/api"),
		},
	}

	// Parse durations.
	var err error
	if cfg.Server.ReadTimeout, err = parseDurationValue(v.readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, fmt.Errorf("invalid read timeout: %w", err)
	}
	if cfg.Server.WriteTimeout, err = parseDurationValue(v.writeTimeout, "SERVER_WRITE_TIMEOUT", "15s"); err != nil {
		return nil, fmt.Errorf("invalid write timeout: %w", err)
	}
	if cfg.Server.IdleTimeout, err = parseDurationValue(v.idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, fmt.Errorf("invalid idle timeout: %w", err)
	}
	if cfg.Auth.AccessTokenDuration, err = parseDurationValue(v.accessTokenDuration, "ACCESS_TOKEN_DURATION", "1h"); err != nil {
		return nil, fmt.Errorf("invalid access token duration: %w", err)
	}
	if cfg.Inventory.Timeout, err = parseDurationValue(v.inventoryTimeout, "INVENTORY_TIMEOUT", "10s"); err != nil {
		return nil, fmt.Errorf("invalid inventory timeout: %w", err)
	}

	// Expand data path and derive the database location.
	if err := cfg.expandDataPath(svc); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Inventory.BaseURL == "" {
		return errors.New("inventory base URL cannot be empty")
	}

	if c.Store.DataPath == "" {
		return errors.New("data path cannot be empty after expansion")
	}

	return nil
}

// expandDataPath expands ~ and makes the data path absolute, then derives
// the database file location. Defaults to ~/Shelfline/<service>.
func (c *Config) expandDataPath(svc Service) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "Shelfline", svc.Name)

	expanded, err := expandPath(c.Store.DataPath, defaultPath)
	if err != nil {
		return err
	}
	c.Store.DataPath = expanded
	c.Store.DBPath = filepath.Join(expanded, svc.DefaultDBFile)
	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// parseDurationValue resolves a duration from flag, env var, or default.
func parseDurationValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	str := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(str)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", str, err)
	}
	return d, nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// getFloatConfigValue returns a float64 from flag, env var, or default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result float64
	if _, err := fmt.Sscanf(strValue, "%g", &result); err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)

		// Env vars take precedence over the .env file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
