package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendSQLite = "sqlite"
	BackendSheets = "sheets"
)

// Config defines server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	Auth   AuthConfig   `yaml:"auth"`
	Intake IntakeConfig `yaml:"intake"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type StoreConfig struct {
	Backend string       `yaml:"backend"`
	SQLite  SQLiteConfig `yaml:"sqlite"`
	Sheets  SheetsConfig `yaml:"sheets"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type SheetsConfig struct {
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	CredentialsFile string `yaml:"credentials_file"`
	MaxAttempts     int    `yaml:"max_attempts"`
	BaseDelayMS     int    `yaml:"base_delay_ms"`
}

// AuthConfig carries the shared worker password list and the admin
// allow-list. Both are injected here rather than hardcoded.
type AuthConfig struct {
	// Passwords maps worker name to shared password.
	Passwords map[string]string `yaml:"passwords"`
	// PasswordFile optionally points to a YAML file with the same mapping.
	PasswordFile string `yaml:"password_file"`
	// Admins lists workers allowed to upload, archive, and export.
	Admins []string `yaml:"admins"`
}

type IntakeConfig struct {
	DefaultLotSize int `yaml:"default_lot_size"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Store: StoreConfig{
			Backend: BackendSQLite,
			SQLite:  SQLiteConfig{Path: "coleta.db"},
			Sheets:  SheetsConfig{MaxAttempts: 4, BaseDelayMS: 500},
		},
		Intake: IntakeConfig{
			DefaultLotSize: 100,
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("COLETA_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("COLETA_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("COLETA_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid COLETA_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if backend := os.Getenv("COLETA_STORE_BACKEND"); backend != "" {
		cfg.Store.Backend = backend
	}
	if dbPath := os.Getenv("COLETA_SQLITE_PATH"); dbPath != "" {
		cfg.Store.SQLite.Path = dbPath
	}
	if id := os.Getenv("COLETA_SPREADSHEET_ID"); id != "" {
		cfg.Store.Sheets.SpreadsheetID = id
	}
	if creds := os.Getenv("COLETA_CREDENTIALS_FILE"); creds != "" {
		cfg.Store.Sheets.CredentialsFile = creds
	}
	if pwFile := os.Getenv("COLETA_PASSWORD_FILE"); pwFile != "" {
		cfg.Auth.PasswordFile = pwFile
	}
	if level := os.Getenv("COLETA_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	if cfg.Auth.PasswordFile != "" {
		if err := loadPasswords(cfg.Auth.PasswordFile, &cfg); err != nil {
			return Config{}, err
		}
	}

	if cfg.Store.Backend != BackendSQLite && cfg.Store.Backend != BackendSheets {
		return Config{}, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func loadPasswords(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read password file: %w", err)
	}
	passwords := map[string]string{}
	if err := yaml.Unmarshal(data, &passwords); err != nil {
		return fmt.Errorf("parse password file: %w", err)
	}
	if cfg.Auth.Passwords == nil {
		cfg.Auth.Passwords = map[string]string{}
	}
	for worker, pw := range passwords {
		cfg.Auth.Passwords[worker] = pw
	}
	return nil
}
