// Package config provides YAML-based configuration for the PDF Studio server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// MaxUploadBytes is the authoritative upload size ceiling. The browser
// client and the Go client enforce the same value before dispatch.
const MaxUploadBytes = 10 * 1024 * 1024

// AppConfig is the root configuration structure.
type AppConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Limits  LimitsConfig  `yaml:"limits"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int    `yaml:"port"`
	BindAddress  string `yaml:"bindAddress"`
	EnableCORS   bool   `yaml:"enableCors"`
	AllowOrigins string `yaml:"allowOrigins"`
	ReadTimeout  int    `yaml:"readTimeoutSeconds"`
	WriteTimeout int    `yaml:"writeTimeoutSeconds"`
	IdleTimeout  int    `yaml:"idleTimeoutSeconds"`
	BodyLimit    string `yaml:"bodyLimit"`
}

// StorageConfig contains file storage settings.
type StorageConfig struct {
	DataDirectory    string `yaml:"dataDirectory"`
	UploadsDirectory string `yaml:"uploadsDirectory"`
	TempDirectory    string `yaml:"tempDirectory"`
	CatalogFile      string `yaml:"catalogFile"`
}

// LimitsConfig contains processing limits.
type LimitsConfig struct {
	MaxUploadBytes        int64 `yaml:"maxUploadBytes"`
	RecentFilesLimit      int   `yaml:"recentFilesLimit"`
	PreviewTimeoutMinutes int   `yaml:"previewTimeoutMinutes"`
	CleanupIntervalMin    int   `yaml:"cleanupIntervalMinutes"`
}

// LoggingConfig controls the zap logger and log rotation.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMb"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
	RequestLog bool   `yaml:"requestLog"`
}

// Default returns the default configuration.
func Default() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:         8090,
			BindAddress:  "0.0.0.0",
			EnableCORS:   true,
			AllowOrigins: "*",
			ReadTimeout:  30,
			WriteTimeout: 60,
			IdleTimeout:  120,
			BodyLimit:    "16M",
		},
		Storage: StorageConfig{
			DataDirectory:    "./data",
			UploadsDirectory: "./data/uploads",
			TempDirectory:    "./data/temp",
			CatalogFile:      "./data/catalog.db",
		},
		Limits: LimitsConfig{
			MaxUploadBytes:        MaxUploadBytes,
			RecentFilesLimit:      20,
			PreviewTimeoutMinutes: 30,
			CleanupIntervalMin:    5,
		},
		Logging: LoggingConfig{
			Level:      "info",
			File:       "./data/pdfstudio.log",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 14,
			RequestLog: true,
		},
	}
}

// Load reads configuration from a YAML file, creating the default file
// on first run, then applies environment overrides and resolves paths.
func Load(configPath string) (*AppConfig, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := Default()
		if err := cfg.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		cfg.applyEnvironmentOverrides()
		cfg.resolvePaths(filepath.Dir(configPath))
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.resolvePaths(filepath.Dir(configPath))

	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *AppConfig) Save(configPath string) error {
	out, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# PDF Studio configuration\n# Auto-generated on first run.\n\n")
	if err := os.WriteFile(configPath, append(header, out...), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *AppConfig) applyEnvironmentOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if dataDir := os.Getenv("DATA_DIR"); dataDir != "" {
		c.Storage.DataDirectory = dataDir
		c.Storage.UploadsDirectory = filepath.Join(dataDir, "uploads")
		c.Storage.TempDirectory = filepath.Join(dataDir, "temp")
		c.Storage.CatalogFile = filepath.Join(dataDir, "catalog.db")
	}
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		c.Logging.Level = lvl
	}
}

func (c *AppConfig) resolvePaths(configDir string) {
	resolve := func(p *string) {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(configDir, *p)
		}
	}
	resolve(&c.Storage.DataDirectory)
	resolve(&c.Storage.UploadsDirectory)
	resolve(&c.Storage.TempDirectory)
	resolve(&c.Storage.CatalogFile)
	resolve(&c.Logging.File)
}

// GetServerAddr returns the server bind address.
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// EnsureDirectories creates all necessary directories.
func (c *AppConfig) EnsureDirectories() error {
	dirs := []string{
		c.Storage.DataDirectory,
		c.Storage.UploadsDirectory,
		c.Storage.TempDirectory,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
