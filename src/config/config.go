package config

import (
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Mode string `yaml:"mode"` // development, production, test

	Server ServerConfig `yaml:"server"`
	Mongo  MongoConfig  `yaml:"mongo"`
	Cache  CacheConfig  `yaml:"cache"`
}

// ServerConfig represents server-specific configuration
type ServerConfig struct {
	Port     int            `yaml:"port"`
	Branding BrandingConfig `yaml:"branding"`
}

// BrandingConfig represents branding configuration
type BrandingConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// MongoConfig represents the document store connection settings
type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// CacheConfig represents optional Redis/Valkey cache settings
type CacheConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// LoadConfig loads configuration from server.yml with environment overrides
func LoadConfig() (*Config, error) {
	// Default config
	cfg := &Config{
		Mode: "production",
		Server: ServerConfig{
			Port: 4000,
			Branding: BrandingConfig{
				Title:       "Community Service",
				Description: "Community and organization management platform",
			},
		},
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "community",
		},
		Cache: CacheConfig{
			Host: "localhost",
			Port: 6379,
		},
	}

	// Try to load from server.yml
	configPath := findConfigFile()
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return cfg, err
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyEnvOverrides lets environment variables win over server.yml
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MODE"); v != "" {
		cfg.Mode = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 && port < 65536 {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("MONGODB_URI"); v != "" {
		cfg.Mongo.URI = v
	}
	if v := os.Getenv("MONGODB_DATABASE"); v != "" {
		cfg.Mongo.Database = v
	}
	if v := os.Getenv("CACHE_ENABLED"); v != "" {
		cfg.Cache.Enabled = IsTruthy(v)
	}
	if v := os.Getenv("CACHE_HOST"); v != "" {
		cfg.Cache.Host = v
	}
	if v := os.Getenv("CACHE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Cache.Port = port
		}
	}
	if v := os.Getenv("CACHE_PASSWORD"); v != "" {
		cfg.Cache.Password = v
	}
	if v := os.Getenv("CACHE_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Cache.DB = db
		}
	}
}

// IsTruthy reports whether an environment value means "enabled"
func IsTruthy(value string) bool {
	switch value {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	}
	return false
}

// FindConfigFile returns the path of the active server.yml, or "" when
// running on defaults only.
func FindConfigFile() string {
	return findConfigFile()
}

// findConfigFile searches for server.yml in common locations
func findConfigFile() string {
	// Explicit override wins
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search paths (in order of priority)
	searchPaths := []string{
		filepath.Join(cwd, "server.yml"),
		filepath.Join(cwd, "../server.yml"),
		filepath.Join(cwd, "../../server.yml"),
		"/etc/community/server.yml",
		"/opt/community/server.yml",
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}
