package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	// Run from a directory with no server.yml anywhere near it
	tmpDir := t.TempDir()
	chdir(t, tmpDir)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Mode != "production" {
		t.Errorf("Mode = %q, want %q", cfg.Mode, "production")
	}
	if cfg.Server.Port != 4000 {
		t.Errorf("Server.Port = %d, want 4000", cfg.Server.Port)
	}
	if cfg.Mongo.URI != "mongodb://localhost:27017" {
		t.Errorf("Mongo.URI = %q, want default localhost URI", cfg.Mongo.URI)
	}
	if cfg.Mongo.Database != "community" {
		t.Errorf("Mongo.Database = %q, want %q", cfg.Mongo.Database, "community")
	}
	if cfg.Cache.Enabled {
		t.Error("Cache.Enabled = true, want false by default")
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "server.yml")

	content := `mode: development
server:
  port: 8080
  branding:
    title: Test Community
mongo:
  uri: mongodb://db.internal:27017
  database: community_test
cache:
  enabled: true
  host: cache.internal
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	t.Setenv("CONFIG_FILE", configPath)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Mode != "development" {
		t.Errorf("Mode = %q, want %q", cfg.Mode, "development")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Branding.Title != "Test Community" {
		t.Errorf("Branding.Title = %q, want %q", cfg.Server.Branding.Title, "Test Community")
	}
	if cfg.Mongo.Database != "community_test" {
		t.Errorf("Mongo.Database = %q, want %q", cfg.Mongo.Database, "community_test")
	}
	if !cfg.Cache.Enabled {
		t.Error("Cache.Enabled = false, want true")
	}
	if cfg.Cache.Host != "cache.internal" {
		t.Errorf("Cache.Host = %q, want %q", cfg.Cache.Host, "cache.internal")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	chdir(t, tmpDir)

	t.Setenv("MODE", "test")
	t.Setenv("PORT", "9090")
	t.Setenv("MONGODB_URI", "mongodb://override:27017")
	t.Setenv("MONGODB_DATABASE", "override_db")
	t.Setenv("CACHE_ENABLED", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Mode != "test" {
		t.Errorf("Mode = %q, want %q", cfg.Mode, "test")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Mongo.URI != "mongodb://override:27017" {
		t.Errorf("Mongo.URI = %q, want override", cfg.Mongo.URI)
	}
	if cfg.Mongo.Database != "override_db" {
		t.Errorf("Mongo.Database = %q, want %q", cfg.Mongo.Database, "override_db")
	}
	if !cfg.Cache.Enabled {
		t.Error("Cache.Enabled = false, want true from env")
	}
}

func TestIsTruthy(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"on", true},
		{"0", false},
		{"false", false},
		{"", false},
		{"maybe", false},
	}

	for _, tt := range tests {
		if got := IsTruthy(tt.value); got != tt.want {
			t.Errorf("IsTruthy(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

// chdir is a stand-in for t.Chdir (added in Go 1.24) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error = %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir(%q) error = %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("Chdir(%q) error = %v", old, err)
		}
	})
}
