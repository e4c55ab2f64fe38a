package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./plsx.db" {
			t.Errorf("expected database path ./plsx.db, got %s", config.Database.Path)
		}

		if config.Browse.DefaultCount != -1 {
			t.Errorf("expected default count -1, got %d", config.Browse.DefaultCount)
		}

		if !config.Browse.History {
			t.Error("expected history to be enabled by default")
		}

		if config.Attributes.CacheTTL.Duration != 30*time.Second {
			t.Errorf("expected cache ttl 30s, got %s", config.Attributes.CacheTTL)
		}

		if config.Scan.Workers != 4 || config.Scan.RateLimit != 200 || config.Scan.Hidden {
			t.Errorf("unexpected scan defaults: %+v", config.Scan)
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"

[browse]
default_count = 25
max_count = 100
history = false

[attributes]
cache_ttl = "2m"

[log]
level = "debug"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Database.MaxOpenConns != DefaultConfig().Database.MaxOpenConns {
			t.Errorf("expected missing max_open_conns to keep default, got %d", config.Database.MaxOpenConns)
		}

		if config.Browse.DefaultCount != 25 || config.Browse.MaxCount != 100 || config.Browse.History {
			t.Errorf("unexpected browse config: %+v", config.Browse)
		}

		if config.Attributes.CacheTTL.Duration != 2*time.Minute {
			t.Errorf("expected cache ttl 2m, got %s", config.Attributes.CacheTTL)
		}
	})

	t.Run("LoadConfig rejects invalid values", func(t *testing.T) {
		tt := []struct {
			name string
			body string
		}{
			{name: "zero default count", body: "[browse]\ndefault_count = 0\n"},
			{name: "negative max count", body: "[browse]\nmax_count = -5\n"},
			{name: "bad duration", body: "[attributes]\ncache_ttl = \"soon\"\n"},
			{name: "unknown log level", body: "[log]\nlevel = \"loud\"\n"},
			{name: "negative scan workers", body: "[scan]\nworkers = -1\n"},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				configPath := filepath.Join(t.TempDir(), "config.toml")
				if err := os.WriteFile(configPath, []byte(tc.body), 0644); err != nil {
					t.Fatalf("failed to write test config: %v", err)
				}

				_, err := LoadConfig(configPath)
				if err == nil {
					t.Fatal("expected error")
				}
				if tc.name != "bad duration" && !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	})

	t.Run("LoadOrDefault without file", func(t *testing.T) {
		config, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.Database.Path != DefaultConfig().Database.Path {
			t.Error("expected defaults when the file is missing")
		}
	})
}
