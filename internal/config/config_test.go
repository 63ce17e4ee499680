package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := parse([]byte(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("expected sqlite driver default, got %q", cfg.Database.Driver)
	}
	if cfg.API.BaseURL != "https://en.wikipedia.org/w/api.php" {
		t.Errorf("unexpected default base URL: %q", cfg.API.BaseURL)
	}
	if cfg.API.BatchSize != 10 {
		t.Errorf("expected API batch size 10, got %d", cfg.API.BatchSize)
	}
	if cfg.Resolver.BatchSize != 20 || cfg.Resolver.RevertRadius != 15 || cfg.Resolver.MaxContentBytes != 8192 {
		t.Errorf("unexpected resolver defaults: %+v", cfg.Resolver)
	}
	if cfg.Logging.Level != "INFO" {
		t.Errorf("expected INFO log level default, got %q", cfg.Logging.Level)
	}
}

func TestParseOverrides(t *testing.T) {
	cfg, err := parse([]byte(`
database:
  driver: mysql
  dsn: user:pass@tcp(replica:3306)/enwiki
resolver:
  batch_size: 50
  revert_radius: 5
logging:
  level: DEBUG
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Driver != "mysql" {
		t.Errorf("expected overridden driver, got %q", cfg.Database.Driver)
	}
	if cfg.Resolver.BatchSize != 50 || cfg.Resolver.RevertRadius != 5 {
		t.Errorf("unexpected resolver overrides: %+v", cfg.Resolver)
	}
	if cfg.Resolver.MaxContentBytes != 8192 {
		t.Errorf("expected untouched default for max content bytes, got %d", cfg.Resolver.MaxContentBytes)
	}
	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("expected DEBUG log level, got %q", cfg.Logging.Level)
	}
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := parse([]byte("database: [not a mapping"))
	if err == nil {
		t.Fatal("expected an error for invalid YAML")
	}
}

func TestDefaultConfigParses(t *testing.T) {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		t.Fatalf("embedded default config failed to parse: %v", err)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("unexpected driver in embedded default: %q", cfg.Database.Driver)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api:\n  batch_size: 5\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.BatchSize != 5 {
		t.Errorf("expected batch size 5, got %d", cfg.API.BatchSize)
	}
}

func TestResolveConfigPathExplicitMissing(t *testing.T) {
	_, err := ResolveConfigPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing explicit path")
	}
}

func TestResolveConfigPathExplicit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(""), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	got, err := ResolveConfigPath(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != path {
		t.Errorf("expected the explicit path back, got %q", got)
	}
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetDSN(); !strings.HasSuffix(got, filepath.Join("wikihist", "history.db")) {
		t.Errorf("expected the default mirror path, got %q", got)
	}

	cfg.Database.DSN = "/tmp/custom.db"
	if got := cfg.GetDSN(); got != "/tmp/custom.db" {
		t.Errorf("expected the configured DSN, got %q", got)
	}
}
