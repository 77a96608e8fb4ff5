package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"photoscript/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("PHOTOSCRIPT_EXPORT_DIR", "")
	t.Setenv("PHOTOSCRIPT_LOG_LEVEL", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "photoscript")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Ledger.Path != filepath.Join(wantState, "ledger.db") {
		t.Fatalf("unexpected ledger path: %q", cfg.Ledger.Path)
	}
	if cfg.Photos.OsascriptBinary != "osascript" {
		t.Fatalf("unexpected osascript binary: %q", cfg.Photos.OsascriptBinary)
	}
	if cfg.Photos.AppName != "Photos" {
		t.Fatalf("unexpected app name: %q", cfg.Photos.AppName)
	}
	if !cfg.Photos.RetryOnTimeout {
		t.Fatal("expected retry on timeout enabled by default")
	}
	if cfg.Photos.ChunkSize != config.Default().Photos.ChunkSize {
		t.Fatalf("unexpected chunk size: %d", cfg.Photos.ChunkSize)
	}
	if cfg.Export.Dir != "" {
		t.Fatalf("expected empty export dir, got %q", cfg.Export.Dir)
	}
	if cfg.ExportTimeout() != 120*time.Second {
		t.Fatalf("unexpected export timeout: %s", cfg.ExportTimeout())
	}
	if cfg.LockPath() != filepath.Join(wantState, "photos.lock") {
		t.Fatalf("unexpected lock path: %q", cfg.LockPath())
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	t.Setenv("PHOTOSCRIPT_LOG_LEVEL", "")
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "photoscript.toml")

	type payload struct {
		Photos struct {
			ChunkSize   int  `toml:"chunk_size"`
			CallTimeout int  `toml:"call_timeout"`
			Lock        bool `toml:"lock"`
		} `toml:"photos"`
		Export struct {
			Dir       string `toml:"dir"`
			Overwrite bool   `toml:"overwrite"`
		} `toml:"export"`
		Logging struct {
			Format string `toml:"format"`
			Level  string `toml:"level"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Photos.ChunkSize = 10
	custom.Photos.CallTimeout = 30
	custom.Photos.Lock = false
	custom.Export.Dir = filepath.Join(tempDir, "exports")
	custom.Export.Overwrite = true
	custom.Logging.Format = "JSON"
	custom.Logging.Level = "Debug"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Photos.ChunkSize != 10 {
		t.Fatalf("expected chunk size 10, got %d", cfg.Photos.ChunkSize)
	}
	if cfg.CallTimeout() != 30*time.Second {
		t.Fatalf("expected call timeout 30s, got %s", cfg.CallTimeout())
	}
	if cfg.LockPath() != "" {
		t.Fatalf("expected no lock path when locking disabled, got %q", cfg.LockPath())
	}
	if cfg.Export.Dir != filepath.Join(tempDir, "exports") {
		t.Fatalf("unexpected export dir: %q", cfg.Export.Dir)
	}
	if !cfg.Export.Overwrite {
		t.Fatal("expected overwrite from file")
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected normalized logging, got %+v", cfg.Logging)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "photoscript.toml")
	if err := os.WriteFile(configPath, []byte("[photos]\nchunk = 5\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestLoadFallsBackToProjectFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	project := t.TempDir()
	t.Chdir(project)
	if err := os.WriteFile("photoscript.toml", []byte("[photos]\nchunk_size = 7\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || filepath.Base(resolved) != "photoscript.toml" {
		t.Fatalf("expected project config, got %q exists=%v", resolved, exists)
	}
	if cfg.Photos.ChunkSize != 7 {
		t.Fatalf("expected chunk size from project file, got %d", cfg.Photos.ChunkSize)
	}
}

func TestLoadRejectsDirectory(t *testing.T) {
	if _, _, _, err := config.Load(t.TempDir()); err == nil {
		t.Fatal("expected error when config path is a directory")
	}
}

func TestEnvFallbacks(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("PHOTOSCRIPT_EXPORT_DIR", filepath.Join(tempDir, "from-env"))
	t.Setenv("PHOTOSCRIPT_LOG_LEVEL", "WARN")

	cfg, _, _, err := config.Load(filepath.Join(tempDir, "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Export.Dir != filepath.Join(tempDir, "from-env") {
		t.Errorf("expected export dir from env, got %q", cfg.Export.Dir)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level from env, got %q", cfg.Logging.Level)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "[photos]") {
		t.Fatalf("sample config missing photos section: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Photos.ChunkSize = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative chunk size")
	}

	cfg = config.Default()
	cfg.Photos.CallTimeout = -5
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative call timeout")
	}

	cfg = config.Default()
	cfg.Photos.LaunchTimeout = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for launch timeout")
	}

	cfg = config.Default()
	cfg.Ledger.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when ledger enabled without path")
	}

	cfg = config.Default()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log level")
	}

	cfg = config.Default()
	cfg.Export.Timeout = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for export timeout")
	}

	// Waiting for launch and exporting carry their own deadlines, so they
	// may exceed the per-call timeout.
	cfg = config.Default()
	cfg.Photos.CallTimeout = 30
	cfg.Photos.LaunchTimeout = 600
	cfg.Export.Timeout = 900
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected long launch and export timeouts to validate, got %v", err)
	}

	cfg = config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}
