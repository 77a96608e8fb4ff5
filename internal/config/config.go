package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directories owned by photoscript.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Photos contains settings for talking to Photos.app through osascript.
type Photos struct {
	AppName         string `toml:"app_name"`
	OsascriptBinary string `toml:"osascript_binary"`
	// CallTimeout bounds a single scripting call in seconds. Zero disables the
	// bound. The launch wait and exports use their own timeouts instead.
	CallTimeout int `toml:"call_timeout"`
	// LaunchTimeout bounds how long Open waits for Photos to respond.
	LaunchTimeout  int  `toml:"launch_timeout"`
	RetryOnTimeout bool `toml:"retry_on_timeout"`
	// ChunkSize is the number of photo ids fetched per call when walking the whole library.
	ChunkSize int  `toml:"chunk_size"`
	Lock      bool `toml:"lock"`
}

// Export contains defaults for photo export.
type Export struct {
	Dir            string `toml:"dir"`
	Original       bool   `toml:"original"`
	Overwrite      bool   `toml:"overwrite"`
	Timeout        int    `toml:"timeout"`
	RevealInFinder bool   `toml:"reveal_in_finder"`
}

// Ledger contains configuration for the export ledger database.
type Ledger struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for photoscript.
//
// Configuration sections by subsystem:
//   - Paths: state and log directories
//   - Photos: osascript binary, call timeouts, retry and chunking behaviour
//   - Export: default export directory and flags
//   - Ledger: SQLite record of exported photos
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Photos  Photos  `toml:"photos"`
	Export  Export  `toml:"export"`
	Ledger  Ledger  `toml:"ledger"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load resolves the configuration file, decodes it over the defaults,
// expands paths, and validates the result. It returns the config, the path
// that was considered, and whether that file existed. A missing file is not
// an error; defaults are used.
func Load(path string) (*Config, string, bool, error) {
	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	cfg := Default()
	if exists {
		data, err := os.ReadFile(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("read config: %w", err)
		}
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, "", false, fmt.Errorf("parse config %s: %s", resolved, strict.String())
			}
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

// resolveConfigPath picks the explicit path when given. Otherwise the first
// existing file among the user config and ./photoscript.toml wins, falling
// back to the user config path.
func resolveConfigPath(path string) (string, bool, error) {
	var candidates []string
	if strings.TrimSpace(path) != "" {
		candidates = []string{path}
	} else {
		candidates = []string{defaultConfigPath, "photoscript.toml"}
	}

	first := ""
	for _, candidate := range candidates {
		expanded, err := expandPath(candidate)
		if err != nil {
			return "", false, err
		}
		if first == "" {
			first = expanded
		}
		info, err := os.Stat(expanded)
		switch {
		case err == nil && !info.IsDir():
			return expanded, true, nil
		case err == nil:
			return "", false, fmt.Errorf("config path %s is a directory", expanded)
		case !errors.Is(err, fs.ErrNotExist):
			return "", false, fmt.Errorf("stat config: %w", err)
		}
	}
	return first, false, nil
}

// EnsureDirectories creates the state and log directories. The ledger
// directory is created when the ledger is enabled.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.Ledger.Enabled && strings.TrimSpace(c.Ledger.Path) != "" {
		dir := filepath.Dir(c.Ledger.Path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create ledger directory %q: %w", dir, err)
		}
	}
	return nil
}

// LockPath returns the file used to serialize scripting calls across processes.
// It is empty when locking is disabled.
func (c *Config) LockPath() string {
	if !c.Photos.Lock {
		return ""
	}
	return filepath.Join(c.Paths.StateDir, "photos.lock")
}

// CallTimeout returns the per-call scripting timeout.
func (c *Config) CallTimeout() time.Duration {
	return time.Duration(c.Photos.CallTimeout) * time.Second
}

// LaunchTimeout returns how long to wait for Photos to answer on startup.
func (c *Config) LaunchTimeout() time.Duration {
	return time.Duration(c.Photos.LaunchTimeout) * time.Second
}

// ExportTimeout returns how long Photos may spend exporting a single photo.
func (c *Config) ExportTimeout() time.Duration {
	return time.Duration(c.Export.Timeout) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
