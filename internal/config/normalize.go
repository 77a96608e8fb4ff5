package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePhotos()
	if err := c.normalizeExport(); err != nil {
		return err
	}
	if err := c.normalizeLedger(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePhotos() {
	c.Photos.AppName = strings.TrimSpace(c.Photos.AppName)
	if c.Photos.AppName == "" {
		c.Photos.AppName = defaultAppName
	}
	c.Photos.OsascriptBinary = strings.TrimSpace(c.Photos.OsascriptBinary)
	if c.Photos.OsascriptBinary == "" {
		c.Photos.OsascriptBinary = defaultOsascriptBinary
	}
	if c.Photos.ChunkSize == 0 {
		c.Photos.ChunkSize = defaultChunkSize
	}
}

func (c *Config) normalizeExport() error {
	if strings.TrimSpace(c.Export.Dir) == "" {
		if value, ok := os.LookupEnv("PHOTOSCRIPT_EXPORT_DIR"); ok {
			c.Export.Dir = strings.TrimSpace(value)
		}
	}
	var err error
	if c.Export.Dir, err = expandPath(strings.TrimSpace(c.Export.Dir)); err != nil {
		return fmt.Errorf("export.dir: %w", err)
	}
	if c.Export.Timeout == 0 {
		c.Export.Timeout = defaultExportTimeout
	}
	return nil
}

func (c *Config) normalizeLedger() error {
	if strings.TrimSpace(c.Ledger.Path) == "" {
		c.Ledger.Path = defaultLedgerPath
	}
	var err error
	if c.Ledger.Path, err = expandPath(c.Ledger.Path); err != nil {
		return fmt.Errorf("ledger.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	if value, ok := os.LookupEnv("PHOTOSCRIPT_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
