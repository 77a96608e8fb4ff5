package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePhotos(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	if err := c.validateLedger(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePhotos() error {
	if c.Photos.CallTimeout < 0 {
		return errors.New("photos.call_timeout must be >= 0 (seconds, 0 disables)")
	}
	if err := ensurePositiveMap(map[string]int{
		"photos.launch_timeout": c.Photos.LaunchTimeout,
		"photos.chunk_size":     c.Photos.ChunkSize,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateExport() error {
	if c.Export.Timeout <= 0 {
		return errors.New("export.timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateLedger() error {
	if c.Ledger.Enabled && strings.TrimSpace(c.Ledger.Path) == "" {
		return errors.New("ledger.path must be set when ledger.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q (use debug, info, warn, or error)", c.Logging.Level)
	}
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
