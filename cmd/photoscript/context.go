package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"photoscript/internal/applescript"
	"photoscript/internal/config"
	"photoscript/internal/deps"
	"photoscript/internal/ledger"
	"photoscript/internal/logging"
	"photoscript/internal/photos"
	"photoscript/internal/preflight"
)

// callerFactory builds the connection to Photos. Tests swap it for a fake.
type callerFactory func(cfg *config.Config, logger *slog.Logger) (photos.Caller, error)

type commandContext struct {
	configFlag *string
	formatFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	runID     string
	newCaller callerFactory
}

func newCommandContext(configFlag, formatFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		formatFlag: formatFlag,
		runID:      uuid.NewString(),
		newCaller:  newScriptRunner,
	}
}

func newScriptRunner(cfg *config.Config, logger *slog.Logger) (photos.Caller, error) {
	if missing := deps.Missing(preflight.CheckSystemDeps(context.Background(), cfg)); len(missing) > 0 {
		return nil, fmt.Errorf("%s: %s (run `photoscript doctor`)", missing[0].Name, missing[0].Detail)
	}
	runner, err := applescript.New(cfg.Photos.OsascriptBinary, photos.Script,
		applescript.WithTimeout(cfg.CallTimeout()),
		applescript.WithRetryOnTimeout(cfg.Photos.RetryOnTimeout),
		applescript.WithLockPath(cfg.LockPath()),
		applescript.WithAppName(cfg.Photos.AppName),
		applescript.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	return runner, nil
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger.With(logging.String(logging.FieldRunID, c.runID))
	})
	return c.logger, c.loggerErr
}

// library connects to Photos and waits for it to answer.
func (c *commandContext) library(ctx context.Context) (*photos.Library, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	caller, err := c.newCaller(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create photos caller: %w", err)
	}
	return photos.Open(ctx, caller, photos.Options{
		LaunchTimeout: cfg.LaunchTimeout(),
		ChunkSize:     cfg.Photos.ChunkSize,
		Logger:        logger,
	})
}

// withLibrary opens the library and runs fn with the command's context.
func (c *commandContext) withLibrary(cmd *cobra.Command, fn func(context.Context, *photos.Library) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	lib, err := c.library(ctx)
	if err != nil {
		return err
	}
	return fn(ctx, lib)
}

// openLedger returns nil when the ledger is disabled.
func (c *commandContext) openLedger(ctx context.Context) (*ledger.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Ledger.Enabled {
		return nil, nil
	}
	store, err := ledger.Open(ctx, cfg.Ledger.Path)
	if err != nil {
		return nil, fmt.Errorf("open export ledger: %w", err)
	}
	return store, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
