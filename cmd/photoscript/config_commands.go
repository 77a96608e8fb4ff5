package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"photoscript/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}
	configCmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand(ctx))
	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var (
		targetPath string
		overwrite  bool
	)
	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a commented sample configuration",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := configTarget(targetPath)
			if err != nil {
				return err
			}
			if !overwrite {
				_, err := os.Stat(target)
				switch {
				case err == nil:
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				case !errors.Is(err, fs.ErrNotExist):
					return fmt.Errorf("check config path: %w", err)
				}
			}
			if err := config.CreateSample(target); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\nRun `photoscript doctor` next.\n", target)
			return nil
		},
	}
	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

func configTarget(flag string) (string, error) {
	if flag = strings.TrimSpace(flag); flag != "" {
		return config.ExpandPath(flag)
	}
	path, err := config.DefaultConfigPath()
	if err != nil {
		return "", fmt.Errorf("determine default config path: %w", err)
	}
	return path, nil
}

type configView struct {
	Path        string `json:"path" yaml:"path"`
	FromFile    bool   `json:"from_file" yaml:"from_file"`
	App         string `json:"app" yaml:"app"`
	Osascript   string `json:"osascript" yaml:"osascript"`
	CallTimeout string `json:"call_timeout" yaml:"call_timeout"`
	ChunkSize   int    `json:"chunk_size" yaml:"chunk_size"`
	ExportDir   string `json:"export_dir,omitempty" yaml:"export_dir,omitempty"`
	Ledger      string `json:"ledger" yaml:"ledger"`
	LogDir      string `json:"log_dir,omitempty" yaml:"log_dir,omitempty"`
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Load the configuration and report the effective settings",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(strings.TrimSpace(*ctx.configFlag))
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}
			view := configView{
				Path:        path,
				FromFile:    exists,
				App:         cfg.Photos.AppName,
				Osascript:   cfg.Photos.OsascriptBinary,
				CallTimeout: cfg.CallTimeout().String(),
				ChunkSize:   cfg.Photos.ChunkSize,
				ExportDir:   cfg.Export.Dir,
				Ledger:      ledgerSummary(cfg),
				LogDir:      cfg.Paths.LogDir,
			}
			return ctx.render(cmd, view, func() string {
				source := view.Path
				if !view.FromFile {
					source += " (not found, defaults used)"
				}
				return renderFields([]field{
					{"config", source},
					{"photos app", view.App + " via " + view.Osascript},
					{"call timeout", view.CallTimeout},
					{"chunk size", strconv.Itoa(view.ChunkSize)},
					{"export dir", view.ExportDir},
					{"export ledger", view.Ledger},
					{"log dir", view.LogDir},
				}) + "\nConfiguration valid"
			})
		},
	}
}

func ledgerSummary(cfg *config.Config) string {
	if !cfg.Ledger.Enabled {
		return "disabled"
	}
	return cfg.Ledger.Path
}
