package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"photoscript/internal/ledger"
	"photoscript/internal/logging"
	"photoscript/internal/photos"
	"photoscript/internal/textutil"
)

// exportFlags are shared by every command that exports photos. Unset flags
// fall back to the [export] section of the config.
type exportFlags struct {
	dest      string
	original  bool
	overwrite bool
	reveal    bool
	timeout   time.Duration
}

func (f *exportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.dest, "dest", "d", "", "Destination directory (defaults to export.dir)")
	cmd.Flags().BoolVar(&f.original, "original", false, "Export unedited originals")
	cmd.Flags().BoolVar(&f.overwrite, "overwrite", false, "Replace files with the same name instead of adding a suffix")
	cmd.Flags().BoolVar(&f.reveal, "reveal", false, "Reveal exported files in Finder")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "Per photo export timeout (defaults to export.timeout)")
}

func (c *commandContext) exportOptions(cmd *cobra.Command, f exportFlags) (photos.ExportOptions, string, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return photos.ExportOptions{}, "", err
	}
	flags := cmd.Flags()
	opts := photos.ExportOptions{
		Original:       cfg.Export.Original,
		Overwrite:      cfg.Export.Overwrite,
		Timeout:        cfg.ExportTimeout(),
		RevealInFinder: cfg.Export.RevealInFinder,
	}
	if flags.Changed("original") {
		opts.Original = f.original
	}
	if flags.Changed("overwrite") {
		opts.Overwrite = f.overwrite
	}
	if flags.Changed("reveal") {
		opts.RevealInFinder = f.reveal
	}
	if f.timeout > 0 {
		opts.Timeout = f.timeout
	}
	dest := f.dest
	if dest == "" {
		dest = cfg.Export.Dir
	}
	if dest == "" {
		return opts, "", errors.New("no destination: pass --dest or set export.dir")
	}
	abs, err := filepath.Abs(dest)
	if err != nil {
		return opts, "", fmt.Errorf("resolve destination: %w", err)
	}
	return opts, abs, nil
}

type exportSummary struct {
	Dest     string   `json:"dest" yaml:"dest"`
	Exported int      `json:"exported" yaml:"exported"`
	Skipped  int      `json:"skipped" yaml:"skipped"`
	Files    []string `json:"files" yaml:"files"`
	Bytes    int64    `json:"bytes" yaml:"bytes"`
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var (
		flags        exportFlags
		albumPath    string
		delim        string
		selection    bool
		skipExported bool
		subdir       bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export an album or the current selection",
		Long: "Export an album or the current selection. With --skip-exported, photos the " +
			"ledger already recorded for the destination are left alone.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (albumPath == "") == !selection {
				return errors.New("pass exactly one of --album or --selection")
			}
			return ctx.withLibrary(cmd, func(c context.Context, lib *photos.Library) error {
				opts, dest, err := ctx.exportOptions(cmd, flags)
				if err != nil {
					return err
				}
				var (
					items     []*photos.Photo
					albumName string
				)
				if selection {
					items, err = lib.Selection(c)
				} else {
					var album *photos.Album
					if album, err = lib.AlbumByPath(c, albumPath, delim); err == nil {
						albumName = albumPath
						items, err = album.Photos(c)
					}
				}
				if err != nil {
					return err
				}
				if subdir && albumName != "" {
					parts := textutil.SplitPath(albumPath, delim)
					dest = filepath.Join(dest, textutil.SanitizeFileName(parts[len(parts)-1]))
					if err := os.MkdirAll(dest, 0o755); err != nil {
						return fmt.Errorf("create album directory: %w", err)
					}
				}

				store, err := ctx.openLedger(c)
				if err != nil {
					return err
				}
				if store != nil {
					defer store.Close()
				}
				if skipExported && store == nil {
					return errors.New("--skip-exported needs the export ledger (ledger.enabled)")
				}

				summary, err := ctx.exportPhotos(c, lib, store, items, dest, albumName, opts, skipExported)
				if err != nil {
					return err
				}
				return ctx.render(cmd, summary, func() string {
					return fmt.Sprintf("Exported %d photo(s), %d file(s), %s to %s; skipped %d",
						summary.Exported, len(summary.Files), humanize.Bytes(uint64(summary.Bytes)), summary.Dest, summary.Skipped)
				})
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&albumPath, "album", "", "Album path to export (Folder/Sub/Album)")
	cmd.Flags().StringVar(&delim, "delimiter", "/", "Separator between folder names in --album")
	cmd.Flags().BoolVar(&selection, "selection", false, "Export the photos selected in Photos")
	cmd.Flags().BoolVar(&skipExported, "skip-exported", false, "Skip photos already exported to the destination")
	cmd.Flags().BoolVar(&subdir, "album-subdir", false, "Export into a subdirectory named after the album")
	return cmd
}

func (c *commandContext) exportPhotos(ctx context.Context, lib *photos.Library, store *ledger.Store, items []*photos.Photo, dest, album string, opts photos.ExportOptions, skipExported bool) (exportSummary, error) {
	logger, err := c.ensureLogger()
	if err != nil {
		return exportSummary{}, err
	}
	summary := exportSummary{Dest: dest, Files: []string{}}
	reveal := opts.RevealInFinder
	opts.RevealInFinder = false

	for _, photo := range items {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if skipExported {
			done, err := store.Exported(ctx, photo.UUID(), dest)
			if err != nil {
				return summary, err
			}
			if done {
				summary.Skipped++
				logger.Debug("photo already exported", logging.String(logging.FieldUUID, photo.UUID()))
				continue
			}
		}
		paths, err := lib.ExportPhoto(ctx, photo, dest, opts)
		if err != nil {
			return summary, err
		}
		records := make([]ledger.Export, 0, len(paths))
		for _, p := range paths {
			var size int64
			if info, err := os.Stat(p); err == nil {
				size = info.Size()
			}
			summary.Bytes += size
			records = append(records, ledger.Export{
				PhotoUUID: photo.UUID(),
				Album:     album,
				DestDir:   dest,
				Path:      p,
				Bytes:     size,
				Original:  opts.Original,
				RunID:     c.runID,
			})
		}
		if store != nil {
			if err := store.Record(ctx, records...); err != nil {
				return summary, err
			}
		}
		summary.Exported++
		summary.Files = append(summary.Files, paths...)
	}

	logger.Info("export complete",
		logging.String("dest", dest),
		logging.Int("exported", summary.Exported),
		logging.Int("skipped", summary.Skipped),
		logging.Int64("bytes", summary.Bytes),
	)
	if reveal && len(summary.Files) > 0 {
		if err := lib.RevealInFinder(ctx, summary.Files); err != nil {
			return summary, err
		}
	}
	return summary, nil
}
