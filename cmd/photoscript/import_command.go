package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"photoscript/internal/capture"
	"photoscript/internal/logging"
	"photoscript/internal/photos"
	"photoscript/internal/textutil"
)

type importGroup struct {
	Album    string   `json:"album,omitempty" yaml:"album,omitempty"`
	Files    int      `json:"files" yaml:"files"`
	Imported []string `json:"imported" yaml:"imported"`
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	var (
		albumPath  string
		folderPath string
		delim      string
		byDate     bool
		layout     string
		skipDup    bool
	)
	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Import files into the library",
		Long: "Import files into the library, optionally into an album. With --by-date the files " +
			"are grouped by capture date (EXIF, then filename, then modification time) and each " +
			"group goes into an album named after the date inside --folder.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if byDate && albumPath != "" {
				return errors.New("--by-date and --album are mutually exclusive")
			}
			if !byDate && folderPath != "" {
				return errors.New("--folder is only used with --by-date")
			}
			files, err := resolveImportFiles(args)
			if err != nil {
				return err
			}
			return ctx.withLibrary(cmd, func(c context.Context, lib *photos.Library) error {
				logger, err := ctx.ensureLogger()
				if err != nil {
					return err
				}
				var results []importGroup
				switch {
				case byDate:
					folders := textutil.SplitPath(folderPath, delim)
					for _, group := range capture.GroupBy(files, layout) {
						album, err := albumForGroup(c, lib, group.Key, folders)
						if err != nil {
							return err
						}
						imported, err := album.ImportPhotos(c, group.Paths, skipDup)
						if err != nil {
							return err
						}
						logger.Info("imported date group",
							logging.String("album", group.Key),
							logging.Int("files", len(group.Paths)),
							logging.Int("imported", len(imported)),
						)
						results = append(results, importGroup{Album: group.Key, Files: len(group.Paths), Imported: uuids(imported)})
					}
				case albumPath != "":
					album, err := ensureAlbum(c, lib, albumPath, delim)
					if err != nil {
						return err
					}
					imported, err := lib.ImportPhotos(c, files, album, skipDup)
					if err != nil {
						return err
					}
					results = append(results, importGroup{Album: albumPath, Files: len(files), Imported: uuids(imported)})
				default:
					imported, err := lib.ImportPhotos(c, files, nil, skipDup)
					if err != nil {
						return err
					}
					results = append(results, importGroup{Files: len(files), Imported: uuids(imported)})
				}
				return ctx.render(cmd, results, func() string {
					rows := make([][]string, 0, len(results))
					for _, r := range results {
						rows = append(rows, []string{r.Album, fmt.Sprint(r.Files), fmt.Sprint(len(r.Imported))})
					}
					return renderTable([]string{"Album", "Files", "Imported"}, rows,
						[]columnAlignment{alignLeft, alignRight, alignRight})
				})
			})
		},
	}
	cmd.Flags().StringVar(&albumPath, "album", "", "Album path to import into, created when missing")
	cmd.Flags().StringVar(&folderPath, "folder", "", "Folder path holding the dated albums of --by-date")
	cmd.Flags().StringVar(&delim, "delimiter", "/", "Separator between folder names")
	cmd.Flags().BoolVar(&byDate, "by-date", false, "Group files into albums by capture date")
	cmd.Flags().StringVar(&layout, "date-layout", "2006-01", "Go time layout naming the dated albums")
	cmd.Flags().BoolVar(&skipDup, "skip-duplicate-check", false, "Import without the Photos duplicate prompt")
	return cmd
}

func resolveImportFiles(args []string) ([]string, error) {
	files := make([]string, 0, len(args))
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", arg, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("import %s: %w", arg, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("import %s: is a directory", arg)
		}
		files = append(files, abs)
	}
	return files, nil
}

// albumForGroup returns the dated album, top level when folders is empty.
func albumForGroup(ctx context.Context, lib *photos.Library, name string, folders []string) (*photos.Album, error) {
	if len(folders) == 0 {
		album, err := lib.Album(ctx, name, true)
		if errors.Is(err, photos.ErrNotFound) {
			return lib.CreateAlbum(ctx, name, nil)
		}
		return album, err
	}
	return lib.MakeAlbumFolders(ctx, name, folders)
}

func uuids(items []*photos.Photo) []string {
	out := make([]string, 0, len(items))
	for _, p := range items {
		out = append(out, p.UUID())
	}
	return out
}
