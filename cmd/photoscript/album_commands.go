package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"photoscript/internal/photos"
	"photoscript/internal/textutil"
)

type containerView struct {
	UUID  string `json:"uuid" yaml:"uuid"`
	Name  string `json:"name" yaml:"name"`
	Path  string `json:"path" yaml:"path"`
	Count int    `json:"count" yaml:"count"`
}

func renderContainers(views []containerView, countLabel string) string {
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		rows = append(rows, []string{v.Path, strconv.Itoa(v.Count), v.UUID})
	}
	return renderTable([]string{"Path", countLabel, "UUID"}, rows, []columnAlignment{alignLeft, alignRight, alignLeft})
}

func albumView(ctx context.Context, album *photos.Album, delim string) (containerView, error) {
	name, err := album.Name(ctx)
	if err != nil {
		return containerView{}, err
	}
	path, err := album.PathString(ctx, delim)
	if err != nil {
		return containerView{}, err
	}
	count, err := album.Count(ctx)
	if err != nil {
		return containerView{}, err
	}
	return containerView{UUID: album.UUID(), Name: name, Path: path, Count: count}, nil
}

func newAlbumsCommand(ctx *commandContext) *cobra.Command {
	var topLevel bool
	var delim string
	cmd := &cobra.Command{
		Use:   "albums",
		Short: "List albums",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(cmd, func(c context.Context, lib *photos.Library) error {
				albums, err := lib.Albums(c, topLevel)
				if err != nil {
					return err
				}
				views := make([]containerView, 0, len(albums))
				for _, album := range albums {
					view, err := albumView(c, album, delim)
					if err != nil {
						return err
					}
					views = append(views, view)
				}
				return ctx.render(cmd, views, func() string { return renderContainers(views, "Photos") })
			})
		},
	}
	cmd.Flags().BoolVar(&topLevel, "top-level", false, "Only list albums that are not inside a folder")
	cmd.Flags().StringVar(&delim, "delimiter", "/", "Separator between folder names in paths")
	return cmd
}

func newAlbumCommand(ctx *commandContext) *cobra.Command {
	var delim string
	albumCmd := &cobra.Command{
		Use:   "album",
		Short: "Work with a single album addressed by path (Folder/Sub/Album)",
	}
	albumCmd.PersistentFlags().StringVar(&delim, "delimiter", "/", "Separator between folder names in album paths")

	albumCmd.AddCommand(&cobra.Command{
		Use:   "create <path>",
		Short: "Create an album, making any missing folders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(cmd, func(c context.Context, lib *photos.Library) error {
				album, err := ensureAlbum(c, lib, args[0], delim)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Album %s ready (%s)\n", args[0], album.UUID())
				return nil
			})
		},
	})

	albumCmd.AddCommand(&cobra.Command{
		Use:   "delete <path>",
		Short: "Delete an album; its photos stay in the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(cmd, func(c context.Context, lib *photos.Library) error {
				album, err := lib.AlbumByPath(c, args[0], delim)
				if err != nil {
					return err
				}
				if err := lib.DeleteAlbum(c, album); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted album %s\n", args[0])
				return nil
			})
		},
	})

	albumCmd.AddCommand(&cobra.Command{
		Use:   "photos <path>",
		Short: "List the photos in an album",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(cmd, func(c context.Context, lib *photos.Library) error {
				album, err := lib.AlbumByPath(c, args[0], delim)
				if err != nil {
					return err
				}
				items, err := album.Photos(c)
				if err != nil {
					return err
				}
				return renderPhotoList(c, ctx, cmd, items)
			})
		},
	})

	albumCmd.AddCommand(&cobra.Command{
		Use:   "remove <path> <uuid>...",
		Short: "Remove photos from an album",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(cmd, func(c context.Context, lib *photos.Library) error {
				album, err := lib.AlbumByPath(c, args[0], delim)
				if err != nil {
					return err
				}
				items, err := photosByUUID(c, lib, args[1:])
				if err != nil {
					return err
				}
				rebuilt, err := album.Remove(c, items)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d photo(s) from %s (album uuid %s)\n", len(items), args[0], rebuilt.UUID())
				return nil
			})
		},
	})

	albumCmd.AddCommand(&cobra.Command{
		Use:   "rename <path> <new-name>",
		Short: "Rename an album",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(cmd, func(c context.Context, lib *photos.Library) error {
				album, err := lib.AlbumByPath(c, args[0], delim)
				if err != nil {
					return err
				}
				if err := album.SetName(c, args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", args[0], args[1])
				return nil
			})
		},
	})

	albumCmd.AddCommand(&cobra.Command{
		Use:   "spotlight <path>",
		Short: "Reveal an album in the Photos window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(cmd, func(c context.Context, lib *photos.Library) error {
				album, err := lib.AlbumByPath(c, args[0], delim)
				if err != nil {
					return err
				}
				return album.Spotlight(c)
			})
		},
	})

	albumCmd.AddCommand(newAlbumExportCommand(ctx, &delim))
	return albumCmd
}

func newAlbumExportCommand(ctx *commandContext, delim *string) *cobra.Command {
	var flags exportFlags
	cmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Export every photo in an album",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(cmd, func(c context.Context, lib *photos.Library) error {
				album, err := lib.AlbumByPath(c, args[0], *delim)
				if err != nil {
					return err
				}
				opts, dest, err := ctx.exportOptions(cmd, flags)
				if err != nil {
					return err
				}
				paths, err := album.Export(c, dest, opts)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d file(s) to %s\n", len(paths), dest)
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

// ensureAlbum finds the album at path or creates it along with any missing
// folders above it.
func ensureAlbum(ctx context.Context, lib *photos.Library, path, delim string) (*photos.Album, error) {
	parts := textutil.SplitPath(path, delim)
	switch len(parts) {
	case 0:
		return nil, photos.ErrEmptyPath
	case 1:
		album, err := lib.Album(ctx, parts[0], true)
		if errors.Is(err, photos.ErrNotFound) {
			return lib.CreateAlbum(ctx, parts[0], nil)
		}
		return album, err
	}
	return lib.MakeAlbumFolders(ctx, parts[len(parts)-1], parts[:len(parts)-1])
}

func photosByUUID(ctx context.Context, lib *photos.Library, uuids []string) ([]*photos.Photo, error) {
	out := make([]*photos.Photo, 0, len(uuids))
	for _, id := range uuids {
		p, err := lib.PhotoByUUID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
