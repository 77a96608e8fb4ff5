package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"photoscript/internal/photos"
	"photoscript/internal/textutil"
)

type folderDetail struct {
	containerView `yaml:",inline"`
	Albums        []containerView `json:"albums" yaml:"albums"`
	Folders       []containerView `json:"folders" yaml:"folders"`
}

func folderView(ctx context.Context, folder *photos.Folder, delim string) (containerView, error) {
	name, err := folder.Name(ctx)
	if err != nil {
		return containerView{}, err
	}
	path, err := folder.PathString(ctx, delim)
	if err != nil {
		return containerView{}, err
	}
	count, err := folder.Count(ctx)
	if err != nil {
		return containerView{}, err
	}
	return containerView{UUID: folder.UUID(), Name: name, Path: path, Count: count}, nil
}

func newFoldersCommand(ctx *commandContext) *cobra.Command {
	var topLevel bool
	var delim string
	cmd := &cobra.Command{
		Use:   "folders",
		Short: "List folders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(cmd, func(c context.Context, lib *photos.Library) error {
				folders, err := lib.Folders(c, topLevel)
				if err != nil {
					return err
				}
				views := make([]containerView, 0, len(folders))
				for _, folder := range folders {
					view, err := folderView(c, folder, delim)
					if err != nil {
						return err
					}
					views = append(views, view)
				}
				return ctx.render(cmd, views, func() string { return renderContainers(views, "Items") })
			})
		},
	}
	cmd.Flags().BoolVar(&topLevel, "top-level", false, "Only list folders that are not inside another folder")
	cmd.Flags().StringVar(&delim, "delimiter", "/", "Separator between folder names in paths")
	return cmd
}

func newFolderCommand(ctx *commandContext) *cobra.Command {
	var delim string
	folderCmd := &cobra.Command{
		Use:   "folder",
		Short: "Work with a folder addressed by path (Top/Sub)",
	}
	folderCmd.PersistentFlags().StringVar(&delim, "delimiter", "/", "Separator between folder names")

	folderCmd.AddCommand(&cobra.Command{
		Use:   "make <path>",
		Short: "Create a folder and any missing parents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(cmd, func(c context.Context, lib *photos.Library) error {
				folder, err := lib.MakeFolders(c, textutil.SplitPath(args[0], delim))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Folder %s ready (%s)\n", args[0], folder.UUID())
				return nil
			})
		},
	})

	folderCmd.AddCommand(&cobra.Command{
		Use:   "delete <path>",
		Short: "Delete a folder and everything inside it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(cmd, func(c context.Context, lib *photos.Library) error {
				folder, err := lib.FolderByPathString(c, args[0], delim)
				if err != nil {
					return err
				}
				if err := lib.DeleteFolder(c, folder); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted folder %s\n", args[0])
				return nil
			})
		},
	})

	folderCmd.AddCommand(&cobra.Command{
		Use:   "show <path>",
		Short: "Show the albums and subfolders of a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(cmd, func(c context.Context, lib *photos.Library) error {
				folder, err := lib.FolderByPathString(c, args[0], delim)
				if err != nil {
					return err
				}
				detail, err := describeFolder(c, folder, delim)
				if err != nil {
					return err
				}
				return ctx.render(cmd, detail, func() string {
					return renderContainers(append(append([]containerView{}, detail.Folders...), detail.Albums...), "Items")
				})
			})
		},
	})
	folderCmd.AddCommand(&cobra.Command{
		Use:   "spotlight <path>",
		Short: "Reveal a folder in the Photos window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(cmd, func(c context.Context, lib *photos.Library) error {
				folder, err := lib.FolderByPathString(c, args[0], delim)
				if err != nil {
					return err
				}
				return folder.Spotlight(c)
			})
		},
	})
	return folderCmd
}

func describeFolder(ctx context.Context, folder *photos.Folder, delim string) (folderDetail, error) {
	view, err := folderView(ctx, folder, delim)
	if err != nil {
		return folderDetail{}, err
	}
	detail := folderDetail{containerView: view, Albums: []containerView{}, Folders: []containerView{}}
	albums, err := folder.Albums(ctx)
	if err != nil {
		return folderDetail{}, err
	}
	for _, album := range albums {
		v, err := albumView(ctx, album, delim)
		if err != nil {
			return folderDetail{}, err
		}
		detail.Albums = append(detail.Albums, v)
	}
	subfolders, err := folder.Subfolders(ctx)
	if err != nil {
		return folderDetail{}, err
	}
	for _, sub := range subfolders {
		v, err := folderView(ctx, sub, delim)
		if err != nil {
			return folderDetail{}, err
		}
		detail.Folders = append(detail.Folders, v)
	}
	return detail, nil
}
