package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"photoscript/internal/photos"
)

type statusView struct {
	Version   string `json:"version" yaml:"version"`
	Name      string `json:"name" yaml:"name"`
	Running   bool   `json:"running" yaml:"running"`
	Frontmost bool   `json:"frontmost" yaml:"frontmost"`
	Hidden    bool   `json:"hidden" yaml:"hidden"`
	Photos    int    `json:"photos" yaml:"photos"`
}

func newAppCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newStatusCommand(ctx),
		newSimpleAppCommand(ctx, "activate", "Bring Photos to the front", (*photos.Library).Activate),
		newSimpleAppCommand(ctx, "quit", "Quit Photos", (*photos.Library).Quit),
		newSimpleAppCommand(ctx, "hide", "Hide the Photos window", (*photos.Library).Hide),
		newOpenCommand(ctx),
	}
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show Photos application status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(cmd, func(c context.Context, lib *photos.Library) error {
				view := statusView{Version: lib.Version()}
				var err error
				if view.Name, err = lib.Name(c); err != nil {
					return err
				}
				if view.Running, err = lib.Running(c); err != nil {
					return err
				}
				if view.Frontmost, err = lib.Frontmost(c); err != nil {
					return err
				}
				if view.Hidden, err = lib.Hidden(c); err != nil {
					return err
				}
				if view.Photos, err = lib.Count(c); err != nil {
					return err
				}
				return ctx.render(cmd, view, func() string {
					return renderFields([]field{
						{"name", view.Name},
						{"version", view.Version},
						{"running", yesNo(view.Running)},
						{"frontmost", yesNo(view.Frontmost)},
						{"hidden", yesNo(view.Hidden)},
						{"photos", strconv.Itoa(view.Photos)},
					})
				})
			})
		},
	}
}

func newSimpleAppCommand(ctx *commandContext, use, short string, action func(*photos.Library, context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(cmd, func(c context.Context, lib *photos.Library) error {
				return action(lib, c)
			})
		},
	}
}

func newOpenCommand(ctx *commandContext) *cobra.Command {
	var delay time.Duration
	cmd := &cobra.Command{
		Use:   "open <library>",
		Short: "Switch Photos to another library bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(cmd, func(c context.Context, lib *photos.Library) error {
				if err := lib.OpenLibrary(c, args[0], delay); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Opened %s\n", args[0])
				return nil
			})
		},
	}
	cmd.Flags().DurationVar(&delay, "delay", 10*time.Second, "Time to wait for Photos to finish switching")
	return cmd
}
