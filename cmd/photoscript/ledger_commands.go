package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"photoscript/internal/ledger"
)

type ledgerRow struct {
	UUID       string `json:"uuid" yaml:"uuid"`
	Album      string `json:"album,omitempty" yaml:"album,omitempty"`
	Path       string `json:"path" yaml:"path"`
	Bytes      int64  `json:"bytes" yaml:"bytes"`
	Original   bool   `json:"original" yaml:"original"`
	ExportedAt string `json:"exported_at" yaml:"exported_at"`
}

func newLedgerCommand(ctx *commandContext) *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect the record of exported photos",
	}
	ledgerCmd.AddCommand(newLedgerListCommand(ctx))
	ledgerCmd.AddCommand(newLedgerForgetCommand(ctx))
	return ledgerCmd
}

func (c *commandContext) withLedger(cmd *cobra.Command, fn func(context.Context, *ledger.Store) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := c.openLedger(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("export ledger is disabled (ledger.enabled = false)")
	}
	defer store.Close()
	return fn(ctx, store)
}

func newLedgerListCommand(ctx *commandContext) *cobra.Command {
	var dest string
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent exports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLedger(cmd, func(c context.Context, store *ledger.Store) error {
				if dest != "" {
					abs, err := filepath.Abs(dest)
					if err != nil {
						return err
					}
					dest = abs
				}
				exports, err := store.List(c, dest, limit)
				if err != nil {
					return err
				}
				rows := make([]ledgerRow, 0, len(exports))
				table := make([][]string, 0, len(exports))
				for _, e := range exports {
					rows = append(rows, ledgerRow{
						UUID:       e.PhotoUUID,
						Album:      e.Album,
						Path:       e.Path,
						Bytes:      e.Bytes,
						Original:   e.Original,
						ExportedAt: e.ExportedAt.Format("2006-01-02T15:04:05Z07:00"),
					})
					table = append(table, []string{
						e.PhotoUUID,
						e.Path,
						humanize.Bytes(uint64(e.Bytes)),
						humanize.Time(e.ExportedAt),
					})
				}
				return ctx.render(cmd, rows, func() string {
					return renderTable([]string{"UUID", "Path", "Size", "Exported"}, table,
						[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft})
				})
			})
		},
	}
	cmd.Flags().StringVarP(&dest, "dest", "d", "", "Only list exports to this directory")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum rows (0 for all)")
	return cmd
}

func newLedgerForgetCommand(ctx *commandContext) *cobra.Command {
	var dest string
	cmd := &cobra.Command{
		Use:   "forget <uuid>...",
		Short: "Forget exports so the photos are exported again",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dest == "" {
				return errors.New("--dest is required")
			}
			abs, err := filepath.Abs(dest)
			if err != nil {
				return err
			}
			return ctx.withLedger(cmd, func(c context.Context, store *ledger.Store) error {
				var total int64
				for _, id := range args {
					n, err := store.Forget(c, id, abs)
					if err != nil {
						return err
					}
					total += n
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Forgot %s record(s)\n", strconv.FormatInt(total, 10))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&dest, "dest", "d", "", "Destination directory the exports were written to")
	return cmd
}
