package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"photoscript/internal/preflight"
)

type checkView struct {
	Name   string `json:"name" yaml:"name"`
	Passed bool   `json:"passed" yaml:"passed"`
	Detail string `json:"detail" yaml:"detail"`
}

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that this machine can drive Photos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			c := cmd.Context()
			if c == nil {
				c = context.Background()
			}
			results := preflight.RunAll(c, cfg)
			views := make([]checkView, 0, len(results))
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				views = append(views, checkView{Name: r.Name, Passed: r.Passed, Detail: r.Detail})
				status := "ok"
				if !r.Passed {
					status = "FAIL"
				}
				rows = append(rows, []string{r.Name, status, r.Detail})
			}
			if err := ctx.render(cmd, views, func() string {
				return renderTable([]string{"Check", "Status", "Detail"}, rows, nil)
			}); err != nil {
				return err
			}
			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d check(s) failed", len(failed))
			}
			return nil
		},
	}
}
