package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func (c *commandContext) outputFormat() (string, error) {
	format := formatTable
	if c.formatFlag != nil && *c.formatFlag != "" {
		format = *c.formatFlag
	}
	switch format {
	case formatTable, formatJSON, formatYAML:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (use table, json, or yaml)", format)
	}
}

// render writes v as JSON or YAML, or calls table for the default format.
func (c *commandContext) render(cmd *cobra.Command, v any, table func() string) error {
	format, err := c.outputFormat()
	if err != nil {
		return err
	}
	switch format {
	case formatJSON:
		return writeJSON(cmd, v)
	case formatYAML:
		return writeYAML(cmd, v)
	default:
		text := table()
		if text == "" {
			return nil
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), text)
		return err
	}
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(cmd *cobra.Command, v any) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
