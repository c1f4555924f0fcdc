package commands

import (
	"os"

	"github.com/burgrp-go/flhash/pkg/registry"
	"github.com/spf13/cobra"
)

func GetDumpCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Export the whole registry",
		Long: `Scans the data directory and writes every registered hash code and nickname.
Formats are text (tab separated), json and cbor.`,
		RunE: runDump,
	}

	cmd.Flags().StringP("format", "f", string(registry.FormatText), "Output format: text, json or cbor")
	cmd.Flags().StringP("output", "o", "", "Write to file instead of stdout")
	cmd.Args = cobra.NoArgs

	return cmd
}

func runDump(cmd *cobra.Command, args []string) error {

	env, err := GetEnvironment(cmd)
	if err != nil {
		return err
	}

	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	format, err := registry.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	reg, err := env.BuildRegistry()
	if err != nil {
		return err
	}

	if output == "" {
		return reg.Export(cmd.OutOrStdout(), format)
	}

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	if err := reg.Export(f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
