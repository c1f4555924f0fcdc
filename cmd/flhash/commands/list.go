package commands

import (
	"fmt"
	"strings"

	flhash "github.com/burgrp-go/flhash/pkg"
	"github.com/spf13/cobra"
)

func GetListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [<filter> ...]",
		Short: "List registered nicknames",
		Long: `Scans the data directory and lists all registered nicknames ordered by hash.
If filters are specified, only nicknames containing one of them (ignoring case) are listed.`,
		RunE: runList,
	}

	cmd.Flags().BoolP("meta", "m", false, "Do not print kind and defining file")
	cmd.Flags().StringP("kind", "k", "", "Only list entity or faction nicknames")

	return cmd
}

func passNameFilter(name string, args []string) bool {
	if len(args) == 0 {
		return true
	}
	lower := strings.ToLower(name)
	for _, arg := range args {
		if strings.Contains(lower, strings.ToLower(arg)) {
			return true
		}
	}
	return false
}

func runList(cmd *cobra.Command, args []string) error {

	env, err := GetEnvironment(cmd)
	if err != nil {
		return err
	}

	noMeta, err := cmd.Flags().GetBool("meta")
	if err != nil {
		return err
	}

	kind, err := cmd.Flags().GetString("kind")
	if err != nil {
		return err
	}
	if kind != "" && kind != "entity" && kind != "faction" {
		return fmt.Errorf("unknown kind %q, expected entity or faction", kind)
	}

	reg, err := env.BuildRegistry()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, e := range reg.Entries() {
		if !passNameFilter(e.Nickname, args) {
			continue
		}
		if kind != "" && e.Kind.String() != kind {
			continue
		}
		metaStr := ""
		if !noMeta {
			metaStr = fmt.Sprintf(" \t[%s %s]", e.Kind, e.File)
		}
		fmt.Fprintf(out, "%s\t%s\t%s%s\n", flhash.FormatHash(e.Hash), flhash.FormatHex(e.Hash), e.Nickname, metaStr)
	}

	return nil
}
