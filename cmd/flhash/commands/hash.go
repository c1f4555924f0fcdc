package commands

import (
	"fmt"

	flhash "github.com/burgrp-go/flhash/pkg"
	"github.com/spf13/cobra"
)

func GetHashCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash <nickname> [<nickname> ...]",
		Short: "Calculate entity hashes",
		Long: `Calculates the 32-bit entity hash of each nickname, as used for ships,
commodities, bases and most other objects. Nicknames are case-insensitive.
With --signed, the value is also printed as the signed integer some tools show.`,
		RunE: runHash,
	}

	cmd.Flags().BoolP("signed", "s", false, "Also print the signed 32-bit value")
	cmd.Args = cobra.MinimumNArgs(1)

	return cmd
}

func runHash(cmd *cobra.Command, args []string) error {

	signed, err := cmd.Flags().GetBool("signed")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, nickname := range args {
		code, ok := flhash.EntityHash(nickname).Unpack()
		if !ok {
			return fmt.Errorf("cannot hash an empty nickname")
		}
		if signed {
			fmt.Fprintf(out, "%s\t%d\t%s\t%d\n", nickname, code, flhash.FormatHex(code), flhash.Signed(code))
		} else {
			fmt.Fprintf(out, "%s\t%d\t%s\n", nickname, code, flhash.FormatHex(code))
		}
	}

	return nil
}

func GetFactionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "faction <nickname> [<nickname> ...]",
		Short: "Calculate faction hashes",
		Long:  `Calculates the 16-bit faction hash of each faction (affiliation) nickname.`,
		RunE:  runFaction,
	}

	cmd.Args = cobra.MinimumNArgs(1)

	return cmd
}

func runFaction(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for _, nickname := range args {
		code, ok := flhash.FactionHash(nickname).Unpack()
		if !ok {
			return fmt.Errorf("cannot hash an empty nickname")
		}
		fmt.Fprintf(out, "%s\t%d\t%s\n", nickname, code, flhash.FormatHex(uint32(code)))
	}
	return nil
}
