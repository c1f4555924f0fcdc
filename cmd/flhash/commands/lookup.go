package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/burgrp-go/flhash/pkg/registry"
	"github.com/spf13/cobra"
)

const notFound = "not found"

func GetLookupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup [<hash> ...]",
		Short: "Find the nickname of hash codes",
		Long: `Scans the data directory and prints the nickname registered for each hash code.
Codes are decimal, negative decimal (signed form) or 0x-prefixed hexadecimal.
Without arguments, codes are read from stdin, one per line.`,
		RunE: runLookup,
	}

	return cmd
}

func runLookup(cmd *cobra.Command, args []string) error {

	env, err := GetEnvironment(cmd)
	if err != nil {
		return err
	}

	reg, err := env.BuildRegistry()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if len(args) > 0 {
		for _, arg := range args {
			printLookup(out, reg, arg)
		}
		return nil
	}

	return answerLines(cmd.InOrStdin(), out, reg)
}

// answerLines looks up every non-empty line of in.
func answerLines(in io.Reader, out io.Writer, reg *registry.Registry) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		printLookup(out, reg, line)
	}
	return scanner.Err()
}

func printLookup(out io.Writer, reg *registry.Registry, code string) {
	nickname, ok := reg.LookupString(code)
	if !ok {
		nickname = notFound
	}
	fmt.Fprintf(out, "%s\t%s\n", code, nickname)
}
