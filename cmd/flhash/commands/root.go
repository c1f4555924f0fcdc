package commands

import (
	"log/slog"

	"github.com/burgrp-go/flhash/pkg/logger"
	"github.com/spf13/cobra"
)

func GetRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flhash",
		Short: "flhash converts Freelancer nicknames to hash codes and back.",
		Long: `The flhash command converts between the nicknames used in Freelancer data files
and the hash codes the game engine stores.
Hashing works without any data; reverse lookups scan a data directory and
collect every nickname defined in its .ini files.

The data directory is taken from, in increasing priority:
- 'directory' in flhash.toml (or the file named by --config / FLHASH_CONFIG)
- the FLHASH_DIR environment variable
- the --dir flag`,
		SilenceUsage:      true,
		PersistentPreRunE: initLogging,
	}

	flags := cmd.PersistentFlags()
	flags.StringP("dir", "d", "", "Data directory to scan")
	flags.StringP("config", "c", "", "Configuration file (default ./flhash.toml if present)")
	flags.String("encoding", "", "Encoding of the .ini files: utf-8 or windows-1252")
	flags.Bool("skip-invalid", false, "Skip files that cannot be parsed instead of failing")
	flags.CountP("verbose", "v", "Log progress (-v) or debug details (-vv) to stderr")

	cmd.AddCommand(
		GetHashCommand(),
		GetFactionCommand(),
		GetLookupCommand(),
		GetListCommand(),
		GetDumpCommand(),
		GetWatchCommand(),
		GetVersionCommand(),
	)

	return cmd
}

func initLogging(cmd *cobra.Command, args []string) error {
	verbose, err := cmd.Flags().GetCount("verbose")
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	switch {
	case verbose >= 2:
		level = slog.LevelDebug
	case verbose == 1:
		level = slog.LevelInfo
	}

	logger.Init(logger.Options{
		Enabled: true,
		Output:  cmd.ErrOrStderr(),
		Level:   level,
	})
	return nil
}
