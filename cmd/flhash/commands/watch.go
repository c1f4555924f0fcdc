package commands

import (
	"bufio"
	"strings"
	"time"

	"github.com/burgrp-go/flhash/pkg/logger"
	"github.com/burgrp-go/flhash/pkg/registry"
	"github.com/burgrp-go/flhash/pkg/watch"
	"github.com/spf13/cobra"
)

func GetWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the registry up to date while the data changes",
		Long: `Scans the data directory and rescans it whenever an .ini file changes.
With --stay flag, hash codes are read from stdin and answered from the current registry.
The command runs until interrupted.`,
		RunE: runWatch,
	}

	cmd.Flags().BoolP("stay", "s", false, "Read hash codes from stdin and print their nicknames")
	cmd.Flags().DurationP("debounce", "t", 0, "Quiet period after a change before rescanning")
	cmd.Args = cobra.NoArgs

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {

	env, err := GetEnvironment(cmd)
	if err != nil {
		return err
	}

	stay, err := cmd.Flags().GetBool("stay")
	if err != nil {
		return err
	}

	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return err
	}
	if debounce == 0 && env.DebounceMs > 0 {
		debounce = time.Duration(env.DebounceMs) * time.Millisecond
	}

	reg, err := env.BuildRegistry()
	if err != nil {
		return err
	}

	w, err := watch.New(reg, watch.Options{
		Debounce: debounce,
		OnRebuild: func(stats registry.Stats, err error) {
			if err == nil {
				logger.L.Info("registry rebuilt", "entries", stats.Entries, "collisions", stats.Collisions)
			}
		},
	})
	if err != nil {
		return err
	}

	if err := w.Start(cmd.Context()); err != nil {
		return err
	}
	defer w.Stop()

	lines := make(chan string)
	if stay {
		go func() {
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				select {
				case lines <- scanner.Text():
				case <-cmd.Context().Done():
					return
				}
			}
		}()
	}

	out := cmd.OutOrStdout()

Loop:
	for {
		select {
		case line := <-lines:
			line = strings.TrimSpace(line)
			if line != "" {
				printLookup(out, reg, line)
			}
		case <-cmd.Context().Done():
			break Loop
		}
	}

	return nil
}
