package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/burgrp-go/flhash/cmd/flhash/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := commands.GetRootCommand().ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}
