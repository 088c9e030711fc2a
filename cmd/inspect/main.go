package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	inspectcmd "github.com/vetlewi/histogram/internal/cmd/inspect"
	"github.com/vetlewi/histogram/internal/platform/config"
)

func main() {
	cfg, err := inspectcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := inspectcmd.Run(ctx, cfg, os.Stdout); err != nil {
		config.Exitf("inspect histograms: %v", err)
	}
}
