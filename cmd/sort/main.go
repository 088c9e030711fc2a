package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	sortcmd "github.com/vetlewi/histogram/internal/cmd/sort"
)

func main() {
	cfg, err := sortcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[SORT] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := sortcmd.Run(ctx, cfg, os.Stderr)
	if err != nil {
		log.Fatalf("failed to sort: %v", err)
	}
	log.Printf("sorted %d lines: %d filled, %d skipped", summary.Lines, summary.Filled, summary.Skipped)
}
