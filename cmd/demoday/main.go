// Package main provides the demo-day admin command.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	demodaycmd "github.com/venturehq/demoday/internal/cmd/demoday"
	"github.com/venturehq/demoday/internal/platform/config"
)

func main() {
	cfg, err := demodaycmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	if err := demodaycmd.Run(ctx, cfg, os.Stdout); err != nil {
		config.Exitf("Error: %v", err)
	}
}
