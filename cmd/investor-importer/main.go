package main

import (
	"context"
	"flag"
	"os"

	"github.com/venturehq/demoday/internal/platform/config"
	investorimporter "github.com/venturehq/demoday/internal/tools/importer/investors"
)

func main() {
	cfg, err := investorimporter.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	if err := investorimporter.Run(context.Background(), cfg, os.Stdout); err != nil {
		config.Exitf("Error: %v", err)
	}
}
