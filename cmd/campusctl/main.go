// Package main provides the campusctl CLI entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/campusadmin/campusctl/internal/cli"
	"github.com/campusadmin/campusctl/internal/config"
	"github.com/campusadmin/campusctl/internal/logger"
)

// Version information (populated at build time)
var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	configDir   string
	baseURL     string
	verbose     bool
	showVersion bool
)

func init() {
	flag.StringVar(&configDir, "config", "", "Directory containing campusctl.toml")
	flag.StringVar(&configDir, "c", "", "Directory containing campusctl.toml (shorthand)")
	flag.StringVar(&baseURL, "backend", "", "Backend base URL (overrides configuration)")
	flag.BoolVar(&verbose, "verbose", false, "Enable debug logging")
	flag.BoolVar(&verbose, "v", false, "Enable debug logging (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Printf("campusctl %s (built %s)\n", version, buildTime)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "campusctl: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var paths []string
	if configDir != "" {
		paths = append(paths, configDir)
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		return err
	}
	if baseURL != "" {
		cfg.Backend.BaseURL = config.ResolveBaseURL(baseURL, "")
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	log := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer log.Sync() //nolint:errcheck

	app, err := cli.NewApp(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.Run(ctx)
}
