package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/akshathkarthikn/footfall-tracker/internal/app"
	"github.com/akshathkarthikn/footfall-tracker/internal/config"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// main runs the CLI entrypoint and exits on unrecoverable command errors.
func main() {
	if errRun := run(os.Args[1:]); errRun != nil {
		log.WithError(errRun).Error("command failed")
		os.Exit(1)
	}
}

// run parses flags, loads config, and dispatches the serve, migrate, or
// backup command.
func run(args []string) error {
	// A missing .env file is fine; the environment still applies.
	_ = godotenv.Load()

	fs := flag.NewFlagSet("footfall", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "config file path (or env "+config.EnvConfigPath+")")
	if errParse := fs.Parse(args); errParse != nil {
		return errParse
	}

	cfg, err := config.Load(config.ResolveConfigPath(*cfgPath))
	if err != nil {
		return err
	}

	command := "serve"
	if rest := fs.Args(); len(rest) > 0 {
		command = strings.TrimSpace(rest[0])
	}

	switch command {
	case "serve":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return app.RunServer(ctx, cfg)
	case "migrate":
		return app.Migrate(context.Background(), cfg)
	case "backup":
		return app.Backup(cfg)
	default:
		return fmt.Errorf("unknown command %q (expected serve, migrate, or backup)", command)
	}
}
