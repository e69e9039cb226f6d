// Package main provides the pling command: it sends one line of text to
// every notification channel configured by flags, a config file or the
// environment.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/kart-io/pling/pkg/cliflags"
	"github.com/kart-io/pling/pkg/config"
	"github.com/kart-io/pling/pkg/environ"
	"github.com/kart-io/pling/pkg/logger"
	"github.com/kart-io/pling/pkg/notifier"
	"github.com/kart-io/pling/pkg/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(environ.FromOS()).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(env environ.Env) *cli.App {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "text",
			Usage:   "The notification text to be sent",
			EnvVars: []string{"TEXT"},
			Value:   "Hello world",
		},
		&cli.StringFlag{
			Name:    "config",
			Usage:   "Read channels from a YAML or JSON `FILE`",
			EnvVars: []string{"PLING_CONFIG"},
		},
		&cli.BoolFlag{
			Name:  "no-env",
			Usage: "Do not discover channels from environment variables",
		},
		&cli.BoolFlag{
			Name:  "async",
			Usage: "Send to all channels concurrently",
		},
	}

	return &cli.App{
		Name:    "pling",
		Usage:   "send a notification to every configured channel",
		Version: config.Version,
		Flags:   append(flags, cliflags.Flags()...),
		Action: func(c *cli.Context) error {
			return run(c, env)
		},
	}
}

func run(c *cli.Context, env environ.Env) error {
	cfg, err := config.Load(env)
	if err != nil {
		return err
	}
	if c.IsSet("config") {
		cfg.File = c.String("config")
	}

	log, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	defer logger.Sync(log)

	tp, err := observability.NewTelemetryProvider(cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Warn("Telemetry shutdown failed", "error", err)
		}
	}()

	notifiers, err := collect(c, cfg, env, log)
	if err != nil {
		return err
	}
	if len(notifiers) == 0 {
		return cli.Exit("no notification channel configured", 2)
	}

	mode := notifier.Blocking
	if c.Bool("async") {
		mode = notifier.Async
	}

	d := notifier.NewDispatcherFromConfig(cfg, notifier.WithLogger(log), notifier.WithTelemetry(tp))
	if err := d.SendAll(c.Context, notifiers, c.String("text"), mode); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	return nil
}

// collect gathers channels from flags, then the config file, then the
// environment.
func collect(c *cli.Context, cfg *config.Config, env environ.Env, log logger.Logger) ([]notifier.Notifier, error) {
	args, err := cliflags.FromContext(c)
	if err != nil {
		return nil, err
	}
	notifiers := args.Notifiers()

	if cfg.File != "" {
		fromFile, err := notifier.LoadFile(cfg.File)
		if err != nil {
			return nil, err
		}
		log.Debug("Loaded channels from file", "file", cfg.File, "count", len(fromFile))
		notifiers = append(notifiers, fromFile...)
	}

	if !c.Bool("no-env") {
		notifiers = append(notifiers, notifier.DiscoverWith(notifier.NewRegistry(log), env)...)
	}
	return notifiers, nil
}
