package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/livefeed/app/feed"
	"github.com/dmitrymomot/livefeed/core/config"
	"github.com/dmitrymomot/livefeed/core/logger"
)

type serveOptions struct {
	Addr        string
	Capacity    int
	Interval    time.Duration
	NoGenerator bool
	Backlog     int
	KeepAlive   time.Duration
	LogLevel    string
	Env         string
}

func newServeCmd() *cobra.Command {
	return newServeCmdWithOptions(&serveOptions{})
}

func newServeCmdWithOptions(opts *serveOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Example: `  # Serve with settings from the environment
  livefeed serve

  # Custom port and a faster generator
  livefeed serve --addr :8080 --interval 250ms

  # Publish only through POST /api/messages
  livefeed serve --no-generator`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var cfg feed.Config
			if err := config.Load(&cfg); err != nil {
				return err
			}
			applyFlags(cmd, opts, &cfg)

			app, err := feed.New(cfg)
			if err != nil {
				return err
			}
			logger.SetAsDefault(app.Logger())
			return app.Run(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Addr, "addr", "", "Listen address (SERVER_ADDR)")
	flags.IntVar(&opts.Capacity, "capacity", 0, "Backlog capacity (BROADCAST_QUEUE_CAPACITY)")
	flags.DurationVar(&opts.Interval, "interval", 0, "Generator interval (GENERATOR_INTERVAL)")
	flags.BoolVar(&opts.NoGenerator, "no-generator", false, "Do not start the generator on boot")
	flags.IntVar(&opts.Backlog, "backlog", 0, "Messages replayed to new clients (STREAM_BACKLOG_SIZE)")
	flags.DurationVar(&opts.KeepAlive, "keepalive", 0, "Stream keepalive interval (STREAM_KEEPALIVE)")
	flags.StringVar(&opts.LogLevel, "log-level", "", "Log level: debug, info, warn, error (LOG_LEVEL)")
	flags.StringVar(&opts.Env, "env", "", "Environment name (APP_ENV)")

	_ = cmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// applyFlags overrides cfg with flags set on the command line.
func applyFlags(cmd *cobra.Command, opts *serveOptions, cfg *feed.Config) {
	flags := cmd.Flags()

	if flags.Changed("addr") {
		cfg.Server.Addr = opts.Addr
	}
	if flags.Changed("capacity") {
		cfg.Broadcast.Capacity = opts.Capacity
	}
	if flags.Changed("interval") {
		cfg.Generator.Interval = opts.Interval
	}
	if flags.Changed("no-generator") {
		cfg.Generator.AutoStart = !opts.NoGenerator
	}
	if flags.Changed("backlog") {
		cfg.Stream.Backlog = opts.Backlog
	}
	if flags.Changed("keepalive") {
		cfg.Stream.KeepAlive = opts.KeepAlive
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logger.ParseLevel(opts.LogLevel).String()
	}
	if flags.Changed("env") {
		cfg.Env = opts.Env
	}
}
