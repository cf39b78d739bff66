package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/listmonitor/core/config"
	"github.com/tailored-agentic-units/listmonitor/monitor"
	"github.com/tailored-agentic-units/listmonitor/service"
)

func newRunCmd() *cobra.Command {
	var (
		configFile string
		source     string
		interval   time.Duration
		addr       string
		seed       bool
		trace      string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Monitor the list until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := service.DefaultConfig()
			if configFile != "" {
				loaded, err := service.LoadConfig(configFile)
				if err != nil {
					return err
				}
				cfg = *loaded
			}

			flags := cmd.Flags()
			if flags.Changed("source") {
				cfg.SDN.Source = source
			}
			if flags.Changed("interval") {
				cfg.Monitor.Interval = config.NewDuration(interval)
			}
			if flags.Changed("addr") {
				cfg.Status.Addr = addr
			}
			if flags.Changed("seed") {
				cfg.Seed = seed
			}
			if flags.Changed("trace") {
				cfg.Observability.Tracing.Exporter = trace
			}

			return runMonitor(cmd, &cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "path to a JSON or YAML config file")
	flags.StringVar(&source, "source", "", "SDN.xml file path or URL (overrides config)")
	flags.DurationVar(&interval, "interval", monitor.DefaultInterval, "pause between checks (overrides config)")
	flags.StringVar(&addr, "addr", "", `status server address; empty disables it (overrides config)`)
	flags.BoolVar(&seed, "seed", false, "take the first read as the baseline instead of reporting it as added")
	flags.StringVar(&trace, "trace", "", "trace exporter: none, stdout, or otlp (overrides config)")

	return cmd
}

func runMonitor(cmd *cobra.Command, cfg *service.Config) error {
	gin.SetMode(gin.ReleaseMode)

	logger := newLogger(cmd, os.Stderr)
	out := cmd.OutOrStdout()

	svc, err := service.New(cfg,
		service.WithLogger(logger),
		service.WithChangeFunc(func(_ context.Context, n monitor.Notification) {
			printUpdate(out, n.Summary, n.At)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printStart(out, cfg.SDN.Source, time.Now())

	runErr := svc.Run(ctx)

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := svc.Close(closeCtx); err != nil {
		logger.Warn("shutdown incomplete", "error", err)
	}

	if runErr != nil {
		return fmt.Errorf("monitoring stopped: %w", runErr)
	}
	return nil
}
