package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"regionping/internal/config"
	"regionping/internal/exporter"
	"regionping/internal/prober"
	"regionping/internal/reporter"
	"regionping/internal/retry"
)

func main() {
	app := &cli.App{
		Name:  "regionping",
		Usage: "Cloud region latency measurement tool",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "",
				Usage:   "YAML config path (optional; built-in region registry by default)",
			},
			&cli.Float64Flag{
				Name:  "interval-seconds",
				Value: 0,
				Usage: "Seconds between sampling rounds (overrides config)",
			},
			&cli.Float64Flag{
				Name:  "duration-minutes",
				Value: -1,
				Usage: "Length of the timed collection window in minutes (overrides config)",
			},
			&cli.StringFlag{
				Name:  "timeout",
				Value: "",
				Usage: "Per-request timeout, e.g. 10s (overrides config)",
			},
			&cli.StringSliceFlag{
				Name:    "region",
				Aliases: []string{"r"},
				Usage:   "Probe only the named regions (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "list-regions",
				Value: false,
				Usage: "Print the region registry and exit",
			},
			&cli.StringSliceFlag{
				Name:    "export-formats",
				Aliases: []string{"e"},
				Usage:   "Export formats: csv, json, html",
			},
			&cli.StringFlag{
				Name:  "export-dir",
				Value: "reports",
				Usage: "Export directory path",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "",
				Usage:   "Excel report path (empty = no Excel report)",
			},
			&cli.StringFlag{
				Name:  "socks5",
				Value: "",
				Usage: "SOCKS5 proxy address for all probes",
			},
			&cli.BoolFlag{
				Name:  "tls-compat",
				Value: false,
				Usage: "Retry failed probes under older TLS versions (compatibility shim)",
			},
			&cli.BoolFlag{
				Name:  "parallel",
				Value: false,
				Usage: "Sample all regions concurrently within each round",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Value:   false,
				Usage:   "Enable debug logging",
			},
		},
		Action: runProbe,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runProbe(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlagOverrides(cfg, c)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Bool("list-regions") {
		listRegions(cfg)
		return nil
	}

	if regions := c.StringSlice("region"); len(regions) > 0 {
		if err := cfg.RestrictRegions(regions); err != nil {
			return err
		}
	}

	enabled := cfg.EnabledRegions()
	if len(enabled) == 0 {
		return fmt.Errorf("no regions enabled")
	}

	log, err := newLogger(cfg.Settings.Verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	endpoints := make([]prober.Endpoint, 0, len(enabled))
	for _, r := range enabled {
		endpoints = append(endpoints, prober.Endpoint{
			Name:      r.Name,
			Geography: r.Geography,
			URL:       r.URL,
		})
	}

	client, err := prober.NewClient(prober.ClientOptions{
		Timeout:   cfg.Timeout(),
		SOCKS5:    cfg.Settings.SOCKS5,
		TLSCompat: cfg.Settings.TLSCompat,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to create probe client: %w", err)
	}
	defer client.Close()

	// Handle signals: a cancelled run still reports what it collected.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\nInterrupt received, stopping after the current round...")
		cancel()
	}()

	fmt.Printf("\n========================================\n")
	fmt.Printf("Cloud region latency test\n")
	fmt.Printf("========================================\n")
	fmt.Printf("Regions:  %d\n", len(endpoints))
	fmt.Printf("Interval: %.0fs\n", cfg.Settings.IntervalSeconds)
	fmt.Printf("Duration: %.1f min\n", cfg.Settings.DurationMinutes)
	fmt.Printf("========================================\n\n")

	fmt.Println("Checking connectivity...")
	if err := prober.Preflight(ctx, client, endpoints, retry.DefaultConfig(), log); err != nil {
		return err
	}

	runner := prober.NewRunner(client, endpoints, prober.RunConfig{
		Interval:     cfg.Interval(),
		Duration:     cfg.Duration(),
		WarmupRounds: cfg.Settings.WarmupRounds,
		Parallel:     cfg.Settings.Parallel,
	}, log)

	fmt.Printf("Warming up (%d rounds)...\n", cfg.Settings.WarmupRounds)
	result := runner.Run(ctx)
	if result.Cancelled {
		fmt.Println("\nRun cancelled; reporting collected samples.")
	}

	summaries := prober.Summarize(result)

	fmt.Printf("\n")
	exporter.WriteTable(os.Stdout, summaries)
	fmt.Printf("\nCompleted %d rounds in %s\n\n",
		result.Rounds, result.EndTime.Sub(result.StartTime).Round(time.Second))

	if formatsRaw := c.StringSlice("export-formats"); len(formatsRaw) > 0 {
		var formats []exporter.ExportFormat
		for _, raw := range formatsRaw {
			format, err := exporter.ParseFormat(strings.ToLower(strings.TrimSpace(raw)))
			if err != nil {
				return err
			}
			formats = append(formats, format)
		}

		exp := exporter.NewExporter(c.String("export-dir"))
		if err := exp.Export(result, summaries, formats); err != nil {
			return fmt.Errorf("failed to export results: %w", err)
		}
	}

	if outputPath := c.String("output"); outputPath != "" {
		excelReporter := reporter.NewExcelReporter()
		if err := excelReporter.GenerateReport(result, summaries, outputPath); err != nil {
			return fmt.Errorf("failed to generate Excel report: %w", err)
		}
		fmt.Printf("Excel report saved to: %s\n", outputPath)
	}

	return nil
}

// applyFlagOverrides layers CLI flags over file/env configuration.
func applyFlagOverrides(cfg *config.Config, c *cli.Context) {
	if v := c.Float64("interval-seconds"); v > 0 {
		cfg.Settings.IntervalSeconds = v
	}
	if v := c.Float64("duration-minutes"); v >= 0 {
		cfg.Settings.DurationMinutes = v
	}
	if v := c.String("timeout"); v != "" {
		cfg.Settings.RequestTimeout = v
	}
	if v := c.String("socks5"); v != "" {
		cfg.Settings.SOCKS5 = v
	}
	if c.Bool("tls-compat") {
		cfg.Settings.TLSCompat = true
	}
	if c.Bool("parallel") {
		cfg.Settings.Parallel = true
	}
	if c.Bool("verbose") {
		cfg.Settings.Verbose = true
	}
}

func listRegions(cfg *config.Config) {
	fmt.Printf("%-22s %-14s %s\n", "REGION", "GEOGRAPHY", "URL")
	for _, r := range cfg.Regions {
		fmt.Printf("%-22s %-14s %s\n", r.Name, r.Geography, r.URL)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	logCfg := zap.NewDevelopmentConfig()
	if !verbose {
		logCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	return logCfg.Build()
}
