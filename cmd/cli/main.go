package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/iho/payengine/internal/adapter/csvio"
	"github.com/iho/payengine/internal/engine"
	"github.com/iho/payengine/internal/infrastructure/config"
	"github.com/iho/payengine/internal/infrastructure/logger"
	"github.com/iho/payengine/internal/infrastructure/metrics"
)

var (
	outputPath  string
	metricsPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "payengine",
		Short: "Payments engine CLI",
		Long:  `A command line payments engine that replays a CSV transaction stream and prints the final state of every client account.`,
	}

	processCmd := &cobra.Command{
		Use:   "process [input.csv]",
		Short: "Process a transaction stream and print the account table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(args[0])
		},
		SilenceUsage: true,
	}
	processCmd.Flags().StringVarP(&outputPath, "output", "o", "-", "Output path for the account table (- for stdout)")
	processCmd.Flags().StringVar(&metricsPath, "metrics-file", "", "Prometheus textfile to write run metrics to")

	rootCmd.AddCommand(processCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runProcess(inputPath string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}, os.Stderr).
		With().
		Str("run_id", ulid.Make().String()).
		Logger()

	if metricsPath == "" {
		metricsPath = cfg.MetricsFile
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input %s: %w", inputPath, err)
	}
	defer in.Close()

	log.Info().Str("input", inputPath).Msg("starting run")

	eng := engine.New(log)
	reader := csvio.NewReader(in, log)

	for {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read input %s: %w", inputPath, err)
		}

		eng.Apply(rec)
	}

	out := io.Writer(os.Stdout)
	if outputPath != "" && outputPath != "-" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("create output %s: %w", outputPath, err)
		}
		defer f.Close()
		out = f
	}

	if err := csvio.WriteAccounts(out, eng.Accounts().Sorted()); err != nil {
		return fmt.Errorf("write account table: %w", err)
	}

	if err := csvio.ReportFaults(os.Stderr, eng.Faults()); err != nil {
		return fmt.Errorf("report faults: %w", err)
	}

	stats := eng.Stats()
	if metricsPath != "" {
		m := metrics.New()
		recordMetrics(m, eng, stats, reader.Skipped())
		if err := m.WriteTextfile(metricsPath); err != nil {
			return fmt.Errorf("write metrics %s: %w", metricsPath, err)
		}
	}

	log.Info().
		Int("records", stats.Records).
		Int("applied", stats.Applied).
		Int("skipped", stats.Skipped).
		Int("faults", stats.Faults).
		Int("malformed_rows", reader.Skipped()).
		Int("accounts", eng.Accounts().Len()).
		Int("ledger_entries", eng.LedgerSize()).
		Msg("run complete")

	return nil
}

// recordMetrics copies end-of-run engine statistics into the counters.
func recordMetrics(m *metrics.Metrics, eng *engine.Engine, stats engine.Stats, malformed int) {
	for kind, n := range stats.ByKind {
		m.Records.WithLabelValues(string(kind)).Add(float64(n))
	}

	m.Applied.Add(float64(stats.Applied))

	for reason, n := range stats.SkipReasons {
		m.Skipped.WithLabelValues(reason).Add(float64(n))
	}

	m.Faults.Add(float64(stats.Faults))
	m.MalformedRows.Add(float64(malformed))
	m.Accounts.Set(float64(eng.Accounts().Len()))
	m.LedgerEntries.Set(float64(eng.LedgerSize()))
}
