// benchgraph renders the serialization benchmark comparison graph.
//
// Main CLI entrypoint using cobra command framework. Run with no arguments
// to regenerate docs/images/benchmark_graph.svg.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sdj7072/masked4j/internal/chart"
	"github.com/sdj7072/masked4j/internal/config"
	"github.com/sdj7072/masked4j/internal/output"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "benchgraph",
		Short: "Render the serialization throughput graph as SVG",
		Long: `benchgraph draws a horizontal bar chart comparing benchmark throughput
(vanilla vs. masked serialization by default) and writes it to
docs/images/benchmark_graph.svg.

Layout, data and output path can be changed through an optional YAML config
file or BENCHGRAPH_* environment variables.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cfg.Logging, cmd.ErrOrStderr())
			logOverrides(logger, cfg)
			return generate(cfg, cmd.OutOrStdout(), logger)
		},
	}

	rootCmd.Flags().String("config", "", "config file path (default: ./config/benchgraph.yaml)")
	rootCmd.Flags().StringP("output", "o", "", "output SVG path (default: "+config.DefaultOutputPath+")")
	rootCmd.Flags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// loadConfig reads the config file named by --config, or searches the
// default locations, then applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	configFile, _ := cmd.Flags().GetString("config")
	if configFile != "" {
		cfg, err = config.LoadFromFile(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if out, _ := cmd.Flags().GetString("output"); out != "" {
		cfg.Output.Path = out
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	return cfg, nil
}

// logOverrides reports anything that changes the reference graph without a
// command-line flag.
func logOverrides(logger *slog.Logger, cfg *config.Config) {
	if cfg.Source != "" {
		logger.Info("using config file", "path", cfg.Source)
	}
	if len(cfg.EnvOverrides) > 0 {
		logger.Info("environment overrides applied", "vars", cfg.EnvOverrides)
	}
}

// generate renders the configured chart fully in memory, then writes it.
func generate(cfg *config.Config, stdout io.Writer, logger *slog.Logger) error {
	layout := cfg.Layout()
	points := cfg.Points()
	logger.Debug("rendering chart",
		"points", len(points),
		"width", layout.Width,
		"height", layout.Height,
		"chart_width", layout.ChartWidth(),
		"max_value", chart.MaxValue(points))

	doc, err := chart.BarChart(points, layout)
	if err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	if err := output.WriteFile(cfg.Output.Path, []byte(doc)); err != nil {
		return err
	}
	logger.Debug("chart written", "path", cfg.Output.Path, "bytes", len(doc))

	fmt.Fprintf(stdout, "Generated %s\n", cfg.Output.Path)
	return nil
}

// --- Version Command ---

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "benchgraph %s\n", version)
			fmt.Fprintf(out, "  commit:  %s\n", commit)
			fmt.Fprintf(out, "  built:   %s\n", date)
		},
	}
}
