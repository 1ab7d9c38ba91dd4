package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/psantana5/tsperf-matrix/internal/report"
	"github.com/psantana5/tsperf-matrix/pkg/catalog"
	"github.com/psantana5/tsperf-matrix/pkg/emit"
	"github.com/psantana5/tsperf-matrix/pkg/generate"
	"github.com/psantana5/tsperf-matrix/pkg/logging"
)

var (
	// Custom preset flags
	customKinds      []string
	customHosts      []string
	customScenarios  []string
	customIterations int
)

// matrixCmd represents the matrix command
var matrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "Generate the benchmark job matrix for a preset",
	Long: `Expand a preset into one job per (kind, host, scenario) and print the
matrix as pipeline output variables, one variable per agent bucket.

Baselining is enabled by USE_BASELINE_MACHINE=TRUE (or --baseline). In that
mode every job is pinned to the agent recorded for its scenario; otherwise all
jobs go to the "any" bucket.

Example:
  tsperf matrix --preset full
  USE_BASELINE_MACHINE=TRUE tsperf matrix --preset regular
  tsperf matrix --preset custom --hosts node18 --scenarios Angular,xstate --iterations 3
  tsperf matrix --preset bun --format json --output-file matrix.json`,
	RunE: runMatrix,
}

func init() {
	rootCmd.AddCommand(matrixCmd)

	flags := matrixCmd.Flags()
	flags.String("preset", "", "preset name (full, regular, tsc-only, bun, vscode, custom)")
	flags.Bool("baseline", false, "pin jobs to their baseline agents (overrides USE_BASELINE_MACHINE)")
	flags.String("format", string(emit.FormatAzure), "output format: azure, github, json, yaml")
	flags.String("output-file", "", "write output to a file instead of stdout")
	flags.Bool("summary", false, "print a per-agent summary table to stderr")
	flags.Bool("strict", false, "fail when two jobs sanitize to the same name")
	flags.String("metrics-file", "", "write Prometheus textfile metrics for the matrix")

	flags.StringSliceVar(&customKinds, "kinds", nil, "custom preset: job kinds (default all)")
	flags.StringSliceVar(&customHosts, "hosts", nil, "custom preset: host aliases or ids")
	flags.StringSliceVar(&customScenarios, "scenarios", nil, "custom preset: scenario names (default all)")
	flags.IntVar(&customIterations, "iterations", 0, "custom preset: iterations (default catalog default)")

	bindFlags(flags, map[string]string{
		"preset":               "preset",
		"use_baseline_machine": "baseline",
		"format":               "format",
		"output_file":          "output-file",
		"summary":              "summary",
		"strict":               "strict",
		"metrics_file":         "metrics-file",
	})
}

// matrixOptions is the resolved configuration of one matrix run
type matrixOptions struct {
	Request     generate.Request
	Format      emit.Format
	OutputFile  string
	GitHubFile  string
	Summary     bool
	MetricsFile string
}

func runMatrix(cmd *cobra.Command, args []string) error {
	c, err := loadCatalog()
	if err != nil {
		return err
	}

	opts := matrixOptionsFromConfig()

	return writeMatrix(generate.New(c), opts, cmd.OutOrStdout(), cmd.ErrOrStderr(), newLogger())
}

// matrixOptionsFromConfig resolves a matrix run from flags, TSPERF_* env
// variables and the config file
func matrixOptionsFromConfig() matrixOptions {
	return matrixOptions{
		Request: generate.Request{
			Preset:     viper.GetString("preset"),
			Baselining: baselining(),
			Strict:     viper.GetBool("strict"),
			Custom: catalog.CustomRequest{
				Kinds:      customKinds,
				Hosts:      customHosts,
				Scenarios:  customScenarios,
				Iterations: customIterations,
			},
		},
		Format:      emit.Format(strings.ToLower(viper.GetString("format"))),
		OutputFile:  viper.GetString("output_file"),
		GitHubFile:  viper.GetString("github_output"),
		Summary:     viper.GetBool("summary"),
		MetricsFile: viper.GetString("metrics_file"),
	}
}

// writeMatrix generates the matrix and writes it out. The whole output is
// rendered before anything is written, so a failure leaves stdout empty.
func writeMatrix(g *generate.Generator, opts matrixOptions, stdout, stderr io.Writer, logger *logging.Logger) error {
	doc, err := g.Generate(opts.Request)
	if err != nil {
		return err
	}
	logger = logger.WithField("run_id", doc.RunID)

	var buf bytes.Buffer
	emitter, err := emit.New(opts.Format, &buf)
	if err != nil {
		return err
	}
	if err := emitter.Emit(doc); err != nil {
		return err
	}

	switch {
	case opts.OutputFile != "":
		if err := os.WriteFile(opts.OutputFile, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		logger.Info("matrix written", map[string]interface{}{"path": opts.OutputFile})
	case opts.Format == emit.FormatGitHub && opts.GitHubFile != "":
		if err := appendFile(opts.GitHubFile, buf.Bytes()); err != nil {
			return fmt.Errorf("failed to write GITHUB_OUTPUT: %w", err)
		}
	default:
		if _, err := buf.WriteTo(stdout); err != nil {
			return err
		}
	}

	report.LogDocument(logger, doc)

	if opts.Summary {
		if err := emit.WriteSummary(stderr, doc); err != nil {
			return fmt.Errorf("failed to render summary: %w", err)
		}
	}

	if opts.MetricsFile != "" {
		metrics := report.NewMetrics()
		metrics.RecordDocument(doc)
		if err := report.WriteTextfile(opts.MetricsFile, metrics.Registry()); err != nil {
			return err
		}
		logger.Debug("metrics written", map[string]interface{}{"path": opts.MetricsFile})
	}

	return nil
}

func appendFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
