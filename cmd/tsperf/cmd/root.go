package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/psantana5/tsperf-matrix/pkg/catalog"
	"github.com/psantana5/tsperf-matrix/pkg/logging"
)

var (
	cfgFile     string
	catalogFile string
	logLevel    string
	logJSON     bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tsperf",
	Short: "Benchmark job-matrix generator",
	Long: `tsperf expands a named benchmark preset into the job matrix consumed by the
TypeScript performance pipeline, one bucket of jobs per execution agent.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tsperf/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&catalogFile, "catalog", "", "catalog file (yaml or json) replacing the built-in catalog")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "write logs as JSON")

	bindFlags(rootCmd.PersistentFlags(), map[string]string{
		"catalog":   "catalog",
		"log_level": "log-level",
		"log_json":  "log-json",
	})
}

// bindFlags binds config keys to the named flags of fs
func bindFlags(fs *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		viper.BindPFlag(key, fs.Lookup(name))
	}
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".tsperf"))
		}
		viper.AddConfigPath(".tsperf")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Only TSPERF_* variables map onto config keys
	viper.SetEnvPrefix("TSPERF")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// Bind specific environment variables
	viper.BindEnv("use_baseline_machine", "USE_BASELINE_MACHINE")
	viper.BindEnv("preset", "TSPERF_PRESET")
	viper.BindEnv("catalog", "TSPERF_CATALOG")
	viper.BindEnv("github_output", "GITHUB_OUTPUT")

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
	}
}

// newLogger builds the logger from the resolved configuration
func newLogger() *logging.Logger {
	return logging.NewLogger(logging.ParseLevel(viper.GetString("log_level")), viper.GetBool("log_json"))
}

// loadCatalog returns the catalog file's catalog when one is configured,
// otherwise the built-in catalog
func loadCatalog() (*catalog.Catalog, error) {
	if path := viper.GetString("catalog"); path != "" {
		return catalog.Load(path)
	}
	return catalog.Default(), nil
}

// baselining reports whether USE_BASELINE_MACHINE (or --baseline) is "TRUE", ignoring case
func baselining() bool {
	v := viper.GetString("use_baseline_machine")
	if v == "" {
		v = "FALSE"
	}
	return strings.EqualFold(v, "TRUE")
}
