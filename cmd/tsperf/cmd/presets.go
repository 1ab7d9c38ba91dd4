package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/psantana5/tsperf-matrix/pkg/catalog"
	"github.com/psantana5/tsperf-matrix/pkg/models"
)

var presetsOutput string

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Inspect the benchmark presets",
	Long:  `Commands for listing and describing the presets of the active catalog.`,
}

var presetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all presets",
	RunE:  runPresetsList,
}

var presetsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show the hosts, iterations and scenarios of a preset",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresetsShow,
}

func init() {
	rootCmd.AddCommand(presetsCmd)
	presetsCmd.AddCommand(presetsListCmd)
	presetsCmd.AddCommand(presetsShowCmd)

	presetsCmd.PersistentFlags().StringVarP(&presetsOutput, "output", "o", "table", "output format: table, json, yaml")
}

func runPresetsList(cmd *cobra.Command, args []string) error {
	c, err := loadCatalog()
	if err != nil {
		return err
	}
	summaries := c.Summaries()

	switch presetsOutput {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	case "yaml":
		return yaml.NewEncoder(cmd.OutOrStdout()).Encode(summaries)
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header("Preset", "Kinds", "Hosts", "Jobs")
	for _, s := range summaries {
		table.Append(s.Name, joinKinds(s.Kinds), joinHosts(s.Hosts), fmt.Sprintf("%d", s.JobCount))
	}
	return table.Render()
}

type presetEntryView struct {
	Kind       models.JobKind  `json:"kind" yaml:"kind"`
	Hosts      []models.HostID `json:"hosts" yaml:"hosts"`
	Iterations int             `json:"iterations" yaml:"iterations"`
	Scenarios  []string        `json:"scenarios" yaml:"scenarios"`
}

func runPresetsShow(cmd *cobra.Command, args []string) error {
	c, err := loadCatalog()
	if err != nil {
		return err
	}
	preset, err := c.Resolve(args[0])
	if err != nil {
		return err
	}

	var entries []presetEntryView
	for _, kind := range preset.Kinds(c.Kinds()) {
		e := preset[kind]
		entries = append(entries, presetEntryView{
			Kind:       kind,
			Hosts:      e.Hosts,
			Iterations: e.Iterations,
			Scenarios:  e.ScenarioNames(),
		})
	}

	switch presetsOutput {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml":
		return yaml.NewEncoder(cmd.OutOrStdout()).Encode(entries)
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header("Kind", "Hosts", "Iterations", "Scenarios")
	for _, e := range entries {
		table.Append(string(e.Kind), joinHosts(e.Hosts), fmt.Sprintf("%d", e.Iterations), strings.Join(e.Scenarios, ", "))
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d jobs\n", preset.JobCount())
	return nil
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Work with catalog files",
}

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the active catalog in catalog file form",
	Long: `Print the active catalog as YAML (or JSON with --output json). The output
can be edited and passed back with --catalog.`,
	RunE: runCatalogExport,
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a catalog file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := catalog.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d presets)\n", args[0], len(c.Names()))
		return nil
	},
}

var catalogOutput string

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogExportCmd)
	catalogCmd.AddCommand(catalogValidateCmd)

	catalogExportCmd.Flags().StringVarP(&catalogOutput, "output", "o", "yaml", "output format: yaml, json")
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	c, err := loadCatalog()
	if err != nil {
		return err
	}
	fc := catalog.Export(c)

	if catalogOutput == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(fc)
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(fc); err != nil {
		return err
	}
	return enc.Close()
}

func joinKinds(kinds []models.JobKind) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}

func joinHosts(hosts []models.HostID) string {
	parts := make([]string, len(hosts))
	for i, h := range hosts {
		parts[i] = string(h)
	}
	return strings.Join(parts, ", ")
}
