package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/psantana5/tsperf-matrix/pkg/models"
	"gopkg.in/yaml.v3"
)

// FileCatalog is the on-disk form of a catalog
type FileCatalog struct {
	Agents            []string       `yaml:"agents" json:"agents"`
	Reserved          string         `yaml:"reserved,omitempty" json:"reserved,omitempty"`
	DefaultIterations int            `yaml:"default_iterations" json:"default_iterations"`
	Hosts             []HostConfig   `yaml:"hosts" json:"hosts"`
	Scenarios         []KindConfig   `yaml:"scenarios" json:"scenarios"`
	Presets           []PresetConfig `yaml:"presets" json:"presets"`
}

// HostConfig declares a host id and an optional short alias
type HostConfig struct {
	Alias string `yaml:"alias,omitempty" json:"alias,omitempty"`
	ID    string `yaml:"id" json:"id"`
}

// KindConfig lists the scenarios of one job kind
type KindConfig struct {
	Kind      string            `yaml:"kind" json:"kind"`
	Scenarios []models.Scenario `yaml:"scenarios" json:"scenarios"`
}

// PresetConfig is a named preset
type PresetConfig struct {
	Name    string        `yaml:"name" json:"name"`
	Entries []EntryConfig `yaml:"entries" json:"entries"`
}

// EntryConfig selects hosts and scenarios for one kind of a preset.
// An empty Scenarios list selects every scenario of the kind; Exclude is applied afterwards.
// Iterations of 0 means the catalog default.
type EntryConfig struct {
	Kind       string   `yaml:"kind" json:"kind"`
	Hosts      []string `yaml:"hosts" json:"hosts"`
	Iterations int      `yaml:"iterations,omitempty" json:"iterations,omitempty"`
	Scenarios  []string `yaml:"scenarios,omitempty" json:"scenarios,omitempty"`
	Exclude    []string `yaml:"exclude,omitempty" json:"exclude,omitempty"`
}

// LoadFile reads a YAML or JSON catalog file
func LoadFile(path string) (*FileCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var fc FileCatalog
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format: %s", ext)
	}

	return &fc, nil
}

// Load reads, converts and validates a catalog file
func Load(path string) (*Catalog, error) {
	fc, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := fc.ToCatalog()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ToCatalog converts the file form into a Catalog. It resolves host aliases and
// scenario names but leaves consistency checks to Validate.
func (f *FileCatalog) ToCatalog() (*Catalog, error) {
	c := &Catalog{
		reserved:          models.AgentID(f.Reserved),
		defaultIterations: f.DefaultIterations,
		hostAliases:       make(map[string]models.HostID),
		scenarios:         make(map[models.JobKind][]models.Scenario),
		presets:           make(map[string]models.Preset),
	}
	if c.defaultIterations == 0 {
		c.defaultIterations = DefaultIterations
	}

	for _, a := range f.Agents {
		c.agents = append(c.agents, models.AgentID(a))
	}

	for _, h := range f.Hosts {
		id := models.HostID(h.ID)
		c.hosts = append(c.hosts, id)
		if h.Alias != "" {
			c.hostAliases[h.Alias] = id
		}
	}

	for _, k := range f.Scenarios {
		kind := models.JobKind(k.Kind)
		if _, dup := c.scenarios[kind]; dup {
			return nil, fmt.Errorf("%w: job kind %q declared twice", ErrInvalidCatalog, kind)
		}
		c.kinds = append(c.kinds, kind)
		c.scenarios[kind] = append([]models.Scenario(nil), k.Scenarios...)
	}

	for _, p := range f.Presets {
		if _, dup := c.presets[p.Name]; dup {
			return nil, fmt.Errorf("%w: preset %q declared twice", ErrInvalidCatalog, p.Name)
		}
		preset := make(models.Preset, len(p.Entries))
		for _, e := range p.Entries {
			kind := models.JobKind(e.Kind)
			if _, dup := preset[kind]; dup {
				return nil, fmt.Errorf("%w: preset %q declares %s twice", ErrInvalidCatalog, p.Name, kind)
			}
			entry, err := c.entry(kind, e)
			if err != nil {
				return nil, fmt.Errorf("preset %q: %w", p.Name, err)
			}
			preset[kind] = entry
		}
		c.presets[p.Name] = preset
		c.presetOrder = append(c.presetOrder, p.Name)
	}

	return c, nil
}

func (c *Catalog) entry(kind models.JobKind, e EntryConfig) (models.PresetEntry, error) {
	entry := models.PresetEntry{Iterations: e.Iterations}
	if entry.Iterations == 0 {
		entry.Iterations = c.defaultIterations
	}

	for _, name := range e.Hosts {
		id, ok := c.Host(name)
		if !ok {
			return entry, fmt.Errorf("%w: %q", ErrUnknownHost, name)
		}
		entry.Hosts = append(entry.Hosts, id)
	}

	scenarios, err := c.selectScenarios(kind, e.Scenarios)
	if err != nil {
		return entry, err
	}
	for _, name := range e.Exclude {
		if !c.hasScenario(kind, name) {
			return entry, fmt.Errorf("%w: %s exclude %q", ErrUnknownScenario, kind, name)
		}
		scenarios = without(scenarios, name)
	}
	entry.Scenarios = scenarios

	return entry, nil
}

func (c *Catalog) selectScenarios(kind models.JobKind, names []string) ([]models.Scenario, error) {
	all := c.scenarios[kind]
	if len(names) == 0 {
		return append([]models.Scenario(nil), all...), nil
	}

	out := make([]models.Scenario, 0, len(names))
	for _, name := range names {
		found := false
		for _, s := range all {
			if s.Name == name {
				out = append(out, s)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %s scenario %q", ErrUnknownScenario, kind, name)
		}
	}
	return out, nil
}

func (c *Catalog) hasScenario(kind models.JobKind, name string) bool {
	for _, s := range c.scenarios[kind] {
		if s.Name == name {
			return true
		}
	}
	return false
}

// Export converts a Catalog back into its file form
func Export(c *Catalog) *FileCatalog {
	f := &FileCatalog{
		Reserved:          string(c.reserved),
		DefaultIterations: c.defaultIterations,
	}
	for _, a := range c.agents {
		f.Agents = append(f.Agents, string(a))
	}

	aliases := make(map[models.HostID]string, len(c.hostAliases))
	for alias, id := range c.hostAliases {
		aliases[id] = alias
	}
	for _, h := range c.hosts {
		f.Hosts = append(f.Hosts, HostConfig{Alias: aliases[h], ID: string(h)})
	}

	for _, kind := range c.kinds {
		f.Scenarios = append(f.Scenarios, KindConfig{
			Kind:      string(kind),
			Scenarios: append([]models.Scenario(nil), c.scenarios[kind]...),
		})
	}

	for _, name := range c.presetOrder {
		preset := c.presets[name]
		pc := PresetConfig{Name: name}
		for _, kind := range preset.Kinds(c.kinds) {
			e := preset[kind]
			ec := EntryConfig{
				Kind:       string(kind),
				Iterations: e.Iterations,
				Scenarios:  e.ScenarioNames(),
			}
			for _, h := range e.Hosts {
				ec.Hosts = append(ec.Hosts, string(h))
			}
			pc.Entries = append(pc.Entries, ec)
		}
		f.Presets = append(f.Presets, pc)
	}

	return f
}
