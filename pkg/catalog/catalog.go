package catalog

import (
	"sort"

	"github.com/psantana5/tsperf-matrix/pkg/models"
)

// Catalog is the vocabulary of agents, hosts, scenarios and presets.
// A Catalog is never modified after construction; accessors return copies.
type Catalog struct {
	agents            []models.AgentID
	reserved          models.AgentID
	defaultIterations int
	hostAliases       map[string]models.HostID
	hosts             []models.HostID
	kinds             []models.JobKind
	scenarios         map[models.JobKind][]models.Scenario
	presets           map[string]models.Preset
	presetOrder       []string
}

// Agents returns every named agent, reserved one included, in pipeline order.
// The synthetic "any" agent is not part of the list.
func (c *Catalog) Agents() []models.AgentID {
	return append([]models.AgentID(nil), c.agents...)
}

// Reserved returns the agent kept free of baseline work
func (c *Catalog) Reserved() models.AgentID {
	return c.reserved
}

// DefaultIterations returns the iteration count presets use unless they override it
func (c *Catalog) DefaultIterations() int {
	return c.defaultIterations
}

// Kinds returns the job kinds in expansion order
func (c *Catalog) Kinds() []models.JobKind {
	return append([]models.JobKind(nil), c.kinds...)
}

// Hosts returns every known host id in declaration order
func (c *Catalog) Hosts() []models.HostID {
	return append([]models.HostID(nil), c.hosts...)
}

// Host resolves a host alias ("node18") or a literal host id ("node@18.15.0")
func (c *Catalog) Host(name string) (models.HostID, bool) {
	if id, ok := c.hostAliases[name]; ok {
		return id, true
	}
	for _, h := range c.hosts {
		if string(h) == name {
			return h, true
		}
	}
	return "", false
}

// Scenarios returns the scenarios defined for a job kind
func (c *Catalog) Scenarios(kind models.JobKind) []models.Scenario {
	return append([]models.Scenario(nil), c.scenarios[kind]...)
}

// Names returns the preset names in catalog order
func (c *Catalog) Names() []string {
	return append([]string(nil), c.presetOrder...)
}

// Resolve looks up a preset by exact name
func (c *Catalog) Resolve(name string) (models.Preset, error) {
	p, ok := c.presets[name]
	if !ok {
		return nil, &UnknownPresetError{Name: name}
	}
	return clonePreset(p), nil
}

// ScenarioAgents maps every scenario name to its baseline agent
func (c *Catalog) ScenarioAgents() map[string]models.AgentID {
	out := make(map[string]models.AgentID)
	for _, kind := range c.kinds {
		for _, s := range c.scenarios[kind] {
			out[s.Name] = s.Agent
		}
	}
	return out
}

// HostAliases returns the alias names sorted alphabetically
func (c *Catalog) HostAliases() []string {
	aliases := make([]string, 0, len(c.hostAliases))
	for a := range c.hostAliases {
		aliases = append(aliases, a)
	}
	sort.Strings(aliases)
	return aliases
}

func clonePreset(p models.Preset) models.Preset {
	out := make(models.Preset, len(p))
	for kind, e := range p {
		out[kind] = models.PresetEntry{
			Hosts:      append([]models.HostID(nil), e.Hosts...),
			Iterations: e.Iterations,
			Scenarios:  append([]models.Scenario(nil), e.Scenarios...),
		}
	}
	return out
}

func without(scenarios []models.Scenario, name string) []models.Scenario {
	out := make([]models.Scenario, 0, len(scenarios))
	for _, s := range scenarios {
		if s.Name != name {
			out = append(out, s)
		}
	}
	return out
}
