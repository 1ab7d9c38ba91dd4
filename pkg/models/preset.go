package models

// PresetEntry selects hosts, iterations and scenarios for one job kind
type PresetEntry struct {
	Hosts      []HostID   `json:"hosts" yaml:"hosts"`
	Iterations int        `json:"iterations" yaml:"iterations"`
	Scenarios  []Scenario `json:"scenarios" yaml:"scenarios"`
}

// JobCount returns the number of jobs the entry expands to
func (e PresetEntry) JobCount() int {
	return len(e.Hosts) * len(e.Scenarios)
}

// ScenarioNames returns the names of the entry's scenarios in order
func (e PresetEntry) ScenarioNames() []string {
	names := make([]string, 0, len(e.Scenarios))
	for _, s := range e.Scenarios {
		names = append(names, s.Name)
	}
	return names
}

// Preset maps job kinds to their entries. Kinds that are absent are not run.
type Preset map[JobKind]PresetEntry

// Kinds returns the preset's kinds following the given order.
// Kinds not listed in order are ignored.
func (p Preset) Kinds(order []JobKind) []JobKind {
	kinds := make([]JobKind, 0, len(p))
	for _, k := range order {
		if _, ok := p[k]; ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// JobCount returns the total number of jobs across all entries
func (p Preset) JobCount() int {
	total := 0
	for _, e := range p {
		total += e.JobCount()
	}
	return total
}
