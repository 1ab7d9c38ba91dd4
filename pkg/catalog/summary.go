package catalog

import "github.com/psantana5/tsperf-matrix/pkg/models"

// PresetSummary describes a preset without its scenarios
type PresetSummary struct {
	Name     string           `json:"name" yaml:"name"`
	Kinds    []models.JobKind `json:"kinds" yaml:"kinds"`
	Hosts    []models.HostID  `json:"hosts" yaml:"hosts"`
	JobCount int              `json:"job_count" yaml:"job_count"`
}

// Summarize describes one preset. Hosts are de-duplicated in first-use order.
func (c *Catalog) Summarize(name string, preset models.Preset) PresetSummary {
	s := PresetSummary{
		Name:     name,
		Kinds:    preset.Kinds(c.kinds),
		JobCount: preset.JobCount(),
	}
	seen := make(map[models.HostID]bool)
	for _, kind := range s.Kinds {
		for _, h := range preset[kind].Hosts {
			if !seen[h] {
				seen[h] = true
				s.Hosts = append(s.Hosts, h)
			}
		}
	}
	return s
}

// Summaries describes every preset in catalog order
func (c *Catalog) Summaries() []PresetSummary {
	out := make([]PresetSummary, 0, len(c.presetOrder))
	for _, name := range c.presetOrder {
		out = append(out, c.Summarize(name, c.presets[name]))
	}
	return out
}
