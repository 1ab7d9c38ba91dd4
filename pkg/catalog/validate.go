package catalog

import (
	"fmt"

	"github.com/psantana5/tsperf-matrix/pkg/models"
)

// Validate checks a catalog's internal consistency.
// The built-in catalog is covered by golden tests; Validate is applied to
// catalogs loaded from files, which are external input.
func (c *Catalog) Validate() error {
	if c.defaultIterations <= 0 {
		return fmt.Errorf("%w: default_iterations must be positive", ErrInvalidCatalog)
	}
	if len(c.agents) == 0 {
		return fmt.Errorf("%w: no agents defined", ErrInvalidCatalog)
	}

	agents := make(map[models.AgentID]bool, len(c.agents))
	for _, a := range c.agents {
		if a == models.AgentAny {
			return fmt.Errorf("%w: agent %q is reserved for the scheduler", ErrInvalidCatalog, a)
		}
		if agents[a] {
			return fmt.Errorf("%w: duplicate agent %q", ErrInvalidCatalog, a)
		}
		agents[a] = true
	}
	if c.reserved != "" && !agents[c.reserved] {
		return fmt.Errorf("%w: reserved agent %q is not a known agent", ErrInvalidCatalog, c.reserved)
	}

	hosts := make(map[models.HostID]bool, len(c.hosts))
	for _, h := range c.hosts {
		if hosts[h] {
			return fmt.Errorf("%w: duplicate host %q", ErrInvalidCatalog, h)
		}
		hosts[h] = true
	}

	known := make(map[models.JobKind]map[string]models.Scenario, len(c.kinds))
	for _, kind := range c.kinds {
		byName := make(map[string]models.Scenario)
		for _, s := range c.scenarios[kind] {
			if _, dup := byName[s.Name]; dup {
				return fmt.Errorf("%w: duplicate %s scenario %q", ErrInvalidCatalog, kind, s.Name)
			}
			if !agents[s.Agent] {
				return fmt.Errorf("%w: scenario %q uses unknown agent %q", ErrInvalidCatalog, s.Name, s.Agent)
			}
			if s.Agent == c.reserved {
				return fmt.Errorf("%w: scenario %q is pinned to reserved agent %q", ErrInvalidCatalog, s.Name, s.Agent)
			}
			if !s.Location.Valid() {
				return fmt.Errorf("%w: scenario %q has unknown location %q", ErrInvalidCatalog, s.Name, s.Location)
			}
			byName[s.Name] = s
		}
		known[kind] = byName
	}

	for _, name := range c.presetOrder {
		if name == PresetCustom {
			return fmt.Errorf("%w: preset name %q is reserved", ErrInvalidCatalog, name)
		}
		for kind, e := range c.presets[name] {
			byName, ok := known[kind]
			if !ok {
				return fmt.Errorf("%w: preset %q uses unknown job kind %q", ErrInvalidCatalog, name, kind)
			}
			if e.Iterations <= 0 {
				return fmt.Errorf("%w: preset %q %s iterations must be positive", ErrInvalidCatalog, name, kind)
			}
			if len(e.Hosts) == 0 {
				return fmt.Errorf("%w: preset %q %s has no hosts", ErrInvalidCatalog, name, kind)
			}
			for _, h := range e.Hosts {
				if !hosts[h] {
					return fmt.Errorf("%w: preset %q uses unknown host %q", ErrInvalidCatalog, name, h)
				}
			}
			for _, s := range e.Scenarios {
				if byName[s.Name] != s {
					return fmt.Errorf("%w: preset %q uses unknown %s scenario %q", ErrInvalidCatalog, name, kind, s.Name)
				}
			}
		}
	}

	return nil
}
