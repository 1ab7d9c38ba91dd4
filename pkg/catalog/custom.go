package catalog

import (
	"errors"
	"fmt"

	"github.com/psantana5/tsperf-matrix/pkg/models"
)

// ErrEmptyCustomPreset is returned when a custom request selects no jobs
var ErrEmptyCustomPreset = errors.New("custom preset selects no jobs")

// CustomRequest describes a preset assembled from command line arguments.
// Empty Kinds selects every kind, empty Scenarios every scenario of the
// selected kinds, and zero Iterations the catalog default.
type CustomRequest struct {
	Kinds      []string
	Hosts      []string
	Scenarios  []string
	Iterations int
}

// Custom builds a preset from the catalog vocabulary. Kinds left without
// any matching scenario are dropped from the preset.
func (c *Catalog) Custom(req CustomRequest) (models.Preset, error) {
	if req.Iterations < 0 {
		return nil, fmt.Errorf("iterations must be positive, got %d", req.Iterations)
	}
	if len(req.Hosts) == 0 {
		return nil, fmt.Errorf("%w: at least one host is required", ErrEmptyCustomPreset)
	}

	kinds := c.kinds
	if len(req.Kinds) > 0 {
		kinds = nil
		for _, k := range req.Kinds {
			kind := models.JobKind(k)
			if _, ok := c.scenarios[kind]; !ok {
				return nil, fmt.Errorf("unknown job kind: %s", k)
			}
			kinds = append(kinds, kind)
		}
	}

	var hosts []models.HostID
	for _, name := range req.Hosts {
		id, ok := c.Host(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownHost, name)
		}
		hosts = append(hosts, id)
	}

	iterations := req.Iterations
	if iterations == 0 {
		iterations = c.defaultIterations
	}

	wanted := make(map[string]bool, len(req.Scenarios))
	for _, name := range req.Scenarios {
		wanted[name] = false
	}

	all := len(wanted) == 0

	preset := make(models.Preset)
	for _, kind := range kinds {
		var scenarios []models.Scenario
		for _, s := range c.scenarios[kind] {
			if _, ok := wanted[s.Name]; all || ok {
				scenarios = append(scenarios, s)
				if !all {
					wanted[s.Name] = true
				}
			}
		}
		if len(scenarios) == 0 {
			continue
		}
		preset[kind] = models.PresetEntry{
			Hosts:      append([]models.HostID(nil), hosts...),
			Iterations: iterations,
			Scenarios:  scenarios,
		}
	}

	for _, name := range req.Scenarios {
		if !wanted[name] {
			return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, name)
		}
	}
	if len(preset) == 0 {
		return nil, ErrEmptyCustomPreset
	}

	return preset, nil
}
