package matrix

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/psantana5/tsperf-matrix/pkg/catalog"
	"github.com/psantana5/tsperf-matrix/pkg/models"
)

// ErrNameCollision is returned by Result.CheckCollisions when two jobs
// sanitized to the same name within a bucket
var ErrNameCollision = errors.New("job name collision")

// Options control a single expansion
type Options struct {
	// Baselining pins each job to its scenario's agent instead of "any"
	Baselining bool
}

// Collision records a job that replaced an earlier job with the same name
type Collision struct {
	Agent       models.AgentID `json:"agent" yaml:"agent"`
	Name        models.JobName `json:"name" yaml:"name"`
	Previous    models.Job     `json:"previous" yaml:"previous"`
	Replacement models.Job     `json:"replacement" yaml:"replacement"`
}

// Result is the outcome of expanding a preset
type Result struct {
	Matrix     *Matrix
	Kinds      []models.JobKind
	Locations  []models.Location
	Collisions []Collision
}

// JobCount returns the number of jobs in the matrix
func (r *Result) JobCount() int {
	return r.Matrix.Len()
}

// CheckCollisions returns an error describing every name collision, or nil
func (r *Result) CheckCollisions() error {
	if len(r.Collisions) == 0 {
		return nil
	}
	names := make([]string, 0, len(r.Collisions))
	for _, c := range r.Collisions {
		names = append(names, fmt.Sprintf("%s/%s", c.Agent, c.Name))
	}
	return fmt.Errorf("%w: %s", ErrNameCollision, strings.Join(names, ", "))
}

// Builder expands presets against a catalog
type Builder struct {
	catalog *catalog.Catalog
}

// NewBuilder creates a builder for the given catalog
func NewBuilder(c *catalog.Catalog) *Builder {
	return &Builder{catalog: c}
}

// Build expands every (kind, host, scenario) of the preset into a job.
// Kinds are visited in catalog order; hosts and scenarios in entry order.
// A job whose name is already taken in its bucket replaces the earlier one.
func (b *Builder) Build(preset models.Preset, opts Options) *Result {
	m := NewMatrix(b.catalog.Agents())
	kinds := make(map[models.JobKind]bool)
	locations := make(map[models.Location]bool)
	var collisions []Collision

	for _, kind := range preset.Kinds(b.catalog.Kinds()) {
		entry := preset[kind]
		for _, host := range entry.Hosts {
			for _, scenario := range entry.Scenarios {
				agent := models.AgentAny
				if opts.Baselining {
					agent = scenario.Agent
				}

				job := models.Job{
					Kind:       kind,
					Name:       JobNameFor(kind, host, scenario.Name),
					Host:       host,
					Scenario:   scenario.Name,
					Iterations: entry.Iterations,
					Location:   scenario.Location,
				}
				if prev, replaced := m.bucket(agent).Put(job); replaced {
					collisions = append(collisions, Collision{
						Agent:       agent,
						Name:        job.Name,
						Previous:    prev,
						Replacement: job,
					})
				}

				kinds[kind] = true
				locations[scenario.Location] = true
			}
		}
	}

	return &Result{
		Matrix:     m,
		Kinds:      sortedKinds(kinds),
		Locations:  sortedLocations(locations),
		Collisions: collisions,
	}
}

func sortedKinds(set map[models.JobKind]bool) []models.JobKind {
	out := make([]models.JobKind, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedLocations(set map[models.Location]bool) []models.Location {
	out := make([]models.Location, 0, len(set))
	for l := range set {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
