// Package generate resolves a preset, expands it into a job matrix and wraps
// the result in an output document.
package generate

import (
	"github.com/google/uuid"

	"github.com/psantana5/tsperf-matrix/pkg/catalog"
	"github.com/psantana5/tsperf-matrix/pkg/emit"
	"github.com/psantana5/tsperf-matrix/pkg/matrix"
	"github.com/psantana5/tsperf-matrix/pkg/models"
)

// Request selects what to generate
type Request struct {
	Preset     string
	Baselining bool
	// Custom is used when Preset is catalog.PresetCustom
	Custom catalog.CustomRequest
	// Strict fails the run when job names collide
	Strict bool
}

// Generator runs single-shot expansions against one catalog
type Generator struct {
	catalog  *catalog.Catalog
	builder  *matrix.Builder
	newRunID func() string
}

// New creates a generator for c
func New(c *catalog.Catalog) *Generator {
	return &Generator{
		catalog:  c,
		builder:  matrix.NewBuilder(c),
		newRunID: uuid.NewString,
	}
}

// Catalog returns the generator's catalog
func (g *Generator) Catalog() *catalog.Catalog {
	return g.catalog
}

// Preset resolves a request to a preset without expanding it
func (g *Generator) Preset(req Request) (models.Preset, error) {
	if req.Preset == catalog.PresetCustom {
		return g.catalog.Custom(req.Custom)
	}
	return g.catalog.Resolve(req.Preset)
}

// Generate resolves and expands the requested preset. Nothing is returned
// when resolution fails, so callers never emit a partial matrix.
func (g *Generator) Generate(req Request) (*emit.Document, error) {
	preset, err := g.Preset(req)
	if err != nil {
		return nil, err
	}

	res := g.builder.Build(preset, matrix.Options{Baselining: req.Baselining})
	if req.Strict {
		if err := res.CheckCollisions(); err != nil {
			return nil, err
		}
	}

	return emit.NewDocument(g.newRunID(), req.Preset, req.Baselining, res), nil
}
