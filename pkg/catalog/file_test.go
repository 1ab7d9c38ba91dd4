package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/psantana5/tsperf-matrix/pkg/models"
)

const smallCatalogYAML = `
agents: [perf-a, perf-b, perf-spare]
reserved: perf-spare
default_iterations: 3
hosts:
  - alias: node
    id: node@22.0.0
  - id: deno@1.40.0
scenarios:
  - kind: tsc
    scenarios:
      - {name: Alpha, agent: perf-a, location: internal}
      - {name: Beta, agent: perf-b, location: public}
  - kind: startup
    scenarios:
      - {name: tsc-startup, agent: perf-a, location: internal}
presets:
  - name: nightly
    entries:
      - kind: tsc
        hosts: [node, deno@1.40.0]
        iterations: 10
      - kind: startup
        hosts: [node]
  - name: beta-only
    entries:
      - kind: tsc
        hosts: [node]
        exclude: [Alpha]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadYAML(t *testing.T) {
	c, err := Load(writeFile(t, "catalog.yaml", smallCatalogYAML))
	require.NoError(t, err)

	assert.Equal(t, []models.AgentID{"perf-a", "perf-b", "perf-spare"}, c.Agents())
	assert.Equal(t, models.AgentID("perf-spare"), c.Reserved())
	assert.Equal(t, 3, c.DefaultIterations())
	assert.Equal(t, []string{"nightly", "beta-only"}, c.Names())
	assert.Equal(t, []models.JobKind{models.JobKindTSC, models.JobKindStartup}, c.Kinds())

	nightly, err := c.Resolve("nightly")
	require.NoError(t, err)
	assert.Equal(t, []models.HostID{"node@22.0.0", "deno@1.40.0"}, nightly[models.JobKindTSC].Hosts)
	assert.Equal(t, 10, nightly[models.JobKindTSC].Iterations)
	assert.Equal(t, 3, nightly[models.JobKindStartup].Iterations)
	assert.Equal(t, 5, nightly.JobCount())

	beta, err := c.Resolve("beta-only")
	require.NoError(t, err)
	assert.Equal(t, []string{"Beta"}, beta[models.JobKindTSC].ScenarioNames())
	assert.Equal(t, models.LocationPublic, beta[models.JobKindTSC].Scenarios[0].Location)
}

func TestLoadJSON(t *testing.T) {
	var fc FileCatalog
	require.NoError(t, yaml.Unmarshal([]byte(smallCatalogYAML), &fc))
	data, err := json.Marshal(&fc)
	require.NoError(t, err)

	c, err := Load(writeFile(t, "catalog.json", string(data)))
	require.NoError(t, err)
	assert.Equal(t, []string{"nightly", "beta-only"}, c.Names())
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadFile(writeFile(t, "catalog.toml", "agents = []"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported catalog format")

	_, err = LoadFile(writeFile(t, "catalog.yaml", "agents: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")

	_, err = LoadFile(writeFile(t, "catalog.json", "{"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse JSON")
}

func TestToCatalogResolveErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*FileCatalog)
		wantErr error
	}{
		{
			name:    "unknown host alias",
			mutate:  func(f *FileCatalog) { f.Presets[0].Entries[0].Hosts = []string{"node99"} },
			wantErr: ErrUnknownHost,
		},
		{
			name:    "unknown scenario",
			mutate:  func(f *FileCatalog) { f.Presets[0].Entries[0].Scenarios = []string{"Gamma"} },
			wantErr: ErrUnknownScenario,
		},
		{
			name:    "unknown exclude",
			mutate:  func(f *FileCatalog) { f.Presets[0].Entries[0].Exclude = []string{"Alpah"} },
			wantErr: ErrUnknownScenario,
		},
		{
			name:    "duplicate kind",
			mutate:  func(f *FileCatalog) { f.Scenarios = append(f.Scenarios, f.Scenarios[0]) },
			wantErr: ErrInvalidCatalog,
		},
		{
			name:    "duplicate preset",
			mutate:  func(f *FileCatalog) { f.Presets[1].Name = f.Presets[0].Name },
			wantErr: ErrInvalidCatalog,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fc FileCatalog
			require.NoError(t, yaml.Unmarshal([]byte(smallCatalogYAML), &fc))
			tt.mutate(&fc)

			_, err := fc.ToCatalog()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*FileCatalog)
	}{
		{"no agents", func(f *FileCatalog) { f.Agents = nil }},
		{"any is not an agent", func(f *FileCatalog) { f.Agents = append(f.Agents, "any") }},
		{"duplicate agent", func(f *FileCatalog) { f.Agents = append(f.Agents, "perf-a") }},
		{"unknown reserved agent", func(f *FileCatalog) { f.Reserved = "perf-z" }},
		{"negative default iterations", func(f *FileCatalog) { f.DefaultIterations = -1 }},
		{"duplicate host", func(f *FileCatalog) { f.Hosts = append(f.Hosts, HostConfig{ID: "deno@1.40.0"}) }},
		{"scenario on unknown agent", func(f *FileCatalog) { f.Scenarios[0].Scenarios[0].Agent = "perf-z" }},
		{"scenario on reserved agent", func(f *FileCatalog) { f.Scenarios[0].Scenarios[0].Agent = "perf-spare" }},
		{"bad location", func(f *FileCatalog) { f.Scenarios[0].Scenarios[0].Location = "cloud" }},
		{"duplicate scenario", func(f *FileCatalog) {
			f.Scenarios[0].Scenarios = append(f.Scenarios[0].Scenarios, f.Scenarios[0].Scenarios[0])
		}},
		{"preset with unknown kind", func(f *FileCatalog) { f.Presets[0].Entries[0].Kind = "lint" }},
		{"preset without hosts", func(f *FileCatalog) { f.Presets[0].Entries[0].Hosts = nil }},
		{"negative preset iterations", func(f *FileCatalog) { f.Presets[0].Entries[0].Iterations = -2 }},
		{"custom is reserved", func(f *FileCatalog) { f.Presets[0].Name = PresetCustom }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fc FileCatalog
			require.NoError(t, yaml.Unmarshal([]byte(smallCatalogYAML), &fc))
			tt.mutate(&fc)

			c, err := fc.ToCatalog()
			require.NoError(t, err)
			assert.ErrorIs(t, c.Validate(), ErrInvalidCatalog)
		})
	}
}

func TestExportRoundTrip(t *testing.T) {
	orig := Default()

	data, err := yaml.Marshal(Export(orig))
	require.NoError(t, err)

	loaded, err := Load(writeFile(t, "default.yaml", string(data)))
	require.NoError(t, err)

	assert.Equal(t, orig.Agents(), loaded.Agents())
	assert.Equal(t, orig.Reserved(), loaded.Reserved())
	assert.Equal(t, orig.Hosts(), loaded.Hosts())
	assert.Equal(t, orig.HostAliases(), loaded.HostAliases())
	assert.Equal(t, orig.Names(), loaded.Names())
	if diff := cmp.Diff(orig.ScenarioAgents(), loaded.ScenarioAgents()); diff != "" {
		t.Errorf("scenario agents differ after round trip (-want +got):\n%s", diff)
	}

	for _, name := range orig.Names() {
		want, err := orig.Resolve(name)
		require.NoError(t, err)
		got, err := loaded.Resolve(name)
		require.NoError(t, err)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("preset %s differs after round trip (-want +got):\n%s", name, diff)
		}
	}
}
