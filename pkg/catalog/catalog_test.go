package catalog

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psantana5/tsperf-matrix/pkg/models"
)

// The scenario to agent binding must never change: baseline results are only
// comparable when a scenario always runs on the same machine.
func TestScenarioAgentsGolden(t *testing.T) {
	want := map[string]models.AgentID{
		"Angular":                 "ts-perf1",
		"Monaco":                  "ts-perf2",
		"TFS":                     "ts-perf3",
		"material-ui":             "ts-perf1",
		"Compiler-Unions":         "ts-perf2",
		"xstate":                  "ts-perf3",
		"Compiler-UnionsTSServer": "ts-perf1",
		"CompilerTSServer":        "ts-perf2",
		"xstateTSServer":          "ts-perf3",
		"tsc-startup":             "ts-perf1",
		"tsserver-startup":        "ts-perf2",
		"tsserverlibrary-startup": "ts-perf3",
		"typescript-startup":      "ts-perf1",
	}

	if diff := cmp.Diff(want, Default().ScenarioAgents()); diff != "" {
		t.Errorf("scenario agents changed (-want +got):\n%s", diff)
	}
}

func TestHostsGolden(t *testing.T) {
	want := []models.HostID{"node@20.5.1", "node@18.15.0", "node@16.17.1", "bun@1.0.15", "vscode@1.82.1"}
	if diff := cmp.Diff(want, Default().Hosts()); diff != "" {
		t.Errorf("hosts changed (-want +got):\n%s", diff)
	}
}

func TestScenarioOrderAndLocations(t *testing.T) {
	c := Default()

	names := func(kind models.JobKind) []string {
		return models.PresetEntry{Scenarios: c.Scenarios(kind)}.ScenarioNames()
	}
	assert.Equal(t, []string{"Angular", "Monaco", "TFS", "material-ui", "Compiler-Unions", "xstate"}, names(models.JobKindTSC))
	assert.Equal(t, []string{"Compiler-UnionsTSServer", "CompilerTSServer", "xstateTSServer"}, names(models.JobKindTSServer))
	assert.Equal(t, []string{"tsc-startup", "tsserver-startup", "tsserverlibrary-startup", "typescript-startup"}, names(models.JobKindStartup))

	for _, kind := range c.Kinds() {
		for _, s := range c.Scenarios(kind) {
			assert.Equal(t, models.LocationInternal, s.Location, "scenario %s", s.Name)
		}
	}
}

func TestReservedAgentNeverBaselined(t *testing.T) {
	c := Default()
	require.Equal(t, AgentPerf4, c.Reserved())
	assert.Contains(t, c.Agents(), c.Reserved())

	for name, agent := range c.ScenarioAgents() {
		assert.NotEqual(t, c.Reserved(), agent, "scenario %s is pinned to the reserved agent", name)
	}
}

func TestDefaultCatalogValidates(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"full", "regular", "tsc-only", "bun", "vscode"}, Default().Names())
}

func TestResolveUnknownPreset(t *testing.T) {
	_, err := Default().Resolve("nightly")
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrUnknownPreset))
	var upe *UnknownPresetError
	require.True(t, errors.As(err, &upe))
	assert.Equal(t, "nightly", upe.Name)
	assert.Equal(t, "Unknown preset: nightly", err.Error())
}

func TestResolveIsExactMatch(t *testing.T) {
	c := Default()
	for _, name := range []string{"Full", "full ", "tsc_only", ""} {
		_, err := c.Resolve(name)
		assert.ErrorIs(t, err, ErrUnknownPreset, "Resolve(%q)", name)
	}
}

func TestPresetContents(t *testing.T) {
	c := Default()

	tests := []struct {
		preset string
		kind   models.JobKind
		hosts  []models.HostID
		iters  int
		count  int
	}{
		{"full", models.JobKindTSC, []models.HostID{HostNode20, HostNode18, HostNode16}, 6, 6},
		{"full", models.JobKindTSServer, []models.HostID{HostNode16}, 6, 3},
		{"full", models.JobKindStartup, []models.HostID{HostNode16}, 6, 4},
		{"regular", models.JobKindTSC, []models.HostID{HostNode18}, 6, 6},
		{"regular", models.JobKindTSServer, []models.HostID{HostNode18}, 6, 3},
		{"regular", models.JobKindStartup, []models.HostID{HostNode18}, 6, 4},
		{"tsc-only", models.JobKindTSC, []models.HostID{HostNode18}, 6, 6},
		{"bun", models.JobKindTSC, []models.HostID{HostBun}, 12, 6},
		{"bun", models.JobKindStartup, []models.HostID{HostBun}, 6, 3},
		{"vscode", models.JobKindTSC, []models.HostID{HostVSCode}, 6, 6},
		{"vscode", models.JobKindTSServer, []models.HostID{HostVSCode}, 6, 3},
		{"vscode", models.JobKindStartup, []models.HostID{HostVSCode}, 6, 4},
	}

	for _, tt := range tests {
		t.Run(tt.preset+"/"+string(tt.kind), func(t *testing.T) {
			p, err := c.Resolve(tt.preset)
			require.NoError(t, err)
			e, ok := p[tt.kind]
			require.True(t, ok)
			assert.Equal(t, tt.hosts, e.Hosts)
			assert.Equal(t, tt.iters, e.Iterations)
			assert.Len(t, e.Scenarios, tt.count)
		})
	}
}

func TestPresetKinds(t *testing.T) {
	c := Default()
	want := map[string][]models.JobKind{
		"full":     {models.JobKindTSC, models.JobKindTSServer, models.JobKindStartup},
		"regular":  {models.JobKindTSC, models.JobKindTSServer, models.JobKindStartup},
		"tsc-only": {models.JobKindTSC},
		"bun":      {models.JobKindTSC, models.JobKindStartup},
		"vscode":   {models.JobKindTSC, models.JobKindTSServer, models.JobKindStartup},
	}
	for name, kinds := range want {
		p, err := c.Resolve(name)
		require.NoError(t, err)
		assert.Equal(t, kinds, p.Kinds(c.Kinds()), "preset %s", name)
	}
}

func TestBunPresetDeltas(t *testing.T) {
	p, err := Default().Resolve(PresetBun)
	require.NoError(t, err)

	assert.Equal(t, 2*DefaultIterations, p[models.JobKindTSC].Iterations)
	assert.Equal(t, []string{"tsc-startup", "tsserverlibrary-startup", "typescript-startup"},
		p[models.JobKindStartup].ScenarioNames())
	assert.NotContains(t, p, models.JobKindTSServer)
}

func TestResolveReturnsCopy(t *testing.T) {
	c := Default()
	p, err := c.Resolve(PresetTSCOnly)
	require.NoError(t, err)

	e := p[models.JobKindTSC]
	e.Hosts[0] = "mutated"
	e.Scenarios[0].Agent = "mutated"
	delete(p, models.JobKindTSC)

	again, err := c.Resolve(PresetTSCOnly)
	require.NoError(t, err)
	assert.Equal(t, HostNode18, again[models.JobKindTSC].Hosts[0])
	assert.Equal(t, AgentPerf1, again[models.JobKindTSC].Scenarios[0].Agent)
	assert.Equal(t, AgentPerf1, c.ScenarioAgents()["Angular"])
}

func TestHostLookup(t *testing.T) {
	c := Default()

	id, ok := c.Host("node18")
	require.True(t, ok)
	assert.Equal(t, HostNode18, id)

	id, ok = c.Host("bun@1.0.15")
	require.True(t, ok)
	assert.Equal(t, HostBun, id)

	_, ok = c.Host("deno")
	assert.False(t, ok)

	assert.Equal(t, []string{"bun", "node16", "node18", "node20", "vscode"}, c.HostAliases())
}

func TestSummaries(t *testing.T) {
	summaries := Default().Summaries()
	require.Len(t, summaries, 5)

	full := summaries[0]
	assert.Equal(t, "full", full.Name)
	assert.Equal(t, []models.HostID{HostNode20, HostNode18, HostNode16}, full.Hosts)
	assert.Equal(t, 3*6+3+4, full.JobCount)

	bun := summaries[3]
	assert.Equal(t, "bun", bun.Name)
	assert.Equal(t, []models.HostID{HostBun}, bun.Hosts)
	assert.Equal(t, 9, bun.JobCount)
}
