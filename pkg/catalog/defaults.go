package catalog

import "github.com/psantana5/tsperf-matrix/pkg/models"

// Keep in sync with the agent inventory and the benchmark pipeline definition.
const (
	AgentPerf1 models.AgentID = "ts-perf1"
	AgentPerf2 models.AgentID = "ts-perf2"
	AgentPerf3 models.AgentID = "ts-perf3"
	// AgentPerf4 is reserved so that non-baseline jobs can make progress.
	AgentPerf4 models.AgentID = "ts-perf4"
)

// DefaultIterations is the iteration count used by every built-in preset unless noted
const DefaultIterations = 6

const (
	// Arbitrary; the latest release on 2023-08-12.
	HostNode20 models.HostID = "node@20.5.1"
	HostNode18 models.HostID = "node@18.15.0"
	// Matches the Electron runtime of recent VS Code releases.
	HostNode16 models.HostID = "node@16.17.1"
	HostBun    models.HostID = "bun@1.0.15"
	HostVSCode models.HostID = "vscode@1.82.1"
)

// Preset names. Keep in sync with TSPERF_PRESET and the benchmark trigger bot.
const (
	PresetFull    = "full"
	PresetRegular = "regular"
	PresetTSCOnly = "tsc-only"
	PresetBun     = "bun"
	PresetVSCode  = "vscode"
	// PresetCustom is not stored in the catalog; it is assembled from flags.
	PresetCustom = "custom"
)

// DO NOT change the agents; they must remain the same forever to keep benchmarks comparable.
var (
	tscScenarios = []models.Scenario{
		{Name: "Angular", Agent: AgentPerf1, Location: models.LocationInternal},
		{Name: "Monaco", Agent: AgentPerf2, Location: models.LocationInternal},
		{Name: "TFS", Agent: AgentPerf3, Location: models.LocationInternal},
		{Name: "material-ui", Agent: AgentPerf1, Location: models.LocationInternal},
		{Name: "Compiler-Unions", Agent: AgentPerf2, Location: models.LocationInternal},
		{Name: "xstate", Agent: AgentPerf3, Location: models.LocationInternal},
	}
	tsserverScenarios = []models.Scenario{
		{Name: "Compiler-UnionsTSServer", Agent: AgentPerf1, Location: models.LocationInternal},
		{Name: "CompilerTSServer", Agent: AgentPerf2, Location: models.LocationInternal},
		{Name: "xstateTSServer", Agent: AgentPerf3, Location: models.LocationInternal},
	}
	startupScenarios = []models.Scenario{
		{Name: "tsc-startup", Agent: AgentPerf1, Location: models.LocationInternal},
		{Name: "tsserver-startup", Agent: AgentPerf2, Location: models.LocationInternal},
		{Name: "tsserverlibrary-startup", Agent: AgentPerf3, Location: models.LocationInternal},
		{Name: "typescript-startup", Agent: AgentPerf1, Location: models.LocationInternal},
	}
)

// Default returns the built-in TypeScript benchmark catalog
func Default() *Catalog {
	entry := func(iterations int, scenarios []models.Scenario, hosts ...models.HostID) models.PresetEntry {
		return models.PresetEntry{Hosts: hosts, Iterations: iterations, Scenarios: scenarios}
	}

	return &Catalog{
		agents:            []models.AgentID{AgentPerf1, AgentPerf2, AgentPerf3, AgentPerf4},
		reserved:          AgentPerf4,
		defaultIterations: DefaultIterations,
		hostAliases: map[string]models.HostID{
			"node20": HostNode20,
			"node18": HostNode18,
			"node16": HostNode16,
			"bun":    HostBun,
			"vscode": HostVSCode,
		},
		hosts: []models.HostID{HostNode20, HostNode18, HostNode16, HostBun, HostVSCode},
		kinds: []models.JobKind{models.JobKindTSC, models.JobKindTSServer, models.JobKindStartup},
		scenarios: map[models.JobKind][]models.Scenario{
			models.JobKindTSC:      tscScenarios,
			models.JobKindTSServer: tsserverScenarios,
			models.JobKindStartup:  startupScenarios,
		},
		presetOrder: []string{PresetFull, PresetRegular, PresetTSCOnly, PresetBun, PresetVSCode},
		presets: map[string]models.Preset{
			PresetFull: {
				models.JobKindTSC:      entry(DefaultIterations, tscScenarios, HostNode20, HostNode18, HostNode16),
				models.JobKindTSServer: entry(DefaultIterations, tsserverScenarios, HostNode16),
				models.JobKindStartup:  entry(DefaultIterations, startupScenarios, HostNode16),
			},
			PresetRegular: {
				models.JobKindTSC:      entry(DefaultIterations, tscScenarios, HostNode18),
				models.JobKindTSServer: entry(DefaultIterations, tsserverScenarios, HostNode18),
				models.JobKindStartup:  entry(DefaultIterations, startupScenarios, HostNode18),
			},
			PresetTSCOnly: {
				models.JobKindTSC: entry(DefaultIterations, tscScenarios, HostNode18),
			},
			PresetBun: {
				models.JobKindTSC:     entry(DefaultIterations*2, tscScenarios, HostBun),
				models.JobKindStartup: entry(DefaultIterations, without(startupScenarios, "tsserver-startup"), HostBun),
			},
			PresetVSCode: {
				models.JobKindTSC:      entry(DefaultIterations, tscScenarios, HostVSCode),
				models.JobKindTSServer: entry(DefaultIterations, tsserverScenarios, HostVSCode),
				models.JobKindStartup:  entry(DefaultIterations, startupScenarios, HostVSCode),
			},
		},
	}
}
