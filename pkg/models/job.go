package models

// JobKind is a category of benchmark
type JobKind string

const (
	JobKindTSC      JobKind = "tsc"
	JobKindTSServer JobKind = "tsserver"
	JobKindStartup  JobKind = "startup"
)

// JobName is a job name that has been passed through sanitization
type JobName string

// HostID identifies the runtime a benchmark runs on, e.g. "node@18.15.0"
type HostID string

// Job is one (kind, host, scenario) expansion of a preset.
// The JSON field names are consumed by the benchmark pipeline and must not change.
type Job struct {
	Kind       JobKind  `json:"TSPERF_JOB_KIND" yaml:"kind"`
	Name       JobName  `json:"TSPERF_JOB_NAME" yaml:"name"`
	Host       HostID   `json:"TSPERF_JOB_HOSTS" yaml:"host"`
	Scenario   string   `json:"TSPERF_JOB_SCENARIOS" yaml:"scenario"`
	Iterations int      `json:"TSPERF_JOB_ITERATIONS" yaml:"iterations"`
	Location   Location `json:"TSPERF_JOB_LOCATION" yaml:"location"`
}
