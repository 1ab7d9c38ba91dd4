package models

// AgentID names an execution agent pool in the benchmark pipeline
type AgentID string

// AgentAny lets the pipeline scheduler pick any free agent
const AgentAny AgentID = "any"

// Location classifies where a scenario's inputs are stored
type Location string

const (
	LocationInternal Location = "internal"
	LocationPublic   Location = "public"
)

// Valid reports whether l is a known location
func (l Location) Valid() bool {
	return l == LocationInternal || l == LocationPublic
}

// Scenario is a single benchmark scenario.
// Agent is the machine the scenario is pinned to when baselining.
type Scenario struct {
	Name     string   `json:"name" yaml:"name"`
	Agent    AgentID  `json:"agent" yaml:"agent"`
	Location Location `json:"location" yaml:"location"`
}
