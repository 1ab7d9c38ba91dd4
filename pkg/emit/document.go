package emit

import (
	"strings"

	"github.com/psantana5/tsperf-matrix/pkg/matrix"
	"github.com/psantana5/tsperf-matrix/pkg/models"
)

// Variables read by the ProcessResults stage of the benchmark pipeline. They
// list which results were produced and need processing; the kinds list is
// space separated because the pipeline iterates it in bash.
const (
	KindsVariable     = "TSPERF_PROCESS_KINDS"
	LocationsVariable = "TSPERF_PROCESS_LOCATIONS"
)

// Document is everything one generator run produces
type Document struct {
	RunID            string             `json:"run_id" yaml:"run_id"`
	Preset           string             `json:"preset" yaml:"preset"`
	Baselining       bool               `json:"baselining" yaml:"baselining"`
	JobCount         int                `json:"job_count" yaml:"job_count"`
	Matrix           *matrix.Matrix     `json:"matrix" yaml:"matrix"`
	ProcessKinds     []models.JobKind   `json:"process_kinds" yaml:"process_kinds"`
	ProcessLocations []models.Location  `json:"process_locations" yaml:"process_locations"`
	Collisions       []matrix.Collision `json:"collisions,omitempty" yaml:"collisions,omitempty"`
}

// NewDocument wraps a build result
func NewDocument(runID, preset string, baselining bool, res *matrix.Result) *Document {
	return &Document{
		RunID:            runID,
		Preset:           preset,
		Baselining:       baselining,
		JobCount:         res.JobCount(),
		Matrix:           res.Matrix,
		ProcessKinds:     res.Kinds,
		ProcessLocations: res.Locations,
		Collisions:       res.Collisions,
	}
}

// Variable is a named pipeline output
type Variable struct {
	Name  string
	Value string
}

// MatrixVariable returns the pipeline variable name of an agent's bucket
func MatrixVariable(agent models.AgentID) string {
	return "MATRIX_" + strings.ReplaceAll(string(agent), "-", "_")
}

// Variables returns the document's pipeline variables in output order:
// one per agent bucket, then the processed kinds and locations.
func Variables(doc *Document) ([]Variable, error) {
	agents := doc.Matrix.Agents()
	vars := make([]Variable, 0, len(agents)+2)
	for _, agent := range agents {
		value, err := matrix.EncodeJSON(doc.Matrix.Bucket(agent))
		if err != nil {
			return nil, err
		}
		vars = append(vars, Variable{Name: MatrixVariable(agent), Value: string(value)})
	}
	vars = append(vars,
		Variable{Name: KindsVariable, Value: joinKinds(doc.ProcessKinds, " ")},
		Variable{Name: LocationsVariable, Value: joinLocations(doc.ProcessLocations, ",")},
	)
	return vars, nil
}

func joinKinds(kinds []models.JobKind, sep string) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, sep)
}

func joinLocations(locations []models.Location, sep string) string {
	parts := make([]string, len(locations))
	for i, l := range locations {
		parts[i] = string(l)
	}
	return strings.Join(parts, sep)
}
