package emit

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/psantana5/tsperf-matrix/pkg/models"
)

// WriteSummary prints a per-agent table of the matrix
func WriteSummary(w io.Writer, doc *Document) error {
	table := tablewriter.NewWriter(w)
	table.Header("Agent", "Variable", "Jobs", "Kinds", "Iterations")

	totalJobs, totalIterations := 0, 0
	for _, agent := range doc.Matrix.Agents() {
		bucket := doc.Matrix.Bucket(agent)
		kinds := make(map[models.JobKind]bool)
		var order []string
		iterations := 0
		for _, job := range bucket.Jobs() {
			if !kinds[job.Kind] {
				kinds[job.Kind] = true
				order = append(order, string(job.Kind))
			}
			iterations += job.Iterations
		}
		totalJobs += bucket.Len()
		totalIterations += iterations

		if err := table.Append(
			string(agent),
			MatrixVariable(agent),
			fmt.Sprintf("%d", bucket.Len()),
			strings.Join(order, " "),
			fmt.Sprintf("%d", iterations),
		); err != nil {
			return err
		}
	}

	if err := table.Append("total", "", fmt.Sprintf("%d", totalJobs), joinKinds(doc.ProcessKinds, " "), fmt.Sprintf("%d", totalIterations)); err != nil {
		return err
	}
	return table.Render()
}
