package report

import (
	"fmt"
	"strings"

	"github.com/psantana5/tsperf-matrix/pkg/emit"
	"github.com/psantana5/tsperf-matrix/pkg/logging"
)

// SummaryLine renders a one-line description of a generated matrix
func SummaryLine(doc *emit.Document) string {
	var buckets []string
	for _, agent := range doc.Matrix.Agents() {
		if n := doc.Matrix.Bucket(agent).Len(); n > 0 {
			buckets = append(buckets, fmt.Sprintf("%s:%d", agent, n))
		}
	}

	kinds := make([]string, len(doc.ProcessKinds))
	for i, k := range doc.ProcessKinds {
		kinds[i] = string(k)
	}

	return fmt.Sprintf("MATRIX %s | preset=%s | baselining=%t | jobs=%d | kinds=%s | buckets=%s | collisions=%d",
		doc.RunID,
		doc.Preset,
		doc.Baselining,
		doc.JobCount,
		strings.Join(kinds, ","),
		strings.Join(buckets, ","),
		len(doc.Collisions),
	)
}

// LogDocument logs the summary and one warning per name collision
func LogDocument(logger *logging.Logger, doc *emit.Document) {
	logger.Info(SummaryLine(doc))
	for _, c := range doc.Collisions {
		logger.Warn("job name collision, later job replaces earlier one", map[string]interface{}{
			"agent":       string(c.Agent),
			"name":        string(c.Name),
			"previous":    c.Previous.Scenario + "@" + string(c.Previous.Host),
			"replacement": c.Replacement.Scenario + "@" + string(c.Replacement.Host),
		})
	}
}
