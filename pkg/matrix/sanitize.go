package matrix

import (
	"regexp"

	"github.com/psantana5/tsperf-matrix/pkg/models"
)

var invalidJobNameChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// Sanitize replaces every character outside [A-Za-z0-9_] with an underscore
// so the result can be used as a pipeline job or variable name. Distinct
// inputs may sanitize to the same name.
func Sanitize(name string) models.JobName {
	return models.JobName(invalidJobNameChars.ReplaceAllString(name, "_"))
}

// JobNameFor builds the sanitized name of a (kind, host, scenario) job
func JobNameFor(kind models.JobKind, host models.HostID, scenario string) models.JobName {
	return Sanitize(string(kind) + "_" + string(host) + "_" + scenario)
}
