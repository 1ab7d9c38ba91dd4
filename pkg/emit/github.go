package emit

import (
	"bufio"
	"fmt"
	"io"
)

// GitHubEmitter writes GitHub Actions step outputs (name=value lines), the
// format expected in the file named by $GITHUB_OUTPUT
type GitHubEmitter struct {
	w io.Writer
}

// NewGitHubEmitter creates a GitHub Actions emitter
func NewGitHubEmitter(w io.Writer) *GitHubEmitter {
	return &GitHubEmitter{w: w}
}

// Emit writes the document
func (e *GitHubEmitter) Emit(doc *Document) error {
	vars, err := Variables(doc)
	if err != nil {
		return fmt.Errorf("failed to encode matrix: %w", err)
	}

	bw := bufio.NewWriter(e.w)
	for _, v := range vars {
		fmt.Fprintf(bw, "%s=%s\n", v.Name, v.Value)
	}
	return bw.Flush()
}
