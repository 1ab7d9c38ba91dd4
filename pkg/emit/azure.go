package emit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// AzureEmitter writes Azure Pipelines logging commands. Each variable is
// echoed as name=value and then set as a job output with
// ##vso[task.setvariable]. Every matrix variable is followed by its
// bucket pretty-printed with four-space indentation.
type AzureEmitter struct {
	w io.Writer
}

// NewAzureEmitter creates an Azure Pipelines emitter
func NewAzureEmitter(w io.Writer) *AzureEmitter {
	return &AzureEmitter{w: w}
}

// Emit writes the document
func (e *AzureEmitter) Emit(doc *Document) error {
	vars, err := Variables(doc)
	if err != nil {
		return fmt.Errorf("failed to encode matrix: %w", err)
	}

	bw := bufio.NewWriter(e.w)
	agents := doc.Matrix.Agents()
	for i, v := range vars {
		setVariable(bw, v)
		if i < len(agents) {
			var pretty bytes.Buffer
			if err := json.Indent(&pretty, []byte(v.Value), "", "    "); err != nil {
				return fmt.Errorf("failed to indent %s: %w", v.Name, err)
			}
			pretty.WriteByte('\n')
			pretty.WriteTo(bw)
		}
	}
	return bw.Flush()
}

func setVariable(w io.Writer, v Variable) {
	fmt.Fprintf(w, "%s=%s\n", v.Name, v.Value)
	fmt.Fprintf(w, "##vso[task.setvariable variable=%s;isOutput=true]%s\n", v.Name, v.Value)
}
