package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// WriteText writes every gathered metric family in Prometheus text format
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	var buf bytes.Buffer
	encoder := expfmt.NewEncoder(&buf, expfmt.FmtText)
	for _, mf := range families {
		if err := encoder.Encode(mf); err != nil {
			return fmt.Errorf("failed to encode metric %s: %w", mf.GetName(), err)
		}
	}

	_, err = w.Write(buf.Bytes())
	return err
}

// WriteTextfile writes the metrics to path for the node exporter textfile
// collector. The file is replaced atomically so the collector never reads a
// partial file.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create metrics file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteText(tmp, g); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to chmod metrics file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move metrics file into place: %w", err)
	}
	return nil
}
