package emit

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// JSONEmitter writes the document as one indented JSON object
type JSONEmitter struct {
	w io.Writer
}

// NewJSONEmitter creates a JSON emitter
func NewJSONEmitter(w io.Writer) *JSONEmitter {
	return &JSONEmitter{w: w}
}

// Emit writes the document
func (e *JSONEmitter) Emit(doc *Document) error {
	enc := json.NewEncoder(e.w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	return nil
}

// YAMLEmitter writes the document as YAML
type YAMLEmitter struct {
	w io.Writer
}

// NewYAMLEmitter creates a YAML emitter
func NewYAMLEmitter(w io.Writer) *YAMLEmitter {
	return &YAMLEmitter{w: w}
}

// Emit writes the document
func (e *YAMLEmitter) Emit(doc *Document) error {
	enc := yaml.NewEncoder(e.w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	return enc.Close()
}
