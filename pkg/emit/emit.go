package emit

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrUnknownFormat is returned for an unsupported output format
var ErrUnknownFormat = errors.New("unknown output format")

// Format selects an output protocol
type Format string

const (
	FormatAzure  Format = "azure"
	FormatGitHub Format = "github"
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
)

// Formats lists the supported formats
func Formats() []Format {
	return []Format{FormatAzure, FormatGitHub, FormatJSON, FormatYAML}
}

// Emitter writes a document in one output protocol
type Emitter interface {
	Emit(doc *Document) error
}

// New returns the emitter for format writing to w
func New(format Format, w io.Writer) (Emitter, error) {
	switch Format(strings.ToLower(string(format))) {
	case FormatAzure:
		return &AzureEmitter{w: w}, nil
	case FormatGitHub:
		return &GitHubEmitter{w: w}, nil
	case FormatJSON:
		return &JSONEmitter{w: w}, nil
	case FormatYAML:
		return &YAMLEmitter{w: w}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}
