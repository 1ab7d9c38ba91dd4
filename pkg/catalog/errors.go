package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownPreset is returned when a preset name has no catalog entry
	ErrUnknownPreset = errors.New("unknown preset")
	// ErrUnknownHost is returned when a host alias or id is not in the catalog
	ErrUnknownHost = errors.New("unknown host")
	// ErrUnknownScenario is returned when a scenario name is not in the catalog
	ErrUnknownScenario = errors.New("unknown scenario")
	// ErrInvalidCatalog is returned when a loaded catalog fails validation
	ErrInvalidCatalog = errors.New("invalid catalog")
)

// UnknownPresetError carries the preset name that failed to resolve
type UnknownPresetError struct {
	Name string
}

func (e *UnknownPresetError) Error() string {
	return fmt.Sprintf("Unknown preset: %s", e.Name)
}

// Unwrap lets errors.Is match ErrUnknownPreset
func (e *UnknownPresetError) Unwrap() error {
	return ErrUnknownPreset
}
