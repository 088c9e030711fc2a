// Package specfile loads histogram definitions from YAML files. A definition
// file declares the histograms a sorting run should book: identity, per-axis
// binning, and buffering.
package specfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/vetlewi/histogram"
	apperrors "github.com/vetlewi/histogram/internal/platform/errors"
)

// ErrInvalid indicates a definition file that cannot book histograms.
var ErrInvalid = apperrors.New(apperrors.CodeSpecFileInvalid, "invalid histogram definition file")

// ErrDuplicateName indicates two definitions sharing a histogram name.
var ErrDuplicateName = apperrors.New(apperrors.CodeSpecFileDuplicate, "duplicate histogram name")

// File is the top-level YAML document.
type File struct {
	Histograms []Definition `yaml:"histograms"`
}

// Definition declares one histogram to book.
type Definition struct {
	Name           string           `yaml:"name"`
	Title          string           `yaml:"title"`
	Path           string           `yaml:"path"`
	Buffered       bool             `yaml:"buffered"`
	BufferCapacity int              `yaml:"buffer_capacity"`
	Axes           []AxisDefinition `yaml:"axes"`
}

// AxisDefinition declares one axis of a histogram.
type AxisDefinition struct {
	Channels int     `yaml:"channels"`
	Left     float64 `yaml:"left"`
	Right    float64 `yaml:"right"`
	Title    string  `yaml:"title"`
}

// Load reads and parses a definition file.
func Load(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definition file: %w", err)
	}
	return Parse(data)
}

// Parse decodes definitions from YAML and validates them. Unknown fields are
// rejected so a typo in a definition never silently books the wrong binning.
func Parse(data []byte) ([]Definition, error) {
	var file File
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeSpecFileInvalid, "parse definition file", err)
	}
	if len(file.Histograms) == 0 {
		return nil, apperrors.New(apperrors.CodeSpecFileInvalid, "definition file declares no histograms")
	}

	seen := make(map[string]bool, len(file.Histograms))
	for i, def := range file.Histograms {
		if def.Name == "" {
			return nil, apperrors.New(apperrors.CodeSpecFileInvalid,
				fmt.Sprintf("histogram %d has no name", i))
		}
		if seen[def.Name] {
			return nil, apperrors.WithMetadata(apperrors.CodeSpecFileDuplicate,
				fmt.Sprintf("histogram name %q declared twice", def.Name),
				map[string]string{"name": def.Name})
		}
		seen[def.Name] = true
		if len(def.Axes) == 0 {
			return nil, apperrors.New(apperrors.CodeSpecFileInvalid,
				fmt.Sprintf("histogram %q declares no axes", def.Name))
		}
	}
	return file.Histograms, nil
}

// Build books one histogram per definition. Axis validation happens in the
// engine; a bad binning surfaces as histogram.ErrInvalidAxis.
func Build(defs []Definition) ([]*histogram.Histogram, error) {
	hists := make([]*histogram.Histogram, 0, len(defs))
	for _, def := range defs {
		axes := make([]histogram.Axis, len(def.Axes))
		for i, a := range def.Axes {
			axis, err := histogram.NewAxis(a.Channels, a.Left, a.Right, a.Title)
			if err != nil {
				return nil, fmt.Errorf("histogram %q: %w", def.Name, err)
			}
			axes[i] = axis
		}

		var opts []histogram.Option
		if def.Path != "" {
			opts = append(opts, histogram.WithPath(def.Path))
		}
		if def.Buffered {
			opts = append(opts, histogram.WithBuffer(def.BufferCapacity))
		}
		h, err := histogram.New(def.Name, def.Title, axes, opts...)
		if err != nil {
			return nil, fmt.Errorf("histogram %q: %w", def.Name, err)
		}
		hists = append(hists, h)
	}
	return hists, nil
}
