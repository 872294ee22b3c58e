package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/wrightline/panelplan/pkg/wall"
)

// ReadLayout decodes a JSON layout from r.
//
// The input must carry params and a schedule; name, edits, params_hash,
// and objects are optional. ReadLayout returns an error if:
//   - The JSON is malformed or invalid
//   - The parameters fail validation
//   - The schedule's panels violate a structural invariant: duplicate
//     ids, a first panel not starting at zero, a gap or overlap between
//     panels, or widths not covering the full wall
//
// Errors are wrapped with context describing which part of the file
// caused the problem.
//
// The returned layout is independent of r and can be modified safely
// after ReadLayout returns. ReadLayout does not close r.
func ReadLayout(r io.Reader) (*Layout, error) {
	var l Layout
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	if err := l.Params.Validate(); err != nil {
		return nil, fmt.Errorf("params: %w", err)
	}
	if err := wall.ValidatePanels(l.Schedule.Panels); err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}

	return &l, nil
}

// ImportLayout reads a JSON layout file at path and returns the decoded
// layout.
//
// ImportLayout opens the file, decodes it using [ReadLayout], and closes
// the file. It returns the same validation errors as [ReadLayout] for
// malformed or inconsistent layouts, wrapped with the file path.
func ImportLayout(path string) (*Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	l, err := ReadLayout(f)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	return l, nil
}
