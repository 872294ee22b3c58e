package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/wrightline/panelplan/pkg/wall"
)

// Layout is the serialized form of a computed wall: the inputs the
// schedule was computed from and the outputs downstream tools consume.
type Layout struct {
	Name       string          `json:"name,omitempty"`
	Params     wall.Parameters `json:"params"`
	Edits      *wall.Edits     `json:"edits,omitempty"`
	ParamsHash string          `json:"params_hash,omitempty"`
	Schedule   wall.Schedule   `json:"schedule"`
	Objects    []wall.Object   `json:"objects,omitempty"`
}

// WriteLayout encodes a layout as JSON and writes it to w.
// This format can be re-imported with [ReadLayout] for round-trip processing.
func WriteLayout(l *Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportLayout writes a layout to a JSON file at path.
// This is a convenience wrapper around [WriteLayout] for file-based output.
func ExportLayout(l *Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteLayout(l, f)
}
