// Package io provides JSON import and export for computed wall layouts.
//
// # Overview
//
// This package serializes the hand-off artifact of a layout run: the
// resolved wall parameters, the edit state, the computed panel schedule,
// and any anchored objects. The format is designed for:
//
//   - Hand-off to renderers, cut-list generators, and CAD tooling
//   - Round-trip preservation: export, inspect, and re-import identically
//   - Comparing schedules across parameter changes via the content hash
//
// # JSON Format
//
// A layout file is a single JSON object:
//
//	{
//	  "name": "den north",
//	  "params": {"width": "8'", "height": "9'", "panel_width": "4'", ...},
//	  "params_hash": "f2a9...",
//	  "schedule": {
//	    "mode": "fixed_width",
//	    "panels": [
//	      {"id": 1, "x": 0, "width": 50, "actual_width": "4'", "height": "7'-6\""},
//	      {"id": 2, "x": 50, "width": 50, "actual_width": "4'", "height": "7'-6\""}
//	    ]
//	  },
//	  "objects": [
//	    {"id": "...", "name": "sconce", "x_percent": 25, "y_percent": 44.4, ...}
//	  ]
//	}
//
// Required fields are params and schedule. Optional fields:
//   - name: the wall's display name
//   - edits: overrides and splits the schedule was computed with
//   - params_hash: content hash of the resolved parameters
//   - objects: anchored objects with their resolved percent positions
//
// Dimensions are strings in shop notation (feet-and-inches with fractions)
// and parse through units.Dimension. Panel x and width are percentages of
// the wall width, so the file stays meaningful if a consumer rescales it.
//
// # Import
//
// Use [ImportLayout] to read a layout from a file path, or [ReadLayout] to
// read from any io.Reader:
//
//	l, err := io.ImportLayout("den.layout.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Both functions validate the parameters and the schedule invariants:
// unique panel ids, the first panel starting at zero, panels tiling the
// wall without gap or overlap, and widths covering the full wall. Errors
// are wrapped with context about which part of the file failed.
//
// # Export
//
// Use [ExportLayout] to write a layout to a file, or [WriteLayout] to
// write to any io.Writer:
//
//	err := io.ExportLayout(l, "den.layout.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The export preserves everything needed to re-import identically: the
// parameters, edit state, panel sequence, and object placements.
package io
