package io

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wrightline/panelplan/pkg/layout"
	"github.com/wrightline/panelplan/pkg/units"
	"github.com/wrightline/panelplan/pkg/wall"
)

func testParams() wall.Parameters {
	return wall.Parameters{
		Width:      units.FromInches(96),
		Height:     units.FromInches(108),
		PanelWidth: units.FromInches(48),
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	params := testParams()
	var edits wall.Edits
	edits.SetOverride(2, 60)

	sched, err := layout.Compute(params, edits)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}

	l := &Layout{
		Name:       "den north",
		Params:     params,
		Edits:      &edits,
		ParamsHash: "f2a9",
		Schedule:   sched,
		Objects: []wall.Object{{
			ID:            "obj-1",
			Name:          "sconce",
			Width:         units.FromInches(6),
			Height:        units.FromInches(10),
			XPercent:      25,
			YPercent:      40,
			VerticalRef:   wall.VerticalCenter,
			HorizontalRef: wall.HorizontalCenter,
			MeasureFrom:   wall.MeasureWallTop,
		}},
	}

	var buf bytes.Buffer
	if err := WriteLayout(l, &buf); err != nil {
		t.Fatalf("WriteLayout() error: %v", err)
	}

	got, err := ReadLayout(&buf)
	if err != nil {
		t.Fatalf("ReadLayout() error: %v", err)
	}

	if got.Name != l.Name {
		t.Errorf("Name = %q, want %q", got.Name, l.Name)
	}
	if got.ParamsHash != l.ParamsHash {
		t.Errorf("ParamsHash = %q, want %q", got.ParamsHash, l.ParamsHash)
	}
	if got.Schedule.Mode != sched.Mode {
		t.Errorf("Mode = %q, want %q", got.Schedule.Mode, sched.Mode)
	}
	if len(got.Schedule.Panels) != len(sched.Panels) {
		t.Fatalf("panel count = %d, want %d", len(got.Schedule.Panels), len(sched.Panels))
	}
	for i, p := range got.Schedule.Panels {
		want := sched.Panels[i]
		if p.ID != want.ID {
			t.Errorf("panel %d: ID = %d, want %d", i, p.ID, want.ID)
		}
		if math.Abs(p.X-want.X) > 1e-9 || math.Abs(p.Width-want.Width) > 1e-9 {
			t.Errorf("panel %d: position = (%v, %v), want (%v, %v)", i, p.X, p.Width, want.X, want.Width)
		}
		if p.ActualWidth.ToInches() != want.ActualWidth.ToInches() {
			t.Errorf("panel %d: actual width = %v, want %v", i, p.ActualWidth, want.ActualWidth)
		}
	}

	if got.Edits == nil {
		t.Fatal("Edits should survive the round trip")
	}
	if got.Edits.Overrides[2] != 60 {
		t.Errorf("override = %v, want 60", got.Edits.Overrides[2])
	}

	if len(got.Objects) != 1 {
		t.Fatalf("object count = %d, want 1", len(got.Objects))
	}
	if got.Objects[0].Name != "sconce" || got.Objects[0].XPercent != 25 {
		t.Errorf("object = %+v, want sconce at 25%%", got.Objects[0])
	}
}

func TestReadLayoutErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "malformed json",
			input:   `{`,
			wantErr: "decode",
		},
		{
			name:    "missing params",
			input:   `{"schedule": {"mode": "fixed_width", "panels": [{"id": 1, "x": 0, "width": 100}]}}`,
			wantErr: "params",
		},
		{
			name: "no panels",
			input: `{"params": {"width": "8'", "height": "9'", "panel_width": "4'"},
				"schedule": {"mode": "fixed_width", "panels": []}}`,
			wantErr: "schedule",
		},
		{
			name: "duplicate panel ids",
			input: `{"params": {"width": "8'", "height": "9'", "panel_width": "4'"},
				"schedule": {"mode": "fixed_width", "panels": [
					{"id": 1, "x": 0, "width": 50},
					{"id": 1, "x": 50, "width": 50}]}}`,
			wantErr: "schedule",
		},
		{
			name: "gap between panels",
			input: `{"params": {"width": "8'", "height": "9'", "panel_width": "4'"},
				"schedule": {"mode": "fixed_width", "panels": [
					{"id": 1, "x": 0, "width": 40},
					{"id": 2, "x": 60, "width": 40}]}}`,
			wantErr: "schedule",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadLayout(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("ReadLayout() should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestExportImportLayout(t *testing.T) {
	params := testParams()
	sched, err := layout.Compute(params, wall.Edits{})
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "den.layout.json")
	l := &Layout{Name: "den", Params: params, Schedule: sched}

	if err := ExportLayout(l, path); err != nil {
		t.Fatalf("ExportLayout() error: %v", err)
	}

	got, err := ImportLayout(path)
	if err != nil {
		t.Fatalf("ImportLayout() error: %v", err)
	}
	if got.Name != "den" || len(got.Schedule.Panels) != len(sched.Panels) {
		t.Errorf("imported layout = %q with %d panels, want %q with %d",
			got.Name, len(got.Schedule.Panels), "den", len(sched.Panels))
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("exported file should exist: %v", err)
	}
}

func TestImportLayoutMissingFile(t *testing.T) {
	_, err := ImportLayout(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("ImportLayout() should fail for a missing file")
	}
	if !strings.Contains(err.Error(), "open") {
		t.Errorf("error = %q, want open failure", err)
	}
}
