package wall

import (
	"testing"

	"github.com/wrightline/panelplan/pkg/errors"
	"github.com/wrightline/panelplan/pkg/units"
)

func TestValidatePanels(t *testing.T) {
	tests := []struct {
		name     string
		panels   []Panel
		wantCode errors.Code
	}{
		{
			name: "valid two panel schedule",
			panels: []Panel{
				{ID: 1, X: 0, Width: 50},
				{ID: 2, X: 50, Width: 50},
			},
		},
		{
			name: "valid single panel",
			panels: []Panel{
				{ID: 1, X: 0, Width: 100},
			},
		},
		{
			name: "accumulated float error within tolerance",
			panels: []Panel{
				{ID: 1, X: 0, Width: 100.0 / 3},
				{ID: 2, X: 100.0 / 3, Width: 100.0 / 3},
				{ID: 3, X: 200.0 / 3, Width: 100.0 / 3},
			},
		},
		{
			name:     "empty",
			panels:   nil,
			wantCode: errors.ErrCodeConstraint,
		},
		{
			name: "first panel offset from zero",
			panels: []Panel{
				{ID: 1, X: 1, Width: 99},
			},
			wantCode: errors.ErrCodeConstraint,
		},
		{
			name: "gap between panels",
			panels: []Panel{
				{ID: 1, X: 0, Width: 40},
				{ID: 2, X: 50, Width: 50},
			},
			wantCode: errors.ErrCodeConstraint,
		},
		{
			name: "overlap between panels",
			panels: []Panel{
				{ID: 1, X: 0, Width: 60},
				{ID: 2, X: 50, Width: 50},
			},
			wantCode: errors.ErrCodeConstraint,
		},
		{
			name: "coverage shortfall",
			panels: []Panel{
				{ID: 1, X: 0, Width: 40},
				{ID: 2, X: 40, Width: 40},
			},
			wantCode: errors.ErrCodeConstraint,
		},
		{
			name: "duplicate panel id",
			panels: []Panel{
				{ID: 1, X: 0, Width: 50},
				{ID: 1, X: 50, Width: 50},
			},
			wantCode: errors.ErrCodeConstraint,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePanels(tt.panels)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("ValidatePanels() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("ValidatePanels() = nil, want error")
			}
		})
	}
}

func TestValidatePanelsCoverageErrorCarriesTotal(t *testing.T) {
	err := ValidatePanels([]Panel{{ID: 1, X: 0, Width: 98.5}, {ID: 2, X: 98.5, Width: 0.5}})
	covErr, ok := err.(*errors.CoverageError)
	if !ok {
		t.Fatalf("ValidatePanels() = %T, want *errors.CoverageError", err)
	}
	if !almostEqual(covErr.Total, 99) {
		t.Errorf("CoverageError.Total = %v, want 99", covErr.Total)
	}
}

func TestPanelEnd(t *testing.T) {
	p := Panel{X: 25, Width: 30}
	if got := p.End(); got != 55 {
		t.Errorf("End() = %v, want 55", got)
	}
}

func TestWidths(t *testing.T) {
	panels := []Panel{
		{ID: 1, Width: 48, ActualWidth: units.FromFeetInches(4, 0, 0)},
		{ID: 2, Width: 52, ActualWidth: units.FromInches(52)},
	}
	got := Widths(panels)
	if len(got) != 2 || got[0] != 48 || got[1] != 52 {
		t.Errorf("Widths() = %v, want [48 52]", got)
	}
}
