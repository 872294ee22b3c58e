package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/wrightline/panelplan/pkg/anchor"
	"github.com/wrightline/panelplan/pkg/cache"
	"github.com/wrightline/panelplan/pkg/errors"
	"github.com/wrightline/panelplan/pkg/units"
	"github.com/wrightline/panelplan/pkg/wall"
	"github.com/wrightline/panelplan/pkg/wallstate"
)

func testParams() wall.Parameters {
	return wall.Parameters{
		Width:      units.FromInches(96),
		Height:     units.FromInches(108),
		PanelWidth: units.FromInches(48),
	}
}

func testRunner(t *testing.T) *Runner {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	return NewRunner(nil, nil, logger)
}

func TestOptionsValidateForResolve(t *testing.T) {
	params := testParams()
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"no source", Options{}, true},
		{"params source", Options{Params: &params}, false},
		{"manifest path source", Options{ManifestFilename: "wall.toml"}, false},
		{"wall source", Options{WallID: "123e4567-e89b-12d3-a456-426614174000"}, false},
		{"two sources", Options{Params: &params, WallID: "123e4567-e89b-12d3-a456-426614174000"}, true},
		{"inline content without filename", Options{Manifest: "[wall]"}, true},
		{"malformed wall id", Options{WallID: "not-a-uuid"}, true},
		{"edits without params", Options{ManifestFilename: "wall.toml", Edits: &wall.Edits{}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForResolve()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateForResolve() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOptionsSource(t *testing.T) {
	params := testParams()
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"inline content", Options{Manifest: "[wall]", ManifestFilename: "w.toml"}, SourceManifest},
		{"path only", Options{ManifestFilename: "w.toml"}, SourceManifest},
		{"stored wall", Options{WallID: "id"}, SourceWall},
		{"parameters", Options{Params: &params}, SourceParams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opts.Source(); got != tt.want {
				t.Errorf("Source() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSetAnchorDefaults(t *testing.T) {
	opts := Options{
		Objects: []ObjectRequest{
			{Spec: anchor.Spec{Name: "exact"}},
			{Spec: anchor.Spec{Name: "aligned", Alignment: anchor.AlignCenter}},
		},
	}
	opts.SetAnchorDefaults()

	exact := opts.Objects[0]
	if exact.VerticalRef != wall.VerticalCenter {
		t.Errorf("VerticalRef = %q, want center", exact.VerticalRef)
	}
	if exact.MeasureFrom != wall.MeasureWallTop {
		t.Errorf("MeasureFrom = %q, want wall_top", exact.MeasureFrom)
	}
	if exact.HorizontalRef != wall.HorizontalCenter {
		t.Errorf("HorizontalRef = %q, want center", exact.HorizontalRef)
	}

	// Alignment mode resolves horizontally against panels, so the
	// horizontal reference must stay unset.
	aligned := opts.Objects[1]
	if aligned.HorizontalRef != "" {
		t.Errorf("aligned HorizontalRef = %q, want empty", aligned.HorizontalRef)
	}
	if opts.Logger == nil {
		t.Error("Logger not defaulted")
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	params := testParams()
	opts := Options{
		Params:  &params,
		Objects: []ObjectRequest{{Spec: anchor.Spec{Name: "o"}}},
	}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}

	originalRef := opts.Objects[0].VerticalRef
	originalLogger := opts.Logger

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}

	if opts.Objects[0].VerticalRef != originalRef {
		t.Error("VerticalRef changed on second call")
	}
	if opts.Logger != originalLogger {
		t.Error("Logger changed on second call")
	}
}

func TestObjectRequestJSONShape(t *testing.T) {
	req := ObjectRequest{
		Spec: anchor.Spec{
			Name:   "sconce",
			Width:  units.FromInches(6),
			Height: units.FromInches(10),
		},
		Panels: []int{1, 2},
	}
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"name":"sconce"`) || !strings.Contains(s, `"panels":[1,2]`) {
		t.Errorf("spec fields should marshal flat, got %s", s)
	}
	if strings.Contains(s, `"Spec"`) {
		t.Errorf("embedded spec leaked as a nested field: %s", s)
	}
}

func TestExecuteWithParams(t *testing.T) {
	runner := testRunner(t)
	params := testParams()

	result, err := runner.Execute(context.Background(), Options{Params: &params})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.Schedule.Mode != "fixed_width" {
		t.Errorf("Mode = %q, want fixed_width", result.Schedule.Mode)
	}
	if result.Stats.PanelCount != 2 {
		t.Errorf("PanelCount = %d, want 2", result.Stats.PanelCount)
	}
	if result.ParamsHash == "" {
		t.Error("ParamsHash not set")
	}
	if result.CacheInfo.ComputeHit {
		t.Error("first run must not hit the cache")
	}
}

func TestExecuteWithInlineEdits(t *testing.T) {
	runner := testRunner(t)
	params := testParams()
	var edits wall.Edits
	edits.SetOverride(1, 36)
	edits.SetOverride(2, 60)

	result, err := runner.Execute(context.Background(), Options{Params: &params, Edits: &edits})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Schedule.Mode != "custom_override" {
		t.Errorf("Mode = %q, want custom_override", result.Schedule.Mode)
	}
	if result.Stats.PanelCount != 2 {
		t.Errorf("PanelCount = %d, want 2", result.Stats.PanelCount)
	}
}

func TestExecuteWithManifestFile(t *testing.T) {
	src := `
[wall]
name = "den"
width = "8'"
height = "9'"

[panels]
width = "4'"

[[objects]]
name = "outlet"
width = "3\""
height = "5\""
vertical_distance = "80\""
horizontal_distance = "12\""
`
	path := filepath.Join(t.TempDir(), "den.toml")
	if err := os.WriteFile(path, []byte(src), 0600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	runner := testRunner(t)
	result, err := runner.Execute(context.Background(), Options{ManifestFilename: path})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.Name != "den" {
		t.Errorf("Name = %q, want den", result.Name)
	}
	if result.Stats.PanelCount != 2 {
		t.Errorf("PanelCount = %d, want 2", result.Stats.PanelCount)
	}
	if result.Stats.ObjectCount != 1 {
		t.Fatalf("ObjectCount = %d, want 1", result.Stats.ObjectCount)
	}
	if result.Objects[0].Name != "outlet" {
		t.Errorf("Objects[0].Name = %q", result.Objects[0].Name)
	}
}

func TestExecuteWithInlineManifest(t *testing.T) {
	runner := testRunner(t)
	opts := Options{
		Manifest:         "[wall]\nwidth = \"8'\"\nheight = \"8'\"\n[panels]\nwidth = \"4'\"\n",
		ManifestFilename: "inline.toml",
	}
	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Stats.PanelCount != 2 {
		t.Errorf("PanelCount = %d, want 2", result.Stats.PanelCount)
	}
}

func TestExecuteWithStoredWall(t *testing.T) {
	store := wallstate.NewMemoryStore()
	defer store.Close()

	rec := wallstate.New("studio", testParams())
	rec.Objects = []wall.Object{{
		ID:       "1f0e8f60-0000-4000-8000-000000000000",
		Name:     "switch",
		Width:    units.FromInches(3),
		Height:   units.FromInches(5),
		XPercent: 10,
		YPercent: 50,
	}}
	ctx := context.Background()
	if err := store.Set(ctx, rec); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	runner := testRunner(t)
	opts := Options{
		WallID: rec.ID,
		Store:  store,
		Objects: []ObjectRequest{{
			Spec: anchor.Spec{
				Name:             "sconce",
				Width:            units.FromInches(6),
				Height:           units.FromInches(10),
				VerticalDistance: units.FromInches(40),
				Alignment:        anchor.AlignCenter,
			},
			Panels: []int{1},
		}},
	}
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.Name != "studio" {
		t.Errorf("Name = %q, want studio", result.Name)
	}
	// Stored objects pass through ahead of freshly placed ones.
	if result.Stats.ObjectCount != 2 {
		t.Fatalf("ObjectCount = %d, want 2", result.Stats.ObjectCount)
	}
	if result.Objects[0].Name != "switch" || result.Objects[1].Name != "sconce" {
		t.Errorf("object order = %q, %q", result.Objects[0].Name, result.Objects[1].Name)
	}
}

func TestExecuteWallNotFound(t *testing.T) {
	store := wallstate.NewMemoryStore()
	defer store.Close()

	runner := testRunner(t)
	opts := Options{
		WallID: "123e4567-e89b-12d3-a456-426614174000",
		Store:  store,
	}
	_, err := runner.Execute(context.Background(), opts)
	if !errors.Is(err, errors.ErrCodeWallNotFound) {
		t.Errorf("Execute() error = %v, want WALL_NOT_FOUND", err)
	}
}

func TestExecuteWallSourceWithoutStore(t *testing.T) {
	runner := testRunner(t)
	opts := Options{WallID: "123e4567-e89b-12d3-a456-426614174000"}
	if _, err := runner.Execute(context.Background(), opts); err == nil {
		t.Error("Execute() without a store should fail")
	}
}

func TestExecuteCaching(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := NewRunner(fc, nil, logger)
	defer runner.Close()

	params := testParams()
	opts := Options{
		Params: &params,
		Objects: []ObjectRequest{{
			Spec: anchor.Spec{
				Name:             "vent",
				Width:            units.FromInches(10),
				Height:           units.FromInches(4),
				VerticalDistance: units.FromInches(12),
				Alignment:        anchor.AlignCenter,
			},
			Panels: []int{2},
		}},
	}
	ctx := context.Background()

	first, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}
	if first.CacheInfo.ComputeHit || first.CacheInfo.AnchorHit {
		t.Error("first run must not hit the cache")
	}

	second, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if !second.CacheInfo.ComputeHit {
		t.Error("second run should hit the layout cache")
	}
	if !second.CacheInfo.AnchorHit {
		t.Error("second run should hit the anchor cache")
	}
	if len(second.Schedule.Panels) != len(first.Schedule.Panels) {
		t.Errorf("cached schedule differs: %d vs %d panels",
			len(second.Schedule.Panels), len(first.Schedule.Panels))
	}
	if second.Objects[0].ID != first.Objects[0].ID {
		t.Error("cached placement should keep the original object id")
	}

	refreshOpts := opts
	refreshOpts.Refresh = true
	third, err := runner.Execute(ctx, refreshOpts)
	if err != nil {
		t.Fatalf("refresh Execute() error = %v", err)
	}
	if third.CacheInfo.ComputeHit || third.CacheInfo.AnchorHit {
		t.Error("refresh must bypass the cache")
	}
}

func TestAnchorWithNoSpecs(t *testing.T) {
	runner := testRunner(t)
	params := testParams()

	sched, err := runner.Compute(context.Background(), params, wall.Edits{}, Options{})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	objects, hit, err := runner.AnchorWithCacheInfo(context.Background(), params, sched, nil, Options{})
	if err != nil {
		t.Fatalf("AnchorWithCacheInfo() error = %v", err)
	}
	if objects != nil || hit {
		t.Errorf("empty specs should be a no-op, got %v (hit=%v)", objects, hit)
	}
}

func TestAnchorPlacementError(t *testing.T) {
	runner := testRunner(t)
	params := testParams()

	sched, err := runner.Compute(context.Background(), params, wall.Edits{}, Options{})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	// Alignment over an empty selection cannot be resolved.
	specs := []ObjectRequest{{
		Spec: anchor.Spec{
			Name:        "floating",
			Width:       units.FromInches(6),
			Height:      units.FromInches(6),
			VerticalRef: wall.VerticalCenter,
			MeasureFrom: wall.MeasureWallTop,
			Alignment:   anchor.AlignCenter,
		},
	}}
	_, _, err = runner.AnchorWithCacheInfo(context.Background(), params, sched, specs, Options{})
	if !errors.Is(err, errors.ErrCodeInvalidSelection) {
		t.Errorf("error = %v, want INVALID_SELECTION", err)
	}
}
