package api

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/wrightline/panelplan/pkg/anchor"
	"github.com/wrightline/panelplan/pkg/cache"
	"github.com/wrightline/panelplan/pkg/errors"
	"github.com/wrightline/panelplan/pkg/pipeline"
	"github.com/wrightline/panelplan/pkg/units"
	"github.com/wrightline/panelplan/pkg/wall"
	"github.com/wrightline/panelplan/pkg/wallstate"
)

// testServer builds a server with in-memory storage, no cache, and silent
// logging.
func testServer(t *testing.T) *Server {
	t.Helper()
	quiet := log.NewWithOptions(io.Discard, log.Options{})
	return New(pipeline.NewRunner(nil, nil, quiet), wallstate.NewMemoryStore(), quiet)
}

// testParams is an 8' by 9' wall with 4' stock panels.
func testParams() wall.Parameters {
	return wall.Parameters{
		Width:      units.FromInches(96),
		Height:     units.FromInches(108),
		PanelWidth: units.FromInches(48),
	}
}

// doRequest serves one request against the router. A string body is sent
// verbatim; anything else is marshaled to JSON.
func doRequest(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		rd = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, rd)
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response body: %v\nbody: %s", err, rr.Body)
	}
}

// wantErrorCode asserts the status and the structured code in the error body.
func wantErrorCode(t *testing.T, rr *httptest.ResponseRecorder, status int, code errors.Code) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, status, rr.Body)
	}
	var resp errorResponse
	decodeBody(t, rr, &resp)
	if resp.Code != code {
		t.Errorf("error code = %q, want %q (error %q)", resp.Code, code, resp.Error)
	}
	if resp.Error == "" {
		t.Error("error message is empty")
	}
}

func TestHealthz(t *testing.T) {
	s := testServer(t)
	rr := doRequest(t, s, http.MethodGet, "/healthz", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var resp healthResponse
	decodeBody(t, rr, &resp)
	if resp.Status != "ok" {
		t.Errorf("status field = %q, want ok", resp.Status)
	}
	if resp.Version == "" {
		t.Error("version field is empty")
	}
}

func TestLayoutEndpoint(t *testing.T) {
	s := testServer(t)
	p := testParams()
	rr := doRequest(t, s, http.MethodPost, "/v1/layout", pipeline.Options{Params: &p})

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, http.StatusOK, rr.Body)
	}

	var resp layoutResponse
	decodeBody(t, rr, &resp)
	if resp.Schedule.Mode != "fixed_width" {
		t.Errorf("mode = %q, want fixed_width", resp.Schedule.Mode)
	}
	if len(resp.Schedule.Panels) != 2 {
		t.Fatalf("panels = %d, want 2", len(resp.Schedule.Panels))
	}
	for i, panel := range resp.Schedule.Panels {
		if math.Abs(panel.Width-50) > 1e-9 {
			t.Errorf("panel %d width = %v, want 50", i, panel.Width)
		}
	}
	if resp.ParamsHash == "" {
		t.Error("params_hash is empty")
	}
	if resp.Stats.PanelCount != 2 {
		t.Errorf("stats.panel_count = %d, want 2", resp.Stats.PanelCount)
	}
	if resp.Edits != nil {
		t.Errorf("edits = %+v, want omitted for an unedited layout", resp.Edits)
	}
}

func TestLayoutEndpointManifest(t *testing.T) {
	manifest := `
[wall]
name = "den"
width = "8'"
height = "9'"

[panels]
width = "4'"
`
	s := testServer(t)
	rr := doRequest(t, s, http.MethodPost, "/v1/layout", pipeline.Options{
		Manifest:         manifest,
		ManifestFilename: "den.toml",
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, http.StatusOK, rr.Body)
	}

	var resp layoutResponse
	decodeBody(t, rr, &resp)
	if resp.Name != "den" {
		t.Errorf("name = %q, want den", resp.Name)
	}
	if len(resp.Schedule.Panels) != 2 {
		t.Errorf("panels = %d, want 2", len(resp.Schedule.Panels))
	}
}

func TestLayoutEndpointErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantCode   errors.Code
	}{
		{
			name:       "empty body",
			body:       nil,
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrCodeInvalidInput,
		},
		{
			name:       "malformed json",
			body:       `{"params":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrCodeInvalidInput,
		},
		{
			name:       "unknown field",
			body:       `{"bogus": true}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrCodeInvalidInput,
		},
		{
			name:       "no source",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrCodeInvalidInput,
		},
		{
			name:       "missing height",
			body:       `{"params": {"width": "8'", "panel_width": "4'"}}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrCodeInvalidDimension,
		},
		{
			name:       "centered block wider than wall",
			body:       `{"params": {"width": "8'", "height": "9'", "center_panels": true, "center_count": 3}}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   errors.ErrCodeConstraint,
		},
		{
			name:       "unknown stored wall",
			body:       `{"wall_id": "123e4567-e89b-12d3-a456-426614174000"}`,
			wantStatus: http.StatusNotFound,
			wantCode:   errors.ErrCodeWallNotFound,
		},
	}

	s := testServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, s, http.MethodPost, "/v1/layout", tt.body)
			wantErrorCode(t, rr, tt.wantStatus, tt.wantCode)
		})
	}
}

func TestLayoutEndpointCaching(t *testing.T) {
	quiet := log.NewWithOptions(io.Discard, log.Options{})
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := pipeline.NewRunner(fc, nil, quiet)
	t.Cleanup(func() { runner.Close() })
	s := New(runner, wallstate.NewMemoryStore(), quiet)

	p := testParams()
	body := pipeline.Options{
		Params: &p,
		Objects: []pipeline.ObjectRequest{{
			Spec: anchor.Spec{
				Name:      "sconce",
				Width:     units.FromInches(6),
				Height:    units.FromInches(14),
				Alignment: anchor.AlignCenter,
			},
			Panels: []int{1},
		}},
	}

	rr := doRequest(t, s, http.MethodPost, "/v1/layout", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("first run: status = %d (body %s)", rr.Code, rr.Body)
	}
	var first layoutResponse
	decodeBody(t, rr, &first)
	if first.Cache.ComputeHit || first.Cache.AnchorHit {
		t.Errorf("first run cache = %+v, want cold", first.Cache)
	}

	rr = doRequest(t, s, http.MethodPost, "/v1/layout", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("second run: status = %d (body %s)", rr.Code, rr.Body)
	}
	var second layoutResponse
	decodeBody(t, rr, &second)
	if !second.Cache.ComputeHit || !second.Cache.AnchorHit {
		t.Errorf("second run cache = %+v, want hits", second.Cache)
	}
	if len(first.Objects) != 1 || len(second.Objects) != 1 {
		t.Fatalf("objects = %d and %d, want 1 each", len(first.Objects), len(second.Objects))
	}
	if first.Objects[0].ID != second.Objects[0].ID {
		t.Errorf("cached object id = %q, want %q from the first run", second.Objects[0].ID, first.Objects[0].ID)
	}
}

func TestAnchorEndpoint(t *testing.T) {
	s := testServer(t)
	p := testParams()

	t.Run("aligned placement", func(t *testing.T) {
		rr := doRequest(t, s, http.MethodPost, "/v1/anchor", pipeline.Options{
			Params: &p,
			Objects: []pipeline.ObjectRequest{{
				Spec: anchor.Spec{
					Name:      "sconce",
					Width:     units.FromInches(6),
					Height:    units.FromInches(14),
					Alignment: anchor.AlignCenter,
				},
				Panels: []int{1},
			}},
		})
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d (body %s)", rr.Code, http.StatusOK, rr.Body)
		}

		var resp anchorResponse
		decodeBody(t, rr, &resp)
		if len(resp.Objects) != 1 {
			t.Fatalf("objects = %d, want 1", len(resp.Objects))
		}
		obj := resp.Objects[0]
		if obj.ID == "" {
			t.Error("object id is empty")
		}
		if math.Abs(obj.XPercent-25) > 1e-9 {
			t.Errorf("x_percent = %v, want 25 (center of panel 1)", obj.XPercent)
		}
		if len(obj.AffectedPanels) != 1 || obj.AffectedPanels[0] != 1 {
			t.Errorf("affected panels = %v, want [1]", obj.AffectedPanels)
		}
	})

	t.Run("requires objects", func(t *testing.T) {
		rr := doRequest(t, s, http.MethodPost, "/v1/anchor", pipeline.Options{Params: &p})
		wantErrorCode(t, rr, http.StatusBadRequest, errors.ErrCodeInvalidInput)
	})

	t.Run("alignment with empty selection", func(t *testing.T) {
		rr := doRequest(t, s, http.MethodPost, "/v1/anchor", pipeline.Options{
			Params: &p,
			Objects: []pipeline.ObjectRequest{{
				Spec: anchor.Spec{
					Name:      "sconce",
					Width:     units.FromInches(6),
					Height:    units.FromInches(14),
					Alignment: anchor.AlignCenter,
				},
			}},
		})
		wantErrorCode(t, rr, http.StatusBadRequest, errors.ErrCodeInvalidSelection)
	})
}
