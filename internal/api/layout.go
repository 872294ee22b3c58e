package api

import (
	"net/http"
	"time"

	"github.com/wrightline/panelplan/pkg/errors"
	"github.com/wrightline/panelplan/pkg/pipeline"
	"github.com/wrightline/panelplan/pkg/wall"
)

// =============================================================================
// Payloads
// =============================================================================

// layoutResponse is the wire shape of a pipeline result.
type layoutResponse struct {
	Name       string          `json:"name,omitempty"`
	Params     wall.Parameters `json:"params"`
	Edits      *wall.Edits     `json:"edits,omitempty"`
	ParamsHash string          `json:"params_hash"`
	Schedule   wall.Schedule   `json:"schedule"`
	Objects    []wall.Object   `json:"objects,omitempty"`
	Stats      statsPayload    `json:"stats"`
	Cache      cachePayload    `json:"cache"`
}

type statsPayload struct {
	PanelCount  int     `json:"panel_count"`
	ObjectCount int     `json:"object_count"`
	ResolveMS   float64 `json:"resolve_ms"`
	ComputeMS   float64 `json:"compute_ms"`
	AnchorMS    float64 `json:"anchor_ms"`
}

type cachePayload struct {
	ComputeHit bool `json:"compute_hit"`
	AnchorHit  bool `json:"anchor_hit"`
}

type anchorResponse struct {
	Objects  []wall.Object `json:"objects"`
	Schedule wall.Schedule `json:"schedule"`
	Cache    cachePayload  `json:"cache"`
}

func layoutResponseFrom(res *pipeline.Result) layoutResponse {
	out := layoutResponse{
		Name:       res.Name,
		Params:     res.Params,
		ParamsHash: res.ParamsHash,
		Schedule:   res.Schedule,
		Objects:    res.Objects,
		Stats: statsPayload{
			PanelCount:  res.Stats.PanelCount,
			ObjectCount: res.Stats.ObjectCount,
			ResolveMS:   toMillis(res.Stats.ResolveTime),
			ComputeMS:   toMillis(res.Stats.ComputeTime),
			AnchorMS:    toMillis(res.Stats.AnchorTime),
		},
		Cache: cachePayload{
			ComputeHit: res.CacheInfo.ComputeHit,
			AnchorHit:  res.CacheInfo.AnchorHit,
		},
	}
	if res.Edits.HasEdits() {
		edits := res.Edits
		out.Edits = &edits
	}
	return out
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// =============================================================================
// Handlers
// =============================================================================

// handleLayout computes a schedule from the request body, which is a
// pipeline option set: an inline manifest, a stored wall id, or inline
// parameters, plus optional objects to place.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := decodeJSON(w, r, &opts); err != nil {
		s.writeError(w, err)
		return
	}
	opts.Store = s.store
	opts.Logger = s.logger

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, layoutResponseFrom(res))
}

// handleAnchor runs the same pipeline as handleLayout but exists for
// clients that only care about placements. The request must carry objects,
// inline or through a manifest.
func (s *Server) handleAnchor(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := decodeJSON(w, r, &opts); err != nil {
		s.writeError(w, err)
		return
	}
	if !opts.HasObjects() && opts.Manifest == "" && opts.ManifestFilename == "" {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "anchoring requires at least one object"))
		return
	}
	opts.Store = s.store
	opts.Logger = s.logger

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, anchorResponse{
		Objects:  res.Objects,
		Schedule: res.Schedule,
		Cache: cachePayload{
			ComputeHit: res.CacheInfo.ComputeHit,
			AnchorHit:  res.CacheInfo.AnchorHit,
		},
	})
}
