package api

import (
	"context"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wrightline/panelplan/pkg/anchor"
	"github.com/wrightline/panelplan/pkg/errors"
	"github.com/wrightline/panelplan/pkg/layout"
	"github.com/wrightline/panelplan/pkg/pipeline"
	"github.com/wrightline/panelplan/pkg/units"
	"github.com/wrightline/panelplan/pkg/wall"
	"github.com/wrightline/panelplan/pkg/wallstate"
)

// =============================================================================
// Payloads
// =============================================================================

type createWallRequest struct {
	Name   string          `json:"name"`
	Params wall.Parameters `json:"params"`
}

type listWallsResponse struct {
	Walls []*wallstate.Record `json:"walls"`
	Count int                 `json:"count"`
}

// wallResponse pairs the stored record with whatever the operation
// produced alongside it.
type wallResponse struct {
	Wall     *wallstate.Record `json:"wall"`
	Schedule *wall.Schedule    `json:"schedule,omitempty"`
	Objects  []wall.Object     `json:"objects,omitempty"`
}

type splitRequest struct {
	Panel int `json:"panel"`
}

type overrideRequest struct {
	Panel int             `json:"panel"`
	Width units.Dimension `json:"width"`
}

type addObjectsRequest struct {
	Objects []pipeline.ObjectRequest `json:"objects"`
}

// =============================================================================
// Store access
// =============================================================================

// getWall loads a record, converting a missing record into the coded error
// the status mapping turns into a 404.
func (s *Server) getWall(ctx context.Context, id string) (*wallstate.Record, error) {
	if err := errors.ValidateRecordID(id); err != nil {
		return nil, err
	}
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "load wall %s", id)
	}
	if rec == nil {
		return nil, errors.New(errors.ErrCodeWallNotFound, "wall %s not found", id)
	}
	return rec, nil
}

// updateWall applies fn through the store's read-modify-write helper.
func (s *Server) updateWall(ctx context.Context, id string, fn func(*wallstate.Record) error) (*wallstate.Record, error) {
	if err := errors.ValidateRecordID(id); err != nil {
		return nil, err
	}
	rec, err := wallstate.Update(ctx, s.store, id, fn)
	if err != nil {
		return nil, wallNotFound(err, id)
	}
	return rec, nil
}

// =============================================================================
// CRUD
// =============================================================================

func (s *Server) handleWallCreate(w http.ResponseWriter, r *http.Request) {
	var req createWallRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := errors.ValidateWallName(req.Name); err != nil {
		s.writeError(w, err)
		return
	}
	if err := req.Params.Validate(); err != nil {
		s.writeError(w, err)
		return
	}

	rec := wallstate.New(req.Name, req.Params)
	if err := s.store.Set(r.Context(), rec); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeStore, err, "store wall %q", req.Name))
		return
	}
	s.logger.Info("Created wall", "id", rec.ID, "name", rec.Name)
	s.writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleWallList(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeStore, err, "list walls"))
		return
	}
	s.writeJSON(w, http.StatusOK, listWallsResponse{Walls: recs, Count: len(recs)})
}

func (s *Server) handleWallGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.getWall(r.Context(), chi.URLParam(r, "wallID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

// handleWallDelete removes a record. Deletion is idempotent: removing a
// wall that is already gone still returns 204.
func (s *Server) handleWallDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "wallID")
	if err := errors.ValidateRecordID(id); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeStore, err, "delete wall %s", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Layout
// =============================================================================

// handleWallLayout computes the schedule for a stored wall through the
// runner, so cached results and observability hooks behave exactly as they
// do for the stateless endpoint. ?refresh=true bypasses the cache.
func (s *Server) handleWallLayout(w http.ResponseWriter, r *http.Request) {
	refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))
	opts := pipeline.Options{
		WallID:  chi.URLParam(r, "wallID"),
		Refresh: refresh,
		Store:   s.store,
		Logger:  s.logger,
	}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, layoutResponseFrom(res))
}

// =============================================================================
// Edits
// =============================================================================

func (s *Server) handleWallSplit(w http.ResponseWriter, r *http.Request) {
	var req splitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	var sched wall.Schedule
	rec, err := s.updateWall(r.Context(), chi.URLParam(r, "wallID"), func(rec *wallstate.Record) error {
		cur, err := layout.Compute(rec.Params, rec.Edits)
		if err != nil {
			return err
		}
		next, _, err := layout.Split(cur.Panels, []int{req.Panel}, rec.Params, &rec.Edits)
		if err != nil {
			return err
		}
		sched = next
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("Split panel", "wall", rec.ID, "panel", req.Panel)
	s.writeJSON(w, http.StatusOK, wallResponse{Wall: rec, Schedule: &sched})
}

// handleOverrideSet records an absolute width for a panel. The panel id is
// not checked against the current schedule: override ids name panels in the
// override layout itself, which may not exist until enough overrides
// accumulate to cover the wall.
func (s *Server) handleOverrideSet(w http.ResponseWriter, r *http.Request) {
	var req overrideRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Panel < 1 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "panel id must be at least 1, got %d", req.Panel))
		return
	}
	if req.Width.ToInches() <= 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidDimension, "override width must be greater than zero"))
		return
	}

	var sched wall.Schedule
	rec, err := s.updateWall(r.Context(), chi.URLParam(r, "wallID"), func(rec *wallstate.Record) error {
		rec.Edits.SetOverride(req.Panel, req.Width.ToInches())
		next, err := layout.Compute(rec.Params, rec.Edits)
		if err != nil {
			return err
		}
		sched = next
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("Set override", "wall", rec.ID, "panel", req.Panel, "width", req.Width)
	s.writeJSON(w, http.StatusOK, wallResponse{Wall: rec, Schedule: &sched})
}

func (s *Server) handleOverrideClear(w http.ResponseWriter, r *http.Request) {
	panelID, err := strconv.Atoi(chi.URLParam(r, "panelID"))
	if err != nil || panelID < 1 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid panel id %q", chi.URLParam(r, "panelID")))
		return
	}

	var sched wall.Schedule
	rec, err := s.updateWall(r.Context(), chi.URLParam(r, "wallID"), func(rec *wallstate.Record) error {
		if _, ok := rec.Edits.Overrides[panelID]; !ok {
			return errors.New(errors.ErrCodePanelNotFound, "panel %d has no override", panelID)
		}
		rec.Edits.ClearOverride(panelID)
		next, err := layout.Compute(rec.Params, rec.Edits)
		if err != nil {
			return err
		}
		sched = next
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, wallResponse{Wall: rec, Schedule: &sched})
}

// handleEditsClear drops every override and split, returning the wall to
// its computed baseline.
func (s *Server) handleEditsClear(w http.ResponseWriter, r *http.Request) {
	var sched wall.Schedule
	rec, err := s.updateWall(r.Context(), chi.URLParam(r, "wallID"), func(rec *wallstate.Record) error {
		rec.Edits.Clear()
		next, err := layout.Compute(rec.Params, rec.Edits)
		if err != nil {
			return err
		}
		sched = next
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("Cleared edits", "wall", rec.ID)
	s.writeJSON(w, http.StatusOK, wallResponse{Wall: rec, Schedule: &sched})
}

// =============================================================================
// Objects
// =============================================================================

// handleObjectsAdd anchors the requested objects against the wall's current
// schedule and persists them on the record. Either every object places or
// none do.
func (s *Server) handleObjectsAdd(w http.ResponseWriter, r *http.Request) {
	var req addObjectsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if len(req.Objects) == 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "at least one object is required"))
		return
	}

	var placed []wall.Object
	rec, err := s.updateWall(r.Context(), chi.URLParam(r, "wallID"), func(rec *wallstate.Record) error {
		sched, err := layout.Compute(rec.Params, rec.Edits)
		if err != nil {
			return err
		}
		for i := range req.Objects {
			req.Objects[i].SetDefaults()
			obj, err := anchor.Place(req.Objects[i].Spec, rec.Params, sched.Panels, req.Objects[i].Panels)
			if err != nil {
				return errors.Wrap(errors.GetCode(err), err, "object %d", i+1)
			}
			placed = append(placed, obj)
		}
		rec.Objects = append(rec.Objects, placed...)
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("Anchored objects", "wall", rec.ID, "count", len(placed))
	s.writeJSON(w, http.StatusCreated, wallResponse{Wall: rec, Objects: placed})
}

func (s *Server) handleObjectDelete(w http.ResponseWriter, r *http.Request) {
	objectID := chi.URLParam(r, "objectID")
	if err := errors.ValidateRecordID(objectID); err != nil {
		s.writeError(w, err)
		return
	}

	rec, err := s.updateWall(r.Context(), chi.URLParam(r, "wallID"), func(rec *wallstate.Record) error {
		idx := slices.IndexFunc(rec.Objects, func(o wall.Object) bool { return o.ID == objectID })
		if idx < 0 {
			return errors.New(errors.ErrCodeObjectNotFound, "object %s not found", objectID)
		}
		rec.Objects = slices.Delete(rec.Objects, idx, idx+1)
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, wallResponse{Wall: rec})
}
