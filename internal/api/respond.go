package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/wrightline/panelplan/pkg/errors"
	"github.com/wrightline/panelplan/pkg/wallstate"
)

// maxBodyBytes caps request bodies. Manifests and parameter sets are tiny;
// anything near this limit is not a layout request.
const maxBodyBytes = 1 << 20

// decodeJSON reads a JSON request body into v. Unknown fields are rejected
// so typos in option names fail loudly instead of silently computing a
// default layout.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

// writeJSON writes v as the response body with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Encode response", "err", err)
	}
}

// writeError maps err to an HTTP status and writes a JSON error body.
// Server-side failures are logged; client errors only show up in the
// request log's status field.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", "err", err)
	}
	s.writeJSON(w, status, errorResponse{
		Error: errors.UserMessage(err),
		Code:  errors.GetCode(err),
	})
}

// statusFor translates structured error codes into HTTP statuses:
// validation failures are 400, constraint violations 422, missing
// resources 404, and everything else a 500.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidDimension,
		errors.ErrCodeInvalidMode,
		errors.ErrCodeInvalidSelection,
		errors.ErrCodeInvalidManifest,
		errors.ErrCodeInvalidName,
		errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errors.ErrCodeConstraint:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound,
		errors.ErrCodeWallNotFound,
		errors.ErrCodePanelNotFound,
		errors.ErrCodeObjectNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// wallNotFound converts the store's sentinel into the coded error the
// status mapping understands.
func wallNotFound(err error, id string) error {
	if stderrors.Is(err, wallstate.ErrNotFound) {
		return errors.New(errors.ErrCodeWallNotFound, "wall %s not found", id)
	}
	return err
}
