package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	e "github.com/gartstein/careers/internal/careers/errors"
	"go.uber.org/zap"
)

const internalErrorMessage = "internal server error"

type errorResponse struct {
	Error string `json:"error"`
}

// errorStatus converts service errors into an HTTP status and a message
// that is safe to show to the caller.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, e.ErrUnauthorized):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, e.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, e.ErrDuplicateSlug), errors.Is(err, e.ErrSaveInProgress):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, internalErrorMessage
	}
}

// mapServiceError is errorStatus that also logs internal errors.
func (a *API) mapServiceError(err error) (int, string) {
	code, msg := errorStatus(err)
	if code == http.StatusInternalServerError {
		a.logger.Error("Internal error", zap.Error(err))
	}
	return code, msg
}

func (a *API) writeServiceError(w http.ResponseWriter, err error) {
	code, msg := a.mapServiceError(err)
	writeError(w, code, msg)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
