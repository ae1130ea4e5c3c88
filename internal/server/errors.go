package server

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"

	"github.com/cwbudde/algo-chemometrics/calib"
	"github.com/cwbudde/algo-chemometrics/spectra"
)

var (
	// errBadRequest marks malformed request bodies.
	errBadRequest = errors.New("bad request")
	// errRateLimited rejects training requests over the configured rate.
	errRateLimited = errors.New("training rate limit exceeded")
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// classify maps an error to an HTTP status and a stable code. Input
// problems the caller can fix are 422, numerical failures are 500 with the
// cause in the message.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, calib.ErrInsufficientData):
		return http.StatusUnprocessableEntity, "insufficient_data"
	case errors.Is(err, calib.ErrInvalidInputLength):
		return http.StatusUnprocessableEntity, "invalid_input_length"
	case errors.Is(err, calib.ErrInvalidParameter),
		errors.Is(err, calib.ErrEmptyName),
		errors.Is(err, spectra.ErrInvalidReference):
		return http.StatusUnprocessableEntity, "invalid_parameter"
	case errors.Is(err, calib.ErrNotFound),
		errors.Is(err, spectra.ErrUnknownSpectrum),
		errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, calib.ErrDuplicateName):
		return http.StatusConflict, "duplicate_name"
	case errors.Is(err, calib.ErrTrainingFailed):
		return http.StatusInternalServerError, "training_failed"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeJSON(w, status, errorBody{Error: err.Error(), Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
