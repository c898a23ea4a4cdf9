package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"traderpro/pkg/traderpro"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeCoreError maps a structured error to its HTTP status. The client
// sees the error message without the code prefix or wrapped causes.
func writeCoreError(w http.ResponseWriter, err error) {
	var coreErr *traderpro.Error
	if errors.As(err, &coreErr) {
		writeError(w, mapErrorCodeToHTTPStatus(coreErr.Code), coreErr.Message)
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func mapErrorCodeToHTTPStatus(code traderpro.ErrorCode) int {
	switch code {
	case traderpro.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case traderpro.ErrCodeNotFound:
		return http.StatusNotFound
	case traderpro.ErrCodeProviderUnavailable:
		return http.StatusServiceUnavailable
	case traderpro.ErrCodeDatabase, traderpro.ErrCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
