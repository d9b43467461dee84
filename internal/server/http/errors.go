package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps service errors onto HTTP status codes and client-safe
// messages. Anything unrecognised is a 500 with a generic body.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrAlreadyRegistered):
		return http.StatusConflict, common.ErrAlreadyRegistered.Error()
	case errors.Is(err, common.ErrConflict):
		return http.StatusConflict, common.ErrConflict.Error()
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, common.ErrInvalidCredentials.Error()
	case errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, "unauthorized"
	}
	return http.StatusInternalServerError, common.ErrorInternal.Error()
}

func writeError(w http.ResponseWriter, err error) {
	status, msg := statusFor(err)
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
