package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// decode reads a JSON body into v. Unknown fields are rejected.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", common.ErrorValidation, err)
	}
	return nil
}

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) register(w http.ResponseWriter, r *http.Request) {
	var f models.UserFields
	if err := decode(w, r, &f); err != nil {
		writeError(w, err)
		return
	}

	u, err := s.auth.Register(r.Context(), f)
	if err != nil {
		s.logError(r, "register failed", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, u)
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.logError(r, "login failed", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *HTTPServer) me(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrInvalidToken)
		return
	}

	u, err := s.identity.GetPublicProfile(r.Context(), claims.UserID())
	if err != nil {
		s.logError(r, "profile lookup failed", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, u)
}

func (s *HTTPServer) listUsers(w http.ResponseWriter, r *http.Request) {
	list, err := s.identity.ListPublicProfiles(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *HTTPServer) createUser(w http.ResponseWriter, r *http.Request) {
	var f models.UserFields
	if err := decode(w, r, &f); err != nil {
		writeError(w, err)
		return
	}

	u, err := s.identity.Register(r.Context(), f)
	if err != nil {
		s.logError(r, "create user failed", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, u)
}

func (s *HTTPServer) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.identity.GetPublicProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *HTTPServer) updateUser(w http.ResponseWriter, r *http.Request) {
	var patch models.UserPatch
	if err := decode(w, r, &patch); err != nil {
		writeError(w, err)
		return
	}

	u, err := s.identity.UpdateProfile(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.logError(r, "update user failed", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, u)
}

func (s *HTTPServer) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.identity.DeleteProfile(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// logError logs unexpected failures. Client errors are left to the request log.
func (s *HTTPServer) logError(r *http.Request, msg string, err error) {
	if status, _ := statusFor(err); status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), msg, "error", err)
	}
}
