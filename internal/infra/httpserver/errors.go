package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	accountsapp "github.com/bryanwahyu/healthcare-collab/internal/application/accounts"
	"github.com/bryanwahyu/healthcare-collab/internal/domain"
	"github.com/bryanwahyu/healthcare-collab/internal/domain/accounts"
	"github.com/bryanwahyu/healthcare-collab/internal/middleware"
)

type handlerFunc func(http.ResponseWriter, *http.Request) error

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// wrap maps domain errors to status codes in one place.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		status := statusFor(err)
		msg := err.Error()
		if status == http.StatusInternalServerError {
			r.log.Error("request failed", "path", req.URL.Path, "error", err)
		}
		r.writeJSON(w, status, map[string]string{"error": msg})
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, accountsapp.ErrEmailTaken), domain.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON writes v with status. Once the header is sent an encode
// failure can only be logged.
func (r *Router) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		r.log.Error("failed to write response", "status", status, "error", err)
	}
}

// decode reads a JSON body. An empty body leaves dst untouched.
func decode(req *http.Request, dst any) error {
	err := json.NewDecoder(io.LimitReader(req.Body, maxBodyBytes)).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return &domain.ValidationError{Field: "body", Message: "Invalid JSON body"}
}

// caller returns the identity set by BearerAuth.
func caller(req *http.Request) (accounts.Identity, error) {
	id, ok := middleware.IdentityFrom(req.Context())
	if !ok {
		return accounts.Identity{}, domain.Unauthorized("Missing identity")
	}
	return id, nil
}
