package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/bryanwahyu/healthcare-collab/internal/domain/accounts"
)

type stubParser struct {
	id  accounts.Identity
	err error
}

func (s stubParser) Parse(string) (accounts.Identity, error) { return s.id, s.err }

func TestBearerAuth(t *testing.T) {
	doctor := accounts.Identity{UserID: uuid.New(), Role: accounts.RoleDoctor}
	var seen accounts.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = IdentityFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	cases := []struct {
		name   string
		header string
		parser stubParser
		want   int
	}{
		{"missing header", "", stubParser{id: doctor}, http.StatusUnauthorized},
		{"empty bearer", "Bearer ", stubParser{id: doctor}, http.StatusUnauthorized},
		{"invalid token", "Bearer abc", stubParser{err: errors.New("bad")}, http.StatusUnauthorized},
		{"valid token", "Bearer abc", stubParser{id: doctor}, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			BearerAuth(tc.parser)(next).ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d (%s)", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
	if seen.UserID != doctor.UserID {
		t.Fatalf("identity not propagated: %+v", seen)
	}
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := BearerAuth(stubParser{id: accounts.Identity{UserID: uuid.New(), Role: accounts.RolePatient}})(
		RequireRole(accounts.RoleDoctor)(next))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer t")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for patient, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	RequireRole(accounts.RoleDoctor)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", rec.Code)
	}
}
