package session

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"inbox_service/internal/apperror"
	"inbox_service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	valid  string
	claims models.Claims
}

func (s stubValidator) ValidateSession(token string) (models.Claims, error) {
	if token != s.valid {
		return models.Claims{}, apperror.NewUnauthenticated("Not authenticated", errors.New("bad token"))
	}
	return s.claims, nil
}

func TestSession(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	want := models.Claims{UserID: 7, Username: "alice", IsVerified: true}

	var (
		got     models.Claims
		found   bool
		reached bool
	)
	h := New(log, stubValidator{valid: "good", claims: want})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		got, found = FromContext(r.Context())
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "valid", header: "Bearer good", status: http.StatusOK},
		{name: "lowercase scheme", header: "bearer good", status: http.StatusOK},
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic good", status: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", status: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer bad", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached = false
			got = models.Claims{}

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.status == http.StatusOK, reached)
			if reached {
				require.True(t, found)
				assert.Equal(t, want, got)
			}
		})
	}
}

func TestFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := FromContext(req.Context())
	assert.False(t, ok)
}
