package getMessages

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inbox_service/internal/http_server/middleware/session"
	"inbox_service/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	msgs []models.Message
	err  error
	got  models.Claims
}

func (f *fakeLister) List(_ context.Context, claims models.Claims) ([]models.Message, error) {
	f.got = claims
	return f.msgs, f.err
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func request(claims models.Claims) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/get-messages", nil)
	return r.WithContext(session.WithClaims(r.Context(), claims))
}

func TestGetMessages(t *testing.T) {
	claims := models.Claims{UserID: 3, Username: "alice", IsVerified: true}
	msgs := []models.Message{
		{ID: uuid.New(), Content: "newer", CreatedAt: time.Now()},
		{ID: uuid.New(), Content: "older", CreatedAt: time.Now().Add(-time.Hour)},
	}
	svc := &fakeLister{msgs: msgs}

	rec := httptest.NewRecorder()
	New(discard, svc).ServeHTTP(rec, request(claims))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, claims, svc.got)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Messages, 2)
	assert.Equal(t, "newer", body.Messages[0].Content)
}

func TestGetMessages_EmptyIsArray(t *testing.T) {
	rec := httptest.NewRecorder()
	New(discard, &fakeLister{msgs: []models.Message{}}).ServeHTTP(rec, request(models.Claims{UserID: 1}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"messages":[]`)
}

func TestGetMessages_Errors(t *testing.T) {
	rec := httptest.NewRecorder()
	New(discard, &fakeLister{err: errors.New("db down")}).ServeHTTP(rec, request(models.Claims{UserID: 1}))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db down")

	rec = httptest.NewRecorder()
	New(discard, &fakeLister{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/get-messages", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
