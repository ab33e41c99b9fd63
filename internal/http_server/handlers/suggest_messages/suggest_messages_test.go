package suggestMessages

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"inbox_service/internal/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSuggester struct {
	prompts []string
	err     error
}

func (f fakeSuggester) Suggest(context.Context) ([]string, error) {
	return f.prompts, f.err
}

func TestSuggestMessages(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	rec := httptest.NewRecorder()
	New(log, fakeSuggester{prompts: []string{"a?", "b?", "c?"}}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/suggest-messages", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "a?||b?||c?", body.SuggestedMessages)

	rec = httptest.NewRecorder()
	New(log, fakeSuggester{err: apperror.NewUpstreamUnavailable("Failed to generate suggestions", errors.New("timeout"))}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/suggest-messages", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
