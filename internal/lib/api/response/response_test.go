package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"inbox_service/internal/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()

	var got Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	return got
}

func TestAppError_KnownKind(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	AppError(rec, req, apperror.NewRecipientNotAccepting("User is not accepting messages"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	got := decode(t, rec)
	assert.False(t, got.Success)
	assert.Equal(t, "User is not accepting messages", got.Message)
}

func TestAppError_HidesUnknownErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	AppError(rec, req, errors.New("pq: relation \"users\" does not exist"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	got := decode(t, rec)
	assert.False(t, got.Success)
	assert.Equal(t, "Internal error", got.Message)
}

func TestValidationError(t *testing.T) {
	type request struct {
		Email    string `validate:"required,email"`
		Password string `validate:"min=6"`
	}

	err := validator.New().Struct(request{Email: "nope", Password: "123"})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))

	got := ValidationError(verrs)
	assert.False(t, got.Success)
	assert.Contains(t, got.Message, "field Email is not a valid email")
	assert.Contains(t, got.Message, "field Password must be at least 6 characters")
}
