package session

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"inbox_service/internal/apperror"
	resp "inbox_service/internal/lib/api/response"
	"inbox_service/internal/models"

	"github.com/go-chi/chi/middleware"
)

type ctxKey struct{}

type Validator interface {
	ValidateSession(token string) (models.Claims, error)
}

// New rejects requests without a valid Bearer session token and stores the
// decoded claims in the request context.
func New(log *slog.Logger, validator Validator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middleware.session"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			token, ok := bearer(r.Header.Get("Authorization"))
			if !ok {
				log.Debug("missing bearer token")

				resp.AppError(w, r, apperror.NewUnauthenticated("Not authenticated", nil))

				return
			}

			claims, err := validator.ValidateSession(token)
			if err != nil {
				log.Debug("session rejected")

				resp.AppError(w, r, err)

				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func bearer(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)

	return token, token != ""
}

func WithClaims(ctx context.Context, claims models.Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, claims)
}

// FromContext returns the claims stored by the session middleware.
func FromContext(ctx context.Context) (models.Claims, bool) {
	claims, ok := ctx.Value(ctxKey{}).(models.Claims)
	return claims, ok
}
