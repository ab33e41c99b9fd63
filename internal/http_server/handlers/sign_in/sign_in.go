package signIn

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	resp "inbox_service/internal/lib/api/response"
	sl "inbox_service/internal/lib/logger"
	"inbox_service/internal/lib/validation"
	"inbox_service/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

// Request accepts either a username or an email as identifier.
type Request struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type Response struct {
	resp.Response
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
	User      models.Claims `json:"user"`
}

type Authenticator interface {
	Login(ctx context.Context, identifier, password string) (models.Session, error)
}

func New(log *slog.Logger, authenticator Authenticator) http.HandlerFunc {
	validate := validation.New()

	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.sign_in.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Failed to decode request"))

			return
		}

		if err := validate.Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		session, err := authenticator.Login(r.Context(), req.Identifier, req.Password)
		if err != nil {
			log.Info("sign in rejected", sl.Err(err))

			resp.AppError(w, r, err)

			return
		}

		log.Info("user signed in", slog.Int64("uid", session.Claims.UserID))

		render.JSON(w, r, Response{
			Response:  resp.OK("Signed in successfully"),
			Token:     session.Token,
			ExpiresAt: session.ExpiresAt,
			User:      session.Claims,
		})
	}
}
