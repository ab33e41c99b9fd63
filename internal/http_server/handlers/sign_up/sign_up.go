package signUp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	resp "inbox_service/internal/lib/api/response"
	sl "inbox_service/internal/lib/logger"
	"inbox_service/internal/lib/validation"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Request struct {
	Username string `json:"username" validate:"required,min=2,max=20,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type Registrar interface {
	Register(ctx context.Context, username, email, password string) error
}

func New(log *slog.Logger, registrar Registrar) http.HandlerFunc {
	validate := validation.New()

	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.sign_up.New"

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

			log.Info("invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		if err := registrar.Register(r.Context(), req.Username, req.Email, req.Password); err != nil {
			log.Info("registration failed", sl.Err(err))

			resp.AppError(w, r, err)

			return
		}

		log.Info("user registered", slog.String("username", req.Username))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, resp.OK("User registered successfully. Please verify your account."))
	}
}
