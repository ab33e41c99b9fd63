package resendCode

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
	Email string `json:"email" validate:"required,email"`
}

type Resender interface {
	ResendCode(ctx context.Context, email string) error
}

func New(log *slog.Logger, resender Resender) http.HandlerFunc {
	validate := validation.New()

	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.resend_code.New"

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

		if err := resender.ResendCode(r.Context(), req.Email); err != nil {
			log.Info("resend failed", sl.Err(err))

			resp.AppError(w, r, err)

			return
		}

		render.JSON(w, r, resp.OK("Verification code sent"))
	}
}
