package checkUsername

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

type query struct {
	Username string `validate:"required,min=2,max=20,username"`
}

type Checker interface {
	UsernameAvailable(ctx context.Context, username string) (bool, error)
}

func New(log *slog.Logger, checker Checker) http.HandlerFunc {
	validate := validation.New()

	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.check_username.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		q := query{Username: r.URL.Query().Get("username")}

		if err := validate.Struct(q); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		available, err := checker.UsernameAvailable(r.Context(), q.Username)
		if err != nil {
			log.Error("failed to check username", sl.Err(err))

			resp.AppError(w, r, err)

			return
		}

		if !available {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Username is already taken"))

			return
		}

		render.JSON(w, r, resp.OK("Username is unique"))
	}
}
