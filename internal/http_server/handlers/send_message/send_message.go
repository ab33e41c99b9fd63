package sendMessage

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
	"github.com/google/uuid"
)

// Request is all a sender provides; no session is required.
type Request struct {
	Username string `json:"username" validate:"required"`
	Content  string `json:"content"`
}

type Response struct {
	resp.Response
	MessageID uuid.UUID `json:"messageId"`
}

type Submitter interface {
	Submit(ctx context.Context, targetUsername, content string) (uuid.UUID, error)
}

func New(log *slog.Logger, submitter Submitter) http.HandlerFunc {
	validate := validation.New()

	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.sendMessage.New"

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

		id, err := submitter.Submit(r.Context(), req.Username, req.Content)
		if err != nil {
			log.Info("message not delivered", sl.Err(err))

			resp.AppError(w, r, err)

			return
		}

		render.JSON(w, r, Response{
			Response:  resp.OK("Message sent successfully"),
			MessageID: id,
		})
	}
}
