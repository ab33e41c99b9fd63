package acceptMessages

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"inbox_service/internal/apperror"
	"inbox_service/internal/http_server/middleware/session"
	resp "inbox_service/internal/lib/api/response"
	sl "inbox_service/internal/lib/logger"
	"inbox_service/internal/lib/validation"
	"inbox_service/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Gate interface {
	Status(ctx context.Context, claims models.Claims) (bool, error)
	SetStatus(ctx context.Context, claims models.Claims, desired bool) (models.User, error)
}

type Request struct {
	AcceptMessages *bool `json:"acceptMessages" validate:"required"`
}

type StatusResponse struct {
	resp.Response
	IsAcceptingMessages bool `json:"isAcceptingMessages"`
}

type UpdateResponse struct {
	resp.Response
	UpdatedUser models.PublicUser `json:"updatedUser"`
}

// * NewGet reports the caller's current acceptance flag
func NewGet(log *slog.Logger, gate Gate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.acceptMessages.NewGet"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		claims, ok := session.FromContext(r.Context())
		if !ok {
			resp.AppError(w, r, apperror.NewUnauthenticated("Not authenticated", nil))

			return
		}

		accepting, err := gate.Status(r.Context(), claims)
		if err != nil {
			log.Info("failed to read acceptance flag", sl.Err(err))

			resp.AppError(w, r, err)

			return
		}

		render.JSON(w, r, StatusResponse{
			Response:            resp.OK(""),
			IsAcceptingMessages: accepting,
		})
	}
}

// * NewSet updates the caller's acceptance flag
func NewSet(log *slog.Logger, gate Gate) http.HandlerFunc {
	validate := validation.New()

	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.acceptMessages.NewSet"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		claims, ok := session.FromContext(r.Context())
		if !ok {
			resp.AppError(w, r, apperror.NewUnauthenticated("Not authenticated", nil))

			return
		}

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

		user, err := gate.SetStatus(r.Context(), claims, *req.AcceptMessages)
		if err != nil {
			log.Info("failed to update acceptance flag", sl.Err(err))

			resp.AppError(w, r, err)

			return
		}

		render.JSON(w, r, UpdateResponse{
			Response:    resp.OK("Message acceptance status updated successfully"),
			UpdatedUser: user.Public(),
		})
	}
}
