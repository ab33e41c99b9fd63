package getMessages

import (
	"context"
	"log/slog"
	"net/http"

	"inbox_service/internal/apperror"
	"inbox_service/internal/http_server/middleware/session"
	resp "inbox_service/internal/lib/api/response"
	sl "inbox_service/internal/lib/logger"
	"inbox_service/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Response struct {
	resp.Response
	Messages []models.Message `json:"messages"`
}

type Lister interface {
	List(ctx context.Context, claims models.Claims) ([]models.Message, error)
}

func New(log *slog.Logger, lister Lister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.getMessages.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		claims, ok := session.FromContext(r.Context())
		if !ok {
			resp.AppError(w, r, apperror.NewUnauthenticated("Not authenticated", nil))

			return
		}

		msgs, err := lister.List(r.Context(), claims)
		if err != nil {
			log.Error("failed to list messages", sl.Err(err))

			resp.AppError(w, r, err)

			return
		}

		render.JSON(w, r, Response{
			Response: resp.OK("Messages fetched successfully"),
			Messages: msgs,
		})
	}
}
