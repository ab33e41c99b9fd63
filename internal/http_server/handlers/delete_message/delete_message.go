package deleteMessage

import (
	"context"
	"log/slog"
	"net/http"

	"inbox_service/internal/apperror"
	"inbox_service/internal/http_server/middleware/session"
	resp "inbox_service/internal/lib/api/response"
	sl "inbox_service/internal/lib/logger"
	"inbox_service/internal/models"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

// URLParam names the route segment holding the message id.
const URLParam = "messageId"

type Deleter interface {
	Delete(ctx context.Context, claims models.Claims, messageID string) error
}

func New(log *slog.Logger, deleter Deleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.deleteMessage.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		claims, ok := session.FromContext(r.Context())
		if !ok {
			resp.AppError(w, r, apperror.NewUnauthenticated("Not authenticated", nil))

			return
		}

		if err := deleter.Delete(r.Context(), claims, chi.URLParam(r, URLParam)); err != nil {
			log.Info("message not deleted", sl.Err(err))

			resp.AppError(w, r, err)

			return
		}

		render.JSON(w, r, resp.OK("Message deleted"))
	}
}
