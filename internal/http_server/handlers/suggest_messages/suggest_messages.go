package suggestMessages

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	resp "inbox_service/internal/lib/api/response"
	sl "inbox_service/internal/lib/logger"
	"inbox_service/internal/suggest"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Response struct {
	resp.Response
	SuggestedMessages string `json:"suggestedMessages"`
}

type Suggester interface {
	Suggest(ctx context.Context) ([]string, error)
}

func New(log *slog.Logger, suggester Suggester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.suggestMessages.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		prompts, err := suggester.Suggest(r.Context())
		if err != nil {
			log.Warn("no suggestions", sl.Err(err))

			resp.AppError(w, r, err)

			return
		}

		render.JSON(w, r, Response{
			Response:          resp.OK(""),
			SuggestedMessages: strings.Join(prompts, suggest.Separator),
		})
	}
}
