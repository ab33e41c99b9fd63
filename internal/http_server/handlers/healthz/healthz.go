package healthz

import (
	"net/http"

	resp "inbox_service/internal/lib/api/response"

	"github.com/go-chi/render"
)

func New() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, resp.OK(""))
	}
}
