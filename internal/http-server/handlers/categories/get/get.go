package getCategories

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	resp "dealtracker/internal/lib/api/response"
	sl "dealtracker/internal/lib/logger"
	"dealtracker/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Response struct {
	resp.Response
	Categories map[int64]string `json:"categories"`
}

type CategoriesGetter interface {
	Categories(ctx context.Context) ([]models.Category, error)
}

func New(
	log *slog.Logger,
	categoriesGetter CategoriesGetter,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.categories.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		categories, err := categoriesGetter.Categories(ctx)
		if err != nil {
			log.Error("Failed to get categories", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		byID := make(map[int64]string, len(categories))
		for _, c := range categories {
			byID[c.ID] = c.Type
		}

		render.JSON(w, r, Response{
			Response:   resp.OK(),
			Categories: byID,
		})
	}
}
