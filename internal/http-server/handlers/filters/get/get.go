package getFilters

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
	Filters []string `json:"filters"`
}

type FiltersGetter interface {
	Filters(ctx context.Context) ([]models.Filter, error)
}

func New(
	log *slog.Logger,
	filtersGetter FiltersGetter,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.filters.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		filters, err := filtersGetter.Filters(ctx)
		if err != nil {
			log.Error("Failed to get filters", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		names := make([]string, 0, len(filters))
		for _, f := range filters {
			names = append(names, f.Name)
		}

		render.JSON(w, r, Response{
			Response: resp.OK(),
			Filters:  names,
		})
	}
}
