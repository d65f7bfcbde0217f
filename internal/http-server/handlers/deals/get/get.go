package getDeals

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
	Deals []models.Deal `json:"deals"`
}

type DealsGetter interface {
	Deals(ctx context.Context) ([]models.Deal, error)
}

func New(
	log *slog.Logger,
	dealsGetter DealsGetter,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.deals.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		deals, err := dealsGetter.Deals(ctx)
		if err != nil {
			log.Error("Failed to get deals", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		if deals == nil {
			deals = []models.Deal{}
		}

		w.Header().Set("Cache-Control", "private, max-age=60")

		render.JSON(w, r, Response{
			Response: resp.OK(),
			Deals:    deals,
		})
	}
}
