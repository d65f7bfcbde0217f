package searchStores

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	resp "dealtracker/internal/lib/api/response"
	sl "dealtracker/internal/lib/logger"
	"dealtracker/internal/lib/pagination"
	"dealtracker/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	validator "github.com/go-playground/validator/v10"
)

type Request struct {
	Keywords   string   `json:"keywords" validate:"required"`
	Filters    []string `json:"filters"`
	PageNumber int      `json:"page_number"`
}

type Response struct {
	resp.Response
	SearchResults []models.SearchResult `json:"search_results"`
	TotalItems    int64                 `json:"total_items"`
}

type MarketplaceSearcher interface {
	Search(ctx context.Context, keywords string, filters []string, pageNumber int) ([]models.SearchResult, int64, error)
}

// New runs a marketplace keyword search. The gateway's result list is
// paginated in memory with the same page formula the alert queries use in
// the database.
func New(
	log *slog.Logger,
	source MarketplaceSearcher,
	itemsPerPage int,
	validate *validator.Validate,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.search.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Failed to decode request"))

			return
		}

		if err := validate.Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)

			log.Error("Invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		if req.PageNumber < 1 {
			req.PageNumber = 1
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		results, total, err := source.Search(ctx, req.Keywords, req.Filters, req.PageNumber)
		if err != nil {
			log.Error("Marketplace search failed", sl.Err(err), slog.String("keywords", req.Keywords))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		// The gateway receives page_number but returns the full result
		// list; the page is carved out here.
		page := pagination.Page(results, req.PageNumber, itemsPerPage)

		log.Info("Search completed",
			slog.String("keywords", req.Keywords),
			slog.Int("page_count", len(page)),
			slog.Int64("total", total),
		)

		render.JSON(w, r, Response{
			Response:      resp.OK(),
			SearchResults: page,
			TotalItems:    total,
		})
	}
}
