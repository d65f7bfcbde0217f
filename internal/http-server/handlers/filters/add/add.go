package addFilter

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	resp "dealtracker/internal/lib/api/response"
	sl "dealtracker/internal/lib/logger"
	"dealtracker/internal/storage"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	validator "github.com/go-playground/validator/v10"
)

type Request struct {
	Filter string `json:"filter" validate:"required"`
}

type Response struct {
	resp.Response
	FilterID int64 `json:"filter_id,omitempty"`
}

type FilterSaver interface {
	SaveFilter(ctx context.Context, name string) (int64, error)
}

// New adds a search filter; the route sits behind the post:filters
// permission.
func New(
	log *slog.Logger,
	filterSaver FilterSaver,
	validate *validator.Validate,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.filters.add.New"

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

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		filterID, err := filterSaver.SaveFilter(ctx, req.Filter)
		if err != nil {
			if errors.Is(err, storage.ErrFilterExists) {
				render.JSON(w, r, Response{Response: resp.OK()})

				return
			}

			log.Error("Failed to save filter", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("Filter saved", slog.Int64("filter_id", filterID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{
			Response: resp.OK(),
			FilterID: filterID,
		})
	}
}
