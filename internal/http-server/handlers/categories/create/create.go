package createCategory

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	resp "dealtracker/internal/lib/api/response"
	sl "dealtracker/internal/lib/logger"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	validator "github.com/go-playground/validator/v10"
)

type Request struct {
	Type string `json:"type" validate:"required"`
}

type Response struct {
	resp.Response
	CategoryID int64 `json:"category_id"`
}

type CategorySaver interface {
	SaveCategory(ctx context.Context, categoryType string) (int64, error)
}

func New(
	log *slog.Logger,
	categorySaver CategorySaver,
	validate *validator.Validate,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.categories.create.New"

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

		categoryID, err := categorySaver.SaveCategory(ctx, req.Type)
		if err != nil {
			log.Error("Failed to save category", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("Category saved", slog.Int64("category_id", categoryID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{
			Response:   resp.OK(),
			CategoryID: categoryID,
		})
	}
}
