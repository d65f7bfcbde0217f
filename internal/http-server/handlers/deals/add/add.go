package addDeal

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
	validator "github.com/go-playground/validator/v10"
)

type Request struct {
	DealName     string  `json:"deal_name" validate:"required"`
	DealLink     string  `json:"deal_link" validate:"required,url"`
	DealImage    string  `json:"deal_image"`
	DealPrice    float64 `json:"deal_price" validate:"required,gt=0"`
	DealCurrency string  `json:"deal_currency" validate:"required"`
	DealStore    string  `json:"deal_store" validate:"required"`
}

type Response struct {
	resp.Response
	DealID int64 `json:"deal_id"`
}

type DealSaver interface {
	SaveDeal(ctx context.Context, deal models.Deal) (int64, error)
}

// New adds a curated deal; the route sits behind the post:deals permission.
func New(
	log *slog.Logger,
	dealSaver DealSaver,
	validate *validator.Validate,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.deals.add.New"

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

		dealID, err := dealSaver.SaveDeal(ctx, models.Deal{
			Name:     req.DealName,
			Link:     req.DealLink,
			Image:    req.DealImage,
			Price:    req.DealPrice,
			Currency: req.DealCurrency,
			Store:    req.DealStore,
		})
		if err != nil {
			log.Error("Failed to save deal", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("Deal saved", slog.Int64("deal_id", dealID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{
			Response: resp.OK(),
			DealID:   dealID,
		})
	}
}
