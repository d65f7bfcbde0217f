package deleteAlert

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
	AlertID int64 `json:"alert_id" validate:"required,gt=0"`
}

type Response struct {
	resp.Response
}

type AlertRemover interface {
	DeleteAlert(ctx context.Context, alertID int64) error
}

func New(
	log *slog.Logger,
	alertOp AlertRemover,
	validate *validator.Validate,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.alerts.delete.New"

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

		err := alertOp.DeleteAlert(ctx, req.AlertID)
		if err != nil {
			if errors.Is(err, storage.ErrAlertNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("Alert not found"))

				return
			}

			log.Error("Failed to delete alert", sl.Err(err), slog.Int64("alert_id", req.AlertID))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("Alert deleted", slog.Int64("alert_id", req.AlertID))

		render.JSON(w, r, Response{Response: resp.OK()})
	}
}
