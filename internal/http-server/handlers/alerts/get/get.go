package getAlerts

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	resp "dealtracker/internal/lib/api/response"
	sl "dealtracker/internal/lib/logger"
	"dealtracker/internal/lib/pagination"
	"dealtracker/internal/models"
	"dealtracker/internal/storage"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	validator "github.com/go-playground/validator/v10"
)

type Request struct {
	UserID     string `json:"user_id" validate:"required"`
	PageNumber int    `json:"page_number"`
}

type Response struct {
	resp.Response
	UserAlerts []models.AlertView `json:"user_alerts"`
	TotalItems int64              `json:"total_items"`
}

type UserGetter interface {
	UserByExternalID(ctx context.Context, externalID string) (models.User, error)
}

type AlertPager interface {
	PagedAlerts(ctx context.Context, userID int64, limit, offset int64, now time.Time) ([]models.AlertView, int64, error)
}

// New serves one page of the user's alerts, prices refreshed. A missing or
// invalid page number falls back to the first page.
func New(
	log *slog.Logger,
	users UserGetter,
	alertOp AlertPager,
	itemsPerPage int,
	validate *validator.Validate,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.alerts.get.New"

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

		user, err := users.UserByExternalID(ctx, req.UserID)
		if err != nil {
			if errors.Is(err, storage.ErrUserNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("User not found"))

				return
			}

			log.Error("Failed to get user", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		limit, offset := pagination.LimitOffset(req.PageNumber, itemsPerPage)

		views, total, err := alertOp.PagedAlerts(ctx, user.ID, limit, offset, time.Now())
		if err != nil {
			log.Error("Failed to get alerts",
				sl.Err(err),
				slog.Int64("user_id", user.ID),
				slog.Int("page", req.PageNumber),
			)

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("Alerts retrieved",
			slog.Int64("user_id", user.ID),
			slog.Int("count", len(views)),
			slog.Int64("total", total),
		)

		render.JSON(w, r, Response{
			Response:   resp.OK(),
			UserAlerts: views,
			TotalItems: total,
		})
	}
}
