package addAlert

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	resp "dealtracker/internal/lib/api/response"
	sl "dealtracker/internal/lib/logger"
	"dealtracker/internal/models"
	"dealtracker/internal/storage"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	validator "github.com/go-playground/validator/v10"
)

type Request struct {
	UserID       string                  `json:"user_id" validate:"required"`
	ProductID    string                  `json:"product_id" validate:"required"`
	DesiredPrice float64                 `json:"desired_price" validate:"required,gt=0"`
	Metadata     *models.ProductMetadata `json:"product_metadata"`
}

type Response struct {
	resp.Response
	AlertID int64 `json:"alert_id,omitempty"`
}

type UserGetter interface {
	UserByExternalID(ctx context.Context, externalID string) (models.User, error)
}

type AlertAdder interface {
	AddAlert(
		ctx context.Context,
		userID int64,
		externalProductID string,
		desiredPrice float64,
		meta *models.ProductMetadata,
		now time.Time,
	) (int64, error)
}

// New creates an alert. Metadata is required only for products nobody has
// tracked yet; a duplicate alert for the same product is not an error.
func New(
	log *slog.Logger,
	users UserGetter,
	alertOp AlertAdder,
	validate *validator.Validate,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.alerts.add.New"

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

		alertID, err := alertOp.AddAlert(ctx, user.ID, req.ProductID, req.DesiredPrice, req.Metadata, time.Now())
		switch {
		case errors.Is(err, storage.ErrAlertExists):
			// Same outcome as a fresh insert from the caller's side.
			log.Info("Alert already exists",
				slog.Int64("user_id", user.ID),
				slog.String("product_id", req.ProductID),
			)

			render.JSON(w, r, Response{Response: resp.OK()})

			return

		case errors.Is(err, storage.ErrProductNotFound):
			log.Error("Product metadata missing for unknown product",
				slog.String("product_id", req.ProductID),
			)

			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, resp.Error("product_metadata is required for a new product"))

			return

		case err != nil:
			log.Error("Failed to add alert", sl.Err(err), slog.Int64("user_id", user.ID))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("Alert added",
			slog.Int64("alert_id", alertID),
			slog.Int64("user_id", user.ID),
		)

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{
			Response: resp.OK(),
			AlertID:  alertID,
		})
	}
}
