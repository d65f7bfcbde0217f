package saveGame

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
	Name       string `json:"name" validate:"required"`
	CategoryID int64  `json:"category_id"`
	Score      int    `json:"score" validate:"min=0"`
	Timestamp  int64  `json:"timestamp" validate:"required,gt=0"`
}

type Response struct {
	resp.Response
	GameID int64 `json:"game_id"`
}

type Storage interface {
	CategoryByID(ctx context.Context, categoryID int64) (models.Category, error)
	SaveGame(ctx context.Context, playerName string, categoryID int64, score int, playedAt time.Time) (int64, error)
}

// New records a finished game; an unknown player name is stored on the fly.
func New(
	log *slog.Logger,
	store Storage,
	validate *validator.Validate,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.games.save.New"

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

		if req.CategoryID != 0 {
			if _, err := store.CategoryByID(ctx, req.CategoryID); err != nil {
				if errors.Is(err, storage.ErrCategoryNotFound) {
					render.Status(r, http.StatusUnprocessableEntity)
					render.JSON(w, r, resp.Error("Category not found"))

					return
				}

				log.Error("Failed to get category", sl.Err(err))

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, resp.Error("Internal error"))

				return
			}
		}

		gameID, err := store.SaveGame(ctx, req.Name, req.CategoryID, req.Score, time.Unix(req.Timestamp, 0))
		if err != nil {
			log.Error("Failed to save game", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("Game saved",
			slog.Int64("game_id", gameID),
			slog.String("player", req.Name),
		)

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{
			Response: resp.OK(),
			GameID:   gameID,
		})
	}
}
