package createQuestion

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
	Question   string `json:"question" validate:"required"`
	Answer     string `json:"answer" validate:"required"`
	Category   int64  `json:"category" validate:"required,gt=0"`
	Difficulty int    `json:"difficulty" validate:"required,min=1,max=5"`
	Rating     int    `json:"rating" validate:"min=0,max=5"`
}

type Response struct {
	resp.Response
	QuestionID int64 `json:"question_id"`
}

type Storage interface {
	CategoryByID(ctx context.Context, categoryID int64) (models.Category, error)
	SaveQuestion(ctx context.Context, q models.Question) (int64, error)
}

// New creates a question. The category is checked before anything is
// written.
func New(
	log *slog.Logger,
	store Storage,
	validate *validator.Validate,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.questions.create.New"

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

		if _, err := store.CategoryByID(ctx, req.Category); err != nil {
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

		questionID, err := store.SaveQuestion(ctx, models.Question{
			Question:   req.Question,
			Answer:     req.Answer,
			CategoryID: req.Category,
			Difficulty: req.Difficulty,
			Rating:     req.Rating,
		})
		if err != nil {
			log.Error("Failed to save question", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("Question saved", slog.Int64("question_id", questionID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{
			Response:   resp.OK(),
			QuestionID: questionID,
		})
	}
}
