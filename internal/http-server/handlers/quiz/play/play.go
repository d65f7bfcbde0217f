package playQuiz

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	resp "dealtracker/internal/lib/api/response"
	sl "dealtracker/internal/lib/logger"
	"dealtracker/internal/lib/quiz"
	"dealtracker/internal/models"
	"dealtracker/internal/storage"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type QuizCategory struct {
	ID int64 `json:"id"`
}

type Request struct {
	PreviousQuestions []int64      `json:"previous_questions"`
	QuizCategory      QuizCategory `json:"quiz_category"`
}

type Response struct {
	resp.Response
	Question models.Question `json:"question"`
}

type Storage interface {
	CategoryByID(ctx context.Context, categoryID int64) (models.Category, error)
	Questions(ctx context.Context) ([]models.Question, error)
	QuestionsByCategory(ctx context.Context, categoryID int64) ([]models.Question, error)
}

// New returns one random unasked question for the session. Category id 0
// plays across all categories. The caller resubmits its asked-question
// history on every call and resets it client-side once the pool runs out.
func New(
	log *slog.Logger,
	store Storage,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.quiz.play.New"

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

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		pool, err := loadPool(ctx, store, req.QuizCategory.ID)
		if err != nil {
			if errors.Is(err, storage.ErrCategoryNotFound) {
				render.Status(r, http.StatusUnprocessableEntity)
				render.JSON(w, r, resp.Error("Category not found"))

				return
			}

			log.Error("Failed to load question pool", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		if len(pool) == 0 {
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, resp.Error("No questions in category"))

			return
		}

		question, err := quiz.NextQuestion(req.PreviousQuestions, quiz.IDs(pool), pool)
		if err != nil {
			// Pool and history disagree; retrying reproduces it.
			log.Error("Failed to pick question", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("Question picked",
			slog.Int64("question_id", question.ID),
			slog.Int64("category_id", req.QuizCategory.ID),
		)

		render.JSON(w, r, Response{
			Response: resp.OK(),
			Question: question,
		})
	}
}

func loadPool(ctx context.Context, store Storage, categoryID int64) ([]models.Question, error) {
	if categoryID == 0 {
		return store.Questions(ctx)
	}

	if _, err := store.CategoryByID(ctx, categoryID); err != nil {
		return nil, err
	}

	return store.QuestionsByCategory(ctx, categoryID)
}
