package categoryQuestions

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	resp "dealtracker/internal/lib/api/response"
	sl "dealtracker/internal/lib/logger"
	"dealtracker/internal/models"
	"dealtracker/internal/storage"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Response struct {
	resp.Response
	Questions       []models.Question `json:"questions"`
	TotalQuestions  int               `json:"total_questions"`
	CurrentCategory string            `json:"current_category"`
}

type Storage interface {
	CategoryByID(ctx context.Context, categoryID int64) (models.Category, error)
	QuestionsByCategory(ctx context.Context, categoryID int64) ([]models.Question, error)
}

// New lists every question of one category.
func New(
	log *slog.Logger,
	store Storage,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.categories.questions.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		categoryID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || categoryID < 1 {
			log.Error("Invalid category id")

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Invalid category id"))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		category, err := store.CategoryByID(ctx, categoryID)
		if err != nil {
			if errors.Is(err, storage.ErrCategoryNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("Category not found"))

				return
			}

			log.Error("Failed to get category", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		questions, err := store.QuestionsByCategory(ctx, categoryID)
		if err != nil {
			log.Error("Failed to get questions", sl.Err(err), slog.Int64("category_id", categoryID))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		if questions == nil {
			questions = []models.Question{}
		}

		render.JSON(w, r, Response{
			Response:        resp.OK(),
			Questions:       questions,
			TotalQuestions:  len(questions),
			CurrentCategory: category.Type,
		})
	}
}
