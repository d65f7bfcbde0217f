package getQuestions

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	resp "dealtracker/internal/lib/api/response"
	sl "dealtracker/internal/lib/logger"
	"dealtracker/internal/lib/pagination"
	"dealtracker/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Response struct {
	resp.Response
	Questions      []models.Question `json:"questions"`
	TotalQuestions int               `json:"total_questions"`
	Categories     map[int64]string  `json:"categories"`
}

type Storage interface {
	Questions(ctx context.Context) ([]models.Question, error)
	Categories(ctx context.Context) ([]models.Category, error)
}

// New lists questions one page at a time. The full list is loaded and
// sliced in memory.
func New(
	log *slog.Logger,
	store Storage,
	questionsPerPage int,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.questions.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		page := parsePage(r)

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		questions, err := store.Questions(ctx)
		if err != nil {
			log.Error("Failed to get questions", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		categories, err := store.Categories(ctx)
		if err != nil {
			log.Error("Failed to get categories", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		byID := make(map[int64]string, len(categories))
		for _, c := range categories {
			byID[c.ID] = c.Type
		}

		render.JSON(w, r, Response{
			Response:       resp.OK(),
			Questions:      pagination.Page(questions, page, questionsPerPage),
			TotalQuestions: len(questions),
			Categories:     byID,
		})
	}
}

func parsePage(r *http.Request) int {
	pageStr := r.URL.Query().Get("page")
	if pageStr == "" {
		return 1
	}

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		return 1
	}

	return page
}
