package searchQuestions

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	resp "dealtracker/internal/lib/api/response"
	sl "dealtracker/internal/lib/logger"
	"dealtracker/internal/lib/pagination"
	"dealtracker/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	validator "github.com/go-playground/validator/v10"
)

type Request struct {
	SearchTerm string `json:"search_term" validate:"required"`
	PageNumber int    `json:"page_number"`
}

type Response struct {
	resp.Response
	Questions      []models.Question `json:"questions"`
	TotalQuestions int               `json:"total_questions"`
}

type QuestionSearcher interface {
	SearchQuestions(ctx context.Context, term string) ([]models.Question, error)
}

// New searches question text case-insensitively, one page at a time.
func New(
	log *slog.Logger,
	searcher QuestionSearcher,
	questionsPerPage int,
	validate *validator.Validate,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.questions.search.New"

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

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		questions, err := searcher.SearchQuestions(ctx, req.SearchTerm)
		if err != nil {
			log.Error("Failed to search questions", sl.Err(err), slog.String("term", req.SearchTerm))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		render.JSON(w, r, Response{
			Response:       resp.OK(),
			Questions:      pagination.Page(questions, req.PageNumber, questionsPerPage),
			TotalQuestions: len(questions),
		})
	}
}
