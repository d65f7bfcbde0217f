package deleteQuestion

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	resp "dealtracker/internal/lib/api/response"
	sl "dealtracker/internal/lib/logger"
	"dealtracker/internal/storage"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Response struct {
	resp.Response
	DeletedID int64 `json:"deleted_id"`
}

type QuestionRemover interface {
	DeleteQuestion(ctx context.Context, questionID int64) error
}

func New(
	log *slog.Logger,
	remover QuestionRemover,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.questions.delete.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		questionID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || questionID < 1 {
			log.Error("Invalid question id")

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Invalid question id"))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		if err := remover.DeleteQuestion(ctx, questionID); err != nil {
			if errors.Is(err, storage.ErrQuestionNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("Question not found"))

				return
			}

			log.Error("Failed to delete question", sl.Err(err), slog.Int64("question_id", questionID))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("Question deleted", slog.Int64("question_id", questionID))

		render.JSON(w, r, Response{
			Response:  resp.OK(),
			DeletedID: questionID,
		})
	}
}
