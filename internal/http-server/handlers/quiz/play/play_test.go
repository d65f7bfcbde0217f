package playQuiz

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealtracker/internal/models"
	"dealtracker/internal/storage"
)

type stubStorage struct {
	all        []models.Question
	byCategory map[int64][]models.Question
	categories map[int64]models.Category
}

func (s *stubStorage) CategoryByID(_ context.Context, categoryID int64) (models.Category, error) {
	c, ok := s.categories[categoryID]
	if !ok {
		return models.Category{}, storage.ErrCategoryNotFound
	}
	return c, nil
}

func (s *stubStorage) Questions(_ context.Context) ([]models.Question, error) {
	return s.all, nil
}

func (s *stubStorage) QuestionsByCategory(_ context.Context, categoryID int64) ([]models.Question, error) {
	return s.byCategory[categoryID], nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func doPlay(t *testing.T, store *stubStorage, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/quizzes", bytes.NewReader(data))
	rec := httptest.NewRecorder()

	New(discardLogger(), store)(rec, req)

	return rec
}

func questions(ids ...int64) []models.Question {
	qs := make([]models.Question, 0, len(ids))
	for _, id := range ids {
		qs = append(qs, models.Question{ID: id, Question: "q", Answer: "a", CategoryID: 1})
	}
	return qs
}

func TestPlayQuiz(t *testing.T) {
	store := &stubStorage{
		all:        questions(1, 2, 3),
		byCategory: map[int64][]models.Question{1: questions(1, 2)},
		categories: map[int64]models.Category{1: {ID: 1, Type: "Science"}},
	}

	t.Run("AllCategories", func(t *testing.T) {
		rec := doPlay(t, store, Request{QuizCategory: QuizCategory{ID: 0}})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, []int64{1, 2, 3}, resp.Question.ID)
	})

	t.Run("SingleCategoryExcludesHistory", func(t *testing.T) {
		rec := doPlay(t, store, Request{
			PreviousQuestions: []int64{1},
			QuizCategory:      QuizCategory{ID: 1},
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(2), resp.Question.ID)
	})

	t.Run("ExhaustedHistoryStillServes", func(t *testing.T) {
		rec := doPlay(t, store, Request{
			PreviousQuestions: []int64{1, 2, 3},
			QuizCategory:      QuizCategory{ID: 0},
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, []int64{1, 2, 3}, resp.Question.ID)
	})

	t.Run("UnknownCategory", func(t *testing.T) {
		rec := doPlay(t, store, Request{QuizCategory: QuizCategory{ID: 42}})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("EmptyCategoryPool", func(t *testing.T) {
		empty := &stubStorage{
			byCategory: map[int64][]models.Question{},
			categories: map[int64]models.Category{2: {ID: 2, Type: "Art"}},
		}

		rec := doPlay(t, empty, Request{QuizCategory: QuizCategory{ID: 2}})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("BadBody", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/quizzes", bytes.NewReader([]byte("not json")))
		rec := httptest.NewRecorder()

		New(discardLogger(), store)(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
