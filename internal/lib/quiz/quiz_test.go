package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealtracker/internal/models"
)

func pool(ids ...int64) []models.Question {
	questions := make([]models.Question, 0, len(ids))
	for _, id := range ids {
		questions = append(questions, models.Question{ID: id, Question: "q", Answer: "a"})
	}
	return questions
}

func TestNextQuestion(t *testing.T) {
	t.Run("EveryCandidateIsReachable", func(t *testing.T) {
		p := pool(1, 2, 3)
		seen := make(map[int64]bool)

		for i := 0; i < 500; i++ {
			q, err := NextQuestion(nil, IDs(p), p)
			require.NoError(t, err)
			assert.Contains(t, []int64{1, 2, 3}, q.ID)
			seen[q.ID] = true
		}

		assert.Len(t, seen, 3)
	})

	t.Run("AskedQuestionsAreExcluded", func(t *testing.T) {
		p := pool(1, 2, 3)

		for i := 0; i < 100; i++ {
			q, err := NextQuestion([]int64{1, 2}, IDs(p), p)
			require.NoError(t, err)
			assert.Equal(t, int64(3), q.ID)
		}
	})

	t.Run("ExhaustedHistoryResets", func(t *testing.T) {
		p := pool(1, 2, 3)

		q, err := NextQuestion([]int64{1, 2, 3}, IDs(p), p)
		require.NoError(t, err)
		assert.Contains(t, []int64{1, 2, 3}, q.ID)
	})

	t.Run("OversizedHistoryResets", func(t *testing.T) {
		p := pool(1, 2)

		q, err := NextQuestion([]int64{1, 2, 99}, IDs(p), p)
		require.NoError(t, err)
		assert.Contains(t, []int64{1, 2}, q.ID)
	})

	t.Run("MismatchedPoolFails", func(t *testing.T) {
		// The id list and the records come from different queries.
		_, err := NextQuestion(nil, []int64{42}, pool(1, 2, 3))
		require.ErrorIs(t, err, ErrPoolMismatch)
	})

	t.Run("SingleQuestionPool", func(t *testing.T) {
		p := pool(7)

		q, err := NextQuestion(nil, IDs(p), p)
		require.NoError(t, err)
		assert.Equal(t, int64(7), q.ID)
	})
}

func TestIDs(t *testing.T) {
	assert.Equal(t, []int64{4, 5}, IDs(pool(4, 5)))
	assert.Empty(t, IDs(nil))
}
