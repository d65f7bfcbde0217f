// Package quiz picks the next unasked question for a running game.
package quiz

import (
	"errors"
	"math/rand/v2"

	"dealtracker/internal/models"
)

// ErrPoolMismatch means the drawn id had no record in the supplied pool.
// That can only happen when the id list and the records were built from
// different queries, so the request cannot recover.
var ErrPoolMismatch = errors.New("question pool and history are out of sync")

// NextQuestion draws one id uniformly at random from poolIDs minus
// previousIDs and resolves it to its record. A history that already covers
// the whole pool is treated as exhausted and ignored for this draw; the
// caller owns resetting its persisted history.
//
// poolIDs must be non-empty.
func NextQuestion(previousIDs, poolIDs []int64, pool []models.Question) (models.Question, error) {
	if len(previousIDs) >= len(poolIDs) {
		previousIDs = nil
	}

	asked := make(map[int64]struct{}, len(previousIDs))
	for _, id := range previousIDs {
		asked[id] = struct{}{}
	}

	candidates := make([]int64, 0, len(poolIDs))
	for _, id := range poolIDs {
		if _, ok := asked[id]; !ok {
			candidates = append(candidates, id)
		}
	}

	if len(candidates) == 0 {
		return models.Question{}, ErrPoolMismatch
	}

	drawn := candidates[rand.IntN(len(candidates))]

	for _, q := range pool {
		if q.ID == drawn {
			return q, nil
		}
	}

	return models.Question{}, ErrPoolMismatch
}

// IDs projects a question list to its id list, the usual source of poolIDs.
func IDs(questions []models.Question) []int64 {
	ids := make([]int64, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}
	return ids
}
