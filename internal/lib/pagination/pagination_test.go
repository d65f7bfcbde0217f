package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPage(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e", "f", "g"}

	t.Run("SecondPageHoldsTheRemainder", func(t *testing.T) {
		assert.Equal(t, []string{"f", "g"}, Page(items, 2, 5))
	})

	t.Run("FirstPageIsFull", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b", "c", "d", "e"}, Page(items, 1, 5))
	})

	t.Run("PagesReconstructTheInput", func(t *testing.T) {
		size := 3

		var rebuilt []string
		for page := 1; ; page++ {
			chunk := Page(items, page, size)
			if len(chunk) == 0 {
				break
			}
			rebuilt = append(rebuilt, chunk...)
		}

		assert.Equal(t, items, rebuilt)
	})

	t.Run("PastTheEndIsEmptyNotAnError", func(t *testing.T) {
		assert.Empty(t, Page(items, 3, 5))
		assert.Empty(t, Page(items, 100, 5))
	})

	t.Run("NonPositiveInputsAreEmpty", func(t *testing.T) {
		assert.Empty(t, Page(items, 0, 5))
		assert.Empty(t, Page(items, -1, 5))
		assert.Empty(t, Page(items, 1, 0))
	})

	t.Run("EmptyInput", func(t *testing.T) {
		assert.Empty(t, Page([]string{}, 1, 5))
	})
}

func TestLimitOffset(t *testing.T) {
	t.Run("FirstPage", func(t *testing.T) {
		limit, offset := LimitOffset(1, 5)
		require.Equal(t, int64(5), limit)
		require.Equal(t, int64(0), offset)
	})

	t.Run("ThirdPage", func(t *testing.T) {
		limit, offset := LimitOffset(3, 5)
		require.Equal(t, int64(5), limit)
		require.Equal(t, int64(10), offset)
	})

	t.Run("PageBelowOneClampsToFirst", func(t *testing.T) {
		limit, offset := LimitOffset(0, 5)
		require.Equal(t, int64(5), limit)
		require.Equal(t, int64(0), offset)
	})
}
