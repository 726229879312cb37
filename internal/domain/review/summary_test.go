package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	rows := []Ratings{
		{Overall: 5, Service: intp(5)},
		{Overall: 4, Service: intp(4)},
		{Overall: 3},
		{Overall: 3},
		{Overall: 5, Staff: intp(2)},
	}

	s := Summarize(rows)

	assert.Equal(t, 5, s.TotalReviews)
	assert.Equal(t, 4.0, s.AverageRating)
	assert.Equal(t, map[int]int{1: 0, 2: 0, 3: 2, 4: 1, 5: 2}, s.RatingDistribution)

	require.NotNil(t, s.AverageServiceRating)
	assert.Equal(t, 4.5, *s.AverageServiceRating)
	require.NotNil(t, s.AverageStaffRating)
	assert.Equal(t, 2.0, *s.AverageStaffRating)
	assert.Nil(t, s.AverageAtmosphereRating)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)

	assert.Zero(t, s.TotalReviews)
	assert.Zero(t, s.AverageRating)
	assert.Equal(t, map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}, s.RatingDistribution)
}

func TestSummarizeRoundsToTwoDecimals(t *testing.T) {
	s := Summarize([]Ratings{{Overall: 5}, {Overall: 4}, {Overall: 4}})
	assert.Equal(t, 4.33, s.AverageRating)
}
