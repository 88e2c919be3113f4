package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLevels() []FameLevel {
	// deliberately unsorted input
	return []FameLevel{
		{ID: 4, Name: "Super Pro", NumericValue: 100},
		{ID: 1, Name: "Dangerous Bullshitter", NumericValue: -500},
		{ID: 3, Name: "Confuser", NumericValue: -10},
		{ID: 2, Name: "Bullshitter", NumericValue: -100},
		{ID: 5, Name: "Expert", NumericValue: 200},
	}
}

func TestFameLadder_RanksByNumericValue(t *testing.T) {
	t.Parallel()

	ladder := NewFameLadder(testLevels())
	levels := ladder.Levels()
	require.Len(t, levels, 5)
	for i := 1; i < len(levels); i++ {
		assert.Less(t, levels[i-1].NumericValue, levels[i].NumericValue)
	}

	min, err := ladder.Minimum()
	require.NoError(t, err)
	assert.Equal(t, "Dangerous Bullshitter", min.Name)
}

func TestFameLadder_NextLower(t *testing.T) {
	t.Parallel()

	ladder := NewFameLadder(testLevels())

	superPro, err := ladder.ByName("Super Pro")
	require.NoError(t, err)

	lower, err := ladder.NextLower(superPro)
	require.NoError(t, err)
	assert.Equal(t, "Confuser", lower.Name)

	// walking down never skips a rung and terminates at the minimum
	steps := 0
	level := superPro
	for {
		next, err := ladder.NextLower(level)
		if err != nil {
			require.ErrorIs(t, err, ErrLadderBottom)
			break
		}
		assert.Less(t, next.NumericValue, level.NumericValue)
		level = next
		steps++
	}
	assert.Equal(t, 3, steps)
	assert.Equal(t, "Dangerous Bullshitter", level.Name)
}

func TestFameLadder_NextLowerFromMinimum(t *testing.T) {
	t.Parallel()

	ladder := NewFameLadder(testLevels())
	min, err := ladder.Minimum()
	require.NoError(t, err)

	_, err = ladder.NextLower(min)
	assert.ErrorIs(t, err, ErrLadderBottom)
}

func TestFameLadder_ByNameIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	ladder := NewFameLadder(testLevels())

	level, err := ladder.ByName("cOnFuSeR")
	require.NoError(t, err)
	assert.Equal(t, -10, level.NumericValue)

	_, err = ladder.ByName("no such level")
	require.Error(t, err)
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, CodeNotFound, appErr.Code)
}

func TestFameLadder_UnknownLevel(t *testing.T) {
	t.Parallel()

	ladder := NewFameLadder(testLevels())
	_, err := ladder.NextLower(FameLevel{ID: 99, Name: "Ghost", NumericValue: 0})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrLadderBottom)
}
