package bitmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndicesToBitmap(t *testing.T) {
	m, err := IndicesToBitmap([]int{0, 1, 3}, Width)
	require.NoError(t, err)
	assert.Equal(t, uint32(0b1011), m)

	m, err = IndicesToBitmap(nil, Width)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), m)

	_, err = IndicesToBitmap([]int{32}, Width)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = IndicesToBitmap([]int{-1}, Width)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestRoundTrip(t *testing.T) {
	sets := [][]int{
		{},
		{0},
		{31},
		{0, 1, 3},
		{2, 7, 15, 30},
		{0, 1, 2, 3, 4, 5, 6, 7},
	}
	for _, indices := range sets {
		m, err := IndicesToBitmap(indices, Width)
		require.NoError(t, err)
		back := BitmapToIndices(m, Width)
		if len(indices) == 0 {
			assert.Empty(t, back)
		} else {
			assert.Equal(t, indices, back)
		}
	}
}

func TestBitOps(t *testing.T) {
	var m uint32
	m = Add(m, 3)
	assert.True(t, Contains(m, 3))
	assert.False(t, Contains(m, 4))

	m = Toggle(m, 4)
	assert.True(t, Contains(m, 4))
	m = Toggle(m, 4)
	assert.False(t, Contains(m, 4))

	m = Remove(m, 3)
	assert.Equal(t, uint32(0), m)

	assert.Equal(t, 3, CountSet(0b111))
	assert.Equal(t, uint32(0b1111), AllSet(4))
}
