package postgres

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

func TestULIDGenerator_IncreasesWithinOneMillisecond(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	gen := NewULIDGenerator(fixedClock{at: at})

	prev := gen.Generate()
	for range 100 {
		next := gen.Generate()
		require.Greater(t, next, prev)
		prev = next
	}

	id, err := ulid.Parse(prev)
	require.NoError(t, err)
	assert.True(t, ulid.Time(id.Time()).Equal(at))
}
