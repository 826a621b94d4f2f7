package id

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Not parallel: At with an old timestamp would reset the monotonic entropy.
func TestNewIsSortable(t *testing.T) {
	prev := New()
	for i := 0; i < 100; i++ {
		next := New()
		assert.Len(t, next, 26)
		assert.Less(t, prev, next)
		prev = next
	}
}

func TestAtRoundTrip(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 6, 7, 15, 30, 0, 0, time.UTC)
	got, err := Time(At(ts))
	require.NoError(t, err)
	assert.True(t, got.Equal(ts))

	_, err = Time("not-a-ulid")
	assert.Error(t, err)
}
