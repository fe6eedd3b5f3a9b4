package clock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystemClockHonoursAsOf(t *testing.T) {
	asOf := time.Date(2024, time.February, 29, 15, 0, 0, 0, time.UTC)
	ctx := WithAsOf(context.Background(), asOf)

	c := New()
	assert.Equal(t, asOf, c.Now(ctx))
	assert.Equal(t, "2024-02-29", Today(ctx, c).String())

	got, ok := AsOfFromContext(context.Background())
	assert.False(t, ok)
	assert.True(t, got.IsZero())
}

func TestSystemClockUsesLocation(t *testing.T) {
	loc := time.FixedZone("NZDT", 13*60*60)
	c := SystemClock{Location: loc}

	assert.Equal(t, loc, c.Now(context.Background()).Location())
}

func TestFixed(t *testing.T) {
	at := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	c := Fixed(at)

	assert.Equal(t, at, c.Now(context.Background()))
	assert.Equal(t, "2025-01-01", Today(context.Background(), c).String())
}
