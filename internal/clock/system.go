package clock

import (
	"context"
	"time"
)

// SystemClock reads the wall clock in Location unless the request carries
// an as-of override.
type SystemClock struct {
	Location *time.Location
}

func New() Clock {
	return SystemClock{Location: time.UTC}
}

func (c SystemClock) Now(ctx context.Context) time.Time {
	if t, ok := AsOfFromContext(ctx); ok {
		return t
	}
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return time.Now().In(loc)
}
