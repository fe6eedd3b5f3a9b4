package clock

import (
	"context"
	"time"
)

type key string

var asOfKey key = "as_of"

// WithAsOf returns a context in which every Clock reports t, so a whole
// request can be evaluated as if it ran on another day.
func WithAsOf(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, asOfKey, t)
}

// AsOfFromContext returns the simulated time, if present.
func AsOfFromContext(ctx context.Context) (time.Time, bool) {
	if ctx == nil {
		return time.Time{}, false
	}
	t, ok := ctx.Value(asOfKey).(time.Time)
	return t, ok
}
