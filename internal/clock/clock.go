package clock

import (
	"context"
	"time"

	"github.com/railzwaylabs/subview/internal/calendar"
)

type Clock interface {
	Now(ctx context.Context) time.Time
}

// Today is the current calendar day according to c.
func Today(ctx context.Context, c Clock) calendar.Date {
	return calendar.Of(c.Now(ctx))
}

// Fixed always reports the same instant. Used by tests and the CLI.
type Fixed time.Time

func (f Fixed) Now(ctx context.Context) time.Time {
	if t, ok := AsOfFromContext(ctx); ok {
		return t
	}
	return time.Time(f)
}
