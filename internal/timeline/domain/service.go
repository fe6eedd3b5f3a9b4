package domain

import (
	"context"

	"github.com/railzwaylabs/subview/internal/calendar"
)

type Service interface {
	// Build computes the full day-state matrix for a subscription.
	Build(ctx context.Context, sub Subscription, opts BuildOptions) (*Timeline, error)
	// Explain classifies a single cell and names the rule that decided it.
	Explain(ctx context.Context, sub Subscription, req ExplainRequest) (Explanation, error)
}

type BuildOptions struct {
	// Today overrides the clock when set.
	Today calendar.Date
}

type ExplainRequest struct {
	PlanID   string
	ChargeID string
	Day      calendar.Date
	Today    calendar.Date
}

type Explanation struct {
	PlanID   string        `json:"plan_id"`
	ChargeID string        `json:"charge_id"`
	Day      calendar.Date `json:"day"`
	Today    calendar.Date `json:"today"`
	Position TermPosition  `json:"position"`
	State    DayState      `json:"state"`
	Rule     string        `json:"rule"`
}
