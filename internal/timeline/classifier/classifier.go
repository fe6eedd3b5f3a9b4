// Package classifier decides the DayState of one charge on one day.
//
// The decision is an ordered list of rules evaluated top to bottom; the
// first rule whose predicate matches supplies the state. Keeping the
// precedence in one table makes it auditable and lets every rule be tested
// on its own.
package classifier

import (
	"github.com/railzwaylabs/subview/internal/calendar"
	"github.com/railzwaylabs/subview/internal/timeline/domain"
)

// Input is the charge as the classifier sees it, with defaults applied.
type Input struct {
	EffectiveStart calendar.Date
	EffectiveEnd   calendar.Date
	ChargedThrough calendar.Date
	HolidayStart   calendar.Date
	HolidayEnd     calendar.Date

	Holiday     bool
	Discount    bool
	NForN       bool
	Refundable  bool
	PlanRemoved bool
}

// InputFor builds the classifier view of a charge.
func InputFor(c domain.Charge, planRemoved bool) Input {
	holidayStart, holidayEnd := c.HolidayWindow()
	return Input{
		EffectiveStart: c.EffectiveStartDate,
		EffectiveEnd:   c.EffectiveEndDate,
		ChargedThrough: c.ChargedThrough(),
		HolidayStart:   holidayStart,
		HolidayEnd:     holidayEnd,
		Holiday:        c.Tags.Holiday,
		Discount:       c.Tags.Discount,
		NForN:          c.Tags.NForN,
		Refundable:     c.Tags.Refundable,
		PlanRemoved:    planRemoved,
	}
}

// Context carries the term position of the day and the subscription-wide
// flags. Today is explicit so that results never depend on the wall clock.
type Context struct {
	Position    domain.TermPosition
	AutoRenew   bool
	Cancelled   bool
	Today       calendar.Date
	TermEndDate calendar.Date
}

// Rule pairs a predicate with the state it yields.
type Rule struct {
	Name   string
	Match  func(c Cell) bool
	Result func(c Cell) domain.DayState
}

// Cell is one (charge, day) evaluation with its derived interval facts.
type Cell struct {
	Day calendar.Date
	In  Input
	Ctx Context

	// Covered: on or after the effective start and before either the
	// effective end or the charged-through date.
	Covered bool
	// Billed: covered and before the charged-through date.
	Billed bool
}

func newCell(day calendar.Date, in Input, ctx Context) Cell {
	covered := day.IsSameOrAfter(in.EffectiveStart) &&
		(day.Before(in.EffectiveEnd) || day.Before(in.ChargedThrough))
	return Cell{
		Day:     day,
		In:      in,
		Ctx:     ctx,
		Covered: covered,
		Billed:  covered && day.Before(in.ChargedThrough),
	}
}

func (c Cell) inCurrentTerm() bool { return c.Ctx.Position == domain.InCurrentTerm }

func (c Cell) inHolidayWindow() bool {
	return c.Day.IsSameOrAfter(c.In.HolidayStart) && c.Day.IsSameOrBefore(c.In.HolidayEnd)
}

func state(s domain.DayState) func(Cell) domain.DayState {
	return func(Cell) domain.DayState { return s }
}

// paid distinguishes days that can still be refunded from those already
// consumed (or never refundable).
func paid(c Cell) domain.DayState {
	if c.Day.IsSameOrBefore(c.Ctx.Today) || !c.In.Refundable {
		return domain.DayStateCoveredNotRefundable
	}
	return domain.DayStateCovered
}

func paidOrScheduled(c Cell) domain.DayState {
	if c.Billed {
		return paid(c)
	}
	return domain.DayStateScheduled
}

// Rules is the precedence table, highest first.
var Rules = []Rule{
	{
		Name:   "zero-duration",
		Match:  func(c Cell) bool { return c.In.EffectiveStart.Equal(c.In.EffectiveEnd) },
		Result: state(domain.DayStateNone),
	},
	{
		Name:   "holiday-outside-window",
		Match:  func(c Cell) bool { return c.In.Holiday && !c.inHolidayWindow() },
		Result: state(domain.DayStateNone),
	},
	{
		Name:   "removed-plan-inactive",
		Match:  func(c Cell) bool { return c.In.PlanRemoved && !c.Covered },
		Result: state(domain.DayStateNone),
	},
	{
		Name:   "discount-inactive",
		Match:  func(c Cell) bool { return c.In.Discount && !c.Covered },
		Result: state(domain.DayStateNone),
	},
	{
		Name:   "waiting-outside-term",
		Match:  func(c Cell) bool { return !c.inCurrentTerm() && c.Day.Before(c.In.EffectiveStart) },
		Result: state(domain.DayStateNone),
	},
	{
		Name:   "holiday",
		Match:  func(c Cell) bool { return c.In.Holiday },
		Result: state(domain.DayStateHoliday),
	},
	{
		Name:   "discounted",
		Match:  func(c Cell) bool { return c.In.Discount },
		Result: state(domain.DayStateDiscounted),
	},
	{
		Name: "grace",
		Match: func(c Cell) bool {
			return c.inCurrentTerm() &&
				!c.In.Holiday && !c.In.NForN && !c.In.Discount && !c.In.PlanRemoved &&
				c.Day.IsSameOrAfter(c.In.EffectiveEnd)
		},
		Result: state(domain.DayStateGrace),
	},
	{
		Name:  "lead-time",
		Match: func(c Cell) bool { return c.inCurrentTerm() && c.Day.Before(c.In.EffectiveStart) },
		Result: func(c Cell) domain.DayState {
			// A charge that only starts with the next term does not belong to
			// this one; under auto-renewal it is implied coverage.
			if c.Ctx.AutoRenew && !c.Ctx.TermEndDate.IsZero() &&
				c.In.EffectiveStart.IsSameOrAfter(c.Ctx.TermEndDate) {
				return domain.DayStateEvergreen
			}
			return domain.DayStateLeadTime
		},
	},
	{
		Name:  "current-term",
		Match: func(c Cell) bool { return c.inCurrentTerm() },
		Result: func(c Cell) domain.DayState {
			switch {
			case c.Covered:
				return paidOrScheduled(c)
			case !c.In.NForN:
				return domain.DayStateScheduled
			}
			return domain.DayStateNone
		},
	},
	{
		Name:  "auto-renew",
		Match: func(c Cell) bool { return c.Ctx.AutoRenew },
		Result: func(c Cell) domain.DayState {
			if c.Covered {
				return paidOrScheduled(c)
			}
			return domain.DayStateEvergreen
		},
	},
	{
		Name:   "one-off-before-term",
		Match:  func(c Cell) bool { return c.Ctx.Position == domain.BeforeCurrentTerm },
		Result: paidOrScheduled,
	},
	{
		Name:   "lost-revenue",
		Match:  func(c Cell) bool { return !c.Ctx.Cancelled && c.Day.IsSameOrBefore(c.Ctx.Today) },
		Result: state(domain.DayStateLostRevenue),
	},
	{
		Name: "future",
		Match: func(c Cell) bool {
			return c.Ctx.TermEndDate.IsZero() || c.Day.IsSameOrAfter(c.Ctx.TermEndDate)
		},
		Result: state(domain.DayStateFuture),
	},
}

// RuleFallthrough names the implicit last rule.
const RuleFallthrough = "fallthrough"

// Classify returns the state of the charge on day.
func Classify(day calendar.Date, in Input, ctx Context) domain.DayState {
	s, _ := Explain(day, in, ctx)
	return s
}

// Explain returns the state and the name of the rule that produced it.
func Explain(day calendar.Date, in Input, ctx Context) (domain.DayState, string) {
	c := newCell(day, in, ctx)
	for _, r := range Rules {
		if r.Match(c) {
			return r.Result(c), r.Name
		}
	}
	return domain.DayStateNone, RuleFallthrough
}
