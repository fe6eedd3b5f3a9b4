package classifier

import (
	"testing"

	"github.com/railzwaylabs/subview/internal/calendar"
	"github.com/railzwaylabs/subview/internal/timeline/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) calendar.Date { return calendar.MustParse(s) }

// yearCharge is effective for 2024, billed to the end of June.
func yearCharge() Input {
	return Input{
		EffectiveStart: d("2024-01-01"),
		EffectiveEnd:   d("2025-01-01"),
		ChargedThrough: d("2024-07-01"),
		HolidayStart:   d("2024-01-01"),
		HolidayEnd:     d("2025-01-01"),
		Refundable:     true,
	}
}

func inTerm(today string) Context {
	return Context{
		Position:    domain.InCurrentTerm,
		AutoRenew:   true,
		Today:       d(today),
		TermEndDate: d("2025-01-01"),
	}
}

func at(pos domain.TermPosition, ctx Context) Context {
	ctx.Position = pos
	return ctx
}

func TestRulePrecedence(t *testing.T) {
	tests := []struct {
		name      string
		day       string
		in        func(in *Input)
		ctx       Context
		wantState domain.DayState
		wantRule  string
	}{
		{
			name: "zero duration beats holiday",
			day:  "2024-03-01",
			in: func(in *Input) {
				in.EffectiveStart, in.EffectiveEnd = d("2024-03-01"), d("2024-03-01")
				in.Holiday = true
			},
			ctx:       inTerm("2024-06-01"),
			wantState: domain.DayStateNone,
			wantRule:  "zero-duration",
		},
		{
			name: "holiday outside window beats removed plan",
			day:  "2023-12-01",
			in: func(in *Input) {
				in.Holiday, in.PlanRemoved = true, true
				in.HolidayStart, in.HolidayEnd = d("2024-03-01"), d("2024-03-10")
			},
			ctx:       at(domain.BeforeCurrentTerm, inTerm("2024-06-01")),
			wantState: domain.DayStateNone,
			wantRule:  "holiday-outside-window",
		},
		{
			name:      "removed plan beats inactive discount",
			day:       "2025-02-01",
			in:        func(in *Input) { in.PlanRemoved, in.Discount = true, true },
			ctx:       at(domain.AfterCurrentTerm, inTerm("2024-06-01")),
			wantState: domain.DayStateNone,
			wantRule:  "removed-plan-inactive",
		},
		{
			name:      "inactive discount beats waiting",
			day:       "2023-12-01",
			in:        func(in *Input) { in.Discount = true },
			ctx:       at(domain.BeforeCurrentTerm, inTerm("2024-06-01")),
			wantState: domain.DayStateNone,
			wantRule:  "discount-inactive",
		},
		{
			name: "waiting beats holiday",
			day:  "2023-12-15",
			in: func(in *Input) {
				in.Holiday = true
				in.HolidayStart = d("2023-12-01")
			},
			ctx:       at(domain.BeforeCurrentTerm, inTerm("2024-06-01")),
			wantState: domain.DayStateNone,
			wantRule:  "waiting-outside-term",
		},
		{
			name: "holiday beats discounted",
			day:  "2024-03-05",
			in: func(in *Input) {
				in.Holiday, in.Discount = true, true
				in.HolidayStart, in.HolidayEnd = d("2024-03-01"), d("2024-03-10")
			},
			ctx:       inTerm("2024-06-01"),
			wantState: domain.DayStateHoliday,
			wantRule:  "holiday",
		},
		{
			name: "discounted beats grace",
			day:  "2025-01-15",
			in: func(in *Input) {
				in.Discount = true
				in.ChargedThrough = d("2025-02-01")
			},
			ctx:       inTerm("2024-06-01"),
			wantState: domain.DayStateDiscounted,
			wantRule:  "discounted",
		},
		{
			name:      "grace beats covered",
			day:       "2025-01-10",
			in:        func(in *Input) { in.ChargedThrough = d("2025-02-01") },
			ctx:       inTerm("2024-06-01"),
			wantState: domain.DayStateGrace,
			wantRule:  "grace",
		},
		{
			name:      "lead time beats current term",
			day:       "2023-12-20",
			in:        func(in *Input) {},
			ctx:       inTerm("2024-06-01"),
			wantState: domain.DayStateLeadTime,
			wantRule:  "lead-time",
		},
		{
			name:      "current term beats auto renew",
			day:       "2025-01-10",
			in:        func(in *Input) { in.NForN = true },
			ctx:       inTerm("2024-06-01"),
			wantState: domain.DayStateNone,
			wantRule:  "current-term",
		},
		{
			name:      "auto renew beats one-off before term",
			day:       "2025-02-01",
			in:        func(in *Input) {},
			ctx:       at(domain.BeforeCurrentTerm, inTerm("2024-06-01")),
			wantState: domain.DayStateEvergreen,
			wantRule:  "auto-renew",
		},
		{
			name: "one-off before term beats lost revenue",
			day:  "2024-08-01",
			in:   func(in *Input) {},
			ctx: Context{
				Position:    domain.BeforeCurrentTerm,
				Today:       d("2024-09-01"),
				TermEndDate: d("2025-01-01"),
			},
			wantState: domain.DayStateScheduled,
			wantRule:  "one-off-before-term",
		},
		{
			name: "lost revenue ignores coverage after a one-off term",
			day:  "2025-02-01",
			in:   func(in *Input) { in.ChargedThrough = d("2025-03-01") },
			ctx: Context{
				Position:    domain.AfterCurrentTerm,
				Today:       d("2025-06-01"),
				TermEndDate: d("2025-01-01"),
			},
			wantState: domain.DayStateLostRevenue,
			wantRule:  "lost-revenue",
		},
		{
			name: "future ignores coverage after a one-off term",
			day:  "2025-02-01",
			in:   func(in *Input) { in.ChargedThrough = d("2025-03-01") },
			ctx: Context{
				Position:    domain.AfterCurrentTerm,
				Today:       d("2025-01-15"),
				TermEndDate: d("2025-01-01"),
			},
			wantState: domain.DayStateFuture,
			wantRule:  "future",
		},
		{
			name: "lost revenue beats future",
			day:  "2025-02-01",
			in:   func(in *Input) {},
			ctx: Context{
				Position:    domain.AfterCurrentTerm,
				Today:       d("2025-03-01"),
				TermEndDate: d("2025-01-01"),
			},
			wantState: domain.DayStateLostRevenue,
			wantRule:  "lost-revenue",
		},
		{
			name: "cancelled subscriptions lose no revenue",
			day:  "2025-02-01",
			in:   func(in *Input) {},
			ctx: Context{
				Position:    domain.AfterCurrentTerm,
				Cancelled:   true,
				Today:       d("2025-03-01"),
				TermEndDate: d("2025-01-01"),
			},
			wantState: domain.DayStateFuture,
			wantRule:  "future",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := yearCharge()
			tt.in(&in)

			gotState, gotRule := Explain(d(tt.day), in, tt.ctx)
			assert.Equal(t, tt.wantState, gotState)
			assert.Equal(t, tt.wantRule, gotRule)
		})
	}
}

func TestCurrentTermCoverage(t *testing.T) {
	in := yearCharge()
	ctx := inTerm("2024-03-01")

	assert.Equal(t, domain.DayStateCoveredNotRefundable, Classify(d("2024-02-01"), in, ctx))
	assert.Equal(t, domain.DayStateCoveredNotRefundable, Classify(d("2024-03-01"), in, ctx))
	assert.Equal(t, domain.DayStateCovered, Classify(d("2024-03-02"), in, ctx))
	assert.Equal(t, domain.DayStateCovered, Classify(d("2024-06-30"), in, ctx))
	assert.Equal(t, domain.DayStateScheduled, Classify(d("2024-07-01"), in, ctx))
	assert.Equal(t, domain.DayStateGrace, Classify(d("2025-01-01"), in, ctx))

	in.Refundable = false
	assert.Equal(t, domain.DayStateCoveredNotRefundable, Classify(d("2024-06-30"), in, ctx))
}

func TestNForNOutsideCoverageShowsNothing(t *testing.T) {
	in := yearCharge()
	in.NForN = true
	in.EffectiveEnd = d("2024-04-01")
	in.ChargedThrough = d("2024-04-01")

	state, rule := Explain(d("2024-05-01"), in, inTerm("2024-03-01"))
	assert.Equal(t, domain.DayStateNone, state)
	assert.Equal(t, "current-term", rule)

	in.NForN = false
	assert.Equal(t, domain.DayStateGrace, Classify(d("2024-05-01"), in, inTerm("2024-03-01")))
}

func TestRemovedPlanIsShownOnlyWhileCovered(t *testing.T) {
	in := yearCharge()
	in.PlanRemoved = true
	in.EffectiveEnd = d("2024-05-01")
	in.ChargedThrough = d("2024-06-01")
	ctx := inTerm("2024-03-01")

	assert.Equal(t, domain.DayStateCovered, Classify(d("2024-05-15"), in, ctx))
	assert.Equal(t, domain.DayStateNone, Classify(d("2024-06-01"), in, ctx))
	assert.Equal(t, domain.DayStateNone, Classify(d("2024-09-01"), in, ctx))
}

func TestScenarioSameDayAddRemove(t *testing.T) {
	in := yearCharge()
	in.EffectiveStart, in.EffectiveEnd, in.ChargedThrough = d("2024-05-01"), d("2024-05-01"), d("2024-05-01")

	positions := []domain.TermPosition{domain.BeforeCurrentTerm, domain.InCurrentTerm, domain.AfterCurrentTerm}
	for _, pos := range positions {
		for day := d("2024-04-01"); day.Before(d("2024-06-01")); day = day.AddDays(1) {
			for _, autoRenew := range []bool{true, false} {
				ctx := at(pos, inTerm("2024-05-01"))
				ctx.AutoRenew = autoRenew
				require.Equal(t, domain.DayStateNone, Classify(day, in, ctx), "pos=%s day=%s", pos, day)
			}
		}
	}
}

func TestScenarioRefundableWindow(t *testing.T) {
	today := d("2024-06-20")
	in := yearCharge()
	in.ChargedThrough = today.AddDays(10)
	ctx := inTerm(today.String())

	for day := in.EffectiveStart; day.IsSameOrBefore(today); day = day.AddDays(1) {
		require.Equal(t, domain.DayStateCoveredNotRefundable, Classify(day, in, ctx), day.String())
	}
	for day := today.AddDays(1); day.Before(in.ChargedThrough); day = day.AddDays(1) {
		require.Equal(t, domain.DayStateCovered, Classify(day, in, ctx), day.String())
	}
	assert.Equal(t, domain.DayStateScheduled, Classify(in.ChargedThrough, in, ctx))
}

func TestScenarioNextTermChargeUnderAutoRenew(t *testing.T) {
	in := Input{
		EffectiveStart: d("2025-01-01"),
		EffectiveEnd:   d("2026-01-01"),
		ChargedThrough: d("2026-01-01"),
		HolidayStart:   d("2025-01-01"),
		HolidayEnd:     d("2026-01-01"),
		Refundable:     true,
	}
	ctx := inTerm("2024-06-01")

	assert.Equal(t, domain.DayStateEvergreen, Classify(d("2024-10-01"), in, ctx))

	ctx.AutoRenew = false
	assert.Equal(t, domain.DayStateLeadTime, Classify(d("2024-10-01"), in, ctx))
}

func TestScenarioOneOffLapsed(t *testing.T) {
	in := yearCharge()
	in.ChargedThrough = in.EffectiveEnd
	today := d("2025-03-01")
	ctx := Context{
		Position:    domain.AfterCurrentTerm,
		Today:       today,
		TermEndDate: d("2025-01-01"),
	}

	for day := d("2025-01-01"); day.IsSameOrBefore(today); day = day.AddDays(1) {
		require.Equal(t, domain.DayStateLostRevenue, Classify(day, in, ctx), day.String())
	}
	for day := today.AddDays(1); day.Before(d("2026-01-01")); day = day.AddDays(1) {
		require.Equal(t, domain.DayStateFuture, Classify(day, in, ctx), day.String())
	}
}

func TestScenarioHolidayWindow(t *testing.T) {
	in := yearCharge()
	in.Holiday = true
	in.HolidayStart, in.HolidayEnd = d("2024-05-01"), d("2024-05-14")

	positions := []domain.TermPosition{domain.BeforeCurrentTerm, domain.InCurrentTerm, domain.AfterCurrentTerm}
	for _, pos := range positions {
		ctx := at(pos, inTerm("2024-06-01"))
		assert.Equal(t, domain.DayStateNone, Classify(d("2024-04-30"), in, ctx), pos)
		assert.Equal(t, domain.DayStateHoliday, Classify(d("2024-05-01"), in, ctx), pos)
		assert.Equal(t, domain.DayStateHoliday, Classify(d("2024-05-14"), in, ctx), pos)
		assert.Equal(t, domain.DayStateNone, Classify(d("2024-05-15"), in, ctx), pos)
	}
}

func TestClassifyIsDeterministicAndTotal(t *testing.T) {
	positions := []domain.TermPosition{domain.BeforeCurrentTerm, domain.InCurrentTerm, domain.AfterCurrentTerm}
	mutations := []func(*Input){
		func(*Input) {},
		func(in *Input) { in.Holiday = true },
		func(in *Input) { in.Discount = true },
		func(in *Input) { in.NForN = true },
		func(in *Input) { in.PlanRemoved = true },
		func(in *Input) { in.Refundable = false },
	}

	for _, pos := range positions {
		for _, mutate := range mutations {
			for _, flags := range [][2]bool{{true, false}, {false, false}, {false, true}} {
				in := yearCharge()
				mutate(&in)
				ctx := at(pos, inTerm("2024-06-01"))
				ctx.AutoRenew, ctx.Cancelled = flags[0], flags[1]

				for day := d("2023-11-01"); day.Before(d("2025-03-01")); day = day.AddDays(7) {
					first := Classify(day, in, ctx)
					second := Classify(day, in, ctx)
					require.True(t, first.Valid(), "invalid state %q", first)
					require.Equal(t, first, second)
				}
			}
		}
	}
}

func TestInputForAppliesDefaults(t *testing.T) {
	c := domain.Charge{
		ID:                 "c1",
		EffectiveStartDate: d("2024-01-01"),
		EffectiveEndDate:   d("2024-12-31"),
		Tags:               domain.Tags{Holiday: true, Refundable: true},
	}

	in := InputFor(c, true)
	assert.True(t, in.ChargedThrough.Equal(d("2024-12-31")))
	assert.True(t, in.HolidayStart.Equal(d("2024-01-01")))
	assert.True(t, in.HolidayEnd.Equal(d("2024-12-31")))
	assert.True(t, in.Holiday)
	assert.True(t, in.PlanRemoved)
}
