package render

import (
	"bytes"
	"testing"

	"github.com/railzwaylabs/subview/internal/calendar"
	"github.com/railzwaylabs/subview/internal/timeline/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallTimeline() *domain.Timeline {
	start := calendar.MustParse("2024-01-01")
	return &domain.Timeline{
		SubscriptionID: "8a8082c1",
		Today:          start.AddDays(1),
		Segments: domain.Segments{
			EarliestDay:       start.AddDays(-1),
			TermStartDate:     start,
			TermEndDate:       start.AddDays(2),
			NextTermEndDate:   start.AddDays(4),
			PreTermLength:     1,
			CurrentTermLength: 2,
			NextTermLength:    2,
		},
		NotableDates: []domain.NotableDate{
			{Date: start, Kinds: []domain.NotableKind{domain.NotableTermStart, domain.NotableChargeStart}, Label: "1 Jan '24"},
			{Date: start.AddDays(1), Kinds: []domain.NotableKind{domain.NotableToday}, Label: "Today"},
		},
		Plans: []domain.PlanRow{
			{
				PlanID:      "rp-1",
				Name:        "Everyday",
				ProductName: "Newspaper Delivery",
				Removed:     true,
				Charges: []domain.ChargeRow{
					{
						ChargeID: "c-1",
						Label:    "Monday 5.00 GBP / Month",
						Days: []domain.DayState{
							domain.DayStateLeadTime,
							domain.DayStateCoveredNotRefundable,
							domain.DayStateCovered,
							domain.DayStateEvergreen,
							domain.DayStateEvergreen,
						},
					},
				},
				Omitted: []domain.OmittedCharge{{ChargeID: "c-2", Name: "Free Sunday", Reason: domain.OmitZeroPrice}},
			},
		},
		HiddenPlans: []string{"rp-old"},
	}
}

func TestRow(t *testing.T) {
	tl := smallTimeline()
	assert.Equal(t, "L|cC|ee", Row(tl.Segments, tl.Plans[0].Charges[0].Days))
}

func TestRow_NoPreTerm(t *testing.T) {
	seg := domain.Segments{PreTermLength: 0, CurrentTermLength: 2, NextTermLength: 1}
	days := []domain.DayState{domain.DayStateScheduled, domain.DayStateNone, domain.DayStateFuture}
	assert.Equal(t, "s.|f", Row(seg, days))
}

func TestGrid(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Grid(&buf, smallTimeline()))

	out := buf.String()
	assert.Contains(t, out, "8a8082c1  today 2024-01-02  window 2023-12-31..2024-01-05\n")
	assert.Contains(t, out, "Everyday (Newspaper Delivery) [Removed]\n")
	assert.Contains(t, out, "  Monday 5.00 GBP / Month  L|cC|ee\n")
	assert.Contains(t, out, "  Free Sunday              (omitted: zero-price)\n")
	assert.Contains(t, out, "hidden: rp-old\n")
	assert.Contains(t, out, "    1  1 Jan '24   term-start, charge-start\n")
	assert.Contains(t, out, "    2  Today       today\n")
}
