package service

import (
	"slices"

	"github.com/railzwaylabs/subview/internal/calendar"
	"github.com/railzwaylabs/subview/internal/timeline/domain"
)

const legendLayout = "2 Jan '06"

// CollectNotableDates gathers the dates that get a tick mark: the term
// boundaries, today and the boundaries of every non-holiday charge.
// Discounts contribute their effective interval but not their
// charged-through date. The result is deduplicated and sorted.
func CollectNotableDates(sub domain.Subscription, nextTermEnd, today calendar.Date) []domain.NotableDate {
	byDate := make(map[calendar.Date][]domain.NotableKind)
	add := func(d calendar.Date, kind domain.NotableKind) {
		if d.IsZero() || slices.Contains(byDate[d], kind) {
			return
		}
		byDate[d] = append(byDate[d], kind)
	}

	add(sub.TermStartDate, domain.NotableTermStart)
	add(sub.TermEndDate, domain.NotableTermEnd)
	add(nextTermEnd, domain.NotableNextTermEnd)
	add(today, domain.NotableToday)

	for _, rp := range sub.RatePlans {
		for _, c := range rp.Charges {
			if c.Tags.Holiday {
				continue
			}
			add(c.EffectiveStartDate, domain.NotableChargeStart)
			add(c.EffectiveEndDate, domain.NotableChargeEnd)
			if c.Tags.Discount {
				continue
			}
			add(c.ChargedThroughDate, domain.NotableChargedThrough)
		}
	}

	out := make([]domain.NotableDate, 0, len(byDate))
	for d, kinds := range byDate {
		label := d.Time().Format(legendLayout)
		if d.Equal(today) {
			label = "Today"
		}
		out = append(out, domain.NotableDate{Date: d, Kinds: kinds, Label: label})
	}
	slices.SortFunc(out, func(a, b domain.NotableDate) int {
		return calendar.Compare(a.Date, b.Date)
	})
	return out
}
