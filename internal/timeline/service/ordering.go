package service

import (
	"slices"
	"strings"

	"github.com/railzwaylabs/subview/internal/calendar"
	"github.com/railzwaylabs/subview/internal/timeline/domain"
)

var deliveryDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// SortRatePlans orders plans by their first charge's start (holiday start
// for holiday plans), then by its end. It returns a sorted copy.
func SortRatePlans(plans []domain.RatePlan) []domain.RatePlan {
	out := slices.Clone(plans)
	slices.SortStableFunc(out, func(a, b domain.RatePlan) int {
		aStart, aEnd := planSortKeys(a)
		bStart, bEnd := planSortKeys(b)
		if c := strings.Compare(aStart, bStart); c != 0 {
			return c
		}
		return strings.Compare(aEnd, bEnd)
	})
	return out
}

func planSortKeys(rp domain.RatePlan) (string, string) {
	if len(rp.Charges) == 0 {
		return "", ""
	}
	first := rp.Charges[0]
	start, end := first.EffectiveStartDate, first.EffectiveEndDate
	if !first.HolidayStart.IsZero() {
		start = first.HolidayStart
	}
	if !first.HolidayEnd.IsZero() {
		end = first.HolidayEnd
	}
	return start.String(), end.String()
}

// SortCharges orders weekday-named delivery charges Monday to Sunday.
// Other charges keep their relative order. It returns a sorted copy.
func SortCharges(charges []domain.Charge) []domain.Charge {
	out := slices.Clone(charges)
	slices.SortStableFunc(out, func(a, b domain.Charge) int {
		return weekdayIndex(a.Name) - weekdayIndex(b.Name)
	})
	return out
}

func weekdayIndex(name string) int {
	name = strings.TrimSpace(name)
	for i, day := range deliveryDays {
		if strings.EqualFold(name, day) {
			return i
		}
	}
	return -1
}

// RetainCharges drops free charges and charges that never ran.
func RetainCharges(charges []domain.Charge) ([]domain.Charge, []domain.OmittedCharge) {
	retained := make([]domain.Charge, 0, len(charges))
	var omitted []domain.OmittedCharge
	for _, c := range charges {
		switch {
		case c.HasZeroPrice():
			omitted = append(omitted, domain.OmittedCharge{ChargeID: c.ID, Name: c.Name, Reason: domain.OmitZeroPrice})
		case !c.EffectiveStartDate.Before(c.EffectiveEndDate):
			omitted = append(omitted, domain.OmittedCharge{ChargeID: c.ID, Name: c.Name, Reason: domain.OmitZeroDuration})
		default:
			retained = append(retained, c)
		}
	}
	return retained, omitted
}

// endsBeforeDisplay reports a plan whose holiday was over before the first
// displayed day.
func endsBeforeDisplay(rp domain.RatePlan, earliest calendar.Date) bool {
	for _, c := range rp.Charges {
		if c.Tags.Holiday && !c.HolidayEnd.IsZero() && c.HolidayEnd.IsSameOrBefore(earliest) {
			return true
		}
	}
	return false
}
