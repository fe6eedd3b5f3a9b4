package domain

import "github.com/railzwaylabs/subview/internal/calendar"

// Validate checks the date invariants the timeline arithmetic depends on.
// It stops at the first offending field.
func (s Subscription) Validate() error {
	if s.TermStartDate.IsZero() {
		return &ValidationError{Field: "termStartDate", Err: ErrInvalidTerm}
	}
	if s.TermEndDate.IsZero() {
		return &ValidationError{Field: "termEndDate", Err: ErrInvalidTerm}
	}
	if !s.TermStartDate.Before(s.TermEndDate) {
		return &ValidationError{Field: "termEndDate", Err: ErrInvalidTerm}
	}

	for _, rp := range s.RatePlans {
		for _, c := range rp.Charges {
			if err := c.validate(rp.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c Charge) validate(planID string) error {
	required := []struct {
		field string
		date  calendar.Date
	}{
		{"effectiveStartDate", c.EffectiveStartDate},
		{"effectiveEndDate", c.EffectiveEndDate},
	}
	for _, r := range required {
		if r.date.IsZero() {
			return &ValidationError{PlanID: planID, ChargeID: c.ID, Field: r.field, Err: ErrInvalidChargeDate}
		}
	}

	if c.EffectiveEndDate.Before(c.EffectiveStartDate) {
		return &ValidationError{PlanID: planID, ChargeID: c.ID, Field: "effectiveEndDate", Err: ErrInvalidChargePeriod}
	}

	if c.Tags.Holiday {
		start, end := c.HolidayWindow()
		if end.Before(start) {
			return &ValidationError{PlanID: planID, ChargeID: c.ID, Field: "holidayEnd", Err: ErrInvalidChargePeriod}
		}
	}
	return nil
}
