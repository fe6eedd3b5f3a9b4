package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/railzwaylabs/subview/internal/calendar"
	subscriptiondomain "github.com/railzwaylabs/subview/internal/subscription/domain"
	timelinedomain "github.com/railzwaylabs/subview/internal/timeline/domain"
)

// Normalizer converts billing-system snapshots into the timeline model.
// It fails on the first missing or malformed date.
type Normalizer struct {
	validate *validator.Validate
	tags     *TagRules
}

func NewNormalizer(tags *TagRules) *Normalizer {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Normalizer{validate: v, tags: tags}
}

func (n *Normalizer) Normalize(snap *subscriptiondomain.Snapshot) (timelinedomain.Subscription, error) {
	if snap == nil {
		return timelinedomain.Subscription{}, subscriptiondomain.ErrInvalidSnapshot
	}
	if err := n.validate.Struct(snap); err != nil {
		field := firstField(err)
		if field == "id" {
			return timelinedomain.Subscription{}, fmt.Errorf("%w: missing id", subscriptiondomain.ErrInvalidSnapshot)
		}
		return timelinedomain.Subscription{}, &timelinedomain.ValidationError{Field: field, Err: timelinedomain.ErrInvalidTerm}
	}

	termStart, err := parseDate("termStartDate", snap.TermStartDate, timelinedomain.ErrInvalidTerm, "", "")
	if err != nil {
		return timelinedomain.Subscription{}, err
	}
	termEnd, err := parseDate("termEndDate", snap.TermEndDate, timelinedomain.ErrInvalidTerm, "", "")
	if err != nil {
		return timelinedomain.Subscription{}, err
	}

	sub := timelinedomain.Subscription{
		ID:            snap.ID,
		Number:        snap.SubscriptionNumber,
		Status:        timelinedomain.SubscriptionStatus(snap.Status),
		AutoRenew:     snap.AutoRenew,
		TermStartDate: termStart,
		TermEndDate:   termEnd,
		RatePlans:     make([]timelinedomain.RatePlan, 0, len(snap.RatePlans)),
	}

	for _, rp := range snap.RatePlans {
		if err := n.validate.Struct(rp); err != nil {
			return timelinedomain.Subscription{}, fmt.Errorf("%w: rate plan %s", subscriptiondomain.ErrInvalidSnapshot, firstField(err))
		}

		plan := timelinedomain.RatePlan{
			ID:             rp.ID,
			Name:           rp.RatePlanName,
			ProductName:    rp.ProductName,
			LastChangeType: timelinedomain.ChangeType(rp.LastChangeType),
			Charges:        make([]timelinedomain.Charge, 0, len(rp.RatePlanCharges)),
		}
		for _, c := range rp.RatePlanCharges {
			charge, err := n.normalizeCharge(rp.ID, c)
			if err != nil {
				return timelinedomain.Subscription{}, err
			}
			plan.Charges = append(plan.Charges, charge)
		}
		sub.RatePlans = append(sub.RatePlans, plan)
	}

	if err := sub.Validate(); err != nil {
		return timelinedomain.Subscription{}, err
	}
	return sub, nil
}

func (n *Normalizer) normalizeCharge(planID string, c subscriptiondomain.Charge) (timelinedomain.Charge, error) {
	if err := n.validate.Struct(c); err != nil {
		field := firstField(err)
		if field == "id" {
			return timelinedomain.Charge{}, fmt.Errorf("%w: charge in rate plan %s has no id", subscriptiondomain.ErrInvalidSnapshot, planID)
		}
		return timelinedomain.Charge{}, &timelinedomain.ValidationError{
			PlanID:   planID,
			ChargeID: c.ID,
			Field:    field,
			Err:      timelinedomain.ErrInvalidChargeDate,
		}
	}

	out := timelinedomain.Charge{
		ID:                 c.ID,
		Name:               c.Name,
		Model:              c.Model,
		Price:              c.Price,
		DiscountPercentage: c.DiscountPercentage,
		Currency:           c.Currency,
		BillingPeriod:      c.BillingPeriod,
		EndDateCondition:   c.EndDateCondition,
		Version:            c.Version,
		Tags:               n.tags.Tags(c.Name, c.Model),
	}
	dates := []struct {
		field    string
		value    string
		required bool
		target   *calendar.Date
	}{
		{"effectiveStartDate", c.EffectiveStartDate, true, &out.EffectiveStartDate},
		{"effectiveEndDate", c.EffectiveEndDate, true, &out.EffectiveEndDate},
		{"chargedThroughDate", c.ChargedThroughDate, false, &out.ChargedThroughDate},
		{"HolidayStart__c", c.HolidayStart, false, &out.HolidayStart},
		{"HolidayEnd__c", c.HolidayEnd, false, &out.HolidayEnd},
	}
	for _, d := range dates {
		if d.value == "" && !d.required {
			continue
		}
		parsed, err := parseDate(d.field, d.value, timelinedomain.ErrInvalidChargeDate, planID, c.ID)
		if err != nil {
			return timelinedomain.Charge{}, err
		}
		*d.target = parsed
	}
	return out, nil
}

func parseDate(field, value string, sentinel error, planID, chargeID string) (calendar.Date, error) {
	d, err := calendar.Parse(value)
	if err != nil || d.IsZero() {
		return calendar.Date{}, &timelinedomain.ValidationError{
			PlanID:   planID,
			ChargeID: chargeID,
			Field:    field,
			Err:      sentinel,
		}
	}
	return d, nil
}

func firstField(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field()
	}
	return ""
}
