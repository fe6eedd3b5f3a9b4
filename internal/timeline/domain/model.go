// Package domain holds the subscription model the timeline is computed from
// and the day-state matrix it produces.
package domain

import (
	"strings"

	"github.com/railzwaylabs/subview/internal/calendar"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive            SubscriptionStatus = "Active"
	SubscriptionStatusCancelled         SubscriptionStatus = "Cancelled"
	SubscriptionStatusExpired           SubscriptionStatus = "Expired"
	SubscriptionStatusSuspended         SubscriptionStatus = "Suspended"
	SubscriptionStatusPendingActivation SubscriptionStatus = "Pending Activation"
	SubscriptionStatusPendingAcceptance SubscriptionStatus = "Pending Acceptance"
	// SubscriptionStatusLapsed is never stored; it is derived for display
	// when a non-cancelled term has already ended.
	SubscriptionStatusLapsed SubscriptionStatus = "Lapsed"
)

type ChangeType string

const (
	ChangeTypeNone   ChangeType = ""
	ChangeTypeAdd    ChangeType = "Add"
	ChangeTypeUpdate ChangeType = "Update"
	ChangeTypeRemove ChangeType = "Remove"
)

type Subscription struct {
	ID            string             `json:"id"`
	Number        string             `json:"subscription_number"`
	Status        SubscriptionStatus `json:"status"`
	AutoRenew     bool               `json:"auto_renew"`
	TermStartDate calendar.Date      `json:"term_start_date"`
	TermEndDate   calendar.Date      `json:"term_end_date"`
	RatePlans     []RatePlan         `json:"rate_plans"`
}

func (s Subscription) IsCancelled() bool {
	return strings.EqualFold(string(s.Status), string(SubscriptionStatusCancelled))
}

// ChargeCount counts charges across all plans.
func (s Subscription) ChargeCount() int {
	n := 0
	for _, rp := range s.RatePlans {
		n += len(rp.Charges)
	}
	return n
}

type RatePlan struct {
	ID             string     `json:"id"`
	Name           string     `json:"rate_plan_name"`
	ProductName    string     `json:"product_name"`
	LastChangeType ChangeType `json:"last_change_type,omitempty"`
	Charges        []Charge   `json:"rate_plan_charges"`
}

// IsRemoved reports whether the plan was discontinued by an amendment.
func (rp RatePlan) IsRemoved() bool {
	return rp.LastChangeType == ChangeTypeRemove
}

// Tags are the name-derived facts about a charge, computed once at ingestion.
type Tags struct {
	Holiday    bool `json:"holiday"`
	Discount   bool `json:"discount"`
	NForN      bool `json:"n_for_n"`
	Refundable bool `json:"refundable"`
}

type Charge struct {
	ID                 string        `json:"id"`
	Name               string        `json:"name"`
	Model              string        `json:"model"`
	EffectiveStartDate calendar.Date `json:"effective_start_date"`
	EffectiveEndDate   calendar.Date `json:"effective_end_date"`
	// ChargedThroughDate is zero when billing has not run; it then counts as
	// the effective end date.
	ChargedThroughDate calendar.Date `json:"charged_through_date"`
	HolidayStart       calendar.Date `json:"holiday_start,omitempty"`
	HolidayEnd         calendar.Date `json:"holiday_end,omitempty"`
	Price              *float64      `json:"price"`
	DiscountPercentage *float64      `json:"discount_percentage,omitempty"`
	Currency           string        `json:"currency,omitempty"`
	BillingPeriod      string        `json:"billing_period,omitempty"`
	EndDateCondition   string        `json:"end_date_condition,omitempty"`
	Version            int           `json:"version,omitempty"`
	Tags               Tags          `json:"tags"`
}

// ChargedThrough returns the charged-through date with the effective end
// date standing in when it is absent.
func (c Charge) ChargedThrough() calendar.Date {
	if c.ChargedThroughDate.IsZero() {
		return c.EffectiveEndDate
	}
	return c.ChargedThroughDate
}

// HolidayWindow returns the inclusive suspension window, defaulting to the
// effective interval.
func (c Charge) HolidayWindow() (calendar.Date, calendar.Date) {
	start, end := c.HolidayStart, c.HolidayEnd
	if start.IsZero() {
		start = c.EffectiveStartDate
	}
	if end.IsZero() {
		end = c.EffectiveEndDate
	}
	return start, end
}

// IsZeroDuration reports an added-and-removed-the-same-day record.
func (c Charge) IsZeroDuration() bool {
	return c.EffectiveStartDate.Equal(c.EffectiveEndDate)
}

func (c Charge) HasZeroPrice() bool {
	return c.Price != nil && *c.Price == 0
}
