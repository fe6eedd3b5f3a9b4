// Package domain holds the subscription summary shown above the timeline.
package domain

import (
	"context"

	"github.com/railzwaylabs/subview/internal/calendar"
	subscriptiondomain "github.com/railzwaylabs/subview/internal/subscription/domain"
	timelinedomain "github.com/railzwaylabs/subview/internal/timeline/domain"
)

type Mechanic string

const (
	MechanicAutoRenewing Mechanic = "auto-renewing"
	MechanicOneOff       Mechanic = "one-off"
)

// DiscountProduct is the product whose charges never carry a payment date.
const DiscountProduct = "Discounts"

type Overview struct {
	SubscriptionID string         `json:"subscription_id"`
	Today          calendar.Date  `json:"today"`
	Heading        Heading        `json:"heading"`
	TimelineHeader TimelineHeader `json:"timeline_header"`
	CurrentTerm    CurrentTerm    `json:"current_term"`
	Details        Details        `json:"details"`
}

type Heading struct {
	SubscriptionNumber string `json:"subscription_number"`
	AccountName        string `json:"account_name"`
	// AccountNumber is empty when it repeats the account name.
	AccountNumber string                            `json:"account_number,omitempty"`
	Status        timelinedomain.SubscriptionStatus `json:"status"`
	StoredStatus  timelinedomain.SubscriptionStatus `json:"stored_status"`
}

type TimelineHeader struct {
	Mechanic         Mechanic `json:"mechanic"`
	CurrentTermLabel string   `json:"current_term_label"`
	FutureTermLabel  string   `json:"future_term_label"`
}

type CurrentTerm struct {
	StartDate        calendar.Date `json:"start_date"`
	EndDate          calendar.Date `json:"end_date"`
	LengthDays       int           `json:"length_days"`
	Period           int           `json:"period,omitempty"`
	PeriodType       string        `json:"period_type,omitempty"`
	DurationLabel    string        `json:"duration_label"`
	Cancelled        bool          `json:"cancelled"`
	CancelledOn      calendar.Date `json:"cancelled_on"`
	NextPayment      calendar.Date `json:"next_payment_date"`
	NextTermStart    calendar.Date `json:"next_term_start"`
	LastDayOfService calendar.Date `json:"last_day_of_service"`
	RenewalRequired  calendar.Date `json:"renewal_required"`
	// RemainingDays is negative once the term end has passed.
	RemainingDays int  `json:"remaining_days"`
	Overdue       bool `json:"overdue"`
}

type Details struct {
	ContractEffectiveDate  calendar.Date `json:"contract_effective_date"`
	SubscriptionStartDate  calendar.Date `json:"subscription_start_date"`
	CustomerAcceptanceDate calendar.Date `json:"customer_acceptance_date"`
	ActivationDate         calendar.Date `json:"activation_date"`
	ReaderType             string        `json:"reader_type,omitempty"`
	InitialPromotionCode   string        `json:"initial_promotion_code,omitempty"`
	PromotionCode          string        `json:"promotion_code,omitempty"`
	// PromotionCodeLabel is "Renewal promo" when an initial code exists.
	PromotionCodeLabel string `json:"promotion_code_label,omitempty"`
	SupplierCode       string `json:"supplier_code,omitempty"`
}

type Options struct {
	Today calendar.Date
}

type Service interface {
	Overview(ctx context.Context, sub timelinedomain.Subscription, snap *subscriptiondomain.Snapshot, opts Options) (*Overview, error)
}
