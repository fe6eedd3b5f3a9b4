package service

import (
	"context"
	"fmt"

	"github.com/railzwaylabs/subview/internal/calendar"
	"github.com/railzwaylabs/subview/internal/clock"
	overviewdomain "github.com/railzwaylabs/subview/internal/overview/domain"
	subscriptiondomain "github.com/railzwaylabs/subview/internal/subscription/domain"
	timelinedomain "github.com/railzwaylabs/subview/internal/timeline/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log   *zap.Logger
	Clock clock.Clock
}

type Service struct {
	log   *zap.Logger
	clock clock.Clock
}

func NewService(p ServiceParam) overviewdomain.Service {
	return &Service{
		log:   p.Log.Named("overview.service"),
		clock: p.Clock,
	}
}

func (s *Service) Overview(ctx context.Context, sub timelinedomain.Subscription, snap *subscriptiondomain.Snapshot, opts overviewdomain.Options) (*overviewdomain.Overview, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}
	if snap == nil {
		snap = &subscriptiondomain.Snapshot{}
	}

	today := opts.Today
	if today.IsZero() {
		today = clock.Today(ctx, s.clock)
	}

	return &overviewdomain.Overview{
		SubscriptionID: sub.ID,
		Today:          today,
		Heading:        heading(sub, snap, today),
		TimelineHeader: timelineHeader(sub),
		CurrentTerm:    currentTerm(sub, snap, today),
		Details:        s.details(snap),
	}, nil
}

// displayStatus reports Lapsed for a term that has ended without a
// cancellation.
func displayStatus(sub timelinedomain.Subscription, today calendar.Date) timelinedomain.SubscriptionStatus {
	if !sub.IsCancelled() && today.IsSameOrAfter(sub.TermEndDate) {
		return timelinedomain.SubscriptionStatusLapsed
	}
	return sub.Status
}

func heading(sub timelinedomain.Subscription, snap *subscriptiondomain.Snapshot, today calendar.Date) overviewdomain.Heading {
	h := overviewdomain.Heading{
		SubscriptionNumber: sub.Number,
		AccountName:        snap.AccountName,
		Status:             displayStatus(sub, today),
		StoredStatus:       sub.Status,
	}
	if snap.AccountNumber != snap.AccountName {
		h.AccountNumber = snap.AccountNumber
	}
	return h
}

func timelineHeader(sub timelinedomain.Subscription) overviewdomain.TimelineHeader {
	h := overviewdomain.TimelineHeader{
		Mechanic:         overviewdomain.MechanicOneOff,
		CurrentTermLabel: "Current term",
		FutureTermLabel:  "Renewal term",
	}
	if sub.AutoRenew {
		h.Mechanic = overviewdomain.MechanicAutoRenewing
		h.FutureTermLabel = "Next term"
	}
	if sub.IsCancelled() {
		h.CurrentTermLabel = "Final term"
		h.FutureTermLabel = "Year after cancellation"
	}
	return h
}

func currentTerm(sub timelinedomain.Subscription, snap *subscriptiondomain.Snapshot, today calendar.Date) overviewdomain.CurrentTerm {
	length := calendar.DaysBetween(sub.TermStartDate, sub.TermEndDate)
	remaining := calendar.DaysBetween(today, sub.TermEndDate)

	ct := overviewdomain.CurrentTerm{
		StartDate:     sub.TermStartDate,
		EndDate:       sub.TermEndDate,
		LengthDays:    length,
		Period:        snap.CurrentTerm,
		PeriodType:    snap.CurrentTermPeriodType,
		DurationLabel: durationLabel(snap.CurrentTerm, snap.CurrentTermPeriodType, length),
		RemainingDays: remaining,
	}

	switch {
	case sub.IsCancelled():
		ct.Cancelled = true
		ct.CancelledOn = sub.TermEndDate
	case sub.AutoRenew:
		ct.NextPayment = nextPaymentDate(sub)
		ct.NextTermStart = sub.TermEndDate
	default:
		ct.LastDayOfService = sub.TermEndDate.AddDays(-1)
		ct.RenewalRequired = sub.TermEndDate
		ct.Overdue = remaining < 0
	}
	return ct
}

func durationLabel(period int, periodType string, days int) string {
	if period == 0 || periodType == "" {
		return fmt.Sprintf("%d days", days)
	}
	return fmt.Sprintf("%d %ss (%d days)", period, periodType, days)
}

// nextPaymentDate is the earliest charged-through date outside the
// discount product.
func nextPaymentDate(sub timelinedomain.Subscription) calendar.Date {
	var dates []calendar.Date
	for _, rp := range sub.RatePlans {
		if rp.ProductName == overviewdomain.DiscountProduct {
			continue
		}
		for _, c := range rp.Charges {
			dates = append(dates, c.ChargedThroughDate)
		}
	}
	return calendar.Min(dates...)
}

func (s *Service) details(snap *subscriptiondomain.Snapshot) overviewdomain.Details {
	d := overviewdomain.Details{
		ContractEffectiveDate:  s.optionalDate("contractEffectiveDate", snap.ContractEffectiveDate),
		SubscriptionStartDate:  s.optionalDate("subscriptionStartDate", snap.SubscriptionStartDate),
		CustomerAcceptanceDate: s.optionalDate("customerAcceptanceDate", snap.CustomerAcceptanceDate),
		ActivationDate:         s.optionalDate("ActivationDate__c", snap.ActivationDate),
		ReaderType:             snap.ReaderType,
		InitialPromotionCode:   snap.InitialPromotionCode,
		PromotionCode:          snap.PromotionCode,
		SupplierCode:           snap.SupplierCode,
	}
	if d.PromotionCode != "" {
		d.PromotionCodeLabel = "Promo"
		if d.InitialPromotionCode != "" {
			d.PromotionCodeLabel = "Renewal promo"
		}
	}
	return d
}

// optionalDate never fails the overview; a malformed detail date is shown
// as absent.
func (s *Service) optionalDate(field, value string) calendar.Date {
	if value == "" {
		return calendar.Date{}
	}
	d, err := calendar.Parse(value)
	if err != nil {
		s.log.Debug("ignoring malformed detail date", zap.String("field", field), zap.String("value", value))
		return calendar.Date{}
	}
	return d
}
