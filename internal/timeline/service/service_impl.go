package service

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/railzwaylabs/subview/internal/calendar"
	"github.com/railzwaylabs/subview/internal/clock"
	"github.com/railzwaylabs/subview/internal/timeline/classifier"
	"github.com/railzwaylabs/subview/internal/timeline/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const tracerName = "github.com/railzwaylabs/subview/internal/timeline"

type ServiceParam struct {
	fx.In

	Log            *zap.Logger
	Clock          clock.Clock
	Registerer     prometheus.Registerer `optional:"true"`
	TracerProvider trace.TracerProvider  `optional:"true"`
}

type Service struct {
	log     *zap.Logger
	clock   clock.Clock
	tracer  trace.Tracer
	metrics *metrics
}

func NewService(p ServiceParam) domain.Service {
	tp := p.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	c := p.Clock
	if c == nil {
		c = clock.New()
	}
	return &Service{
		log:     p.Log.Named("timeline.service"),
		clock:   c,
		tracer:  tp.Tracer(tracerName),
		metrics: newMetrics(p.Registerer),
	}
}

// Build implements domain.Service.
func (s *Service) Build(ctx context.Context, sub domain.Subscription, opts domain.BuildOptions) (*domain.Timeline, error) {
	ctx, span := s.tracer.Start(ctx, "timeline.Build", trace.WithAttributes(
		attribute.String("subscription.id", sub.ID),
		attribute.Int("subscription.charges", sub.ChargeCount()),
	))
	defer span.End()

	started := time.Now()
	if err := sub.Validate(); err != nil {
		s.metrics.buildErrors.Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.log.Warn("rejected subscription", zap.String("subscription_id", sub.ID), zap.Error(err))
		return nil, err
	}

	today := s.today(ctx, opts.Today)
	nextTermEnd := sub.TermEndDate.AddYears(1)
	notable := CollectNotableDates(sub, nextTermEnd, today)
	segments := Segment(sub, notable)
	ranges := segments.Ranges()

	tl := &domain.Timeline{
		SubscriptionID: sub.ID,
		Today:          today,
		AutoRenew:      sub.AutoRenew,
		Cancelled:      sub.IsCancelled(),
		Segments:       segments,
		NotableDates:   notable,
		Plans:          []domain.PlanRow{},
	}

	for _, rp := range SortRatePlans(sub.RatePlans) {
		if endsBeforeDisplay(rp, segments.EarliestDay) {
			tl.HiddenPlans = append(tl.HiddenPlans, rp.ID)
			continue
		}

		retained, omitted := RetainCharges(rp.Charges)
		row := domain.PlanRow{
			PlanID:      rp.ID,
			Name:        rp.Name,
			ProductName: rp.ProductName,
			Removed:     rp.IsRemoved(),
			Charges:     make([]domain.ChargeRow, 0, len(retained)),
			Omitted:     omitted,
		}

		for _, c := range SortCharges(retained) {
			in := classifier.InputFor(c, rp.IsRemoved())
			days := make([]domain.DayState, 0, segments.TotalDays())
			for _, r := range ranges {
				cctx := s.classifierContext(sub, r.Position, today)
				for i := 0; i < r.Length; i++ {
					days = append(days, classifier.Classify(r.Start.AddDays(i), in, cctx))
				}
			}
			row.Charges = append(row.Charges, newChargeRow(c, rp.IsRemoved(), days))
		}
		tl.Plans = append(tl.Plans, row)
	}

	elapsed := time.Since(started)
	s.metrics.observe(tl, elapsed)
	span.SetAttributes(attribute.Int("timeline.days", segments.TotalDays()))
	s.log.Debug("timeline built",
		zap.String("subscription_id", sub.ID),
		zap.Int("plans", len(tl.Plans)),
		zap.Int("days", segments.TotalDays()),
		zap.Duration("elapsed", elapsed),
	)

	return tl, nil
}

// Explain implements domain.Service. Charges the timeline leaves out
// (free, zero-length, or in a hidden plan) are reported as not found.
func (s *Service) Explain(ctx context.Context, sub domain.Subscription, req domain.ExplainRequest) (domain.Explanation, error) {
	if err := sub.Validate(); err != nil {
		return domain.Explanation{}, err
	}

	today := s.today(ctx, req.Today)
	segments := Segment(sub, CollectNotableDates(sub, sub.TermEndDate.AddYears(1), today))

	for _, rp := range sub.RatePlans {
		if req.PlanID != "" && rp.ID != req.PlanID {
			continue
		}
		if !containsCharge(rp.Charges, req.ChargeID) {
			continue
		}
		if endsBeforeDisplay(rp, segments.EarliestDay) {
			return domain.Explanation{}, fmt.Errorf("%w: plan %s is hidden", domain.ErrChargeNotFound, rp.ID)
		}

		retained, omitted := RetainCharges(rp.Charges)
		for _, o := range omitted {
			if o.ChargeID == req.ChargeID {
				return domain.Explanation{}, fmt.Errorf("%w: charge %s omitted (%s)", domain.ErrChargeNotFound, o.ChargeID, o.Reason)
			}
		}
		for _, c := range retained {
			if c.ID != req.ChargeID {
				continue
			}

			position := PositionOf(sub, req.Day)
			state, rule := classifier.Explain(req.Day, classifier.InputFor(c, rp.IsRemoved()), s.classifierContext(sub, position, today))
			return domain.Explanation{
				PlanID:   rp.ID,
				ChargeID: c.ID,
				Day:      req.Day,
				Today:    today,
				Position: position,
				State:    state,
				Rule:     rule,
			}, nil
		}
	}
	return domain.Explanation{}, domain.ErrChargeNotFound
}

func containsCharge(charges []domain.Charge, id string) bool {
	for _, c := range charges {
		if c.ID == id {
			return true
		}
	}
	return false
}

func (s *Service) today(ctx context.Context, override calendar.Date) calendar.Date {
	if !override.IsZero() {
		return override
	}
	return clock.Today(ctx, s.clock)
}

func (s *Service) classifierContext(sub domain.Subscription, pos domain.TermPosition, today calendar.Date) classifier.Context {
	return classifier.Context{
		Position:    pos,
		AutoRenew:   sub.AutoRenew,
		Cancelled:   sub.IsCancelled(),
		Today:       today,
		TermEndDate: sub.TermEndDate,
	}
}

func newChargeRow(c domain.Charge, removed bool, days []domain.DayState) domain.ChargeRow {
	return domain.ChargeRow{
		ChargeID:           c.ID,
		Name:               c.Name,
		Label:              ChargeLabel(c, removed),
		Model:              c.Model,
		EffectiveStartDate: c.EffectiveStartDate,
		EffectiveEndDate:   c.EffectiveEndDate,
		ChargedThroughDate: c.ChargedThroughDate,
		Price:              c.Price,
		DiscountPercentage: c.DiscountPercentage,
		Currency:           c.Currency,
		BillingPeriod:      c.BillingPeriod,
		EndDateCondition:   c.EndDateCondition,
		Tags:               c.Tags,
		Days:               days,
	}
}
