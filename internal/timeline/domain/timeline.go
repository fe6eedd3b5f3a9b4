package domain

import (
	"github.com/railzwaylabs/subview/internal/calendar"
)

// Segments partitions the display window into pre-term, current term and
// next term. Laid end to end from EarliestDay they cover
// [EarliestDay, NextTermEndDate).
type Segments struct {
	EarliestDay       calendar.Date `json:"earliest_day"`
	TermStartDate     calendar.Date `json:"term_start_date"`
	TermEndDate       calendar.Date `json:"term_end_date"`
	NextTermEndDate   calendar.Date `json:"next_term_end_date"`
	PreTermLength     int           `json:"pre_term_length"`
	CurrentTermLength int           `json:"current_term_length"`
	NextTermLength    int           `json:"next_term_length"`
}

func (s Segments) TotalDays() int {
	return s.PreTermLength + s.CurrentTermLength + s.NextTermLength
}

// DayAt returns the calendar day of a display index.
func (s Segments) DayAt(index int) calendar.Date {
	return s.EarliestDay.AddDays(index)
}

// IndexOf returns the display index of day, or -1 outside the window.
func (s Segments) IndexOf(day calendar.Date) int {
	i := calendar.DaysBetween(s.EarliestDay, day)
	if i < 0 || i >= s.TotalDays() {
		return -1
	}
	return i
}

// PositionOf returns the term position of a display index.
func (s Segments) PositionOf(index int) TermPosition {
	switch {
	case index < s.PreTermLength:
		return BeforeCurrentTerm
	case index < s.PreTermLength+s.CurrentTermLength:
		return InCurrentTerm
	default:
		return AfterCurrentTerm
	}
}

// Ranges returns the three segments in display order with their positions.
func (s Segments) Ranges() []SegmentRange {
	pre := SegmentRange{Position: BeforeCurrentTerm, Start: s.EarliestDay, Length: s.PreTermLength}
	cur := SegmentRange{Position: InCurrentTerm, Start: pre.Start.AddDays(pre.Length), Length: s.CurrentTermLength}
	next := SegmentRange{Position: AfterCurrentTerm, Start: cur.Start.AddDays(cur.Length), Length: s.NextTermLength}
	return []SegmentRange{pre, cur, next}
}

type SegmentRange struct {
	Position TermPosition  `json:"position"`
	Start    calendar.Date `json:"start"`
	Length   int           `json:"length"`
}

type NotableKind string

const (
	NotableTermStart      NotableKind = "term-start"
	NotableTermEnd        NotableKind = "term-end"
	NotableNextTermEnd    NotableKind = "next-term-end"
	NotableToday          NotableKind = "today"
	NotableChargeStart    NotableKind = "charge-start"
	NotableChargeEnd      NotableKind = "charge-end"
	NotableChargedThrough NotableKind = "charged-through"
)

// NotableDate is a tick-mark candidate and the reasons it was collected.
type NotableDate struct {
	Date  calendar.Date `json:"date"`
	Kinds []NotableKind `json:"kinds"`
	// Label is the legend text: "Today" or a short date like "1 Jul '24".
	Label string `json:"label"`
}

func (n NotableDate) Is(kind NotableKind) bool {
	for _, k := range n.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

type OmitReason string

const (
	OmitZeroPrice    OmitReason = "zero-price"
	OmitZeroDuration OmitReason = "zero-duration"
)

// OmittedCharge is a charge left out of the render; it is kept so the
// renderer can still note that it was added.
type OmittedCharge struct {
	ChargeID string     `json:"charge_id"`
	Name     string     `json:"name"`
	Reason   OmitReason `json:"reason"`
}

type ChargeRow struct {
	ChargeID           string        `json:"charge_id"`
	Name               string        `json:"name"`
	Label              string        `json:"label"`
	Model              string        `json:"model,omitempty"`
	EffectiveStartDate calendar.Date `json:"effective_start_date"`
	EffectiveEndDate   calendar.Date `json:"effective_end_date"`
	ChargedThroughDate calendar.Date `json:"charged_through_date"`
	Price              *float64      `json:"price"`
	DiscountPercentage *float64      `json:"discount_percentage,omitempty"`
	Currency           string        `json:"currency,omitempty"`
	BillingPeriod      string        `json:"billing_period,omitempty"`
	EndDateCondition   string        `json:"end_date_condition,omitempty"`
	Tags               Tags          `json:"tags"`
	Days               []DayState    `json:"days"`
}

type PlanRow struct {
	PlanID      string          `json:"plan_id"`
	Name        string          `json:"rate_plan_name"`
	ProductName string          `json:"product_name"`
	Removed     bool            `json:"removed"`
	Charges     []ChargeRow     `json:"charges"`
	Omitted     []OmittedCharge `json:"omitted,omitempty"`
}

// Timeline is the complete output handed to a renderer.
type Timeline struct {
	SubscriptionID string        `json:"subscription_id"`
	Today          calendar.Date `json:"today"`
	AutoRenew      bool          `json:"auto_renew"`
	Cancelled      bool          `json:"cancelled"`
	Segments       Segments      `json:"segments"`
	NotableDates   []NotableDate `json:"notable_dates"`
	Plans          []PlanRow     `json:"plans"`
	HiddenPlans    []string      `json:"hidden_plans,omitempty"`
}

// State looks up one cell of the matrix.
func (t *Timeline) State(planID, chargeID string, dayIndex int) (DayState, bool) {
	row, ok := t.Charge(planID, chargeID)
	if !ok || dayIndex < 0 || dayIndex >= len(row.Days) {
		return "", false
	}
	return row.Days[dayIndex], true
}

// Charge finds a charge row by plan and charge id.
func (t *Timeline) Charge(planID, chargeID string) (ChargeRow, bool) {
	for _, p := range t.Plans {
		if p.PlanID != planID {
			continue
		}
		for _, c := range p.Charges {
			if c.ChargeID == chargeID {
				return c, true
			}
		}
	}
	return ChargeRow{}, false
}

// Counts totals cells per state across the matrix.
func (t *Timeline) Counts() map[DayState]int {
	out := make(map[DayState]int)
	for _, p := range t.Plans {
		for _, c := range p.Charges {
			for _, s := range c.Days {
				out[s]++
			}
		}
	}
	return out
}
