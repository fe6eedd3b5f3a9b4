package service

import (
	"github.com/railzwaylabs/subview/internal/calendar"
	"github.com/railzwaylabs/subview/internal/timeline/domain"
)

// Segment splits the display window into the pre-term stretch needed to
// reach the earliest notable date, the current term and the year after it.
func Segment(sub domain.Subscription, notable []domain.NotableDate) domain.Segments {
	dates := make([]calendar.Date, 0, len(notable)+1)
	dates = append(dates, sub.TermStartDate)
	for _, n := range notable {
		dates = append(dates, n.Date)
	}
	earliest := calendar.Min(dates...)
	nextTermEnd := sub.TermEndDate.AddYears(1)

	return domain.Segments{
		EarliestDay:       earliest,
		TermStartDate:     sub.TermStartDate,
		TermEndDate:       sub.TermEndDate,
		NextTermEndDate:   nextTermEnd,
		PreTermLength:     max(0, calendar.DaysBetween(earliest, sub.TermStartDate)),
		CurrentTermLength: calendar.DaysBetween(sub.TermStartDate, sub.TermEndDate),
		NextTermLength:    calendar.DaysBetween(sub.TermEndDate, nextTermEnd),
	}
}

// PositionOf places a calendar day relative to the current term.
func PositionOf(sub domain.Subscription, day calendar.Date) domain.TermPosition {
	switch {
	case day.Before(sub.TermStartDate):
		return domain.BeforeCurrentTerm
	case day.Before(sub.TermEndDate):
		return domain.InCurrentTerm
	default:
		return domain.AfterCurrentTerm
	}
}
