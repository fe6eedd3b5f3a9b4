package domain

// DayState is the billing/coverage state of one charge on one day.
type DayState string

const (
	DayStateNone                 DayState = "none"
	DayStateHoliday              DayState = "holiday"
	DayStateDiscounted           DayState = "discounted"
	DayStateGrace                DayState = "grace"
	DayStateLeadTime             DayState = "lead-time"
	DayStateCovered              DayState = "covered"
	DayStateCoveredNotRefundable DayState = "covered-not-refundable"
	DayStateScheduled            DayState = "scheduled"
	DayStateEvergreen            DayState = "evergreen"
	DayStateLostRevenue          DayState = "lost-revenue"
	DayStateFuture               DayState = "future"
)

// AllDayStates lists every state in a stable order.
func AllDayStates() []DayState {
	return []DayState{
		DayStateNone,
		DayStateHoliday,
		DayStateDiscounted,
		DayStateGrace,
		DayStateLeadTime,
		DayStateCovered,
		DayStateCoveredNotRefundable,
		DayStateScheduled,
		DayStateEvergreen,
		DayStateLostRevenue,
		DayStateFuture,
	}
}

func (s DayState) Valid() bool {
	for _, v := range AllDayStates() {
		if s == v {
			return true
		}
	}
	return false
}

// Symbol is a one-letter rendering used by the text grid.
func (s DayState) Symbol() byte {
	switch s {
	case DayStateHoliday:
		return 'H'
	case DayStateDiscounted:
		return 'D'
	case DayStateGrace:
		return 'G'
	case DayStateLeadTime:
		return 'L'
	case DayStateCovered:
		return 'C'
	case DayStateCoveredNotRefundable:
		return 'c'
	case DayStateScheduled:
		return 's'
	case DayStateEvergreen:
		return 'e'
	case DayStateLostRevenue:
		return 'X'
	case DayStateFuture:
		return 'f'
	}
	return '.'
}

// TermPosition locates a display day relative to the current term.
type TermPosition string

const (
	BeforeCurrentTerm TermPosition = "before_current_term"
	InCurrentTerm     TermPosition = "in_current_term"
	AfterCurrentTerm  TermPosition = "after_current_term"
)
