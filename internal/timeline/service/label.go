package service

import (
	"strconv"
	"strings"

	"github.com/railzwaylabs/subview/internal/calendar"
	"github.com/railzwaylabs/subview/internal/timeline/domain"
)

const labelDateLayout = "2 Jan"

// ChargeLabel is the caption shown next to a charge row, e.g.
// "Monday (5.00 GBP / Month)" or "Holiday [3 Mar–9 Mar] (-2.50 GBP)".
func ChargeLabel(c domain.Charge, removed bool) string {
	name := c.Name
	if c.Tags.Holiday {
		name = strings.Replace(name, "Credit", holidaySpan(c), 1)
	}
	name = strings.Replace(name, "Percentage", "Discount", 1)

	parts := []string{name}
	if amount := priceOrDiscount(c); amount != "" {
		parts = append(parts, "("+amount+")")
	}
	if removed {
		parts = append(parts, "[Removed]")
	}
	return strings.Join(parts, " ")
}

func holidaySpan(c domain.Charge) string {
	start, end := c.HolidayWindow()
	if calendar.DaysBetween(start, end) == 0 {
		return "[" + start.Time().Format(labelDateLayout) + "]"
	}
	return "[" + start.Time().Format(labelDateLayout) + "–" + end.Time().Format(labelDateLayout) + "]"
}

func priceOrDiscount(c domain.Charge) string {
	switch {
	case c.Price != nil:
		s := strconv.FormatFloat(*c.Price, 'f', 2, 64)
		if c.Currency != "" {
			s += " " + c.Currency
		}
		if c.EndDateCondition == "Subscription_End" && c.BillingPeriod != "" {
			s += " / " + c.BillingPeriod
		}
		return s
	case c.DiscountPercentage != nil && *c.DiscountPercentage != 0:
		return strconv.FormatFloat(*c.DiscountPercentage, 'f', -1, 64) + "%"
	}
	return ""
}
