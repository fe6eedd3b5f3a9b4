// Package render prints a timeline as a fixed-width text grid, one
// character per day, for terminals and golden files.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/railzwaylabs/subview/internal/timeline/domain"
)

const segmentSeparator = '|'

// Grid writes tl to w. Each charge is one row; segment boundaries are
// marked with '|'.
func Grid(w io.Writer, tl *domain.Timeline) error {
	bw := bufio.NewWriter(w)
	seg := tl.Segments

	fmt.Fprintf(bw, "%s  today %s  window %s..%s\n",
		tl.SubscriptionID, tl.Today, seg.EarliestDay, seg.NextTermEndDate)

	width := labelWidth(tl)
	for _, plan := range tl.Plans {
		title := plan.Name
		if plan.ProductName != "" {
			title = fmt.Sprintf("%s (%s)", plan.Name, plan.ProductName)
		}
		if plan.Removed {
			title += " [Removed]"
		}
		fmt.Fprintln(bw, title)

		for _, row := range plan.Charges {
			fmt.Fprintf(bw, "  %-*s  %s\n", width, row.Label, Row(seg, row.Days))
		}
		for _, o := range plan.Omitted {
			fmt.Fprintf(bw, "  %-*s  (omitted: %s)\n", width, o.Name, o.Reason)
		}
	}

	if len(tl.HiddenPlans) > 0 {
		fmt.Fprintf(bw, "hidden: %s\n", strings.Join(tl.HiddenPlans, ", "))
	}

	fmt.Fprintln(bw)
	for _, n := range tl.NotableDates {
		fmt.Fprintf(bw, "%5d  %-10s  %s\n", seg.IndexOf(n.Date), n.Label, joinKinds(n.Kinds))
	}
	return bw.Flush()
}

// Row renders one charge's day states.
func Row(seg domain.Segments, days []domain.DayState) string {
	var b strings.Builder
	b.Grow(len(days) + 2)
	for i, s := range days {
		if i > 0 && (i == seg.PreTermLength || i == seg.PreTermLength+seg.CurrentTermLength) {
			b.WriteByte(segmentSeparator)
		}
		b.WriteByte(s.Symbol())
	}
	return b.String()
}

func labelWidth(tl *domain.Timeline) int {
	width := 0
	for _, plan := range tl.Plans {
		for _, row := range plan.Charges {
			width = max(width, len(row.Label))
		}
		for _, o := range plan.Omitted {
			width = max(width, len(o.Name))
		}
	}
	return width
}

func joinKinds(kinds []domain.NotableKind) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}
