package service

import (
	"testing"

	"github.com/railzwaylabs/subview/internal/timeline/domain"
	"github.com/stretchr/testify/assert"
)

func TestChargeLabel(t *testing.T) {
	tests := []struct {
		name    string
		charge  domain.Charge
		removed bool
		want    string
	}{
		{
			name: "recurring delivery",
			charge: domain.Charge{
				Name:             "Monday",
				Price:            price(5),
				Currency:         "GBP",
				BillingPeriod:    "Month",
				EndDateCondition: "Subscription_End",
			},
			want: "Monday (5.00 GBP / Month)",
		},
		{
			name:   "one-off price",
			charge: domain.Charge{Name: "Setup", Price: price(12.5), Currency: "GBP"},
			want:   "Setup (12.50 GBP)",
		},
		{
			name: "holiday span",
			charge: domain.Charge{
				Name:               "Holiday Credit",
				EffectiveStartDate: d("2024-03-03"),
				EffectiveEndDate:   d("2024-04-01"),
				HolidayEnd:         d("2024-03-09"),
				Price:              price(-2.5),
				Currency:           "GBP",
				Tags:               domain.Tags{Holiday: true},
			},
			want: "Holiday [3 Mar–9 Mar] (-2.50 GBP)",
		},
		{
			name: "single day holiday",
			charge: domain.Charge{
				Name:               "Holiday Credit",
				EffectiveStartDate: d("2024-03-03"),
				EffectiveEndDate:   d("2024-03-04"),
				HolidayEnd:         d("2024-03-03"),
				Tags:               domain.Tags{Holiday: true},
			},
			want: "Holiday [3 Mar]",
		},
		{
			name:    "percentage discount on a removed plan",
			charge:  domain.Charge{Name: "Percentage", DiscountPercentage: price(25)},
			removed: true,
			want:    "Discount (25%) [Removed]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChargeLabel(tt.charge, tt.removed))
		})
	}
}
