package billingapi

import (
	subscriptiondomain "github.com/railzwaylabs/subview/internal/subscription/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("billingapi",
	fx.Provide(NewClient),
	fx.Provide(
		fx.Annotate(
			func(c *Client) subscriptiondomain.Source { return c },
			fx.ResultTags(`name:"billing_api"`),
		),
	),
)
