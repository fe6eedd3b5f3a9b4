package fixture

import (
	"context"

	"github.com/railzwaylabs/subview/internal/config"
	subscriptiondomain "github.com/railzwaylabs/subview/internal/subscription/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("fixture",
	fx.Provide(NewStore),
	fx.Provide(
		fx.Annotate(
			func(s *Store) subscriptiondomain.Source { return s },
			fx.ResultTags(`name:"fixtures"`),
		),
	),
	fx.Invoke(registerWatcher),
)

func registerWatcher(lc fx.Lifecycle, cfg config.Config, s *Store) {
	if cfg.Fixtures.Dir == "" || !cfg.Fixtures.Watch {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error { return s.Watch() },
		OnStop:  func(context.Context) error { return s.Stop() },
	})
}
