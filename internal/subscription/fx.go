package subscription

import (
	"github.com/railzwaylabs/subview/internal/subscription/cache"
	"github.com/railzwaylabs/subview/internal/subscription/repository"
	"github.com/railzwaylabs/subview/internal/subscription/service"
	"go.uber.org/fx"
)

var Module = fx.Module("subscription.service",
	fx.Provide(repository.Provide),
	fx.Provide(cache.Provide),
	fx.Provide(service.NewService),
)
