package migration

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Param struct {
	fx.In

	Lifecycle fx.Lifecycle
	DB        *gorm.DB `optional:"true"`
	Log       *zap.Logger
}

var Module = fx.Module("migrations",
	fx.Invoke(register),
)

func register(p Param) {
	if p.DB == nil {
		return
	}
	p.Lifecycle.Append(fx.StartHook(func(ctx context.Context) error {
		if err := Run(ctx, p.DB); err != nil {
			return err
		}
		p.Log.Named("migration").Info("schema up to date")
		return nil
	}))
}
