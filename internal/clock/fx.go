package clock

import (
	"fmt"
	"time"

	"github.com/railzwaylabs/subview/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("clock",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config) (Clock, error) {
	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.App.Timezone, err)
	}
	return SystemClock{Location: loc}, nil
}
