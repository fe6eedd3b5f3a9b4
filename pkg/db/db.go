// Package db opens the snapshot version store.
package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/railzwaylabs/subview/internal/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	gormprom "gorm.io/plugin/prometheus"
	"moul.io/zapgorm2"
)

var Module = fx.Module("db",
	fx.Provide(New),
)

var ErrUnsupportedDriver = errors.New("unsupported_database_driver")

type Param struct {
	fx.In

	Lifecycle      fx.Lifecycle
	Config         config.Config
	Log            *zap.Logger
	TracerProvider trace.TracerProvider  `optional:"true"`
	Registerer     prometheus.Registerer `optional:"true"`
}

type patchedLogger struct {
	zapgorm2.Logger
}

// Trace drops record-not-found; callers handle it.
func (l *patchedLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return
	}
	l.Logger.Trace(ctx, begin, fc, err)
}

// New opens the configured database. It returns a nil handle when the
// store is disabled, and snapshot versions are then not recorded.
func New(p Param) (*gorm.DB, error) {
	cfg := p.Config.Database
	log := p.Log.Named("db")
	if !cfg.Enabled {
		log.Info("database disabled, snapshot versions will not be recorded")
		return nil, nil
	}

	conn, err := Open(cfg, log)
	if err != nil {
		return nil, err
	}

	if err := instrument(conn, cfg, p.TracerProvider, p.Registerer); err != nil {
		closeDB(conn, log)
		return nil, err
	}

	p.Lifecycle.Append(fx.StopHook(func() {
		closeDB(conn, log)
	}))
	log.Info("database connected", zap.String("driver", cfg.Driver))
	return conn, nil
}

// Open connects and sizes the pool without any instrumentation.
func Open(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: &patchedLogger{
			Logger: zapgorm2.Logger{
				ZapLogger:     log,
				LogLevel:      gormlogger.Warn,
				SlowThreshold: time.Second,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	pool, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("get connection pool: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		pool.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		pool.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	pool.SetConnMaxLifetime(time.Hour)
	return conn, nil
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, errors.New("database dsn is required")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "postgres", "postgresql":
		return postgres.Open(cfg.DSN), nil
	case "mysql":
		return mysql.Open(cfg.DSN), nil
	case "sqlite":
		return sqlite.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, cfg.Driver)
	}
}

func instrument(conn *gorm.DB, cfg config.DatabaseConfig, tp trace.TracerProvider, reg prometheus.Registerer) error {
	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.Driver)}
	if tp != nil {
		opts = append(opts, otelgorm.WithTracerProvider(tp))
	}
	if err := conn.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return fmt.Errorf("install tracing plugin: %w", err)
	}

	if reg == nil {
		return nil
	}
	stats := gormprom.New(gormprom.Config{
		DBName:          "subview",
		RefreshInterval: 15,
	})
	if err := conn.Use(stats); err != nil {
		return fmt.Errorf("install metrics plugin: %w", err)
	}
	for _, c := range stats.DBStats.Collectors() {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				return err
			}
		}
	}
	return nil
}

func closeDB(conn *gorm.DB, log *zap.Logger) {
	pool, err := conn.DB()
	if err != nil {
		log.Warn("database pool unavailable on close", zap.Error(err))
		return
	}
	if err := pool.Close(); err != nil {
		log.Warn("closing database", zap.Error(err))
	}
}
