package server

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/railzwaylabs/subview/internal/config"
	overviewdomain "github.com/railzwaylabs/subview/internal/overview/domain"
	subscriptiondomain "github.com/railzwaylabs/subview/internal/subscription/domain"
	timelinedomain "github.com/railzwaylabs/subview/internal/timeline/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServerParam struct {
	fx.In

	Config          config.Config
	Engine          *gin.Engine
	Log             *zap.Logger
	TimelineSvc     timelinedomain.Service
	OverviewSvc     overviewdomain.Service
	SubscriptionSvc subscriptiondomain.Service
	Gatherer        *prometheus.Registry  `optional:"true"`
	Registerer      prometheus.Registerer `optional:"true"`
}

type Server struct {
	cfg             config.Config
	engine          *gin.Engine
	log             *zap.Logger
	timelineSvc     timelinedomain.Service
	overviewSvc     overviewdomain.Service
	subscriptionSvc subscriptiondomain.Service
	gatherer        prometheus.Gatherer
	metrics         *httpMetrics
}

func NewEngine(cfg config.Config) *gin.Engine {
	if !cfg.App.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	return engine
}

func NewServer(p ServerParam) *Server {
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if p.Gatherer != nil {
		gatherer = p.Gatherer
	}
	return &Server{
		cfg:             p.Config,
		engine:          p.Engine,
		log:             p.Log.Named("server"),
		timelineSvc:     p.TimelineSvc,
		overviewSvc:     p.OverviewSvc,
		subscriptionSvc: p.SubscriptionSvc,
		gatherer:        gatherer,
		metrics:         newHTTPMetrics(p.Registerer),
	}
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) RegisterRoutes() {
	s.engine.Use(RequestID(), s.metrics.Middleware(), RequestLogger(s.log))

	s.engine.GET("/healthz", s.Health)
	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	api := s.engine.Group("/api", AsOf())
	{
		subs := api.Group("/subscriptions/:key")
		subs.GET("/timeline", s.GetTimeline)
		subs.GET("/overview", s.GetOverview)
		subs.GET("/versions", s.ListVersions)
		subs.GET("/explain", s.ExplainDay)

		api.POST("/timeline", s.BuildTimeline)
	}
}

// RunHTTP serves the engine for the lifetime of the fx app.
func RunHTTP(lc fx.Lifecycle, cfg config.Config, s *Server, log *zap.Logger) {
	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      s.engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("http server listening", zap.String("addr", ln.Addr().String()))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
