package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/geoledger/countrysync/internal/config"
	countrydomain "github.com/geoledger/countrysync/internal/country/domain"
	obslogger "github.com/geoledger/countrysync/internal/observability/logger"
	obsmetrics "github.com/geoledger/countrysync/internal/observability/metrics"
	"github.com/geoledger/countrysync/internal/refresh"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, genID *snowflake.Node, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log, genID))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	log        *zap.Logger
	countrySvc countrydomain.Service
	refreshSvc *refresh.Service
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	Log        *zap.Logger
	CountrySvc countrydomain.Service
	RefreshSvc *refresh.Service
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		log:        p.Log.Named("server"),
		countrySvc: p.CountrySvc,
		refreshSvc: p.RefreshSvc,
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func registerRoutes(s *Server) {
	s.RegisterRoutes()
}

func (s *Server) RegisterRoutes() {
	r := s.engine

	r.GET("/", s.Banner)
	r.GET("/status", s.GetStatus)

	countries := r.Group("/countries")
	{
		countries.POST("/refresh", s.RefreshCountries)
		countries.GET("/refresh/runs", s.ListRefreshRuns)
		countries.GET("", s.ListCountries)
		countries.GET("/status", s.GetStatus)
		countries.GET("/image", s.ServeSummaryImage)
		countries.GET("/:name", s.GetCountryByName)
		countries.DELETE("/:name", s.DeleteCountryByName)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})
}

func run(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:    ":" + s.cfg.Port,
		Handler: s.engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.log.Info("http server listening", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					s.log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
