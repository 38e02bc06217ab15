package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tabwise/epos/internal/config"
	"github.com/tabwise/epos/internal/menuitem"
	menuitemdomain "github.com/tabwise/epos/internal/menuitem/domain"
	"github.com/tabwise/epos/internal/observability"
	obsmiddleware "github.com/tabwise/epos/internal/observability/logger"
	obsmetrics "github.com/tabwise/epos/internal/observability/metrics"
	"github.com/tabwise/epos/internal/payment"
	paymentdomain "github.com/tabwise/epos/internal/payment/domain"
	"github.com/tabwise/epos/internal/tab"
	tabdomain "github.com/tabwise/epos/internal/tab/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	menuitem.Module,
	tab.Module,
	payment.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
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

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	menuItemSvc menuitemdomain.Service
	tabSvc      tabdomain.Service
	paymentSvc  paymentdomain.Service
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	MenuItemSvc menuitemdomain.Service
	TabSvc      tabdomain.Service
	PaymentSvc  paymentdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		menuItemSvc: p.MenuItemSvc,
		tabSvc:      p.TabSvc,
		paymentSvc:  p.PaymentSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1", s.APIKeyRequired())

	// -------- Menu --------
	api.GET("/menu_items", s.ListMenuItems)
	api.POST("/menu_items", s.CreateMenuItem)
	api.GET("/menu_items/:id", s.GetMenuItemByID)

	// -------- Tabs --------
	api.POST("/tabs", s.CreateTab)
	api.GET("/tabs/:tab_id", s.GetTabByID)
	api.POST("/tabs/:tab_id/items", s.AddTabItem)

	// -------- Payments --------
	api.POST("/tabs/:tab_id/payment_intent", s.CreatePaymentIntent)
	api.POST("/tabs/:tab_id/take_payment", s.TakePayment)
}
