package server

import (
	"context"
	"net/http"
	"time"

	"kaizen/internal/auth"
	"kaizen/internal/config"
	"kaizen/internal/economy"
	"kaizen/internal/fulfillment"
	"kaizen/internal/ledger"
	"kaizen/internal/reservation"
	"kaizen/internal/tier"
	"kaizen/internal/voucher"
	"kaizen/internal/wheel"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	httpServer *http.Server
	router     *gin.Engine

	Reservations *reservation.Service
}

func New(cfg *config.Config, db *sqlx.DB, publisher fulfillment.Publisher) *Server {
	registerValidations()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(CORSMiddleware())
	router.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	economyHandler := economy.NewHandler(db, publisher, economy.Options{
		SpinCostJP: cfg.SpinCostJP,
		MultiplyXP: cfg.MultiplyXP,
	})

	reservationService := reservation.NewService(
		reservation.NewRepository(db),
		economyHandler.Service(),
		reservation.ServiceOptions{
			LeaseDuration:  cfg.LeaseDuration,
			ReaperInterval: cfg.ReaperInterval,
		},
	)

	ledgerHandler := ledger.NewHandler(db)
	tierHandler := tier.NewHandler(db)
	wheelHandler := wheel.NewHandler(db)
	voucherHandler := voucher.NewHandler(db)
	reservationHandler := reservation.NewHandler(reservationService)

	router.GET("/health", healthHandler(db))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/events", reservationHandler.ListEvents)
		v1.GET("/events/:eventID", reservationHandler.GetEvent)
		v1.GET("/tiers", tierHandler.ListTiers)
		v1.GET("/wheel", wheelHandler.GetLiveTable)
	}

	protected := v1.Group("")
	protected.Use(auth.AuthMiddleware(cfg.JWTSecret))
	{
		protected.GET("/profile", economyHandler.GetProfile)
		protected.GET("/ledger", ledgerHandler.ListEntries)
		protected.GET("/balance", ledgerHandler.GetBalance)

		protected.POST("/events/:eventID/reserve", reservationHandler.Reserve)
		protected.POST("/reservations/:token/confirm", reservationHandler.Confirm)
		protected.POST("/reservations/:token/release", reservationHandler.Release)

		protected.POST("/wheel/spin", economyHandler.SpinWheel)
		protected.POST("/tiers/:tierName/purchase", economyHandler.PurchaseTier)

		protected.POST("/vouchers/validate", voucherHandler.Validate)
		protected.POST("/vouchers/:code/redeem", voucherHandler.Redeem)
	}

	admin := v1.Group("/admin")
	admin.Use(auth.AuthMiddleware(cfg.JWTSecret), auth.RequireRole("admin"))
	{
		admin.POST("/events", reservationHandler.CreateEvent)
		admin.GET("/events/:eventID/registrations", reservationHandler.ListRegistrations)

		admin.POST("/tiers", tierHandler.SaveCatalog)

		admin.GET("/wheel/tables", wheelHandler.ListTables)
		admin.POST("/wheel/tables", wheelHandler.SaveTable)
		admin.POST("/wheel/tables/:tableID/live", wheelHandler.SetLive)

		admin.GET("/vouchers", voucherHandler.List)
		admin.POST("/vouchers", voucherHandler.Create)
		admin.DELETE("/vouchers/:code", voucherHandler.Delete)

		admin.POST("/awards", economyHandler.Award)
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		router:       router,
		Reservations: reservationService,
	}
}

func (s *Server) Run() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
