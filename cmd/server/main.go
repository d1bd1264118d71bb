package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"astrader_backend/internal/config"
	"astrader_backend/internal/db"
	httpServer "astrader_backend/internal/http"
	"astrader_backend/internal/http/handlers"
	"astrader_backend/internal/http/middleware"
	"astrader_backend/internal/ledger"
	"astrader_backend/internal/logger"
	"astrader_backend/internal/repository"
	"astrader_backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const version = "1.0.0"

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_JSON") == "true")
	cfg := config.Load()
	service.InitJWT()

	var store ledger.Store
	var pool *pgxpool.Pool
	if cfg.StoreDriver == "memory" {
		logger.Warn("running on the in-memory store, data will not survive restarts")
		store = ledger.NewMemoryStore()
	} else {
		pool = db.Connect(cfg.DatabaseURL)
		defer pool.Close()

		pg := ledger.NewPostgresStore(pool)
		if err := pg.Migrate(context.Background()); err != nil {
			logger.Fatal("migration failed", "error", err)
		}
		store = pg
	}

	referral := service.NewReferralService(repository.NewUserRepository(store))
	bonus := service.NewBonusDistributor(store, referral)
	exclusions := service.NewExclusionService(store)
	engine := service.NewAccrualEngine(store, bonus, exclusions)

	h := handlers.NewHandler(store, engine, cfg.ReferralBaseURL)
	health := handlers.NewHealthHandler(pool, version)

	r := gin.Default()

	// CORS for production (frontend on different domain)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	httpServer.RegisterRoutes(r, h, health, cfg)

	// Daily ROI scheduler
	schedCtx, stopScheduler := context.WithCancel(context.Background())
	scheduler := service.NewScheduler(engine, cfg.AccrualHour)
	go scheduler.Run(schedCtx)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	stopScheduler()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
