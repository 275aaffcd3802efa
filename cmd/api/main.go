package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nev-montecarlo/internal/api/handlers"
	"nev-montecarlo/internal/api/middleware"
	"nev-montecarlo/internal/api/models"
	"nev-montecarlo/internal/config"
	"nev-montecarlo/internal/data"
	"nev-montecarlo/internal/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	rt := config.LoadRuntime()

	log := logger.New(logger.Config{Level: rt.LogLevel, Pretty: rt.LogPretty})
	logger.SetGlobalLogger(log)

	cfg := config.Default()
	if rt.ConfigPath != "" {
		loaded, err := config.Load(rt.ConfigPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", rt.ConfigPath).Msg("failed to load config")
		}
		cfg = loaded
		log.Info().Str("path", rt.ConfigPath).Msg("config loaded")
	} else {
		log.Info().Msg("no NEV_CONFIG set, using built-in defaults")
	}

	if rt.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.CORS(rt.CORSAllowedOrigins))
	router.Use(middleware.Logger(log))
	router.Use(middleware.ErrorHandler(log))

	cache := data.NewResultCache[*models.RunResponse](rt.ResultCacheTTL)
	defer cache.Close()

	calibrateHandler := handlers.NewCalibrateHandler(cfg)
	runHandler := handlers.NewRunHandler(cfg, cache, rt.RunTimeout, log)
	statusQuoHandler := handlers.NewStatusQuoHandler(cfg)
	catalogHandler := handlers.NewCatalogHandler(cfg)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/calibrate", calibrateHandler.Calibrate)

		api.POST("/runs", runHandler.RunSimulation)
		api.GET("/runs/:id", runHandler.GetRun)
		api.GET("/runs/:id/summary.csv", runHandler.GetSummaryCSV)

		api.POST("/status-quo", statusQuoHandler.StatusQuo)

		api.GET("/scenarios", catalogHandler.ListScenarios)
		api.GET("/strategies", catalogHandler.ListStrategies)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", rt.APIPort),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
}
