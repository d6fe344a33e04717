package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lukeperry/ssu-career-connect/internal/api"
	"github.com/lukeperry/ssu-career-connect/internal/config"
	"github.com/lukeperry/ssu-career-connect/internal/logger"
	"github.com/lukeperry/ssu-career-connect/internal/metrics"
	"github.com/lukeperry/ssu-career-connect/internal/repositories"
	"github.com/lukeperry/ssu-career-connect/internal/services"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scoring HTTP service",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(parent context.Context) {

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := loadConfig()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	pipeline, textModel := newPipeline(ctx, cfg)
	defer textModel.Close()

	if cfg.Server.MetricsAddress != "" {
		metrics.StartMetricsServer(cfg.Server.MetricsAddress)
	} else {
		metrics.Register()
	}

	if cfg.DB.Driver == config.DriverSqlite {
		if err := os.MkdirAll(filepath.Dir(cfg.DB.ConnectionString), 0755); err != nil {
			log.Fatalf("can't create db directory: %v", err)
		}
	}

	dbContext, err := repositories.NewDbContext(cfg.DB.Driver, cfg.DB.ConnectionString)
	if err != nil {
		log.Fatalf("can't create db context: %v", err)
	}
	defer dbContext.Close()

	err = dbContext.Migrate()
	if err != nil {
		log.Fatalf("can't migrate db context: %v", err)
	}

	matchScores := repositories.NewMatchScoresRepository(dbContext.DB)
	cachedScores := repositories.NewCachedMatchScores(matchScores, cfg.Cache.MemoryTTL)

	if cfg.Cache.RetentionEnabled() {
		cleaner, err := services.NewScoresCleaner(matchScores, cfg.Cache.RetentionDays, cfg.Cache.CleanupSchedule)
		if err != nil {
			log.Fatalf("can't create scores cleaner: %v", err)
		}
		defer cleaner.Stop()
	}

	matchService := services.NewMatchService(pipeline, services.NewScoreCache(cachedScores), cfg.Matching.Concurrency)

	gin.SetMode(gin.ReleaseMode)
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      api.NewRouter(api.NewMatchHandler(matchService, cfg.TextModel.Provider).WithModelHealth(textModel)),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Infof("listening on %v", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server failed: %v", err)
		}
	}()

	<-ctx.Done()

	log.Info("Shutting down services...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("http server shutdown: %v", err)
	}
	log.Info("Services stopped.")
}
