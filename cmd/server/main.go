package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"voting-registry/internal/api"
	"voting-registry/internal/ledger"
	"voting-registry/internal/store"
	"voting-registry/pkg/config"
	"voting-registry/pkg/logger"
)

func main() {
	configPath := flag.String("config", "configs/server.yaml", "path to the config file")
	flag.Parse()

	// .env is optional; real deployments set variables directly
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.NewLogger("info", "").Fatal("Failed to load config: %v", err)
	}

	log := logger.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	log.SetFormatter(cfg.Logging.Format)
	log.WithFields(map[string]interface{}{
		"super_admin": cfg.SuperAdminAddress().Hex(),
		"store":       cfg.Database.Type,
		"mode":        cfg.Server.Mode,
	}).Info("Starting voting registry server")

	entityStore, err := newStore(cfg)
	if err != nil {
		log.Fatal("Failed to open record store: %v", err)
	}
	defer entityStore.Close()

	ledgerService := ledger.NewService(entityStore, cfg.SuperAdminAddress(), ledger.SystemClock(), log)
	services := api.NewServices(ledgerService, log, cfg)
	defer services.Stop()

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	api.SetupRoutes(router, services)

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("Listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown: %v", err)
	}
	log.Info("Server stopped")
}

func newStore(cfg *config.Config) (store.EntityStore, error) {
	if cfg.Database.Type == "memory" {
		return store.NewMemoryStore(), nil
	}
	return store.NewSQLStore(&cfg.Database)
}
