package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"registration-service/config"
	authapi "registration-service/internal/api/auth"
	usersapi "registration-service/internal/api/users"
	routes "registration-service/internal/app/http"
	"registration-service/internal/domain/tokens"
	"registration-service/internal/events"
	"registration-service/internal/logging"
	"registration-service/internal/security/password"
	"registration-service/internal/service/accounts"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadEnv()
	if err != nil {
		log.Fatal("❌ ", err)
	}
	logger := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	directory, store, closeStores, err := buildStores(ctx, cfg)
	if err != nil {
		log.Fatal("❌ ", err)
	}
	defer closeStores()

	hasher, err := password.NewBcrypt(cfg.BcryptCost)
	if err != nil {
		log.Fatal("❌ ", err)
	}

	engine := tokens.NewEngine(store, directory,
		tokens.WithWindow(cfg.TokenTTL),
		tokens.WithLogger(logger),
	)
	notifier := buildNotifier(cfg, logger)

	// registration events are drained after the HTTP server stops
	queue := events.NewQueue(64)
	eventHandler := events.NewHandler(engine, notifier, logger)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		eventHandler.Run(context.Background(), queue.Events())
	}()

	svc := accounts.NewService(directory, engine, hasher, queue, notifier, logger)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	routes.RegisterRoutes(r,
		authapi.NewHandler(svc, cfg.AppBaseURL, cfg.ExposeLinks),
		usersapi.NewHandler(directory),
		cfg.JWTSecret,
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info(ctx, "listening", "addr", srv.Addr, "store", cfg.StoreBackend, "tokens", cfg.TokenBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "http server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info(context.Background(), "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "http shutdown", "err", err)
	}

	queue.Close()
	wg.Wait()
}
