package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RaikyD/order-verification-service/internal/application"
	"github.com/RaikyD/order-verification-service/internal/config"
	"github.com/RaikyD/order-verification-service/internal/logger"
	"github.com/RaikyD/order-verification-service/internal/migrate"
	"github.com/RaikyD/order-verification-service/internal/presentation"
	"github.com/RaikyD/order-verification-service/internal/repository"
	"github.com/RaikyD/order-verification-service/internal/verification"
)

func main() {
	logger.Init()
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Warn("config load failed", "err", err)
		os.Exit(1)
	}

	// Хранилище: Postgres, либо in-memory демо-режим без DB_STRING
	var repo repository.OrderRepo
	if cfg.DB_STRING != "" {
		pool, err := pgxpool.New(context.Background(), cfg.DB_STRING)
		if err != nil {
			logger.Warn("pgxpool new failed", "err", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := pool.Ping(context.Background()); err != nil {
			logger.Warn("db ping failed", "err", err)
			os.Exit(1)
		}
		if err := migrate.Up(cfg.DB_STRING); err != nil {
			logger.Warn("migrations failed", "err", err)
			os.Exit(1)
		}
		logger.Info("db connected")
		repo = repository.NewOrderRepository(pool)
	} else {
		logger.Warn("DB_STRING is empty, using in-memory store")
		repo = repository.NewMemoryOrderRepository()
	}

	// Wiring
	verifier := verification.NewStatusClient(cfg.STATUS_URL, cfg.StatusTimeout)
	worker := verification.NewWorker(repo, verifier, cfg.VerifyDelayMaxSec)
	worker.Start()

	svc := application.NewOrdersService(repo, worker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	h := presentation.NewOrdersHandler(svc)
	h.Register(r)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTP_PORT,
		Handler: r,
	}

	go func() {
		logger.Info("starting http", "addr", srv.Addr, "status_url", cfg.STATUS_URL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server crashed", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("http shutdown failed", "err", err)
	}

	// Очередь верификации не переживает рестарт: всё, что не успело
	// выполниться, теряется
	worker.Stop()
	logger.Info("server stopped")
}
