package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/nexus/internal/config"
	v1 "github.com/dmehra2102/prod-golang-projects/nexus/internal/handler/v1"
	"github.com/dmehra2102/prod-golang-projects/nexus/internal/repository"
	"github.com/dmehra2102/prod-golang-projects/nexus/internal/server"
	"github.com/dmehra2102/prod-golang-projects/nexus/internal/service"
	"github.com/dmehra2102/prod-golang-projects/nexus/pkg/auth"
	"github.com/dmehra2102/prod-golang-projects/nexus/pkg/database"
	"github.com/dmehra2102/prod-golang-projects/nexus/pkg/logger"
	"github.com/dmehra2102/prod-golang-projects/nexus/pkg/metrics"
	"github.com/dmehra2102/prod-golang-projects/nexus/pkg/tracer"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}
}

func runServer(parent context.Context, cfg *config.Config) error {
	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := tracer.Init(ctx, cfg.Tracing, cfg.App.Version)
	if err != nil {
		return err
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewCollector(cfg.App.Name, reg)

	var repo service.CalculationRepository
	if cfg.Database.Enabled {
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		repo = repository.NewCalculationRepository(db)
		log.Info("calculation history enabled", zap.String("db", cfg.Database.Host))
	} else {
		log.Info("database disabled; calculation history is off")
	}

	sessions := service.NewSessionStore(cfg.Session, m, log)
	go sessions.Run(ctx)
	history := service.NewHistoryService(repo, cfg.History, m, log)
	defer history.Shutdown()

	scoringSvc := service.NewScoringService(sessions, history, m, log)
	authSvc := service.NewAuthService(cfg.Auth, auth.NewJWTManager(cfg.JWT), log)

	router := v1.NewRouter(v1.RouterDeps{
		Config:  cfg,
		Handler: v1.NewHandler(service.NewDispatcher(scoringSvc), sessions, history, authSvc),
		Metrics: m,
		Log:     log,
	})

	srv, err := server.New(cfg.Server, cfg.TLS, router, log)
	if err != nil {
		return fmt.Errorf("configuring server: %w", err)
	}

	log.Info("starting nexus",
		zap.String("env", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
		zap.Bool("auth", cfg.Auth.Enabled),
	)
	return srv.Run(ctx)
}
