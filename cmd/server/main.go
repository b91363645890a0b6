// Package main is the entry point for the Monte Carlo forecasting service.
// It exposes price history management, portfolio/stock forecasting, and chart
// rendering over HTTP, and can re-run a configured portfolio forecast on a
// cron schedule.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jershred/Monte-Carlo-tool/internal/config"
	"github.com/Jershred/Monte-Carlo-tool/internal/database"
	"github.com/Jershred/Monte-Carlo-tool/internal/modules/forecast"
	"github.com/Jershred/Monte-Carlo-tool/internal/modules/history"
	"github.com/Jershred/Monte-Carlo-tool/internal/modules/render"
	"github.com/Jershred/Monte-Carlo-tool/internal/scheduler"
	"github.com/Jershred/Monte-Carlo-tool/internal/server"
	"github.com/Jershred/Monte-Carlo-tool/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting Monte Carlo forecasting service")

	historyDB, err := database.New(database.Config{Path: cfg.HistoryDBPath(), Name: "history"})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open history database")
	}
	defer historyDB.Close()

	runsDB, err := database.New(database.Config{Path: cfg.RunsDBPath(), Name: "runs"})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open runs database")
	}
	defer runsDB.Close()

	store := history.NewStore(historyDB, log)
	if err := store.InitSchema(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize history schema")
	}

	runs := forecast.NewRunRepository(runsDB, log)
	if err := runs.InitSchema(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize runs schema")
	}

	service := forecast.NewService(store, runs, forecast.Defaults{
		Trials: cfg.DefaultTrials,
		Days:   cfg.DefaultDays,
	}, log)

	srv := server.New(server.Config{
		Port:            cfg.Port,
		DevMode:         cfg.DevMode,
		Log:             log,
		ForecastHandler: forecast.NewHandler(service, runs, log),
		HistoryHandler:  history.NewHandler(store, log),
		RenderHandler:   render.NewHandler(service, store, log),
	})

	var sched *scheduler.Scheduler
	if cfg.ForecastSchedule != "" {
		sched = scheduler.New(log)
		job := scheduler.NewForecastJob(service, forecast.PortfolioConfig{
			Symbols:           cfg.Symbols,
			Weights:           cfg.Weights,
			Trials:            cfg.DefaultTrials,
			Days:              cfg.DefaultDays,
			InitialInvestment: cfg.InitialInvestment,
		}, log)
		if err := sched.AddJob(cfg.ForecastSchedule, job); err != nil {
			log.Fatal().Err(err).Msg("Failed to register forecast job")
		}
		sched.Start()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Error().Err(err).Msg("Server stopped unexpectedly")
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	if sched != nil {
		sched.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	log.Info().Msg("Stopped")
}
