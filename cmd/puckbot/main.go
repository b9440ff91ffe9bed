package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/omarshaarawi/puckbot/internal/api/league"
	"github.com/omarshaarawi/puckbot/internal/api/nhl"
	"github.com/omarshaarawi/puckbot/internal/bot"
	"github.com/omarshaarawi/puckbot/internal/config"
	"github.com/omarshaarawi/puckbot/internal/repository/memory"
	"github.com/omarshaarawi/puckbot/internal/scheduler"
	"github.com/omarshaarawi/puckbot/internal/server"
	"github.com/omarshaarawi/puckbot/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Error running application", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Error("Error loading .env file", "error", err)
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}

	nhlClient := nhl.NewClient(cfg.NHLAPI)
	nhlAPI := nhl.NewAPI(nhlClient)
	leagueAPI := league.NewAPI(nhlAPI)

	repo := memory.NewRepository()
	bracketService := service.NewBracketService(leagueAPI, repo, cfg.Season)

	telegramBot, err := bot.NewTelegramBot(cfg.TelegramBot.Token, cfg.TelegramBot.ChatID, bracketService)
	if err != nil {
		return err
	}

	sched, err := scheduler.NewScheduler(bracketService, telegramBot.SendMessage, cfg.TelegramBot.ChatID, cfg.Season, cfg.Schedule)
	if err != nil {
		return err
	}

	if err := sched.Start(); err != nil {
		return err
	}
	defer func() {
		err := sched.Stop()
		if err != nil {
			slog.Error("Error stopping scheduler", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := server.New(bracketService).ListenAndServe(ctx, cfg.Server.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Error starting HTTP server", "error", err)
		}
	}()

	go func() {
		if err := telegramBot.Start(ctx); err != nil {
			slog.Error("Error running telegram bot", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down gracefully...")

	return nil
}
