package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/brensch/proofbot/config"
	"github.com/brensch/proofbot/discord"
	"github.com/brensch/proofbot/health"
	"github.com/brensch/proofbot/log"
	"github.com/brensch/proofbot/proof"
)

func main() {
	// Pretty logging until the configured format is known.
	slog.SetDefault(slog.New(log.NewPrettyHandler(os.Stdout, log.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{Level: slog.LevelInfo},
	})))

	// Log startup message.
	slog.Info("Proof bot starting")

	// Load configuration
	cfg := config.Get()

	logger, err := log.Setup(os.Stdout, cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		slog.Error("failed to configure logging", "error", err)
		os.Exit(1)
	}
	discordgo.Logger = log.DiscordgoLogger(logger)
	slog.Info("Configuration loaded successfully")

	// The health server comes up first so the platform sees the process as alive while we connect.
	healthServer := health.NewServer(cfg.HTTP.Port)
	if err := healthServer.Start(); err != nil {
		slog.Error("failed to start health check server", "error", err)
		os.Exit(1)
	}

	discordCfg := discord.BotConfig{
		AppID:    cfg.Discord.AppID,
		BotToken: cfg.Discord.BotToken,
		GuildID:  cfg.Discord.GuildID,
		Activity: cfg.Presence.Activity,
	}

	slog.Info("Initializing bot", "app_id", discordCfg.AppID, "guild_id", discordCfg.GuildID)

	proofs := proof.NewHandler()

	functions := []discord.BotFunctionI{
		proofs.DiscordFunctionProof(),
		proofs.DiscordFunctionQuickProof(),
	}

	messageCommands := []discord.MessageCommandI{
		proofs.DiscordMessageProof(),
	}

	var schedules []discord.BotScheduleI
	if cfg.Presence.Activity != "" && cfg.Presence.RefreshCron != "" {
		schedules = append(schedules, discord.NewPresenceSchedule(cfg.Presence.RefreshCron, cfg.Presence.Activity))
	}

	// Register the slash commands, then connect to the gateway.
	bot, err := discord.NewBot(discordCfg, functions, messageCommands, schedules)
	if err != nil {
		slog.Error("Failed to start bot", "kind", discord.KindOf(err).String(), "error", err)
		os.Exit(1)
	}

	slog.Info("Bot is now running")

	// Wait for an interrupt signal to gracefully shut down.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("Shutting down bot...")
	if err := bot.Close(); err != nil {
		slog.Error("Error during shutdown", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := healthServer.Shutdown(ctx); err != nil {
		slog.Error("failed to stop health check server", "error", err)
	}
}
