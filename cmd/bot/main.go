// cmd/bot/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"upsy-bot/internal/ai"
	"upsy-bot/internal/bot"
	"upsy-bot/internal/config"
	"upsy-bot/internal/database"
	"upsy-bot/internal/history"
	"upsy-bot/internal/rag"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	setupLogging(cfg)

	// Initialize database-backed vector index
	db, err := database.NewDB(cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Initialize history store
	historyStore := history.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(context.Background(), cfg.CallTimeout)
	err = historyStore.Ping(pingCtx)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Initialize AI gateways
	aiService := ai.NewService(cfg.OpenAIAPIKey, cfg.ChatModel, cfg.EmbeddingModel, cfg.Temperature)

	// Wire the pipeline
	orchestrator := rag.NewOrchestrator(aiService, db, historyStore, aiService, cfg.CallTimeout)
	ingestor := rag.NewIngestor(aiService, db, cfg.CallTimeout)
	classifier := rag.NewClassifier(aiService, cfg.CallTimeout)

	handler := bot.NewHandler(orchestrator, ingestor, classifier)

	// Create Discord session
	discord, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating Discord session")
	}

	handler.SetSession(discord)

	discord.AddHandler(handler.OnMessageCreate)
	discord.AddHandler(handler.OnGuildCreate)

	discord.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsGuildMessageReactions

	if err := discord.Open(); err != nil {
		log.Fatal().Err(err).Msg("error opening Discord connection")
	}
	defer discord.Close()

	log.Info().Str("chat_model", cfg.ChatModel).Msg("Upsy is running")

	// Wait for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
}

func setupLogging(cfg config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}
}
