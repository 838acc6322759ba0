package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"riftbook/internal/api"
	"riftbook/internal/betting"
	"riftbook/internal/commands"
	"riftbook/internal/database"
	"riftbook/internal/riot"
	"riftbook/pkg/config"
)

func main() {
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	config.Load()

	token := os.Getenv("DISCORD_TOKEN")
	if token == "" {
		log.Fatal().Msg("DISCORD_TOKEN not found in environment variables")
	}
	riotKey := os.Getenv("RIOT_API_KEY")
	if riotKey == "" {
		log.Fatal().Msg("RIOT_API_KEY not found in environment variables")
	}

	store, err := database.New(config.DBType, config.ConnString, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initializing wallet store failed")
	}
	defer store.Close()

	riotClient := riot.NewClient(riotKey, config.Bot.Riot.AccountRegion, config.Bot.Riot.MatchRegion,
		riot.WithRateLimit(config.Bot.Riot.RequestsPerSecond, config.Bot.Riot.Burst))
	fetcher := riot.NewFetcher(riotClient, log)

	bets := betting.NewManager(store, fetcher, betting.Config{
		Stake:        config.Bot.Betting.Stake,
		Payout:       config.Bot.Betting.Payout,
		PollInterval: config.Bot.Betting.PollInterval(),
		BetWindow:    config.Bot.Betting.BetWindow(),
	}, log)
	defer bets.Close()

	// Start metrics/health server
	if config.Bot.EnableAPI {
		srv := api.Start(config.Bot.ApiPort, func(ctx context.Context) error {
			return store.Ping()
		}, log)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
	} else {
		log.Info().Msg("operational API is disabled in config.json")
	}

	// Create Discord session
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		log.Fatal().Err(err).Msg("creating Discord session failed")
	}

	// Register handlers
	handler := commands.New(dg, store, fetcher, bets, log)
	bets.SetNotifier(handler.NotifySettled)
	dg.AddHandler(handler.MessageCreate)
	dg.AddHandler(handler.ComponentsHandler)

	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent

	// Open websocket
	err = dg.Open()
	if err != nil {
		log.Fatal().Err(err).Msg("opening Discord connection failed")
	}

	log.Info().Str("bot", config.Bot.BotName).Msg("bot is now running, press CTRL-C to exit")

	// Wait here until CTRL-C or other term signal is received.
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	dg.Close()
}
