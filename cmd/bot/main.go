// Package main is the entry point for the NovaBot Go application.
// It initializes all systems and starts the Discord bot.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/NovaStudios/NovaBotGo/internal/autovoice"
	"github.com/NovaStudios/NovaBotGo/internal/commands"
	"github.com/NovaStudios/NovaBotGo/internal/events"
	"github.com/NovaStudios/NovaBotGo/internal/music"
	"github.com/NovaStudios/NovaBotGo/internal/playlist"
	"github.com/NovaStudios/NovaBotGo/pkg/config"
	"github.com/NovaStudios/NovaBotGo/pkg/database"
	"github.com/NovaStudios/NovaBotGo/pkg/discord"
	"github.com/NovaStudios/NovaBotGo/pkg/errors"
	"github.com/NovaStudios/NovaBotGo/pkg/lavalink"
	"github.com/NovaStudios/NovaBotGo/pkg/logger"
	"github.com/NovaStudios/NovaBotGo/pkg/mqtt"
	"github.com/NovaStudios/NovaBotGo/pkg/web"
)

// audioBackend adapts the Lavalink client to the playback interfaces so the
// music packages never import the transport directly.
type audioBackend struct {
	client *lavalink.Client
}

func (b *audioBackend) LoadTracks(identifier string) (*lavalink.LoadResult, error) {
	return b.client.LoadTracks(identifier)
}

func (b *audioBackend) Link(guildID string) music.AudioLink {
	return b.client.Link(guildID)
}

// voiceGateway adapts the Lavalink client voice join/leave calls.
type voiceGateway struct {
	client *lavalink.Client
}

func (g *voiceGateway) Join(guildID, channelID string) error {
	return g.client.JoinVoice(guildID, channelID)
}

func (g *voiceGateway) Leave(guildID string) error {
	return g.client.LeaveVoice(guildID)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	logger.System("Iniciando NovaBot Go...", "Main")

	// Initialize error handler
	var discordClient *discord.ExtendedClient
	var lavalinkClient *lavalink.Client
	errors.Init(cfg.ErrorWebhook, func() {
		if discordClient != nil {
			if err := discordClient.Stop(); err != nil {
				return
			}
		}
		if lavalinkClient != nil {
			lavalinkClient.Disconnect()
		}
	})

	// Initialize database
	db, err := database.Init(cfg.MongoDBURL, cfg.DBName)
	if err != nil {
		logger.Error(fmt.Sprintf("Error connecting to database: %v", err), "Main")
		// Continue without database - it will attempt to reconnect
	}
	defer func() {
		if db != nil {
			if err := db.Disconnect(); err != nil {
				return
			}
		}
	}()

	triggerStore := database.NewTriggerStore(db)
	tempChannelStore := database.NewTempChannelStore(db)
	playlistStore := database.NewPlaylistStore(db)

	// Initialize MQTT
	mqttClientID := "novabot"
	if !cfg.IsProd() {
		mqttClientID = "novabot_canary"
	}

	mqttClient := mqtt.Init(
		cfg.MQTTHost,
		cfg.MQTTPort,
		cfg.MQTTUser,
		cfg.MQTTPassword,
		mqttClientID,
	)
	defer mqttClient.Destroy()

	// Initialize Discord client
	discordClient, err = discord.Init(cfg.BotToken)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "Main")
		os.Exit(1)
	}

	// Initialize Lavalink over the Discord session
	lavalinkClient = lavalink.Init(discordClient.Session, []lavalink.NodeConfig{
		{
			Name:     "NovaMain",
			Host:     cfg.LavalinkHost,
			Port:     cfg.LavalinkPort,
			Password: cfg.LavalinkPassword,
			Secure:   cfg.LavalinkSecure,
		},
	})

	// Wire the playback core: registry, scheduler and orchestrator share the
	// same injected backend, events flow back through the scheduler.
	backend := &audioBackend{client: lavalinkClient}
	voice := &voiceGateway{client: lavalinkClient}
	registry := music.NewRegistry(backend)
	scheduler := music.NewScheduler(registry)
	orchestrator := music.NewOrchestrator(registry, backend, voice, scheduler)
	lavalinkClient.AddListener(scheduler)

	// Wire the temp channel manager
	autoVoiceManager := autovoice.NewManager(
		autovoice.NewDiscordChannelAPI(discordClient.Session),
		triggerStore,
		tempChannelStore,
	)

	playlistService := playlist.NewService(playlistStore)

	// Initialize web server
	webServer := web.Init(cfg.LogsWebhook)
	web.SetupAPIRoutes(webServer, web.APIDeps{
		Music:     registry,
		AutoVoice: autoVoiceManager,
	})
	webServer.StartAsync(cfg.Port)

	deps := commands.Deps{
		Music:     orchestrator,
		Registry:  registry,
		AutoVoice: autoVoiceManager,
		Playlists: playlistService,
		Backend:   backend,
	}
	commands.RegisterAll(discordClient, deps)

	events.RegisterAll(discordClient, events.Deps{
		AutoVoice: autoVoiceManager,
		Music:     registry,
		Voice:     voice,
	})

	// Start the bot
	if err := discordClient.Start(); err != nil {
		logger.Critical(fmt.Sprintf("Error starting Discord client: %v", err), "Main")
		os.Exit(1)
	}
	defer func(discordClient *discord.ExtendedClient) {
		if err := discordClient.Stop(); err != nil {
			return
		}
	}(discordClient)

	// Connect Lavalink after Discord is connected
	if err := lavalinkClient.Connect(); err != nil {
		logger.Error(fmt.Sprintf("Error conectando con Lavalink: %v", err), "Main")
	}
	defer lavalinkClient.Disconnect()

	logger.Success("NovaBot Go iniciado correctamente!", "Main")

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.System("Apagando NovaBot Go...", "Main")
	autoVoiceManager.Shutdown()
	registry.Shutdown()
}
