// Package main is the entry point for the CentinelaBot Go application.
// It initializes all systems and starts the Discord bot.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/CentinelaStudios/CentinelaBotGo/internal/commands"
	"github.com/CentinelaStudios/CentinelaBotGo/internal/events"
	"github.com/CentinelaStudios/CentinelaBotGo/internal/security"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/config"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/database"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/discord"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/errors"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/logger"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/mqtt"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/web"
)

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

	logger.System("Iniciando CentinelaBot Go...", "Main")
	logger.Info(fmt.Sprintf("Directorio de trabajo: %s", getCurrentDir()), "Main")

	// Initialize error handler
	var discordClient *discord.ExtendedClient
	errors.Init(cfg.ErrorWebhook, func() {
		if discordClient != nil {
			err := discordClient.Stop()
			if err != nil {
				return
			}
		}
	})

	// Initialize database
	db, err := database.Init(cfg.MongoDBURL, cfg.DBName)
	if err != nil {
		logger.Error(fmt.Sprintf("Error connecting to database: %v", err), "Main")
		logger.Debug(fmt.Sprintf("Error connecting to database: %v", cfg.MongoDBURL), "Main")
		// Continue without database- it will attempt to reconnect
	}
	defer func() {
		if db != nil {
			err := db.Disconnect()
			if err != nil {
				return
			}
		}
	}()

	// Initialize global DataManagers
	if db != nil {
		database.InitGlobalDataManagers(db)
	}

	// Initialize MQTT
	mqttClientID := "centinelabot"
	if !cfg.IsProd() {
		mqttClientID = "centinelabot_canary"
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

	// Initialize the security pipeline: Mongo-backed stores, the gateway over
	// the Discord session and every alert sink
	securityFeed := web.NewSecurityFeed()
	defer securityFeed.Close()

	securityService := security.Init(security.Options{
		ConfigStore:     security.NewMongoConfigStore(database.GlobalSecurityConfigDM),
		QuarantineStore: security.NewMongoQuarantineStore(database.GlobalQuarantineDM),
		Gateway:         security.NewSessionGateway(discordClient.Session),
		Notifier: security.MultiNotifier{
			mqtt.NewAlertPublisher(mqttClient),
			securityFeed,
			security.NewWebhookNotifier(cfg.SecurityWebhook),
		},
		OwnerID: cfg.OwnerID,
	})

	// Initialize web server
	webServer := web.Init(cfg.LogsWebServerHook)
	web.SetupAPIRoutes(webServer, securityFeed)
	webServer.StartAsync(cfg.Port)

	// Register commands using the new commands package
	commands.RegisterAll(discordClient)

	// Register events using the new events package
	events.RegisterAll(discordClient)

	// Start the bot
	if err := discordClient.Start(); err != nil {
		logger.Critical(fmt.Sprintf("Error starting Discord client: %v", err), "Main")
		os.Exit(1)
	}
	defer func(discordClient *discord.ExtendedClient) {
		err := discordClient.Stop()
		if err != nil {

		}
	}(discordClient)

	// Launch the quarantine expiry sweep once the session is live
	securityService.Start()
	defer securityService.Stop()

	logger.Success("CentinelaBot Go iniciado correctamente!", "Main")

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.System("Apagando CentinelaBot Go...", "Main")
}

// getCurrentDir returns the current working directory
func getCurrentDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "unknown"
	}
	return dir
}
