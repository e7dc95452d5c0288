package main

import (
	"context"
	"log"
	"os"

	"github.com/jobdesk/messaging_backend/chat"
	"github.com/jobdesk/messaging_backend/config"
	"github.com/jobdesk/messaging_backend/controllers"
	"github.com/jobdesk/messaging_backend/events"
	"github.com/jobdesk/messaging_backend/realtime"
	"github.com/jobdesk/messaging_backend/routes"
	"github.com/jobdesk/messaging_backend/utils"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	logger, err := utils.NewLogger(cfg.Development)
	if err != nil {
		log.Fatal("Failed to build logger: ", err)
	}
	defer logger.Sync()

	db, err := utils.ConnectDB(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatalw("failed to connect to MongoDB", "error", err)
	}
	logger.Info("connected to MongoDB")

	store := chat.NewMongoMessageStore(db)
	if err := store.EnsureIndexes(context.Background()); err != nil {
		logger.Fatalw("failed to create message indexes", "error", err)
	}
	directory := chat.NewMongoDirectory(db)
	aggregator := chat.NewLogAggregator(store, directory)

	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		defer kp.Close()
		publisher = kp
	}

	var bridge *realtime.RedisBridge
	if cfg.RedisAddr != "" {
		bridge = realtime.NewRedisBridge(cfg.RedisAddr, logger)
		defer bridge.Close()
	}
	hub := realtime.NewHub(bridge, logger)
	hub.Run(context.Background())

	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	gateway := realtime.NewGateway(hub, tokens, cfg.WriteWait, cfg.PongWait)

	r := routes.SetupRouter(routes.Controllers{
		Auth:          &controllers.AuthController{Directory: directory, Tokens: tokens, Log: logger},
		Conversations: &controllers.ConversationController{Store: store, Directory: directory, Aggregator: aggregator, Log: logger},
		Messages:      &controllers.MessageController{Store: store, Directory: directory, Publisher: publisher, Log: logger},
		Contacts:      &controllers.ContactController{Directory: directory, Log: logger},
		Suggestions:   &controllers.SuggestionController{Store: store, APIKey: cfg.GeminiAPIKey, Log: logger},
	}, gateway, tokens)

	logger.Infow("starting server", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatalw("server stopped", "error", err)
	}
}
