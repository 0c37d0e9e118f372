package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"social-service/internal/config"
	"social-service/internal/db"
	"social-service/internal/handlers"
	"social-service/internal/imagestore"
	"social-service/internal/middleware"
	"social-service/internal/observability"
	"social-service/internal/rabbitmq"
	"social-service/internal/telemetry"

	"social-service/internal/repositories"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	database, err := db.Connect(cfg.Database.DSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	shutdownTracing, err := observability.SetupTracing(context.Background(), cfg.Telemetry.OTLPEndpoint, cfg.AMQP.Environment)
	if err != nil {
		log.Fatalf("failed to set up tracing: %v", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	store := imagestore.NewClient(cfg.ImageStore.BaseURL, cfg.ImageStore.UploadURL, cfg.ImageStore.APIKey)

	publisher := rabbitmq.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
	defer publisher.Close()
	audit := telemetry.NewAuditEmitter(publisher, cfg.AMQP.RoutingKey, "social-service", cfg.AMQP.Environment)

	profileRepo := repositories.NewProfileRepo(database)
	friendRepo := repositories.NewFriendRepo(database)
	messageRepo := repositories.NewMessageRepo(database)

	defaultKey := cfg.ImageStore.DefaultPictureKey
	profileHandler := handlers.NewProfileHandler(profileRepo, friendRepo, store, cfg.Upload, defaultKey, audit)
	requestHandler := handlers.NewRequestHandler(friendRepo, profileRepo, store, defaultKey, audit)
	messageHandler := handlers.NewMessageHandler(messageRepo, friendRepo, profileRepo, store, cfg.Upload, defaultKey, audit)

	router := gin.Default()

	// middlewares
	router.Use(otelgin.Middleware("social-service"))
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authMiddleware := middleware.AuthMiddleware(cfg.Auth.JWTSecret)

	router.PUT("/profile", authMiddleware, profileHandler.UpdateProfile)
	router.PUT("/profile/picture", authMiddleware, profileHandler.UpdatePicture)
	router.DELETE("/profile/picture", authMiddleware, profileHandler.DeletePicture)
	router.GET("/profile/:userId", authMiddleware, profileHandler.GetProfile)

	router.GET("/requests", authMiddleware, requestHandler.GetRequests)
	router.POST("/requests/:userId", authMiddleware, requestHandler.PostRequest)

	router.GET("/messages/", authMiddleware, messageHandler.ListConversations)
	router.GET("/messages/:userId", authMiddleware, messageHandler.GetConversation)
	router.POST("/messages/:userId", authMiddleware, messageHandler.SendMessage)
	router.DELETE("/messages/:messageId", authMiddleware, messageHandler.DeleteMessage)

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
