package app

import (
	"context"

	"chat-gateway/internal/admin"
	"chat-gateway/internal/auth/handler"
	"chat-gateway/internal/chat"
	"chat-gateway/internal/config"
	"chat-gateway/internal/gateway"
	"chat-gateway/internal/logger"
	"chat-gateway/internal/middleware"
	"chat-gateway/internal/ratelimit"
	"chat-gateway/internal/token"

	"github.com/gin-gonic/gin"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	var codec *token.Codec
	if cfg.SessionSigningSecret != "" {
		codec, err = token.NewCodec(cfg.SessionSigningSecret)
		if err != nil {
			return nil, nil, err
		}
	} else {
		logger.Warn("SESSION_SIGNING_SECRET not set, sessions disabled", nil)
	}

	var counterStore ratelimit.CounterStore
	if infra.Redis != nil {
		counterStore = ratelimit.NewRedisStore(infra.Redis.Client)
	}
	limiter := ratelimit.New(counterStore, cfg.RateLimitFailClosed)

	guard := gateway.New(&cfg, codec, limiter)

	authHandler := handler.NewHandler(&cfg, codec)
	adminHandler := admin.NewHandler(&cfg, codec, infra.Store)
	chatHandler := chat.NewHandler(&cfg, codec, infra.Store)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(guard.Middleware())

	// ----------------------------
	// API Routes
	// ----------------------------

	authHandler.RegisterRoutes(router)
	adminHandler.RegisterRoutes(router)
	chatHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ----------------------------
	// Pages
	// ----------------------------

	router.Static("/assets", "./public/assets")

	router.GET("/", func(c *gin.Context) {
		c.File("./public/index.html")
	})

	router.GET("/login/", func(c *gin.Context) {
		c.File("./public/login/index.html")
	})

	router.GET("/chat/", func(c *gin.Context) {
		c.File("./public/chat/index.html")
	})

	router.GET("/admin/", func(c *gin.Context) {
		c.File("./public/admin/index.html")
	})

	router.GET("/admin/login/", func(c *gin.Context) {
		c.File("./public/admin/login/index.html")
	})

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		if infra.Redis != nil {
			return infra.Redis.Close()
		}
		return nil
	}, nil
}
