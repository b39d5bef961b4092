package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap/zapcore"

	"codetrack/cache"
	configs "codetrack/config"
	"codetrack/handler"
	"codetrack/logger"
	"codetrack/middleware"
	"codetrack/mongoconn"
	"codetrack/natsclient"
	"codetrack/repository"
	"codetrack/revision"
	"codetrack/service"
)

func main() {
	config := configs.LoadConfig()

	logStreamer, err := logger.NewLogStreamer(config.Environment)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logStreamer.Sync()

	mongoClient := mongoconn.ConnectDB(config.MongoDBURL)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(ctx)
	}()

	repo := repository.NewRepository(mongoClient)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Fatalf("Failed to create indexes: %v", err)
		}
		cancel()
	}

	var cacheClient cache.Cache
	redisCache := cache.NewRedisCache(config.RedisURL, "", 0)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisCache.Ping(ctx)
		cancel()
		if err != nil {
			logStreamer.Log(zapcore.WarnLevel, "", "Redis unreachable, running without cache", map[string]any{
				"redisUrl": config.RedisURL,
			}, "MAIN", err)
		} else {
			cacheClient = redisCache
		}
	}

	natsClient, err := natsclient.NewNatsClient(config.NATSURL)
	if err != nil {
		logStreamer.Log(zapcore.WarnLevel, "", "NATS unreachable, running without events", map[string]any{
			"natsUrl": config.NATSURL,
		}, "MAIN", err)
		natsClient = nil
	} else {
		defer natsClient.Close()
	}

	scheduler, err := revision.NewScheduler(revision.Config{
		IntervalDays: config.RevisionIntervalDays,
		PlateauDays:  config.RevisionPlateauDays,
	})
	if err != nil {
		log.Fatalf("Invalid revision schedule config: %v", err)
	}

	svc := service.NewService(repo, natsClient, cacheClient, scheduler, logStreamer, config.JWTSecret)

	cronJob := svc.StartCronJob()
	defer cronJob.Stop()

	if config.Environment == "prod" || config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logStreamer))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	h := handler.NewHandler(svc)
	h.RegisterRoutes(router, middleware.RequireAuth(svc))

	logStreamer.Log(zapcore.InfoLevel, "", "Starting HTTP server", map[string]any{
		"port":        config.HTTPPort,
		"environment": config.Environment,
	}, "MAIN", nil)
	if err := router.Run(":" + config.HTTPPort); err != nil {
		log.Fatalf("HTTP server exited: %v", err)
	}
}
