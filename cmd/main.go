package main

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tuiter-labs/tuiter/config"
	"github.com/tuiter-labs/tuiter/internal/auth"
	"github.com/tuiter-labs/tuiter/internal/daos"
	"github.com/tuiter-labs/tuiter/internal/events"
	"github.com/tuiter-labs/tuiter/internal/handlers"
	"github.com/tuiter-labs/tuiter/internal/routers"
	"github.com/tuiter-labs/tuiter/internal/session"
	"github.com/tuiter-labs/tuiter/internal/storage"
	"github.com/tuiter-labs/tuiter/internal/token"
	logger "github.com/tuiter-labs/tuiter/middleware/log"
)

func main() {
	cfg, err := config.LoadConfig("./config.toml")
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	lg, err := logger.NewLogger(&cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer lg.Close()

	// MongoDB
	db, mongoClient, err := storage.InitMongo(&cfg.Mongo)
	if err != nil {
		lg.Fatal("initializing mongo", zap.Error(err))
	}
	defer mongoClient.Disconnect(context.Background())

	// Redis (会话存储)
	redisClient, err := storage.InitRedis(&cfg.Redis)
	if err != nil {
		lg.Fatal("initializing redis", zap.Error(err))
	}
	defer redisClient.Close()

	// DAO 层
	userDao := daos.NewUserDao(db)
	groupDao := daos.NewGroupDao(db)
	messageDao := daos.NewMessageDao(db)
	tuitDao := daos.NewTuitDao(db)

	// 会话与认证
	sessions := session.NewStore(redisClient, time.Duration(cfg.Session.TTLMinutes)*time.Minute)
	tokens := token.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTLHours)*time.Hour)
	authService := auth.NewService(userDao, sessions, tokens)

	// Kafka producer: optional. Without a broker the API still serves,
	// message events are simply not published.
	var producer *events.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			lg.Warn("kafka unavailable, running without message events", zap.Error(err))
			producer = nil
		} else {
			defer producer.Close()
		}
	}

	// 处理器
	authHandler := handlers.NewAuthHandler(authService, lg)
	userHandler := handlers.NewUserHandler(userDao, lg)
	groupHandler := handlers.NewGroupHandler(groupDao, lg)
	messageHandler := handlers.NewMessageHandler(messageDao, producer, lg)
	tuitHandler := handlers.NewTuitHandler(tuitDao, lg)

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery())

	routers.SetupRoutes(r, lg,
		authHandler,
		userHandler,
		groupHandler,
		messageHandler,
		tuitHandler,
	)

	lg.Info("starting server", zap.Int("port", cfg.Server.Port))
	if err := r.Run(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
		lg.Fatal("server stopped", zap.Error(err))
	}
}
