// internal/app/server.go
package app

import (
	"fmt"
	"log"

	"ezwallet-service/internal/config"
	"ezwallet-service/internal/db"
	authHandler "ezwallet-service/internal/handlers/auth"
	categoryHandler "ezwallet-service/internal/handlers/category"
	groupHandler "ezwallet-service/internal/handlers/group"
	transactionHandler "ezwallet-service/internal/handlers/transaction"
	userHandler "ezwallet-service/internal/handlers/user"
	"ezwallet-service/internal/middleware"
	"ezwallet-service/internal/pkg/ratelimit"
	"ezwallet-service/internal/pkg/token"
	"ezwallet-service/internal/repository/postgres"
	authUsecase "ezwallet-service/internal/service/auth"
	categoryUsecase "ezwallet-service/internal/service/category"
	groupUsecase "ezwallet-service/internal/service/group"
	transactionUsecase "ezwallet-service/internal/service/transaction"
	userUsecase "ezwallet-service/internal/service/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	log.Println("[POSTGRES] connected")

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Address:  s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Println("[REDIS] connected")

	// ----- Logger -----
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	s.logger = logger

	// ----- Token Codec & Rate Limiter -----
	codec, err := token.NewCodec(s.cfg.Token)
	if err != nil {
		return fmt.Errorf("failed to build token codec: %w", err)
	}
	rateLimiter := ratelimit.NewLimiter(redisClient)

	// ----- Repositories -----
	userRepo := postgres.NewUserRepository(pool)
	groupRepo := postgres.NewGroupRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)

	// ----- Services (Usecases) -----
	authService := authUsecase.NewService(userRepo, codec, rateLimiter, logger)
	userService := userUsecase.NewService(userRepo, groupRepo, transactionRepo, logger)
	groupService := groupUsecase.NewService(groupRepo, userRepo, logger)
	categoryService := categoryUsecase.NewService(categoryRepo, transactionRepo, logger)
	transactionService := transactionUsecase.NewService(transactionRepo, userRepo, categoryRepo, logger)

	// ----- Middlewares -----
	authMiddleware := middleware.NewAuthMiddleware(codec, logger)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	// ----- Handlers -----
	handlers := &Handlers{
		AuthHandler:        authHandler.NewAuthHandler(authService, authMiddleware, s.cfg.CookieDomain, logger),
		UserHandler:        userHandler.NewUserHandler(userService, authMiddleware),
		GroupHandler:       groupHandler.NewGroupHandler(groupService, authMiddleware),
		CategoryHandler:    categoryHandler.NewCategoryHandler(categoryService),
		TransactionHandler: transactionHandler.NewTransactionHandler(transactionService, groupService, authMiddleware),
		AuthMiddleware:     authMiddleware,
	}

	// ----- Router -----
	SetupRouter(s.engine, logger, handlers)

	// ----- Start HTTP -----
	log.Printf("Server running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}
