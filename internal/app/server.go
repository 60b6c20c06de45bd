// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"log"

	"dealerdesk-service/internal/config"
	"dealerdesk-service/internal/db"
	"dealerdesk-service/internal/events"
	authHandler "dealerdesk-service/internal/handlers/auth"
	carHandler "dealerdesk-service/internal/handlers/car"
	filesHandler "dealerdesk-service/internal/handlers/files"
	saleHandler "dealerdesk-service/internal/handlers/sale"
	statsHandler "dealerdesk-service/internal/handlers/stats"
	wsHandler "dealerdesk-service/internal/handlers/websocket"
	"dealerdesk-service/internal/middleware"
	"dealerdesk-service/internal/pkg/jwt"
	"dealerdesk-service/internal/pkg/session"
	"dealerdesk-service/internal/repository/postgres"
	authUsecase "dealerdesk-service/internal/service/auth"
	carUsecase "dealerdesk-service/internal/service/car"
	saleUsecase "dealerdesk-service/internal/service/sale"
	statsUsecase "dealerdesk-service/internal/service/stats"
	"dealerdesk-service/internal/storage"
	"dealerdesk-service/internal/websocket"
	wsHandlers "dealerdesk-service/internal/websocket/handler"

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
	ctx := context.Background()

	// ----- Logger -----
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()
	s.logger = logger

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       s.cfg.RedisDB,
		PoolSize: s.cfg.RedisPoolSize,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	// ----- JWT Manager -----
	jwtManager, err := jwt.LoadAndBuild(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to load JWT manager: %w", err)
	}

	// ----- Repositories -----
	vendorRepo := postgres.NewVendorRepository(pool)
	sessionRepo := postgres.NewSessionRepository(pool)
	carRepo := postgres.NewCarRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)

	// ----- Session Manager & Rate Limiter -----
	sessionManager := session.NewManager(redisClient, sessionRepo, logger)
	rateLimiter := session.NewRateLimiter(redisClient)

	// ----- File storage -----
	store, err := storage.NewStore(
		s.cfg.UploadDir,
		s.cfg.PublicBaseURL,
		[]byte(s.cfg.FileSigningSecret),
		s.cfg.SignedURLTTL,
		logger,
	)
	if err != nil {
		return fmt.Errorf("failed to initialize file store: %w", err)
	}

	// ----- Event Bus -----
	bus := events.NewBus()

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(jwtManager.Verifier, sessionManager)

	// ----- Services -----
	authService := authUsecase.NewAuthService(
		vendorRepo,
		sessionRepo,
		sessionManager,
		rateLimiter,
		jwtManager.Generator,
		jwtManager.Verifier,
		store,
		hub,
		logger,
	)
	carService := carUsecase.NewCarService(carRepo, saleRepo, store, bus, logger)
	saleService := saleUsecase.NewSaleService(carRepo, saleRepo, store, bus, logger)
	statsService := statsUsecase.NewStatsService(carRepo, saleRepo, bus, logger)

	// Register WebSocket handlers and start pumps
	liveHandler := wsHandlers.NewLiveHandler(hub, bus, statsService, logger)
	hub.RegisterHandler(liveHandler)
	go hub.Run(ctx)
	go liveHandler.Run(ctx)

	// ----- Handlers -----
	authHandlerInst := authHandler.NewAuthHandler(authService, logger)
	carHandlerInst := carHandler.NewCarHandler(carService, logger)
	saleHandlerInst := saleHandler.NewSaleHandler(saleService, logger)
	statsHandlerInst := statsHandler.NewStatsHandler(statsService, logger)
	filesHandlerInst := filesHandler.NewFilesHandler(store, logger)
	wsHandlerInst := wsHandler.NewWebSocketHandler(hub, logger)

	// ----- Middlewares -----
	authMiddleware := middleware.NewAuthMiddleware(jwtManager.Verifier, sessionManager, logger)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	// ----- Router -----
	handlers := &Handlers{
		AuthHandler:    authHandlerInst,
		CarHandler:     carHandlerInst,
		SaleHandler:    saleHandlerInst,
		StatsHandler:   statsHandlerInst,
		FilesHandler:   filesHandlerInst,
		WSHandler:      wsHandlerInst,
		AuthMiddleware: authMiddleware,
		RateLimit:      middleware.RateLimit(rateLimiter, logger),
	}
	SetupRouter(s.engine, logger, handlers)

	// ----- Start HTTP -----
	log.Printf("server running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}
