// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"promo-service/internal/config"
	"promo-service/internal/db"
	analyticsHandler "promo-service/internal/handlers/analytics"
	campaignHandler "promo-service/internal/handlers/campaign"
	redemptionHandler "promo-service/internal/handlers/redemption"
	wsHandler "promo-service/internal/handlers/ws"
	appmetrics "promo-service/internal/metrics"
	"promo-service/internal/middleware"
	"promo-service/internal/repository/postgres"
	analyticsUsecase "promo-service/internal/service/analytics"
	campaignUsecase "promo-service/internal/service/campaign"
	redemptionUsecase "promo-service/internal/service/redemption"
	"promo-service/internal/ws"

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

func (s *Server) Start(ctx context.Context) error {
	// ----- PostgreSQL -----
	pool, err := db.ConnectDB()
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}
	if err := db.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Println("[REDIS] connected")

	// ----- Logger -----
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer logger.Sync()
	s.logger = logger

	// ----- Metrics -----
	promMetrics := appmetrics.NewMetrics("promo")

	// ----- Event feed -----
	hub := ws.NewHub(logger)
	go hub.Run(ctx)

	// ----- Repositories -----
	dbWrapper := postgres.NewDB(pool)
	campaignRepo := postgres.NewCampaignRepository(pool)
	redemptionRepo := postgres.NewRedemptionRepository(dbWrapper)
	channelProvider := postgres.NewChannelProvider(pool)

	// ----- Services -----
	clock := campaignUsecase.SystemClock()
	campaignService := campaignUsecase.NewCampaignService(campaignRepo, clock, hub, logger)
	ledger := redemptionUsecase.NewLedger(campaignRepo, redemptionRepo, clock, hub, promMetrics, logger)
	snapshotCache := analyticsUsecase.NewSnapshotCache(redisClient, s.cfg.SnapshotTTL, logger)
	aggregator := analyticsUsecase.NewAggregator(channelProvider, snapshotCache, clock, logger)

	// ----- Expiry sweep -----
	go s.runSweep(ctx, campaignService, campaignRepo, promMetrics)

	// ----- Handlers -----
	campaignHandlerInst := campaignHandler.NewCampaignHandler(campaignService)
	redemptionHandlerInst := redemptionHandler.NewRedemptionHandler(ledger)
	analyticsHandlerInst := analyticsHandler.NewAnalyticsHandler(aggregator)
	wsHandlerInst := wsHandler.NewWebSocketHandler(hub, logger)

	// ----- Middlewares -----
	authMiddleware := middleware.NewAuthMiddleware(s.cfg.JWTSecret, s.cfg.StorefrontKeyHash)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	// ----- Router -----
	handlers := &Handlers{
		CampaignHandler:   campaignHandlerInst,
		RedemptionHandler: redemptionHandlerInst,
		AnalyticsHandler:  analyticsHandlerInst,
		WSHandler:         wsHandlerInst,
		AuthMiddleware:    authMiddleware,
	}
	SetupRouter(s.engine, handlers)

	// ----- Start HTTP -----
	log.Printf("server running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}

// runSweep expires campaigns on a fixed interval and refreshes the
// active-campaigns gauge.
func (s *Server) runSweep(ctx context.Context, campaignService *campaignUsecase.CampaignService, campaignRepo *postgres.CampaignRepository, m *appmetrics.Metrics) {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			expired, err := campaignService.SweepExpired(ctx)
			if err != nil {
				s.logger.Error("expiry sweep failed", zap.Error(err))
				continue
			}
			m.RecordSweep(expired)

			if active, err := campaignRepo.CountActive(ctx); err == nil {
				m.SetActiveCampaigns(active)
			}
		}
	}
}
