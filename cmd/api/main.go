package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/helpdesk-labs/support-insights/internal/analysis"
	httptransport "github.com/helpdesk-labs/support-insights/internal/api/http"
	"github.com/helpdesk-labs/support-insights/internal/api/http/handlers"
	"github.com/helpdesk-labs/support-insights/internal/auth"
	"github.com/helpdesk-labs/support-insights/internal/config"
	"github.com/helpdesk-labs/support-insights/internal/events"
	"github.com/helpdesk-labs/support-insights/internal/messaging"
	"github.com/helpdesk-labs/support-insights/internal/observability"
	"github.com/helpdesk-labs/support-insights/internal/persistence"
	"github.com/helpdesk-labs/support-insights/internal/repository"
	"github.com/helpdesk-labs/support-insights/internal/repository/memory"
	"github.com/helpdesk-labs/support-insights/internal/service"
	"github.com/helpdesk-labs/support-insights/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	deps, err := buildRepositories(pg, cfg.Seed, logger)
	if err != nil {
		logger.Fatal("failed to load ticket data", zap.Error(err))
	}

	engine, err := buildEngine(cfg.Analysis)
	if err != nil {
		logger.Fatal("failed to build analysis engine", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)

	producer := messaging.NewProducer(cfg.Kafka, logger)
	var sink service.EventSink
	if producer != nil {
		sink = producer
		logger.Info("publishing insight events", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}
	notifications := worker.StartNotificationWorker(service.NewNotificationService(dispatcher, sink, logger), producer, logger)
	defer notifications.Stop()

	deps.Engine = engine
	deps.Cache = persistence.NewAnalysisCache(redis, cfg.Analysis.CacheSize, cfg.Analysis.CacheTTL(), logger)
	deps.Dispatcher = dispatcher
	deps.Metrics = metrics
	deps.Logger = logger
	insightService := service.NewInsightService(deps)

	tokenMgr := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService := service.NewAuthService(*cfg, tokenMgr, logger)
	if cfg.Auth.APIKeyHash == "" {
		logger.Warn("AUTH_API_KEY_HASH not set; token issuance disabled")
	}

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(insightService),
		Insights:       handlers.NewInsightsHandler(insightService),
		AuthMiddleware: auth.NewAuthMiddleware(tokenMgr),
		RateLimiter:    httptransport.NewRateLimiter(cfg.Analysis.RateLimitPerSecond, cfg.Analysis.RateLimitBurst),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// buildRepositories selects Postgres when connected and the YAML seed catalog otherwise.
func buildRepositories(pg *persistence.Postgres, seed config.SeedConfig, logger *zap.Logger) (service.InsightDependencies, error) {
	if pg.Enabled() {
		pool := pg.Pool
		return service.InsightDependencies{
			TicketRepo:   repository.NewTicketRepository(pool),
			TimelineRepo: repository.NewTimelineRepository(pool),
			CustomerRepo: repository.NewCustomerRepository(pool),
			ArticleRepo:  repository.NewKBArticleRepository(pool),
			IssueRepo:    repository.NewEngineeringIssueRepository(pool),
			HistoryRepo:  repository.NewTicketHistoryRepository(pool),
		}, nil
	}

	store, err := memory.LoadFile(seed.Path)
	if err != nil {
		return service.InsightDependencies{}, err
	}
	logger.Info("loaded seed catalog", zap.String("path", seed.Path))
	return service.InsightDependencies{
		TicketRepo:   store.Tickets(),
		TimelineRepo: store.Timelines(),
		CustomerRepo: store.Customers(),
		ArticleRepo:  store.KBArticles(),
		IssueRepo:    store.Issues(),
		HistoryRepo:  store.History(),
	}, nil
}

func buildEngine(cfg config.AnalysisConfig) (*analysis.Engine, error) {
	opts := analysis.Options{Latency: cfg.SimulatedLatency()}
	if cfg.LexiconPath != "" {
		lex, err := analysis.LoadLexicon(cfg.LexiconPath)
		if err != nil {
			return nil, err
		}
		opts.Lexicon = lex
	}
	if cfg.RandomSeed != 0 {
		opts.Random = analysis.NewSeededRandom(cfg.RandomSeed)
	}
	return analysis.NewEngine(opts), nil
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
