package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"abletech/common/cache"
	"abletech/common/cache/memory"
	"abletech/common/cache/redis"
	"abletech/common/database"
	"abletech/common/events"
	"abletech/common/telemetry"
	"abletech/services/careers/internal/analytics"
	"abletech/services/careers/internal/api"
	"abletech/services/careers/internal/chat"
	"abletech/services/careers/internal/config"
	"abletech/services/careers/internal/models"
	"abletech/services/careers/internal/prefs"
	"abletech/services/careers/internal/scheduler"
	"abletech/services/careers/internal/service"
	"abletech/services/careers/internal/store"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newLogger() (*zap.Logger, error) {
	return zap.NewProduction()
}

func newStore(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (*store.Store, error) {
	s, err := store.Open(context.Background(), cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	logger.Info("opened sqlite store", zap.String("path", cfg.SQLitePath))
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return s.Close()
		},
	})
	return s, nil
}

func newCache(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) cache.Cache {
	opts := cache.Options{
		DefaultTTL:    cfg.CacheTTL,
		RedisURL:      cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
	}

	var c cache.Cache
	if cfg.RedisAddr == "" {
		logger.Info("REDIS_ADDR not set, using in-process cache")
		c = memory.New(opts)
	} else {
		rc := redis.New(opts)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rc.Ping(ctx); err != nil {
			logger.Warn("redis not reachable yet", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		cancel()
		c = rc
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return c.Close()
		},
	})
	return c
}

func newPublisher(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (events.Publisher, error) {
	if cfg.NATSURL == "" {
		logger.Info("NATS_URL not set, domain events are dropped")
		return events.NopPublisher{}, nil
	}
	pub, err := events.NewPublisher(logger, events.Options{
		URL:         cfg.NATSURL,
		Name:        "careers-service",
		ConnTimeout: cfg.NATSConnTimeout,
	})
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			pub.Close()
			return nil
		},
	})
	return pub, nil
}

func newEngagementSource(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (analytics.Source, error) {
	if cfg.ClickHouseDSN == "" {
		logger.Info("CLICKHOUSE_DSN not set, engagement analytics disabled")
		return nil, nil
	}
	db, err := database.New(context.Background(), database.Options{
		DSN:      cfg.ClickHouseDSN,
		Username: cfg.ClickHouseUsername,
		Password: cfg.ClickHousePassword,
		Database: cfg.ClickHouseDatabase,
	}, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return db.Close()
		},
	})
	return analytics.NewClickHouseSource(db.Conn()), nil
}

func newDisabilityInfo(s *store.Store) *prefs.Repository[models.DisabilityInfo] {
	return prefs.NewDisabilityInfo(prefs.StoreBackend{Store: s})
}

func newRecommendationService(
	logger *zap.Logger,
	cfg *config.Config,
	s *store.Store,
	disability *prefs.Repository[models.DisabilityInfo],
	c cache.Cache,
	publisher events.Publisher,
) *service.RecommendationService {
	return service.NewRecommendationService(logger, s, disability, c, cfg.CacheTTL, publisher)
}

func newChatService(cfg *config.Config, logger *zap.Logger) *chat.Service {
	var completer chat.Completer
	if cfg.ChatEnabled() {
		completer = chat.NewClient(logger, chat.ClientOptions{
			BaseURL: cfg.ChatAPIBaseURL,
			APIKey:  cfg.ChatAPIKey,
			Model:   cfg.ChatModel,
			Timeout: cfg.ChatTimeout,
		})
	} else {
		logger.Info("CHAT_API_KEY not set, chat replies with the apology message")
	}
	return chat.NewService(logger, completer, chat.NewLimiter(cfg.ChatRatePerMinute, cfg.ChatBurst))
}

func newScheduler(jobs *service.JobService, notifications *service.NotificationService, logger *zap.Logger, cfg *config.Config) *scheduler.JobScheduler {
	return scheduler.NewJobScheduler(jobs, notifications, logger, cfg)
}

func registerTracing(lc fx.Lifecycle, cfg *config.Config) error {
	shutdown, err := telemetry.InitTracer(context.Background(), telemetry.Options{
		ServiceName:  "careers-service",
		CollectorURL: cfg.OTELCollectorURL,
	})
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{OnStop: shutdown})
	return nil
}

func registerBootstrap(lc fx.Lifecycle, cfg *config.Config, applications *service.ApplicationService, catalog *service.CatalogService) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := applications.EnsureDefaultTemplates(ctx); err != nil {
				return err
			}
			if cfg.SeedCatalog {
				return catalog.Seed(ctx)
			}
			return nil
		},
	})
}

func registerServer(lc fx.Lifecycle, cfg *config.Config, server *api.Server) {
	lc.Append(fx.Hook{
		OnStart: server.Start,
		OnStop: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
			defer cancel()
			return server.Shutdown(ctx)
		},
	})
}

func registerScheduler(lc fx.Lifecycle, jobScheduler *scheduler.JobScheduler, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := jobScheduler.Start(context.Background()); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("deadline scheduler failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			jobScheduler.Stop()
			return nil
		},
	})
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("failed to load .env: %v", err)
	}

	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			newLogger,
			newStore,
			newCache,
			newPublisher,
			newEngagementSource,
			newDisabilityInfo,
			newRecommendationService,
			newChatService,
			analytics.NewReader,
			service.NewNotificationService,
			service.NewJobService,
			service.NewApplicationService,
			service.NewProfileService,
			service.NewCommunityService,
			service.NewCatalogService,
			service.NewAnalyticsService,
			api.NewServer,
			newScheduler,
		),
		fx.Invoke(
			registerTracing,
			registerBootstrap,
			registerServer,
			registerScheduler,
		),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		log.Fatal(err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Fatal(err)
	}
}
