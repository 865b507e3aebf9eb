package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/comitanigiacomo/lifeos/internal/adapters/cache"
	"github.com/comitanigiacomo/lifeos/internal/adapters/events"
	adapterHTTP "github.com/comitanigiacomo/lifeos/internal/adapters/handler/http"
	"github.com/comitanigiacomo/lifeos/internal/adapters/llm"
	"github.com/comitanigiacomo/lifeos/internal/adapters/repository"
	"github.com/comitanigiacomo/lifeos/internal/config"
	"github.com/comitanigiacomo/lifeos/internal/core/analytics"
	"github.com/comitanigiacomo/lifeos/internal/core/domain"
	"github.com/comitanigiacomo/lifeos/internal/core/services"
	"github.com/comitanigiacomo/lifeos/internal/core/workers"
)

// NewLogger builds the process logger from LOG_FORMAT and LOG_LEVEL.
func NewLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

type eventPublisher interface {
	domain.EventPublisher
	Close() error
}

// Container owns every long-lived dependency of the service.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	SQL   *sqlx.DB
	Mongo *mongo.Client
	Redis *redis.Client

	Users domain.UserRepository
	Tasks domain.TaskRepository
	Logs  domain.DailyLogRepository

	publisher eventPublisher

	Tokens       *services.TokenService
	UserSvc      *services.UserService
	TaskSvc      *services.TaskService
	LogSvc       *services.DailyLogService
	Analytics    *services.AnalyticsService
	Optimization *services.OptimizationService
	Insights     *services.InsightService

	Snapshots *workers.SnapshotWorker
	Scheduler *workers.Scheduler
}

// New connects to the configured stores and optional collaborators. Redis, RabbitMQ and
// the language model degrade to local fallbacks when absent or unreachable.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	if err := c.openStore(ctx); err != nil {
		return nil, err
	}

	if cfg.RedisEnabled() {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Warn("redis unavailable, running without cache and rate limiting", "error", err)
		} else {
			c.Redis = rdb
			c.Users = repository.NewCachedUserRepository(c.Users, rdb, logger)
		}
	}

	c.publisher = events.NewLogPublisher(logger)
	if cfg.RabbitMQURL != "" {
		pub, err := events.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
		if err != nil {
			logger.Warn("rabbitmq unavailable, domain events will only be logged", "error", err)
		} else {
			c.publisher = pub
		}
	}

	analyticsCfg := analytics.DefaultConfig()
	analyticsCfg.TargetFocusHours = cfg.TargetFocusHours
	if err := analyticsCfg.Validate(); err != nil {
		c.Close()
		return nil, err
	}

	c.Snapshots = workers.NewSnapshotWorker(c.Tasks, c.Logs, logger)

	c.Tokens = services.NewTokenService(cfg.AuthSecret, cfg.AuthIssuer, cfg.AuthAudience, 24*time.Hour)
	c.UserSvc = services.NewUserService(c.Users, c.publisher, logger)
	c.TaskSvc = services.NewTaskService(c.Tasks, c.publisher, c.Snapshots, logger)
	c.LogSvc = services.NewDailyLogService(c.Logs, c.publisher, c.Snapshots, logger)
	c.Analytics = services.NewAnalyticsService(c.Tasks, c.Logs, analyticsCfg, cfg.StoreTimeout)
	c.Optimization = services.NewOptimizationService(c.Analytics, c.Tasks, c.Logs)

	var insightCache domain.InsightCache
	if c.Redis != nil {
		insightCache = cache.NewRedisInsightCache(c.Redis, cfg.InsightCacheTTL)
	}
	c.Insights = services.NewInsightService(c.Analytics, c.Tasks, c.Logs, c.newCompleter(ctx), insightCache, logger)

	scheduler, err := workers.NewScheduler(cfg.SnapshotCron, c.Logs, c.Snapshots, logger)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Scheduler = scheduler

	return c, nil
}

func (c *Container) openStore(ctx context.Context) error {
	cfg := c.Config

	switch cfg.DBDriver {
	case repository.DriverMongo:
		client, err := repository.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return err
		}
		db := client.Database(cfg.MongoDB)
		c.Mongo = client
		c.Users = repository.NewMongoUserRepository(db)
		c.Tasks = repository.NewMongoTaskRepository(db)
		c.Logs = repository.NewMongoDailyLogRepository(db)

	default:
		dsn := cfg.SQLitePath
		if cfg.DBDriver == repository.DriverPostgres {
			dsn = cfg.PostgresDSN()
		}
		db, err := repository.OpenSQL(cfg.DBDriver, dsn)
		if err != nil {
			return err
		}
		c.SQL = db
		c.Users = repository.NewSQLUserRepository(db)
		c.Tasks = repository.NewSQLTaskRepository(db)
		c.Logs = repository.NewSQLDailyLogRepository(db)
	}

	c.Logger.Info("store connected", "driver", cfg.DBDriver)
	return nil
}

func (c *Container) newCompleter(ctx context.Context) domain.TextCompleter {
	cfg := c.Config
	if cfg.GeminiAPIKey == "" {
		c.Logger.Info("no GEMINI_API_KEY, insights will use fallback content")
		return llm.DisabledCompleter{}
	}

	gemini, err := llm.NewGeminiCompleter(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		c.Logger.Warn("gemini client unavailable, insights will use fallback content", "error", err)
		return llm.DisabledCompleter{}
	}
	return llm.NewGuardedCompleter(gemini, cfg.LLMTimeout, c.Logger)
}

// Migrate applies the SQL schema, or creates the Mongo indexes.
func (c *Container) Migrate(ctx context.Context) error {
	if c.Mongo != nil {
		return repository.EnsureIndexes(ctx, c.Mongo.Database(c.Config.MongoDB))
	}
	return repository.Migrate(ctx, c.SQL)
}

func (c *Container) PingDB(ctx context.Context) error {
	if c.Mongo != nil {
		return c.Mongo.Ping(ctx, nil)
	}
	if c.SQL != nil {
		return c.SQL.PingContext(ctx)
	}
	return errors.New("no store configured")
}

func (c *Container) Router(startTime time.Time) *gin.Engine {
	return adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		UserHandler:        adapterHTTP.NewUserHandler(c.UserSvc),
		TaskHandler:        adapterHTTP.NewTaskHandler(c.TaskSvc),
		DailyLogHandler:    adapterHTTP.NewDailyLogHandler(c.LogSvc),
		AnalyticsHandler:   adapterHTTP.NewAnalyticsHandler(c.Analytics, c.Optimization),
		InsightHandler:     adapterHTTP.NewInsightHandler(c.Insights),
		Tokens:             c.Tokens,
		Users:              c.UserSvc,
		PingDB:             c.PingDB,
		Redis:              c.Redis,
		CORSOrigins:        c.Config.CORSOrigins,
		RateLimitPerMinute: c.Config.RateLimitPerMinute,
		StartTime:          startTime,
	})
}

// StartBackground launches the snapshot worker and the nightly scheduler.
// The worker stops when ctx is cancelled; the scheduler is stopped by Close.
func (c *Container) StartBackground(ctx context.Context) {
	c.Snapshots.Start(ctx)
	c.Scheduler.Start()
}

func (c *Container) Close() {
	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}
	if c.publisher != nil {
		if err := c.publisher.Close(); err != nil {
			c.Logger.Warn("closing event publisher", "error", err)
		}
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Mongo.Disconnect(ctx); err != nil {
			c.Logger.Warn("closing mongo", "error", err)
		}
	}
	if c.SQL != nil {
		if err := c.SQL.Close(); err != nil {
			c.Logger.Warn("closing database", "error", fmt.Errorf("sql close: %w", err))
		}
	}
}
