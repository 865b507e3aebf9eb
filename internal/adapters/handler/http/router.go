package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/comitanigiacomo/lifeos/docs"
	"github.com/comitanigiacomo/lifeos/internal/adapters/handler/http/middleware"
)

type RouterDependencies struct {
	UserHandler      *UserHandler
	TaskHandler      *TaskHandler
	DailyLogHandler  *DailyLogHandler
	AnalyticsHandler *AnalyticsHandler
	InsightHandler   *InsightHandler

	Tokens middleware.TokenValidator
	Users  middleware.UserResolver

	// PingDB reports the primary store's health.
	PingDB func(ctx context.Context) error
	Redis  *redis.Client

	CORSOrigins        []string
	RateLimitPerMinute int
	StartTime          time.Time
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.CORS(deps.CORSOrigins))

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "connected"
		if deps.PingDB == nil || deps.PingDB(ctx) != nil {
			dbStatus = "unreachable"
		}

		redisStatus := "disabled"
		if deps.Redis != nil {
			redisStatus = "connected"
			if deps.Redis.Ping(ctx).Err() != nil {
				redisStatus = "unreachable"
			}
		}

		statusCode := http.StatusOK
		status := "ok"
		if dbStatus == "unreachable" || redisStatus == "unreachable" {
			statusCode = http.StatusServiceUnavailable
			status = "degraded"
		}

		c.JSON(statusCode, gin.H{
			"status":   status,
			"database": dbStatus,
			"redis":    redisStatus,
			"uptime":   time.Since(deps.StartTime).String(),
		})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiV1 := router.Group("/api/v1")
	apiV1.Use(middleware.AuthMiddleware(deps.Tokens))
	if deps.Redis != nil && deps.RateLimitPerMinute > 0 {
		apiV1.Use(middleware.RateLimiterMiddleware(deps.Redis, deps.RateLimitPerMinute, time.Minute))
	}

	deps.UserHandler.RegisterRoutes(apiV1)

	protected := apiV1.Group("")
	protected.Use(middleware.RequireUser(deps.Users))
	{
		deps.TaskHandler.RegisterRoutes(protected)
		deps.DailyLogHandler.RegisterRoutes(protected)
		deps.AnalyticsHandler.RegisterRoutes(protected)
		deps.InsightHandler.RegisterRoutes(protected)
	}

	return router
}
