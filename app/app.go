package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"momo-insights/configs"
	"momo-insights/internal/handlers"
	"momo-insights/internal/services"
	"momo-insights/pkg"
	"momo-insights/pkg/cache"
	"momo-insights/pkg/database"
	middleware "momo-insights/pkg/middlewares"
	"momo-insights/pkg/repositories"
	"momo-insights/web"
)

// NewApp wires dependencies, builds the Gin engine, and returns an *http.Server and a cleanup func.
// It reads configuration from environment variables via configs.Load.
func NewApp(ctx context.Context, logger *zap.Logger) (*http.Server, func(), error) {
	// Load config
	cfg, err := configs.Load(logger)
	if err != nil {
		return nil, nil, err
	}

	// Initialize postgres db
	dbConfig := database.Config{
		DSN:      cfg.DbAddr,
		MaxConns: cfg.MaxDbCons,
		MinConns: cfg.MinDbCons,
	}
	db, disconnect, err := database.New(ctx, logger, dbConfig)
	if err != nil {
		return nil, nil, err
	}

	// Run migrations; the schema is owned by the app
	if err := database.RunMigrations(logger, cfg.DbAddr); err != nil {
		disconnect()
		return nil, nil, err
	}

	// Optional Redis for the global login throttle
	var redisClient *redis.Client
	redisClose := func() {}
	if cfg.RedisAddr != "" {
		redisClient, redisClose, err = cache.New(ctx, cache.Config{Addr: cfg.RedisAddr})
		if err != nil {
			disconnect()
			return nil, nil, err
		}
	}
	limiter := pkg.NewLoginLimiter(redisClient, cfg.LoginRate, cfg.LoginBurst, time.Minute, logger)

	// Setup dependencies
	userRepo := repositories.NewUserRepository(db)
	txRepo := repositories.NewTransactionRepository(db)

	authService := services.NewAuthService(logger, limiter, userRepo)
	ingestService := services.NewIngestService(logger, db, txRepo)
	dashboardService := services.NewDashboardService(logger, txRepo)

	baseHandler := handlers.NewBaseHandler(logger)
	authHandler := handlers.NewAuthHandler(logger, authService)
	uploadHandler := handlers.NewUploadHandler(logger, ingestService, cfg.MaxUploadBytes)
	dashboardHandler := handlers.NewDashboardHandler(logger, dashboardService)

	// Router
	r := NewRouter(logger, cfg.SessionSecret, cfg.SessionMaxAge,
		baseHandler, authHandler, uploadHandler, dashboardHandler)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	cleanup := func() {
		disconnect()
		redisClose()
	}

	return srv, cleanup, nil
}

// NewRouter assembles the Gin engine. Split out from NewApp so HTTP tests
// can drive the routes without a live database behind them.
func NewRouter(logger *zap.Logger, sessionSecret string, sessionMaxAge int,
	baseHandler *handlers.BaseHandler,
	authHandler *handlers.AuthHandler,
	uploadHandler *handlers.UploadHandler,
	dashboardHandler *handlers.DashboardHandler,
) *gin.Engine {
	r := gin.Default()
	r.SetHTMLTemplate(web.Templates())

	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(pkg.SessionName, store))
	r.Use(middleware.TraceID())
	r.Use(middleware.Metrics())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	baseHandler.RegisterRoutes(r)
	authHandler.RegisterRoutes(r)

	protected := r.Group("/")
	protected.Use(middleware.SessionAuth())
	uploadHandler.RegisterRoutes(protected)
	dashboardHandler.RegisterRoutes(protected)

	return r
}
