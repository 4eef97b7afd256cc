package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/apimgr/community/src/config"
	"github.com/apimgr/community/src/database"
	"github.com/apimgr/community/src/graphql"
	"github.com/apimgr/community/src/metrics"
	"github.com/apimgr/community/src/middleware"
	"github.com/apimgr/community/src/models"
	"github.com/apimgr/community/src/scheduler"
	"github.com/apimgr/community/src/services"
	"github.com/apimgr/community/src/utils"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := utils.NewLogger(cfg.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting",
		zap.String("version", GetVersionString()),
		zap.String("mode", cfg.Mode),
		zap.Int("port", cfg.Server.Port))

	metrics.Init(Version, CommitID, BuildDate)

	// Document store
	ctx, cancel := context.WithTimeout(context.Background(), database.ConnectTimeout)
	db, err := database.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	cancel()
	if err != nil {
		log.Fatal("connect to mongodb", zap.Error(err))
	}
	database.SetGlobalDB(db)

	ctx, cancel = context.WithTimeout(context.Background(), database.ConnectTimeout)
	if err := db.EnsureIndexes(ctx); err != nil {
		cancel()
		log.Fatal("ensure indexes", zap.Error(err))
	}
	cancel()

	// Optional shared cache
	cacheManager := services.NewCacheManager(cfg.Cache)
	if cacheManager.IsEnabled() {
		log.Info("cache enabled", zap.String("host", cfg.Cache.Host))
	}
	defer cacheManager.Close()

	// Chat fan-out
	hub := services.NewChatHub(log, cacheManager)
	go hub.Run()
	defer hub.Stop()

	// GraphQL
	resolver := graphql.NewResolver(db.Database, db.WithTransaction, hub, log)
	schema, err := graphql.BuildSchema(resolver)
	if err != nil {
		log.Fatal("build schema", zap.Error(err))
	}
	gqlHandler := graphql.NewHandler(schema, cfg.Mode != "production")

	// Maintenance jobs
	sched := scheduler.NewScheduler(log)
	if err := scheduler.RegisterMaintenanceTasks(sched, db.Database, log); err != nil {
		log.Fatal("register tasks", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	// Live config reload
	if configPath := config.FindConfigFile(); configPath != "" {
		watcher, err := services.NewConfigWatcher(configPath, log, func(newCfg *config.Config) error {
			// Port and store changes need a restart; the rest applies live
			cfg.Server.Branding = newCfg.Server.Branding
			if newCfg.Server.Port != cfg.Server.Port {
				log.Warn("port change requires restart",
					zap.Int("current", cfg.Server.Port),
					zap.Int("configured", newCfg.Server.Port))
			}
			return nil
		})
		if err != nil {
			log.Warn("config watcher unavailable", zap.Error(err))
		} else if err := watcher.Start(); err != nil {
			log.Warn("config watcher failed to start", zap.Error(err))
		} else {
			defer watcher.Stop()
		}
	}

	router := buildRouter(cfg, gqlHandler, hub, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("shutting down", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}
	if err := db.Close(shutdownCtx); err != nil {
		log.Error("mongodb close", zap.Error(err))
	}
}

func buildRouter(cfg *config.Config, gqlHandler http.Handler, hub *services.ChatHub, log *zap.Logger) *gin.Engine {
	db := database.GetGlobalDB()

	switch cfg.Mode {
	case "development":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.SetTrustedProxies(nil)
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(log))
	router.Use(gin.Recovery())
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	router.Use(middleware.Metrics())
	router.Use(middleware.SecurityHeaders())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           24 * time.Hour,
	}))
	router.Use(middleware.GlobalRateLimit())

	// Health endpoints
	router.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), database.PingTimeout)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "mongo": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": GetVersion(),
			"build":   GetBuildInfo(),
		})
	})
	router.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), database.PingTimeout)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			c.Status(http.StatusServiceUnavailable)
			return
		}
		c.Status(http.StatusOK)
	})
	router.GET("/livez", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	tokens := &models.TokenModel{DB: db.Database}
	users := &models.UserModel{DB: db.Database}

	// GraphQL: optional auth so signUp and login work anonymously;
	// authenticated operations check identity in the resolvers.
	api := router.Group("/")
	api.Use(middleware.GraphQLRateLimit())
	api.Use(middleware.Auth(tokens, users, false))
	graphql.RegisterRoutes(api, gqlHandler)

	// Chat websocket requires an authenticated user
	ws := router.Group("/ws")
	ws.Use(middleware.Auth(tokens, users, true))
	ws.GET("/chats", hub.ServeWS)

	return router
}
