package routes

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "billing_gateway/docs"
	"billing_gateway/internal/adapter/http/handlers"
	"billing_gateway/internal/config"
	applogger "billing_gateway/internal/infrastructure/logger"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

// Run will start the server and the reconciliation worker, and blocks until
// SIGINT/SIGTERM.
func Run() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger, err := applogger.New(cfg.LogEnv)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, cleanup, err := buildDependencies(ctx, cfg, logger)
	if err != nil {
		cleanup()
		logger.Fatal("[bootstrap] failed to wire dependencies", zap.Error(err))
	}
	defer cleanup()

	if cfg.Worker.Enabled {
		go deps.reconciler.Start(ctx)
	}

	if cfg.LogEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	setMiddlewares(router, logger)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	getRoutes(router, deps)

	srv := &http.Server{Addr: ":" + strconv.Itoa(cfg.Port), Handler: router}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("[bootstrap] http shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("[bootstrap] listening", zap.Int("port", cfg.Port), zap.String("store", cfg.Store.Driver))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("[bootstrap] failed to startup the application", zap.Error(err))
	}
}

func getRoutes(router *gin.Engine, deps *dependencies) {
	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addBillingRoutes(v1, deps.operationHandler, deps.methodHandler, deps.bindingHandler)
}

func addPingRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", handlers.Ping)
}

func setMiddlewares(router *gin.Engine, logger *zap.Logger) {
	router.Use(applogger.RequestLogger(logger))
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("[http] recovered from panic", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
}
