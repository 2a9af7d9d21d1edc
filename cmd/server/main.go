package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/langchou/evhighway/internal/api/evcharger"
	"github.com/langchou/evhighway/internal/api/handlers"
	"github.com/langchou/evhighway/internal/config"
	"github.com/langchou/evhighway/internal/ingest"
	"github.com/langchou/evhighway/internal/repository"
	"github.com/langchou/evhighway/internal/service"
	"github.com/langchou/evhighway/internal/settings"
	"github.com/langchou/evhighway/internal/state"
	"github.com/langchou/evhighway/pkg/ws"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logger := initLogger(cfg.Debug, cfg.LogLevel)
	defer logger.Sync()

	logger.Info("Starting evhighway", zap.String("port", cfg.ServerPort))

	loc, err := cfg.Location()
	if err != nil {
		logger.Warn("Unknown timezone, using local time", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	// 创建 context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 设置存储
	store, closeStore, err := openSettingsStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open settings store", zap.Error(err))
	}
	defer closeStore()

	prefs := settings.New(store)
	if seeded, err := prefs.SeedAPIKey(ctx, cfg.APIKey); err != nil {
		logger.Error("Failed to seed api key", zap.Error(err))
	} else if seeded {
		logger.Info("API key seeded from environment")
	}

	// 充电桩信息客户端
	client := evcharger.NewClient(
		cfg.APIEndpoint,
		cfg.HTTPTimeout,
		evcharger.WithPageSize(cfg.PageSize),
		evcharger.WithKindDetail(cfg.KindDetail),
	)

	synth := ingest.NewSynthesizer(loc, ingest.NewRandomEstimator(time.Now().UnixNano()), time.Now)

	// 抓取服务
	retrieval := service.NewRetrievalService(cfg, logger, client, prefs, synth)

	// 创建 WebSocket Hub
	wsHub := ws.NewHub(logger)
	wsHub.SetInitDataProvider(func() interface{} {
		return state.Describe(retrieval.Status())
	})
	go wsHub.Run()

	// 订阅状态更新并广播到 WebSocket
	statusCh := retrieval.Subscribe()
	go func() {
		for st := range statusCh {
			view := state.Describe(st)
			wsHub.BroadcastStatus(view)
			if failed, ok := st.(state.Failed); ok {
				wsHub.BroadcastMessage(ws.MsgTypeError, gin.H{
					"kind":    failed.Kind,
					"message": failed.Message,
				})
			}
		}
	}()

	if err := retrieval.Start(ctx); err != nil {
		logger.Error("Failed to start retrieval service", zap.Error(err))
	}

	// 创建 HTTP 处理器
	handler := handlers.NewHandler(
		logger,
		retrieval,
		prefs,
		wsHub,
		cfg.PricePerKWh,
		cfg.ManualRefreshPerMinute,
	)

	// 设置 Gin 模式
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// 注册路由
	handler.RegisterRoutes(router)

	// 启动 HTTP 服务器
	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("addr", server.Addr))

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// 停止服务
	retrieval.Stop()
	cancel()
	wsHub.Close()

	// 优雅关闭
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// openSettingsStore 按配置打开设置存储
func openSettingsStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (settings.Store, func(), error) {
	switch cfg.SettingsBackend {
	case config.SettingsBackendPostgres:
		db, err := repository.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate database: %w", err)
		}
		logger.Info("Database migrated successfully")
		return repository.NewSettingsRepository(db), db.Close, nil

	case config.SettingsBackendRedis:
		rdb, err := settings.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Connected to redis", zap.String("addr", cfg.RedisAddr))
		return settings.NewRedisStore(rdb), func() { _ = rdb.Close() }, nil

	default:
		logger.Info("Using file settings store", zap.String("path", cfg.SettingsFile))
		return settings.NewFileStore(cfg.SettingsFile), func() {}, nil
	}
}

// initLogger 初始化日志
func initLogger(debug bool, level string) *zap.Logger {
	var zcfg zap.Config
	if debug {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zcfg = zap.NewProductionConfig()
	}

	if level != "" {
		if lvl, err := zapcore.ParseLevel(level); err == nil {
			zcfg.Level = zap.NewAtomicLevelAt(lvl)
		}
	}

	logger, err := zcfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// corsMiddleware CORS 中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
