package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // 确保在精简镜像中也能识别时区

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/user/moovie-discover/internal/config"
	"github.com/user/moovie-discover/internal/handler"
	"github.com/user/moovie-discover/internal/logging"
	"github.com/user/moovie-discover/internal/metrics"
	"github.com/user/moovie-discover/internal/middleware"
	"github.com/user/moovie-discover/internal/model"
	"github.com/user/moovie-discover/internal/repository"
	"github.com/user/moovie-discover/internal/router"
	"github.com/user/moovie-discover/internal/service"
	"github.com/user/moovie-discover/internal/utils"
	"golang.org/x/time/rate"
)

func main() {
	// 加载环境变量
	envErr := godotenv.Load()

	// 加载配置
	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if envErr != nil {
		logging.Info().Msg("未找到 .env 文件，使用系统环境变量")
	}
	if err := cfg.Validate(); err != nil {
		logging.Fatal().Err(err).Msg("配置校验失败")
	}

	metrics.Init()

	// 初始化片单存储
	store, storeCloser, err := repository.NewStore(cfg)
	if err != nil {
		logging.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("存储初始化失败")
	}
	defer storeCloser.Close()

	// 初始化 TMDB 客户端
	tmdb, err := service.NewTMDBService(service.TMDBOptions{
		BaseURL:     cfg.TMDBBaseURL,
		Token:       cfg.TMDBToken,
		Language:    cfg.TMDBLanguage,
		HTTPClient:  &http.Client{Timeout: cfg.TMDBTimeout},
		Limiter:     rate.NewLimiter(rate.Limit(cfg.TMDBRPS), int(cfg.TMDBRPS)+1),
		SearchCache: utils.NewSearchCache[[]model.Movie](cfg.SearchCacheSize, cfg.SearchCacheTTL),
		DetailCache: utils.NewTTLCache[*model.Movie](cfg.DetailCacheTTL, cfg.DetailCacheTTL),
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("TMDB 客户端初始化失败")
	}

	sessionManager := service.NewSessionManager(service.SessionOptions{
		Catalog:  tmdb,
		Store:    store,
		Debounce: cfg.DebounceDelay,
		IdleTTL:  cfg.SessionTTL,
	})
	defer sessionManager.Close()

	// 启动定时清理任务
	bgCtx, stopBackground := context.WithCancel(context.Background())
	cleanupSvc := service.NewCleanupService(tmdb, cfg.SearchCacheTTL)
	cleanupSvc.Start(bgCtx)

	// 初始化 Gin
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// 启用 gzip，默认压缩级别
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 设置 Session 中间件（仅保存访客 ID）
	cookieStore := cookie.NewStore([]byte(cfg.AppSecret))
	cookieStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 365,
		HttpOnly: true,
		Secure:   cfg.Env == "production",
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("moovie", cookieStore))
	r.Use(middleware.Logger())

	h := handler.NewHandler(cfg, tmdb, sessionManager)
	router.RegisterRoutes(r, h)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// 在 goroutine 中启动服务器，这样我们就可以监听信号
	go func() {
		logging.Info().Str("addr", srv.Addr).Str("store", cfg.StoreDriver).Msg("服务器启动")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal().Err(err).Msg("服务器启动失败")
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Info().Msg("正在关闭服务器...")

	// 5 秒超时上下文用于关闭过程
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("服务器强制关闭")
	}
	stopBackground()
	cleanupSvc.Wait()

	logging.Info().Msg("服务器已退出")
}
