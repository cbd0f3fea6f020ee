package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "chatrelay/docs"
	"chatrelay/internal/ai"
	"chatrelay/internal/config"
	"chatrelay/internal/handler"
	"chatrelay/internal/locale"
	"chatrelay/internal/pkg/cache"
	"chatrelay/internal/pkg/metrics"
	"chatrelay/internal/pkg/mongodb"
	"chatrelay/internal/pkg/ratelimit"
	"chatrelay/internal/repository"
	"chatrelay/internal/server/middleware"
	"chatrelay/internal/service"
)

// shutdownTimeout 优雅关闭的等待时间
const shutdownTimeout = 10 * time.Second

// Server HTTP 服务器
type Server struct {
	cfg     *config.Config
	engine  *gin.Engine
	lang    locale.Language
	mongo   *mongodb.Client
	redis   *cache.RedisCache
	metrics *metrics.Metrics
	limiter ratelimit.Limiter
	relay   *service.RelayService
}

// Option 服务器选项
type Option func(*options)

type options struct {
	completer service.Completer
}

// WithCompleter 替换上游对话接口 (用于测试)
func WithCompleter(c service.Completer) Option {
	return func(o *options) {
		o.completer = c
	}
}

// New 创建服务器实例
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	// 设置 Gin 模式
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	// 转发接口的其他方法返回 403 而不是 405
	engine.HandleMethodNotAllowed = true

	// 限流按客户端地址计数，只信任配置的代理转发的 X-Forwarded-For
	if err := engine.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid server.trusted_proxies: %w", err)
	}

	srv := &Server{
		cfg:    cfg,
		engine: engine,
		lang:   locale.Parse(cfg.Relay.Language),
	}

	if cfg.Metrics.Enabled {
		srv.metrics = metrics.New()
	}

	ctx := context.Background()

	// 初始化 MongoDB (仅在保存请求日志时需要)
	var logWriter service.RelayLogWriter
	if cfg.Relay.SaveLogs {
		if cfg.Mongo.URI == "" {
			log.Info().Msg("MongoDB not configured, relay logs will be written to the application log")
		} else if client, err := mongodb.New(ctx, &cfg.Mongo); err != nil {
			log.Warn().Err(err).Msg("failed to connect to MongoDB, relay logs will be written to the application log")
		} else {
			srv.mongo = client
			repo := repository.NewRelayLogRepo(client.Database(), cfg.Mongo.Collection)
			if err := repo.EnsureIndexes(ctx, cfg.Mongo.Retention); err != nil {
				log.Warn().Err(err).Msg("failed to ensure relay log indexes")
			}
			logWriter = repo
			log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")
		}
	}

	// 初始化限流 (redis 不可用时退回进程内限流)
	limitCfg := cfg.RateLimit
	var counter ratelimit.Counter
	if limitCfg.Enabled() && limitCfg.Backend == "redis" {
		rc, err := cache.NewRedisCache(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, falling back to in-memory rate limiting")
			limitCfg.Backend = "memory"
		} else {
			srv.redis = rc
			counter = rc
			log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")
		}
	}

	limiter, err := ratelimit.New(limitCfg, counter)
	if err != nil {
		srv.close()
		return nil, err
	}
	srv.limiter = limiter

	completer := o.completer
	if completer == nil {
		completer = ai.NewClient(&cfg.AI)
	}
	srv.relay = service.NewRelayService(&cfg.Relay, completer, logWriter, srv.metrics)

	srv.setupRoutes()

	return srv, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// 全局中间件
	s.engine.Use(middleware.Recovery(s.lang))
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger())
	if s.metrics != nil {
		s.engine.Use(middleware.Metrics(s.metrics))
	}

	route := s.cfg.Relay.RoutePath()
	relayHandler := handler.NewRelayHandler(s.relay, s.lang, s.cfg.Relay.MaxBodyBytes)

	// 转发接口
	relay := s.engine.Group(route)
	if s.limiter != nil {
		policy := ratelimit.NewPolicy(s.cfg.RateLimit)
		relay.Use(middleware.RateLimit(s.limiter, policy, s.lang, s.metrics))
		log.Info().
			Int("per_second", s.cfg.RateLimit.Second).
			Int("per_minute", s.cfg.RateLimit.Minute).
			Int("per_hour", s.cfg.RateLimit.Hour).
			Msg("rate limiting enabled")
	}
	relay.POST("", relayHandler.Relay)
	relay.GET("", relayHandler.Deny)

	s.engine.NoMethod(relayHandler.Deny)
	s.engine.NoRoute(relayHandler.NotFound)

	// 辅助接口，与转发路由冲突时不注册
	healthHandler := handler.NewHealthHandler(s.dependencies())
	s.registerAux(route, "/health", healthHandler.Health)
	s.registerAux(route, "/ready", healthHandler.Ready)

	if s.metrics != nil {
		path := s.cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		s.registerAux(route, path, gin.WrapH(s.metrics.Handler()))
	}

	// Swagger 文档
	if !strings.HasPrefix(route, "/swagger") {
		s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

func (s *Server) registerAux(route, path string, h gin.HandlerFunc) {
	if path == route {
		log.Warn().Str("path", path).Msg("relay route shadows auxiliary endpoint, skipping it")
		return
	}
	s.engine.GET(path, h)
}

// dependencies 就绪检查需要探测的依赖
func (s *Server) dependencies() map[string]handler.Pinger {
	deps := make(map[string]handler.Pinger)
	if s.mongo != nil {
		deps["mongo"] = s.mongo
	}
	if s.redis != nil {
		deps["redis"] = s.redis
	}
	return deps
}

// Run 启动服务器，ctx 取消后优雅关闭
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		s.close()
		return err
	case err := <-errCh:
		s.close()
		return err
	}
}

// close 关闭外部连接
func (s *Server) close() {
	if s.mongo != nil {
		if err := s.mongo.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to close MongoDB connection")
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close Redis connection")
		}
	}
}

// Engine 获取 Gin 引擎 (用于测试)
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
