package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reisy1999/musatoku-thanks/internal/api/handler"
	"github.com/reisy1999/musatoku-thanks/internal/api/router"
	"github.com/reisy1999/musatoku-thanks/internal/repository"
	"github.com/reisy1999/musatoku-thanks/internal/seed"
	"github.com/reisy1999/musatoku-thanks/internal/service"
	"github.com/reisy1999/musatoku-thanks/pkg/jwt"
	"github.com/reisy1999/musatoku-thanks/pkg/metrics"
	"github.com/reisy1999/musatoku-thanks/pkg/password"
	"github.com/reisy1999/musatoku-thanks/pkg/redis"
)

var serveCommand = &cobra.Command{
	Use:   "serve",
	Short: "启动 HTTP 服务",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("log_level", cfg.Log.Level),
	)

	// 1. 数据库与迁移
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	repo := repository.NewRepository(db)
	hasher := password.NewHasher(cfg.Auth.BcryptCost)

	// 2. 初始数据
	if cfg.Seed.Enabled {
		if err := seed.Run(ctx, repo, hasher, logger); err != nil {
			return fmt.Errorf("写入初始数据失败: %w", err)
		}
	}

	// 3. Redis（可选，连接失败时不启用黑名单与限流）
	var rdb *redis.Client
	var blacklist service.TokenBlacklist
	if cfg.Redis.Enabled {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 不可用，Token 黑名单与登录限流已关闭", zap.Error(err))
			rdb = nil
		} else {
			defer rdb.Close()
			blacklist = rdb
		}
	}

	// 4. 指标
	var rec metrics.Recorder = metrics.Nop{}
	var gatherer prometheus.Gatherer
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		rec = metrics.NewCollector(reg)
		gatherer = reg
	}

	// 5. 依赖注入: Repository → Service → Handler → Router
	svc := service.NewService(service.Deps{
		Config:    cfg,
		Repo:      repo,
		JWT:       jwt.NewManager(&cfg.Auth),
		Hasher:    hasher,
		Blacklist: blacklist,
		Metrics:   rec,
		Logger:    logger,
	})

	gin.SetMode(gin.ReleaseMode)
	engine := router.Setup(router.Deps{
		Config:   cfg,
		Handler:  handler.NewHandler(svc, logger),
		Auth:     svc.Auth,
		Redis:    rdb,
		Metrics:  rec,
		Gatherer: gatherer,
		Logger:   logger,
	})

	// 6. HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP 服务器异常: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("收到关闭信号，开始优雅关闭...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	logger.Info("服务器已关闭")
	return nil
}
