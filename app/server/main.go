package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"log"
	"mangosteen-ledger/app/server/apidocs"
	"mangosteen-ledger/app/server/handlers"
	"mangosteen-ledger/app/server/inits"
	"mangosteen-ledger/app/server/jwt"
	"mangosteen-ledger/app/server/mailer"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "mangosteen-server",
		Short:         "山竹记账 API 服务",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "启动 HTTP 服务（默认）",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "只执行数据库迁移",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrate()
			},
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatal(err)
	}
}

func migrate() error {
	cfg, err := inits.Config()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	// inits.DB 打开连接时就会迁移
	db, err := inits.DB(cfg.System.DBConnectionString)
	if err != nil {
		return fmt.Errorf("error migrating DB: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	return nil
}

func serve(ctx context.Context) error {
	// 初始化配置
	cfg, err := inits.Config()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	// 初始化日志
	l, err := inits.Logger(!cfg.System.IsProd, "server")
	if err != nil {
		return fmt.Errorf("error initializing logger: %w", err)
	}
	defer func() { _ = l.Sync() }()

	l.Debug("logger initialized")

	// 初始化数据库连接
	db, err := inits.DB(cfg.System.DBConnectionString)
	if err != nil {
		l.Fatal("error initializing DB connection", zap.Error(err))
	}

	// 初始化 redis 连接
	rdb, err := inits.Redis(cfg.System.RedisConnectionString)
	if err != nil {
		l.Fatal("error initializing Redis connection", zap.Error(err))
	}
	defer rdb.Close()

	// 初始化 JWT
	j, err := jwt.New(cfg.Security.SignatureSecretKey)
	if err != nil {
		l.Fatal("error initializing JWT", zap.Error(err))
	}

	// 准备 handler app
	handlerApp := handlers.NewApp(l, db, rdb, j, mailer.NewQueue(rdb), cfg.Security.EncryptSecretKey, cfg.Security.SessionDuration)

	// 准备 echo 服务
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogMethod: true,
		LogStatus: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			l.Info("request",
				zap.String("method", v.Method),
				zap.String("URI", v.URI),
				zap.Int("status", v.Status),
			)

			return nil
		},
	}))
	e.Use(middleware.Recover())

	// 绑定 echo 服务
	handlerApp.RegisterHandlers(e)

	// 添加 API 文档
	if !cfg.System.IsProd {
		if swgJson, err := apidocs.Spec(ctx); err != nil {
			l.Error("error initializing api docs", zap.Error(err))
		} else {
			e.Pre(apidocs.Doc("/api", swgJson))
		}
	}

	// 启动 echo 服务
	go func() {
		if err := e.Start(cfg.System.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down the server: %w", err)
	}

	return nil
}
