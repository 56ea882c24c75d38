package main

import (
	"context"
	"fmt"
	"go.uber.org/zap"
	"log"
	serverinits "mangosteen-ledger/app/server/inits"
	"mangosteen-ledger/app/server/mailer"
	"mangosteen-ledger/app/worker/handlers"
	"mangosteen-ledger/app/worker/inits"
	"mangosteen-ledger/app/worker/smtp"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// 初始化配置
	cfg, err := inits.Config()
	if err != nil {
		log.Fatal(fmt.Errorf("error loading config: %w", err))
	}

	// 初始化日志
	l, err := serverinits.Logger(!cfg.IsProd, "worker")
	if err != nil {
		log.Fatal(fmt.Errorf("error initializing logger: %w", err))
	}
	defer func() { _ = l.Sync() }()

	l.Debug("logger initialized")

	// 初始化 redis 连接
	rdb, err := serverinits.Redis(cfg.RedisConnectionString)
	if err != nil {
		l.Fatal("error initializing Redis connection", zap.Error(err))
	}
	defer rdb.Close()

	// 初始化发信客户端
	sender, err := smtp.New(cfg)
	if err != nil {
		l.Fatal("error initializing SMTP client", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 开启投递循环，收到信号后退出
	handlerApp := handlers.NewApp(cfg, l, mailer.NewQueue(rdb), sender)
	if err := handlerApp.Run(ctx); err != nil {
		l.Error("worker stopped", zap.Error(err))
	}
}
