package handlers

import (
	"context"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"mangosteen-ledger/app/server/jwt"
	"mangosteen-ledger/app/server/mailer"
	"time"
)

// WelcomeMailer 把欢迎邮件放进队列，由 worker 异步投递
type WelcomeMailer interface {
	EnqueueWelcome(ctx context.Context, userID uint, email string) (*mailer.Job, error)
}

type App struct {
	l   *zap.Logger   // 日志
	db  *gorm.DB      // 数据库
	rdb *redis.Client // Redis ，保存会话
	jwt *jwt.JWT      // JWT ，会话令牌
	mq  WelcomeMailer // 邮件队列
	esk []byte        // 加密用密钥 (EncryptSecretKey)

	sessionDuration time.Duration
}

func NewApp(l *zap.Logger, db *gorm.DB, rdb *redis.Client, j *jwt.JWT, mq WelcomeMailer, esk string, sessionDuration time.Duration) *App {
	return &App{
		l:   l,
		db:  db,
		rdb: rdb,
		jwt: j,
		mq:  mq,
		esk: []byte(esk),

		sessionDuration: sessionDuration,
	}
}
