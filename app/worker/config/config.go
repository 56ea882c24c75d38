package config

import (
	"time"
)

type Config struct {
	// 基础配置
	IsProd                bool
	RedisConnectionString string // 与 server 共用同一个 Redis ，邮件队列在这里

	// 发信配置
	SMTP struct {
		Host     string
		Port     int
		Username string // 为空时不做认证
		Password string
		From     string
	}

	// 队列处理配置
	Mail struct {
		MaxAttempts   int           // 最多尝试次数，用完后进入死信
		RetryInterval time.Duration // 检查到期重试任务的间隔
		RetryBackoff  time.Duration // 第 n 次失败后等待 n * RetryBackoff 再试
		PollTimeout   time.Duration // 阻塞等待新任务的最长时间
	}
}
