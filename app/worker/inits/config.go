package inits

import (
	"errors"
	"fmt"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"io/fs"
	"mangosteen-ledger/app/worker/config"
	"strings"
	"time"
)

func Config() (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("MAIL_MAX_ATTEMPTS", 5)
	v.SetDefault("MAIL_RETRY_INTERVAL", 30*time.Second)
	v.SetDefault("MAIL_RETRY_BACKOFF", time.Minute)
	v.SetDefault("MAIL_POLL_TIMEOUT", 5*time.Second)

	var cfg config.Config
	cfg.IsProd = strings.HasPrefix(strings.ToLower(v.GetString("MODE")), "p")

	for key, target := range map[string]*string{
		"REDIS_CONN": &cfg.RedisConnectionString,
		"SMTP_HOST":  &cfg.SMTP.Host,
		"MAIL_FROM":  &cfg.SMTP.From,
	} {
		if *target = v.GetString(key); *target == "" {
			return nil, fmt.Errorf("%s environment variable not set", key)
		}
	}

	cfg.SMTP.Port = v.GetInt("SMTP_PORT")
	if cfg.SMTP.Port <= 0 || cfg.SMTP.Port > 65535 {
		return nil, fmt.Errorf("SMTP_PORT should be a valid port")
	}
	cfg.SMTP.Username = v.GetString("SMTP_USERNAME")
	cfg.SMTP.Password = v.GetString("SMTP_PASSWORD")

	cfg.Mail.MaxAttempts = v.GetInt("MAIL_MAX_ATTEMPTS")
	if cfg.Mail.MaxAttempts < 1 {
		return nil, fmt.Errorf("MAIL_MAX_ATTEMPTS should be at least 1")
	}

	for key, target := range map[string]*time.Duration{
		"MAIL_RETRY_INTERVAL": &cfg.Mail.RetryInterval,
		"MAIL_POLL_TIMEOUT":   &cfg.Mail.PollTimeout,
	} {
		if *target = v.GetDuration(key); *target <= 0 {
			return nil, fmt.Errorf("%s should be a positive duration", key)
		}
	}
	if cfg.Mail.RetryBackoff = v.GetDuration("MAIL_RETRY_BACKOFF"); cfg.Mail.RetryBackoff < 0 {
		return nil, fmt.Errorf("MAIL_RETRY_BACKOFF should not be negative")
	}

	return &cfg, nil
}
