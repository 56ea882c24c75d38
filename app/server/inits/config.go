package inits

import (
	"errors"
	"fmt"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"io/fs"
	"mangosteen-ledger/app/server/config"
	"mangosteen-ledger/app/server/constants"
	"strings"
)

func Config() (*config.Config, error) {
	// .env 文件是可选的，已经存在的环境变量优先
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("LISTEN", ":1323")
	v.SetDefault("SESSION_DURATION", constants.DefaultSessionDuration)

	var cfg config.Config

	cfg.System.IsProd = strings.HasPrefix(strings.ToLower(v.GetString("MODE")), "p")
	cfg.System.Listen = v.GetString("LISTEN")

	var err error
	if cfg.System.DBConnectionString, err = required(v, "DB_CONN"); err != nil {
		return nil, err
	}
	if cfg.System.RedisConnectionString, err = required(v, "REDIS_CONN"); err != nil {
		return nil, err
	}
	if cfg.Security.EncryptSecretKey, err = required(v, "ENCRYPT_SECRET_KEY"); err != nil {
		return nil, err
	}
	switch len(cfg.Security.EncryptSecretKey) {
	case 16, 24, 32: // AES-128 / AES-192 / AES-256
	default:
		return nil, fmt.Errorf("ENCRYPT_SECRET_KEY must be 16, 24 or 32 bytes long")
	}
	if cfg.Security.SignatureSecretKey, err = required(v, "SIGNATURE_SECRET_KEY"); err != nil {
		return nil, err
	}

	cfg.Security.SessionDuration = v.GetDuration("SESSION_DURATION")
	if cfg.Security.SessionDuration <= 0 {
		return nil, fmt.Errorf("SESSION_DURATION should be a positive duration")
	}

	return &cfg, nil
}

func required(v *viper.Viper, key string) (string, error) {
	value := v.GetString(key)
	if value == "" {
		return "", fmt.Errorf("%s environment variable not set", key)
	}
	return value, nil
}
