package jwt

import (
	"errors"
	"fmt"
	"github.com/golang-jwt/jwt/v5"
)

type JWT struct {
	key []byte
}

// User 是会话令牌中携带的身份信息
type User struct {
	ID        uint
	SessionID string // 对应 Redis 中的会话记录，删除后令牌即失效
	Expires   int64  // Unix second
}

func New(key string) (*JWT, error) {
	if len(key) == 0 {
		return nil, errors.New("key is empty")
	}

	return &JWT{key: []byte(key)}, nil
}

func (j *JWT) ParseUser(tokenString string) (*User, error) {
	// 检查是否有效
	if len(tokenString) == 0 {
		return nil, errors.New("token string is empty")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return j.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parse jwt failed: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	// 匹配内容
	id, ok := claims["id"].(float64)
	if !ok || id <= 0 {
		return nil, errors.New("invalid token: missing id")
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return nil, errors.New("invalid token: missing session id")
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, errors.New("invalid token: missing exp")
	}

	return &User{
		ID:        uint(id),
		SessionID: sid,
		Expires:   int64(exp),
	}, nil
}

func (j *JWT) SignToken(user *User) (string, error) {
	// 创建声明
	claims := jwt.MapClaims{
		"id":  user.ID,
		"sid": user.SessionID,
		"exp": user.Expires,
	}

	// 创建令牌
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	// 签名并返回
	return token.SignedString(j.key)
}
