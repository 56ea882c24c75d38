package handlers

import (
	"context"
	"errors"
	"fmt"
	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"mangosteen-ledger/app/server/constants"
	"mangosteen-ledger/app/server/jwt"
	"mangosteen-ledger/app/server/models"
	"mangosteen-ledger/app/server/types"
	"mangosteen-ledger/app/server/validation"
	"net/http"
	"strings"
	"time"
)

type sessionCreateReq struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// currentSession 只能在 SessionAuth 之后的 handler 中调用
func (a *App) currentSession(c echo.Context) *jwt.User {
	return c.Get(constants.ContextKeySession).(*jwt.User)
}

// openSession 在 Redis 中登记会话并签出令牌
func (a *App) openSession(ctx context.Context, user *models.User) (string, time.Time, error) {
	sid := uuid.NewString()
	expires := time.Now().Add(a.sessionDuration)

	token, err := a.jwt.SignToken(&jwt.User{
		ID:        user.ID,
		SessionID: sid,
		Expires:   expires.Unix(),
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	if err = a.rdb.Set(ctx, fmt.Sprintf(constants.CacheKeySession, sid), user.ID, a.sessionDuration).Err(); err != nil {
		return "", time.Time{}, fmt.Errorf("save session: %w", err)
	}

	return token, expires, nil
}

func (a *App) SessionCreate(c echo.Context) error {
	rctx := c.Request().Context()

	// 绑定请求体
	var req sessionCreateReq
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	signInFailed := func() error {
		errs := validation.Errors{}
		errs.Add("email", validation.KindInvalid, constants.MsgSignInFailed)
		return a.ev(c, errs)
	}

	var user models.User
	if err := a.db.WithContext(rctx).First(&user, "email = ?", strings.TrimSpace(req.Email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return signInFailed()
		} else {
			a.l.Error("failed to find user", zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
	}

	// 提取密码 hash 并进行校验
	if match, _, err := argon2id.CheckHash(req.Password, user.PasswordDigest); err != nil {
		a.l.Error("failed to check password", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	} else if !match {
		// 密码不一致
		return signInFailed()
	}

	token, expires, err := a.openSession(rctx, &user)
	if err != nil {
		a.l.Error("failed to open session", zap.Uint("user", user.ID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	c.SetCookie(&http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, &types.SessionToken{
		JWT: token,
	})
}

func (a *App) SessionDelete(c echo.Context) error {
	session := a.currentSession(c)

	rctx := c.Request().Context()

	if err := a.rdb.Del(rctx, fmt.Sprintf(constants.CacheKeySession, session.SessionID)).Err(); err != nil {
		a.l.Error("failed to delete session", zap.String("sid", session.SessionID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	c.SetCookie(&http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.NoContent(http.StatusOK)
}
