package middlewares

import (
	"errors"
	"fmt"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"mangosteen-ledger/app/server/constants"
	"mangosteen-ledger/app/server/jwt"
	"mangosteen-ledger/app/server/types"
	"mangosteen-ledger/app/server/utils"
	"net/http"
	"strconv"
)

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, &types.ErrorMessage{
		Message: utils.P(http.StatusText(http.StatusUnauthorized)),
	})
}

// SessionAuth 校验请求携带的会话令牌（Authorization: Bearer 或 cookie），
// 并确认对应的会话仍存在于 Redis 中。通过后当前会话以 *jwt.User 形式
// 放在 constants.ContextKeySession 下。
func SessionAuth(j *jwt.JWT, rdb *redis.Client, l *zap.Logger) echo.MiddlewareFunc {
	parseToken := echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:Authorization:Bearer ,cookie:" + constants.SessionCookieName,
		ContextKey:  constants.ContextKeySession,
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return j.ParseUser(auth)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			l.Debug("rejected session token", zap.Error(err))
			return unauthorized(c)
		},
	})

	checkSession := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get(constants.ContextKeySession).(*jwt.User)
			if !ok {
				return unauthorized(c)
			}

			// 会话被注销后，令牌即使没过期也不能再用
			rctx := c.Request().Context()
			owner, err := rdb.Get(rctx, fmt.Sprintf(constants.CacheKeySession, user.SessionID)).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					return unauthorized(c)
				}
				l.Error("failed to query session", zap.String("sid", user.SessionID), zap.Error(err))
				return c.JSON(http.StatusInternalServerError, &types.ErrorMessage{
					Message: utils.P(http.StatusText(http.StatusInternalServerError)),
				})
			}
			if owner != strconv.FormatUint(uint64(user.ID), 10) {
				return unauthorized(c)
			}

			return next(c)
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return parseToken(checkSession(next))
	}
}
