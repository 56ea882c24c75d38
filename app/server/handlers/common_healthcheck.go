package handlers

import (
	"github.com/labstack/echo/v4"
	"net/http"
)

func (a *App) HealthCheck(c echo.Context) error {
	rctx := c.Request().Context()

	if err := a.rdb.Ping(rctx).Err(); err != nil {
		return a.er(c, http.StatusServiceUnavailable)
	}
	if sqlDB, err := a.db.DB(); err != nil || sqlDB.PingContext(rctx) != nil {
		return a.er(c, http.StatusServiceUnavailable)
	}

	return c.NoContent(http.StatusOK)
}
