package handlers

import (
	"github.com/labstack/echo/v4"
	"mangosteen-ledger/app/server/middlewares"
)

func (a *App) RegisterHandlers(e *echo.Echo) {
	auth := middlewares.SessionAuth(a.jwt, a.rdb, a.l)

	e.GET("/healthz", a.HealthCheck)

	// 用户与会话
	e.POST("/users", a.UserCreate)
	e.POST("/session", a.SessionCreate)
	e.DELETE("/session", a.SessionDelete, auth)
	e.GET("/me", a.UserInfoGetSelf, auth)

	// 收支记录，全部需要登录
	records := e.Group("/records", auth)
	records.POST("", a.RecordCreate)
	records.GET("", a.RecordList)
	records.GET("/summary", a.RecordSummary)
	records.GET("/:id", a.RecordInfoGet)
	records.PATCH("/:id", a.RecordInfoUpdate)
	records.DELETE("/:id", a.RecordDelete)
}
