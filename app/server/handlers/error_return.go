package handlers

import (
	"github.com/labstack/echo/v4"
	"mangosteen-ledger/app/server/types"
	"mangosteen-ledger/app/server/utils"
	"mangosteen-ledger/app/server/validation"
	"net/http"
)

func (a *App) er(c echo.Context, statusCode int) error {
	return c.JSON(statusCode, &types.ErrorMessage{
		Message: utils.P(http.StatusText(statusCode)),
	})
}

// ev 返回字段校验错误：{"errors": {"amount": ["金额不能为空"]}}
func (a *App) ev(c echo.Context, errs validation.Errors) error {
	return c.JSON(http.StatusUnprocessableEntity, &types.ValidationErrors{
		Errors: errs.Messages(),
	})
}
