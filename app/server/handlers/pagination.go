package handlers

import (
	"mangosteen-ledger/app/server/constants"
	"strconv"
)

// parsePage 返回从 1 开始的页码和对应的 offset ，每页条数固定
func (a *App) parsePage(raw string) (int, int) {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		page = 1
	}
	if page > constants.RecordMaxPage {
		page = constants.RecordMaxPage
	}
	return page, (page - 1) * constants.RecordPageSize
}
