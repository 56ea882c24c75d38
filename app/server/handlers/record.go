package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"mangosteen-ledger/app/server/constants"
	"mangosteen-ledger/app/server/models"
	"mangosteen-ledger/app/server/types"
	"mangosteen-ledger/app/server/utils"
	"mangosteen-ledger/app/server/validation"
	"net/http"
	"strconv"
	"strings"
)

var recordCategories = []string{constants.RecordCategoryOutgoings, constants.RecordCategoryIncome}

// recordInput 中为 nil 的字段表示请求里没有提供
type recordInput struct {
	Amount        *int64
	AmountInvalid bool // 提供了金额但不是整数
	Category      *string
	Notes         *string
}

type recordJSONBody struct {
	Amount   json.RawMessage `json:"amount"`
	Category *string         `json:"category"`
	Notes    *string         `json:"notes"`
}

// parseAmount 接受整数，JSON 里也接受带引号的整数。空值视为没有提供。
func parseAmount(raw string) (amount *int64, invalid bool) {
	raw = strings.TrimSpace(raw)
	if unquoted, err := strconv.Unquote(raw); err == nil && strings.HasPrefix(raw, `"`) {
		raw = strings.TrimSpace(unquoted)
	}
	if raw == "" || raw == "null" {
		return nil, false
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, true
	}
	return &v, false
}

// recordBind 同时支持 JSON 和表单。金额格式错误留给校验处理，返回 422 。
func (a *App) recordBind(c echo.Context) (*recordInput, error) {
	var in recordInput

	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		var body recordJSONBody
		if err := (&echo.DefaultBinder{}).BindBody(c, &body); err != nil {
			return nil, fmt.Errorf("bind json body: %w", err)
		}
		in.Amount, in.AmountInvalid = parseAmount(string(body.Amount))
		in.Category = body.Category
		in.Notes = body.Notes
		return &in, nil
	}

	form, err := c.FormParams()
	if err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	in.Amount, in.AmountInvalid = parseAmount(form.Get("amount"))
	if form.Has("category") {
		in.Category = utils.P(form.Get("category"))
	}
	if form.Has("notes") {
		in.Notes = utils.P(form.Get("notes"))
	}

	return &in, nil
}

func (a *App) recordMapFields(in *recordInput, record *models.Record, notes *string) {
	if in.Amount != nil {
		record.Amount = *in.Amount
	}
	if in.Category != nil {
		record.Category = *in.Category
	}
	if in.Notes != nil {
		*notes = *in.Notes
	}
}

// recordValidate 只有金额必填；类型为空时不检查取值范围
func (a *App) recordValidate(ctx context.Context, amount *int64, amountInvalid bool, category string, notes string) (validation.Errors, error) {
	return validation.Run(ctx,
		validation.Field{Name: "amount", Rules: []validation.Rule{
			validation.Must(validation.KindInvalid, constants.MsgAmountInvalid, !amountInvalid),
			validation.Present(amount != nil, constants.MsgAmountBlank),
		}},
		validation.Field{Name: "category", Rules: []validation.Rule{
			validation.Optional(category, validation.OneOf(category, recordCategories, constants.MsgCategoryInclusion)),
		}},
		validation.Field{Name: "notes", Rules: []validation.Rule{
			validation.MaxLength(notes, constants.RecordNotesMaxLength, constants.MsgNotesTooLong),
		}},
	)
}

func (a *App) recordInfo(record *models.Record) (types.RecordInfo, error) {
	notes, err := a.decryptNotes(record.Notes)
	if err != nil {
		return types.RecordInfo{}, fmt.Errorf("decrypt notes of record %d: %w", record.ID, err)
	}

	return types.RecordInfo{
		ID:         record.ID,
		UserID:     record.UserID,
		Amount:     record.Amount,
		AmountYuan: utils.CentsToYuan(record.Amount),
		Category:   record.Category,
		Notes:      notes,
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
	}, nil
}

// recordFind 只查找 owner 自己的记录，别人的记录按不存在处理
func (a *App) recordFind(ctx context.Context, owner uint, rawID string) (*models.Record, error, int) {
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid record id %q", rawID), http.StatusNotFound
	}

	var record models.Record
	if err := a.db.WithContext(ctx).First(&record, "id = ? AND user_id = ?", uint(id), owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no such record: %d", id), http.StatusNotFound
		} else {
			return nil, fmt.Errorf("error query record: %w", err), http.StatusInternalServerError
		}
	}

	return &record, nil, http.StatusOK
}

func (a *App) respondRecord(c echo.Context, record *models.Record) error {
	info, err := a.recordInfo(record)
	if err != nil {
		a.l.Error("failed to render record", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}
	return c.JSON(http.StatusOK, &types.Resource[types.RecordInfo]{
		Resource: info,
	})
}

func (a *App) recordCreate(ctx context.Context, owner uint, in *recordInput) (*models.Record, validation.Errors, error) {
	record := models.Record{UserID: owner}
	var notes string
	a.recordMapFields(in, &record, &notes)

	// 验证
	errs, err := a.recordValidate(ctx, in.Amount, in.AmountInvalid, record.Category, notes)
	if err != nil {
		return nil, nil, err
	}
	if !errs.Empty() {
		return nil, errs, nil
	}

	if record.Notes, err = a.encryptNotes(notes); err != nil {
		return nil, nil, fmt.Errorf("encrypt notes: %w", err)
	}

	if err = a.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, nil, fmt.Errorf("create record: %w", err)
	}

	return &record, nil, nil
}

func (a *App) RecordCreate(c echo.Context) error {
	session := a.currentSession(c)

	rctx := c.Request().Context()

	// 绑定请求体
	in, err := a.recordBind(c)
	if err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	record, errs, err := a.recordCreate(rctx, session.ID, in)
	if err != nil {
		a.l.Error("failed to create record", zap.Uint("user", session.ID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}
	if errs != nil {
		return a.ev(c, errs)
	}

	return a.respondRecord(c, record)
}

func (a *App) RecordList(c echo.Context) error {
	session := a.currentSession(c)

	rctx := c.Request().Context()

	var (
		records      []models.Record
		recordsCount int64
	)

	page, offset := a.parsePage(c.QueryParam("page"))
	owned := a.db.WithContext(rctx).Model(&models.Record{}).Where("user_id = ?", session.ID)

	if err := owned.Session(&gorm.Session{}).Order("id DESC").Limit(constants.RecordPageSize).Offset(offset).Find(&records).Error; err != nil {
		a.l.Error("failed to get record list", zap.Uint("user", session.ID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}
	if err := owned.Session(&gorm.Session{}).Count(&recordsCount).Error; err != nil {
		a.l.Error("failed to count records", zap.Uint("user", session.ID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	resRecords := []types.RecordInfo{}
	for i := range records {
		info, err := a.recordInfo(&records[i])
		if err != nil {
			a.l.Error("failed to render record", zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
		resRecords = append(resRecords, info)
	}

	return c.JSON(http.StatusOK, &types.ResourceList[types.RecordInfo]{
		Resources: resRecords,
		Pager: &types.Pager{
			Page:    page,
			PerPage: constants.RecordPageSize,
			Count:   recordsCount,
		},
	})
}

func (a *App) RecordSummary(c echo.Context) error {
	session := a.currentSession(c)

	rctx := c.Request().Context()

	var rows []struct {
		Category string
		Count    int64
		Amount   int64
	}
	if err := a.db.WithContext(rctx).
		Model(&models.Record{}).
		Select("category, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount").
		Where("user_id = ?", session.ID).
		Group("category").
		Order("category ASC").
		Scan(&rows).Error; err != nil {
		a.l.Error("failed to summarize records", zap.Uint("user", session.ID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	summaries := []types.RecordSummary{}
	for _, row := range rows {
		summaries = append(summaries, types.RecordSummary{
			Category:   row.Category,
			Count:      row.Count,
			Amount:     row.Amount,
			AmountYuan: utils.CentsToYuan(row.Amount),
		})
	}

	return c.JSON(http.StatusOK, &types.ResourceList[types.RecordSummary]{
		Resources: summaries,
	})
}

func (a *App) RecordInfoGet(c echo.Context) error {
	session := a.currentSession(c)

	record, err, statusCode := a.recordFind(c.Request().Context(), session.ID, c.Param("id"))
	if err != nil {
		if statusCode != http.StatusNotFound {
			a.l.Error("failed to get record", zap.Error(err))
		}
		return a.er(c, statusCode)
	}

	return a.respondRecord(c, record)
}

func (a *App) RecordInfoUpdate(c echo.Context) error {
	session := a.currentSession(c)

	rctx := c.Request().Context()

	// 先确认记录存在，再解析请求体
	record, err, statusCode := a.recordFind(rctx, session.ID, c.Param("id"))
	if err != nil {
		if statusCode != http.StatusNotFound {
			a.l.Error("failed to get record", zap.Error(err))
		}
		return a.er(c, statusCode)
	}

	in, err := a.recordBind(c)
	if err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	notes, err := a.decryptNotes(record.Notes)
	if err != nil {
		a.l.Error("failed to decrypt notes", zap.Uint("id", record.ID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}
	a.recordMapFields(in, record, &notes)

	// 验证合并后的记录，只改部分字段时其余字段沿用原值
	errs, err := a.recordValidate(rctx, &record.Amount, in.AmountInvalid, record.Category, notes)
	if err != nil {
		a.l.Error("failed to validate record", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}
	if !errs.Empty() {
		return a.ev(c, errs)
	}

	if in.Notes != nil {
		if record.Notes, err = a.encryptNotes(notes); err != nil {
			a.l.Error("failed to encrypt notes", zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
	}

	// 用 Save 写回全部字段，清空备注时 NULL 也会写入
	if err := a.db.WithContext(rctx).Save(record).Error; err != nil {
		a.l.Error("failed to update record", zap.Uint("id", record.ID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return a.respondRecord(c, record)
}

func (a *App) RecordDelete(c echo.Context) error {
	session := a.currentSession(c)

	rctx := c.Request().Context()

	record, err, statusCode := a.recordFind(rctx, session.ID, c.Param("id"))
	if err != nil {
		if statusCode != http.StatusNotFound {
			a.l.Error("failed to get record", zap.Error(err))
		}
		return a.er(c, statusCode)
	}

	// 删除记录
	if err := a.db.WithContext(rctx).Delete(record).Error; err != nil {
		a.l.Error("failed to delete record", zap.Uint("id", record.ID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.NoContent(http.StatusOK)
}
