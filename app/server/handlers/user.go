package handlers

import (
	"context"
	"errors"
	"fmt"
	"github.com/alexedwards/argon2id"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"mangosteen-ledger/app/server/constants"
	"mangosteen-ledger/app/server/models"
	"mangosteen-ledger/app/server/types"
	"mangosteen-ledger/app/server/validation"
	"net/http"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type userCreateReq struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func userInfo(user *models.User) types.UserInfo {
	return types.UserInfo{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func (a *App) userValidate(ctx context.Context, email string, password string) (validation.Errors, error) {
	return validation.Run(ctx,
		validation.Field{Name: "email", Rules: []validation.Rule{
			validation.NotBlank(email, constants.MsgEmailBlank),
			validation.Must(validation.KindInvalid, constants.MsgEmailInvalid, emailPattern.MatchString(email)),
			validation.Unique(constants.MsgEmailTaken, func(ctx context.Context) (bool, error) {
				var count int64
				if err := a.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
					return false, fmt.Errorf("count users by email: %w", err)
				}
				return count > 0, nil
			}),
		}},
		validation.Field{Name: "password", Rules: []validation.Rule{
			validation.NotBlank(password, constants.MsgPasswordBlank),
			validation.MinLength(password, constants.PasswordMinLength, constants.MsgPasswordTooShort),
		}},
	)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" // unique_violation
}

// registerUser 创建用户并在写入成功后把欢迎邮件放进队列。
// 入队失败只记录日志，不影响注册结果。
func (a *App) registerUser(ctx context.Context, email string, password string) (*models.User, validation.Errors, error) {
	email = strings.TrimSpace(email)

	errs, err := a.userValidate(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}
	if !errs.Empty() {
		return nil, errs, nil
	}

	// 处理密码
	passwordHash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Email:          email,
		PasswordDigest: passwordHash,
	}
	if err = a.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			// 并发注册时越过了上面的查询，由唯一索引兜底
			errs.Add("email", validation.KindTaken, constants.MsgEmailTaken)
			return nil, errs, nil
		}
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	// 请求结束也要保证入队
	job, err := a.mq.EnqueueWelcome(context.WithoutCancel(ctx), user.ID, user.Email)
	if err != nil {
		a.l.Error("failed to enqueue welcome mail", zap.Uint("user", user.ID), zap.Error(err))
	} else {
		a.l.Debug("welcome mail enqueued", zap.Uint("user", user.ID), zap.String("job", job.ID))
	}

	return &user, nil, nil
}

func (a *App) UserCreate(c echo.Context) error {
	rctx := c.Request().Context()

	// 绑定请求体
	var req userCreateReq
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	user, errs, err := a.registerUser(rctx, req.Email, req.Password)
	if err != nil {
		a.l.Error("failed to register user", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}
	if errs != nil {
		return a.ev(c, errs)
	}

	return c.JSON(http.StatusOK, &types.Resource[types.UserInfo]{
		Resource: userInfo(user),
	})
}

func (a *App) UserInfoGetSelf(c echo.Context) error {
	session := a.currentSession(c)

	rctx := c.Request().Context()

	// 从数据库中获得当前用户
	var user models.User
	if err := a.db.WithContext(rctx).First(&user, "id = ?", session.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound)
		} else {
			a.l.Error("failed to get user", zap.Uint("id", session.ID), zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
	}

	return c.JSON(http.StatusOK, &types.Resource[types.UserInfo]{
		Resource: userInfo(&user),
	})
}
