package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go.uber.org/zap"
	"mangosteen-ledger/app/server/mailer"
	"time"
)

var errUnknownKind = errors.New("unknown mail job kind")

type welcomeData struct {
	Email string
}

// handle 投递一个任务，失败时按次数决定重试还是放进死信
func (a *App) handle(ctx context.Context, job *mailer.Job) {
	fields := []zap.Field{
		zap.String("id", job.ID),
		zap.String("kind", job.Kind),
		zap.String("email", job.Email),
	}

	err := a.deliver(ctx, job)
	if err == nil {
		a.l.Info("mail delivered", fields...)
		return
	}

	// 取消之后也要把任务记回去，不然会丢
	bookCtx := context.WithoutCancel(ctx)

	job.Attempts++
	fields = append(fields, zap.Int("attempts", job.Attempts), zap.Error(err))

	if errors.Is(err, errUnknownKind) || job.Attempts >= a.cfg.Mail.MaxAttempts {
		a.l.Error("giving up mail job", fields...)
		if err := a.queue.Bury(bookCtx, job); err != nil {
			a.l.Error("failed to bury mail job", zap.String("id", job.ID), zap.Error(err))
		}
		return
	}

	at := a.now().Add(time.Duration(job.Attempts) * a.cfg.Mail.RetryBackoff)
	a.l.Warn("mail delivery failed, retry scheduled", append(fields, zap.Time("at", at))...)
	if err := a.queue.Retry(bookCtx, job, at); err != nil {
		a.l.Error("failed to schedule mail retry", zap.String("id", job.ID), zap.Error(err))
	}
}

func (a *App) deliver(ctx context.Context, job *mailer.Job) error {
	switch job.Kind {
	case mailer.JobKindWelcome:
		subject, body, err := a.render("welcome", welcomeData{Email: job.Email})
		if err != nil {
			return err
		}
		return a.sender.Send(ctx, job.Email, subject, body)
	default:
		return fmt.Errorf("%w: %q", errUnknownKind, job.Kind)
	}
}

// render 模板里约定 <name>.subject 和 <name>.body 两段
func (a *App) render(name string, data any) (string, string, error) {
	var subject, body bytes.Buffer
	if err := a.tmpl.ExecuteTemplate(&subject, name+".subject", data); err != nil {
		return "", "", fmt.Errorf("render %s subject: %w", name, err)
	}
	if err := a.tmpl.ExecuteTemplate(&body, name+".body", data); err != nil {
		return "", "", fmt.Errorf("render %s body: %w", name, err)
	}
	return subject.String(), body.String(), nil
}
