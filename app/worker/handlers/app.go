package handlers

import (
	"context"
	"embed"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"mangosteen-ledger/app/server/mailer"
	"mangosteen-ledger/app/worker/config"
	"text/template"
	"time"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

type Sender interface {
	Send(ctx context.Context, to string, subject string, body string) error
}

type App struct {
	cfg    *config.Config
	l      *zap.Logger
	queue  *mailer.Queue
	sender Sender
	tmpl   *template.Template

	now func() time.Time
}

func NewApp(cfg *config.Config, l *zap.Logger, queue *mailer.Queue, sender Sender) *App {
	return &App{
		cfg:    cfg,
		l:      l,
		queue:  queue,
		sender: sender,
		tmpl:   template.Must(template.ParseFS(templateFS, "templates/*.tmpl")),
		now:    time.Now,
	}
}

// Run 同时跑投递循环和重试循环，ctx 结束后返回
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.consumeLoop(ctx)
	})
	g.Go(func() error {
		return a.retryLoop(ctx)
	})
	return g.Wait()
}

func (a *App) consumeLoop(ctx context.Context) error {
	a.l.Debug("start consume loop")
	for {
		if ctx.Err() != nil {
			a.l.Debug("stop consume loop")
			return nil
		}

		job, err := a.queue.Pop(ctx, a.cfg.Mail.PollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			a.l.Error("failed to pop mail job", zap.Error(err))

			// Redis 出问题时不要空转
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
			continue
		}
		if job == nil {
			continue
		}

		a.handle(ctx, job)
	}
}

func (a *App) retryLoop(ctx context.Context) error {
	a.l.Debug("start retry loop")
	ticker := time.NewTicker(a.cfg.Mail.RetryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.l.Debug("stop retry loop")
			return nil
		case <-ticker.C:
			n, err := a.queue.PromoteDue(ctx, a.now())
			if err != nil {
				if ctx.Err() == nil {
					a.l.Error("failed to promote due retries", zap.Error(err))
				}
				continue
			}
			if n > 0 {
				a.l.Debug("promoted due retries", zap.Int("count", n))
			}
		}
	}
}
