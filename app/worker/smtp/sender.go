package smtp

import (
	"context"
	"fmt"
	"github.com/wneessen/go-mail"
	"mangosteen-ledger/app/worker/config"
)

type Sender struct {
	client *mail.Client
	from   string
}

func New(cfg *config.Config) (*Sender, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.SMTP.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.SMTP.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTP.Username),
			mail.WithPassword(cfg.SMTP.Password),
		)
	}

	client, err := mail.NewClient(cfg.SMTP.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &Sender{client: client, from: cfg.SMTP.From}, nil
}

func (s *Sender) Send(ctx context.Context, to string, subject string, body string) error {
	m := mail.NewMsg()
	if err := m.From(s.from); err != nil {
		return fmt.Errorf("set from %q: %w", s.from, err)
	}
	if err := m.To(to); err != nil {
		return fmt.Errorf("set to %q: %w", to, err)
	}
	m.Subject(subject)
	m.SetBodyString(mail.TypeTextPlain, body)

	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("send mail to %q: %w", to, err)
	}
	return nil
}
